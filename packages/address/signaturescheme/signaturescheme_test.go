package signaturescheme

import (
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlabs/txcore/packages/address"
)

func TestSignature_IsValid(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	data := []byte("message to spend an output")

	signature := Sign(&keyPair, data)
	assert.True(t, signature.IsValid(data))
	assert.False(t, signature.IsValid([]byte("some other message")))

	assert.Equal(t, address.FromED25519PubKey(keyPair.PublicKey), signature.Address())
}

func TestSignature_BytesRoundTrip(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	data := []byte("message to spend an output")

	signature := Sign(&keyPair, data)

	restored, consumedBytes, err := FromBytes(signature.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(signature.Bytes()), consumedBytes)
	assert.True(t, restored.IsValid(data))
	assert.Equal(t, signature.Address(), restored.Address())
}
