package address

import (
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_FromED25519PubKey(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()

	addr := FromED25519PubKey(keyPair.PublicKey)
	assert.Equal(t, VersionED25519, addr.Version())

	// the same key always derives the same address
	assert.Equal(t, addr, FromED25519PubKey(keyPair.PublicKey))

	// a different key derives a different address
	otherKeyPair := ed25519.GenerateKeyPair()
	assert.NotEqual(t, addr, FromED25519PubKey(otherKeyPair.PublicKey))
}

func TestAddress_Base58RoundTrip(t *testing.T) {
	addr := Random()

	restored, err := FromBase58(addr.Base58())
	require.NoError(t, err)
	assert.Equal(t, addr, restored)
}

func TestAddress_BytesRoundTrip(t *testing.T) {
	addr := Random()

	restored, consumedBytes, err := FromBytes(addr.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Length, consumedBytes)
	assert.Equal(t, addr, restored)
}
