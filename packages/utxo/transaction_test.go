package utxo

import (
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlabs/txcore/packages/address"
	"github.com/spendlabs/txcore/packages/coin"
)

func randomOutputID() (outputID OutputID) {
	if err := outputID.TransactionID.FromRandomness(); err != nil {
		panic(err)
	}

	return outputID
}

func TestTransaction_ID(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	outputs := Outputs{NewOutput(address.Random(), coin.Coin(100))}
	inputs := Inputs{NewSignedInput(&keyPair, randomOutputID(), outputs)}

	transaction := NewTransaction(inputs, outputs)

	// the identifier is derived from the content and stable across calls
	assert.Equal(t, transaction.ID(), transaction.ID())
	assert.NotEqual(t, EmptyTransactionID, transaction.ID())

	// a transaction with different outputs has a different identifier
	otherOutputs := Outputs{NewOutput(address.Random(), coin.Coin(100))}
	otherTransaction := NewTransaction(Inputs{NewSignedInput(&keyPair, randomOutputID(), otherOutputs)}, otherOutputs)
	assert.NotEqual(t, transaction.ID(), otherTransaction.ID())
}

func TestTransaction_BytesRoundTrip(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	outputs := Outputs{
		NewOutput(address.Random(), coin.Coin(40)),
		NewOutput(address.Random(), coin.Coin(60)),
	}
	consumedOutputID := randomOutputID()
	transaction := NewTransaction(Inputs{NewSignedInput(&keyPair, consumedOutputID, outputs)}, outputs)

	restored, consumedBytes, err := TransactionFromBytes(transaction.Bytes())
	require.NoError(t, err)
	assert.Equal(t, len(transaction.Bytes()), consumedBytes)
	assert.Equal(t, transaction.ID(), restored.ID())
	require.Len(t, restored.Inputs(), 1)
	assert.Equal(t, consumedOutputID, restored.Inputs()[0].ConsumedOutputID())
}

func TestNewSignedInput(t *testing.T) {
	keyPair := ed25519.GenerateKeyPair()
	outputs := Outputs{NewOutput(address.Random(), coin.Coin(100))}
	consumedOutputID := randomOutputID()

	input := NewSignedInput(&keyPair, consumedOutputID, outputs)
	assert.True(t, input.Signature().IsValid(SigningPayload(consumedOutputID, outputs)))

	// the signature does not authorize a transaction with different outputs
	tamperedOutputs := Outputs{NewOutput(address.Random(), coin.Coin(100))}
	assert.False(t, input.Signature().IsValid(SigningPayload(consumedOutputID, tamperedOutputs)))
}
