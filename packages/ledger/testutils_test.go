package ledger

import (
	"testing"

	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/stretchr/testify/require"

	"github.com/spendlabs/txcore/packages/address"
	"github.com/spendlabs/txcore/packages/coin"
	"github.com/spendlabs/txcore/packages/utxo"
)

// wallet bundles a key pair with the address it controls.
type wallet struct {
	keyPair ed25519.KeyPair
	address address.Address
}

func createWallets(n int) (wallets []wallet) {
	wallets = make([]wallet, n)
	for i := range wallets {
		keyPair := ed25519.GenerateKeyPair()
		wallets[i] = wallet{
			keyPair: keyPair,
			address: address.FromED25519PubKey(keyPair.PublicKey),
		}
	}

	return wallets
}

// unspentOutput fabricates an unspent output held by the wallet, keyed under a random OutputID.
func (w wallet) unspentOutput(t *testing.T, balance uint64) (utxo.OutputID, *utxo.OutputInfo) {
	t.Helper()

	var txID utxo.TransactionID
	require.NoError(t, txID.FromRandomness())

	return utxo.NewOutputID(txID, 0), utxo.NewOutputInfo(utxo.NewOutput(w.address, mustCoin(t, balance)), nil)
}

// transfer builds a Transaction that spends the given outputs of the wallet and creates the given outputs.
func (w wallet) transfer(consumedOutputIDs []utxo.OutputID, outputs utxo.Outputs) *utxo.Transaction {
	inputs := make(utxo.Inputs, 0, len(consumedOutputIDs))
	for _, outputID := range consumedOutputIDs {
		inputs = append(inputs, utxo.NewSignedInput(&w.keyPair, outputID, outputs))
	}

	return utxo.NewTransaction(inputs, outputs)
}

func mustCoin(t *testing.T, value uint64) coin.Coin {
	t.Helper()

	c, err := coin.New(value)
	require.NoError(t, err)

	return c
}

func newTestStore() kvstore.KVStore {
	return mapdb.NewMapDB()
}

// outputMap is an in-memory unspent output mapping for tests.
type outputMap map[utxo.OutputID]*utxo.OutputInfo

func (o outputMap) resolver() OutputResolver {
	return ResolverFunc(func(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool) {
		outputInfo, exists = o[outputID]
		return outputInfo, exists
	})
}

// requireViolations asserts that the given error reports exactly the given set of violated properties.
func requireViolations(t *testing.T, err error, violations ...Violation) {
	t.Helper()

	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	require.True(t, verificationErr.IsExactly(violations...), "unexpected violations: %s", verificationErr.Violations())
}
