package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlabs/txcore/packages/utxo"
)

func TestStorage_StoreAndDelete(t *testing.T) {
	wallets := createWallets(1)
	storage := NewStorage(newTestStore())

	outputID, outputInfo := wallets[0].unspentOutput(t, 100)

	_, exists, err := storage.Output(outputID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, storage.StoreOutput(outputID, outputInfo))

	stored, exists, err := storage.Output(outputID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, outputInfo.Output().Address(), stored.Output().Address())
	assert.Equal(t, outputInfo.Output().Balance(), stored.Output().Balance())

	require.NoError(t, storage.DeleteOutput(outputID))
	_, exists, err = storage.Output(outputID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_ForEachOutput(t *testing.T) {
	wallets := createWallets(1)
	storage := NewStorage(newTestStore())

	stored := utxo.NewOutputIDs()
	for i := 0; i < 3; i++ {
		outputID, outputInfo := wallets[0].unspentOutput(t, uint64(10*(i+1)))
		require.NoError(t, storage.StoreOutput(outputID, outputInfo))
		stored.Add(outputID)
	}

	visited := utxo.NewOutputIDs()
	require.NoError(t, storage.ForEachOutput(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		visited.Add(outputID)
		return true
	}))

	assert.True(t, stored.Equal(visited))
}
