package ledger

import (
	"math/big"
	"testing"

	"github.com/iotaledger/hive.go/generics/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlabs/txcore/packages/coin"
	"github.com/spendlabs/txcore/packages/utxo"
)

func TestLedger_ApplyBatch(t *testing.T) {
	wallets := createWallets(3)
	ledger := New()

	genesisOutputID, genesisOutputInfo := wallets[0].unspentOutput(t, 100)
	require.NoError(t, ledger.ImportOutput(genesisOutputID, genesisOutputInfo))
	assert.Equal(t, coin.Coin(100), ledger.Stakes.StakeOf(wallets[0].address))

	first := wallets[0].transfer([]utxo.OutputID{genesisOutputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 100)),
	})
	second := wallets[1].transfer([]utxo.OutputID{utxo.NewOutputID(first.ID(), 0)}, utxo.Outputs{
		utxo.NewOutput(wallets[2].address, mustCoin(t, 60)),
		utxo.NewOutput(wallets[1].address, mustCoin(t, 40)),
	})

	require.NoError(t, ledger.ProcessTransaction(first))
	require.NoError(t, ledger.ProcessTransaction(second))
	assert.Equal(t, 2, ledger.MemPool.Size())

	appliedCount := 0
	ledger.Events.TransactionApplied.Attach(event.NewClosure(func(_ *TransactionAppliedEvent) {
		appliedCount++
	}))

	stateDiff, err := ledger.ApplyBatch([]*utxo.Transaction{second, first})
	require.NoError(t, err)
	assert.Equal(t, 2, stateDiff.Size())
	assert.Equal(t, 2, appliedCount)
	assert.Equal(t, 0, ledger.MemPool.Size(), "applied transactions should leave the pool")

	_, exists, err := ledger.Storage.Output(genesisOutputID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, coin.Coin(0), ledger.Stakes.StakeOf(wallets[0].address))
	assert.Equal(t, coin.Coin(40), ledger.Stakes.StakeOf(wallets[1].address))
	assert.Equal(t, coin.Coin(60), ledger.Stakes.StakeOf(wallets[2].address))
	assert.Equal(t, big.NewInt(100), ledger.Stakes.Total())
}

func TestLedger_ApplyBatch_RejectedBatchLeavesNoTrace(t *testing.T) {
	wallets := createWallets(2)
	ledger := New()

	genesisOutputID, genesisOutputInfo := wallets[0].unspentOutput(t, 100)
	require.NoError(t, ledger.ImportOutput(genesisOutputID, genesisOutputInfo))

	valid := wallets[0].transfer([]utxo.OutputID{genesisOutputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 100)),
	})
	forged := wallets[1].transfer([]utxo.OutputID{genesisOutputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 100)),
	})

	_, err := ledger.ApplyBatch([]*utxo.Transaction{valid, forged})
	require.ErrorIs(t, err, ErrTransactionInvalid)

	genesisOutput, exists, storageErr := ledger.Storage.Output(genesisOutputID)
	require.NoError(t, storageErr)
	require.True(t, exists, "the rejected batch must not consume anything")
	assert.Equal(t, genesisOutputInfo.Output().Balance(), genesisOutput.Output().Balance())
	assert.Equal(t, coin.Coin(100), ledger.Stakes.StakeOf(wallets[0].address))
}

func TestLedger_RollbackBatch(t *testing.T) {
	wallets := createWallets(3)
	ledger := New()

	genesisOutputID, genesisOutputInfo := wallets[0].unspentOutput(t, 100)
	require.NoError(t, ledger.ImportOutput(genesisOutputID, genesisOutputInfo))

	first := wallets[0].transfer([]utxo.OutputID{genesisOutputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 100)),
	})
	second := wallets[1].transfer([]utxo.OutputID{utxo.NewOutputID(first.ID(), 0)}, utxo.Outputs{
		utxo.NewOutput(wallets[2].address, mustCoin(t, 100)),
	})

	stateDiff, err := ledger.ApplyBatch([]*utxo.Transaction{first, second})
	require.NoError(t, err)

	rolledBack := false
	ledger.Events.BatchRolledBack.Attach(event.NewClosure(func(e *BatchRolledBackEvent) {
		rolledBack = e.StateDiff == stateDiff
	}))

	require.NoError(t, ledger.RollbackBatch(stateDiff))
	assert.True(t, rolledBack)

	genesisOutput, exists, err := ledger.Storage.Output(genesisOutputID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, genesisOutputInfo.Output().Balance(), genesisOutput.Output().Balance())

	_, exists, err = ledger.Storage.Output(utxo.NewOutputID(second.ID(), 0))
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, coin.Coin(100), ledger.Stakes.StakeOf(wallets[0].address))
	assert.Equal(t, coin.Coin(0), ledger.Stakes.StakeOf(wallets[1].address))
	assert.Equal(t, coin.Coin(0), ledger.Stakes.StakeOf(wallets[2].address))
}

func TestLedger_ProcessTransaction_RejectsStructurallyInvalid(t *testing.T) {
	ledger := New()

	var rejectionReason error
	ledger.Events.TransactionRejected.Attach(event.NewClosure(func(e *TransactionRejectedEvent) {
		rejectionReason = e.Reason
	}))

	err := ledger.ProcessTransaction(utxo.NewTransaction(nil, nil))
	requireViolations(t, err, ViolationEmptyInputs, ViolationEmptyOutputs)
	require.NotNil(t, rejectionReason)
	assert.Equal(t, 0, ledger.MemPool.Size())
}

func TestLedger_ImportOutput_RejectsDuplicates(t *testing.T) {
	wallets := createWallets(1)
	ledger := New()

	outputID, outputInfo := wallets[0].unspentOutput(t, 100)
	require.NoError(t, ledger.ImportOutput(outputID, outputInfo))

	err := ledger.ImportOutput(outputID, outputInfo)
	require.ErrorIs(t, err, ErrDoubleSpendRegistered)
}

func TestLedger_RebuildStakes(t *testing.T) {
	wallets := createWallets(2)
	store := newTestStore()

	ledger := New(WithStore(store))
	firstOutputID, firstOutputInfo := wallets[0].unspentOutput(t, 100)
	secondOutputID, secondOutputInfo := wallets[1].unspentOutput(t, 50)
	require.NoError(t, ledger.ImportOutput(firstOutputID, firstOutputInfo))
	require.NoError(t, ledger.ImportOutput(secondOutputID, secondOutputInfo))

	// a fresh Ledger over the same store starts with an empty stake view
	reopened := New(WithStore(store))
	assert.Equal(t, big.NewInt(0), reopened.Stakes.Total())

	require.NoError(t, reopened.RebuildStakes())
	assert.Equal(t, coin.Coin(100), reopened.Stakes.StakeOf(wallets[0].address))
	assert.Equal(t, coin.Coin(50), reopened.Stakes.StakeOf(wallets[1].address))
	assert.Equal(t, big.NewInt(150), reopened.Stakes.Total())
}

func TestLedger_VerifyTransaction_AgainstStorage(t *testing.T) {
	wallets := createWallets(2)
	ledger := New()

	outputID, outputInfo := wallets[0].unspentOutput(t, 100)
	require.NoError(t, ledger.ImportOutput(outputID, outputInfo))

	undo, err := ledger.VerifyTransaction(wallets[0].transfer([]utxo.OutputID{outputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 100)),
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, undo.Size())

	_, err = ledger.VerifyTransaction(wallets[1].transfer([]utxo.OutputID{outputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 100)),
	}))
	requireViolations(t, err, ViolationBadSignature)
}
