package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlabs/txcore/packages/utxo"
)

func TestSortTransactions_IndependentKeepOrder(t *testing.T) {
	wallets := createWallets(3)

	transactions := make([]*utxo.Transaction, 0, 3)
	for _, w := range wallets {
		outputID, _ := w.unspentOutput(t, 10)
		transactions = append(transactions, w.transfer([]utxo.OutputID{outputID}, utxo.Outputs{
			utxo.NewOutput(w.address, mustCoin(t, 10)),
		}))
	}

	sorted, err := SortTransactions(transactions)
	require.NoError(t, err)
	assert.Equal(t, transactions, sorted)
}

func TestSortTransactions_DependenciesFirst(t *testing.T) {
	wallets := createWallets(3)

	outputID, _ := wallets[0].unspentOutput(t, 10)
	first := wallets[0].transfer([]utxo.OutputID{outputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 10)),
	})
	second := wallets[1].transfer([]utxo.OutputID{utxo.NewOutputID(first.ID(), 0)}, utxo.Outputs{
		utxo.NewOutput(wallets[2].address, mustCoin(t, 10)),
	})
	third := wallets[2].transfer([]utxo.OutputID{utxo.NewOutputID(second.ID(), 0)}, utxo.Outputs{
		utxo.NewOutput(wallets[0].address, mustCoin(t, 10)),
	})

	sorted, err := SortTransactions([]*utxo.Transaction{third, first, second})
	require.NoError(t, err)
	assert.Equal(t, []*utxo.Transaction{first, second, third}, sorted)
}

func TestSortTransactions_DiamondDependency(t *testing.T) {
	wallets := createWallets(2)

	outputID, _ := wallets[0].unspentOutput(t, 20)
	root := wallets[0].transfer([]utxo.OutputID{outputID}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 10)),
		utxo.NewOutput(wallets[1].address, mustCoin(t, 10)),
	})
	left := wallets[1].transfer([]utxo.OutputID{utxo.NewOutputID(root.ID(), 0)}, utxo.Outputs{
		utxo.NewOutput(wallets[0].address, mustCoin(t, 10)),
	})
	right := wallets[1].transfer([]utxo.OutputID{utxo.NewOutputID(root.ID(), 1)}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 10)),
	})
	join := wallets[0].transfer([]utxo.OutputID{utxo.NewOutputID(left.ID(), 0)}, utxo.Outputs{
		utxo.NewOutput(wallets[1].address, mustCoin(t, 10)),
	})

	sorted, err := SortTransactions([]*utxo.Transaction{join, right, left, root})
	require.NoError(t, err)

	position := make(map[utxo.TransactionID]int, len(sorted))
	for i, transaction := range sorted {
		position[transaction.ID()] = i
	}
	assert.Less(t, position[root.ID()], position[left.ID()])
	assert.Less(t, position[root.ID()], position[right.ID()])
	assert.Less(t, position[left.ID()], position[join.ID()])
}

func TestLinearize_Cycle(t *testing.T) {
	// 0 -> 1 -> 2 -> 0
	dependents := [][]int{{1}, {2}, {0}}
	pendingDependencies := []int{1, 1, 1}

	_, err := linearize(dependents, pendingDependencies)
	require.ErrorIs(t, err, ErrCyclicDependency)
}

func TestLinearize_PartialCycle(t *testing.T) {
	// 0 is independent, 1 and 2 depend on each other
	dependents := [][]int{nil, {2}, {1}}
	pendingDependencies := []int{0, 1, 1}

	_, err := linearize(dependents, pendingDependencies)
	require.ErrorIs(t, err, ErrCyclicDependency)
}
