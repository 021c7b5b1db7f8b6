package ledger

import (
	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/types"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region SortTransactions /////////////////////////////////////////////////////////////////////////////////////////////

// SortTransactions orders a batch of Transactions so that every Transaction appears after the ones whose outputs it
// consumes. Transactions without dependencies between each other keep their relative order from the input. If the
// dependency graph contains a cycle the batch cannot be linearized and ErrCyclicDependency is returned.
func SortTransactions(transactions []*utxo.Transaction) (sorted []*utxo.Transaction, err error) {
	producers := make(map[utxo.TransactionID]int, len(transactions))
	for i, transaction := range transactions {
		producers[transaction.ID()] = i
	}

	dependents := make([][]int, len(transactions))
	pendingDependencies := make([]int, len(transactions))
	for i, transaction := range transactions {
		seenProducers := make(map[int]types.Empty)
		for _, input := range transaction.Inputs() {
			producerIndex, producedInBatch := producers[input.ConsumedOutputID().TransactionID]
			if !producedInBatch || producerIndex == i {
				continue
			}
			if _, seen := seenProducers[producerIndex]; seen {
				continue
			}
			seenProducers[producerIndex] = types.Void

			dependents[producerIndex] = append(dependents[producerIndex], i)
			pendingDependencies[i]++
		}
	}

	order, err := linearize(dependents, pendingDependencies)
	if err != nil {
		return nil, errors.Errorf("failed to order batch of %d transactions: %w", len(transactions), err)
	}

	sorted = make([]*utxo.Transaction, 0, len(transactions))
	for _, index := range order {
		sorted = append(sorted, transactions[index])
	}

	return sorted, nil
}

// linearize runs Kahn's algorithm over the dependency graph given as adjacency lists. Nodes become ready in index
// order, which keeps the relative order of independent elements stable.
func linearize(dependents [][]int, pendingDependencies []int) (order []int, err error) {
	queue := make([]int, 0, len(pendingDependencies))
	for i := range pendingDependencies {
		if pendingDependencies[i] == 0 {
			queue = append(queue, i)
		}
	}

	order = make([]int, 0, len(pendingDependencies))
	for len(queue) != 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, dependent := range dependents[current] {
			if pendingDependencies[dependent]--; pendingDependencies[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(pendingDependencies) {
		return nil, ErrCyclicDependency
	}

	return order, nil
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
