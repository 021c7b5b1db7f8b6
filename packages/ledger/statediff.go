package ledger

import (
	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/generics/orderedmap"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region StateDiff ////////////////////////////////////////////////////////////////////////////////////////////////////

// StateDiff captures the state transition caused by a batch of verified Transactions: the overlay over the unspent
// output mapping, the applied Transactions in their dependency order and the undo record of every one of them. A
// StateDiff is built atomically: either the whole batch verifies and the diff absorbs it, or the diff is left exactly
// as it was.
type StateDiff struct {
	modifier     *UtxoModifier
	undoMap      *UndoMap
	transactions *orderedmap.OrderedMap[utxo.TransactionID, *utxo.Transaction]
}

// NewStateDiff returns a new, empty StateDiff.
func NewStateDiff() *StateDiff {
	return &StateDiff{
		modifier:     NewUtxoModifier(),
		undoMap:      NewUndoMap(),
		transactions: orderedmap.New[utxo.TransactionID, *utxo.Transaction](),
	}
}

// ApplyBatch verifies the given Transactions against the state presented by the base resolver plus the diff itself and
// folds their effects into the diff. The batch is first linearized so that dependencies are verified before their
// dependents. If any Transaction fails verification (or the batch cannot be linearized) the diff stays untouched and
// the failure is returned, marked with ErrTransactionInvalid where a Transaction was rejected.
func (s *StateDiff) ApplyBatch(validator *Validator, base OutputResolver, transactions []*utxo.Transaction) (err error) {
	sorted, err := SortTransactions(transactions)
	if err != nil {
		return errors.Errorf("failed to apply batch: %w", err)
	}

	scratchModifier := NewUtxoModifier()
	scratchUndos := make([]*TransactionUndo, 0, len(sorted))
	resolver := scratchModifier.Resolver(s.modifier.Resolver(base))
	for _, transaction := range sorted {
		undo, verificationErr := validator.VerifyTransaction(transaction, resolver)
		if verificationErr != nil {
			return errors.Mark(errors.Errorf("failed to apply batch: transaction %s rejected: %w", transaction.ID(), verificationErr), ErrTransactionInvalid)
		}

		if err = scratchModifier.ApplyTransaction(s.modifier.Resolver(base), transaction); err != nil {
			return errors.Errorf("failed to apply batch: %w", err)
		}
		scratchUndos = append(scratchUndos, undo)
	}

	s.modifier.Merge(scratchModifier)
	for i, transaction := range sorted {
		s.undoMap.Record(transaction.ID(), scratchUndos[i])
		s.transactions.Set(transaction.ID(), transaction)
	}

	return nil
}

// Modifier returns the overlay over the unspent output mapping that the diff represents.
func (s *StateDiff) Modifier() *UtxoModifier {
	return s.modifier
}

// Undo returns the undo record of the given applied Transaction.
func (s *StateDiff) Undo(txID utxo.TransactionID) (undo *TransactionUndo, exists bool) {
	return s.undoMap.Undo(txID)
}

// Transactions returns the applied Transactions in application order.
func (s *StateDiff) Transactions() (transactions []*utxo.Transaction) {
	transactions = make([]*utxo.Transaction, 0, s.transactions.Size())
	s.transactions.ForEach(func(_ utxo.TransactionID, transaction *utxo.Transaction) bool {
		transactions = append(transactions, transaction)
		return true
	})

	return transactions
}

// ForEachApplied calls the given consumer for every applied Transaction and its undo record, in application order.
func (s *StateDiff) ForEachApplied(consumer func(transaction *utxo.Transaction, undo *TransactionUndo)) {
	s.transactions.ForEach(func(txID utxo.TransactionID, transaction *utxo.Transaction) bool {
		if undo, exists := s.undoMap.Undo(txID); exists {
			consumer(transaction, undo)
		}
		return true
	})
}

// ForEachAppliedReversed calls the given consumer for every applied Transaction and its undo record, in reverse
// application order.
func (s *StateDiff) ForEachAppliedReversed(consumer func(transaction *utxo.Transaction, undo *TransactionUndo)) {
	s.undoMap.ForEachReversed(func(txID utxo.TransactionID, undo *TransactionUndo) {
		if transaction, exists := s.transactions.Get(txID); exists {
			consumer(transaction, undo)
		}
	})
}

// Size returns the number of applied Transactions.
func (s *StateDiff) Size() int {
	return s.transactions.Size()
}

// IsEmpty returns true if no Transaction was applied to the diff.
func (s *StateDiff) IsEmpty() bool {
	return s.transactions.Size() == 0
}

// String returns a human-readable version of the StateDiff.
func (s *StateDiff) String() string {
	return stringify.Struct("StateDiff",
		stringify.StructField("transactionCount", uint64(s.transactions.Size())),
		stringify.StructField("modifier", s.modifier),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
