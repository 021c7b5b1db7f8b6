package ledger

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region Ledger ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Ledger ties the components of the transaction processing pipeline together: the persisted unspent output mapping,
// the stake view derived from it, the pool of pending Transactions and the Validator. Batches of Transactions move
// the authoritative state forward atomically and can be reversed again through their StateDiff.
type Ledger struct {
	// Events is a dictionary for Ledger related events.
	Events *Events

	// Storage is the authoritative unspent output mapping.
	Storage *Storage

	// MemPool holds the Transactions that were admitted but not applied yet.
	MemPool *MemPool

	// Stakes tracks the coins held per address.
	Stakes *StakesView

	validator *Validator
	options   *options

	mutex sync.RWMutex
}

// New returns a new Ledger with the given options.
func New(opts ...Option) (ledger *Ledger) {
	options := newOptions(opts...)

	return &Ledger{
		Events:    newEvents(),
		Storage:   NewStorage(options.store),
		MemPool:   NewMemPool(),
		Stakes:    NewStakesView(),
		validator: newValidator(options),
		options:   options,
	}
}

// ImportOutput seeds the Ledger with an unspent output that has no producing Transaction (e.g. from a genesis
// allocation), updating the stake view accordingly.
func (l *Ledger) ImportOutput(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) (err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, exists, err := l.Storage.Output(outputID); err != nil {
		return errors.Errorf("failed to import output %s: %w", outputID, err)
	} else if exists {
		return errors.Errorf("failed to import output %s: %w", outputID, ErrDoubleSpendRegistered)
	}

	if err = l.Storage.StoreOutput(outputID, outputInfo); err != nil {
		return errors.Errorf("failed to import output %s: %w", outputID, err)
	}
	if err = l.Stakes.Credit(outputInfo.Output().Address(), outputInfo.Output().Balance()); err != nil {
		return errors.Errorf("failed to import output %s: %w", outputID, err)
	}

	return nil
}

// RebuildStakes derives the stake view from scratch by scanning the unspent output mapping. It is used when a Ledger
// is attached to a store that already holds state.
func (l *Ledger) RebuildStakes() (err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	stakes := NewStakesView()
	var creditErr error
	if err = l.Storage.ForEachOutput(func(_ utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		creditErr = stakes.Credit(outputInfo.Output().Address(), outputInfo.Output().Balance())
		return creditErr == nil
	}); err != nil {
		return errors.Errorf("failed to rebuild stakes: %w", err)
	}
	if creditErr != nil {
		return errors.Errorf("failed to rebuild stakes: %w", creditErr)
	}

	l.Stakes = stakes

	return nil
}

// VerifyTransactionAlone checks the context-free properties of a Transaction.
func (l *Ledger) VerifyTransactionAlone(transaction *utxo.Transaction) (err error) {
	return l.validator.VerifyTransactionAlone(transaction)
}

// VerifyTransaction checks a Transaction against the authoritative unspent output mapping.
func (l *Ledger) VerifyTransaction(transaction *utxo.Transaction) (undo *TransactionUndo, err error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if undo, err = l.validator.VerifyTransaction(transaction, l.Storage.Resolver()); err != nil {
		l.Events.TransactionRejected.Trigger(&TransactionRejectedEvent{
			TransactionID: transaction.ID(),
			Transaction:   transaction,
			Reason:        err,
		})
	}

	return undo, err
}

// ProcessTransaction admits a Transaction into the MemPool after checking its context-free properties. Contextual
// verification happens when the Transaction becomes part of an applied batch.
func (l *Ledger) ProcessTransaction(transaction *utxo.Transaction) (err error) {
	if err = l.validator.VerifyTransactionAlone(transaction); err != nil {
		l.Events.TransactionRejected.Trigger(&TransactionRejectedEvent{
			TransactionID: transaction.ID(),
			Transaction:   transaction,
			Reason:        err,
		})

		return errors.Errorf("failed to process transaction %s: %w", transaction.ID(), err)
	}

	l.MemPool.Insert(transaction)

	return nil
}

// ApplyBatch verifies the given Transactions as a unit and commits their combined effect to the authoritative state.
// The Transactions may arrive in any order and may depend on each other; they are linearized before verification. If
// any Transaction is rejected the whole batch is abandoned and no state changes. On success the applied Transactions
// are dropped from the MemPool and the returned StateDiff describes the transition (and how to reverse it).
func (l *Ledger) ApplyBatch(transactions []*utxo.Transaction) (stateDiff *StateDiff, err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	stateDiff = NewStateDiff()
	if err = stateDiff.ApplyBatch(l.validator, l.Storage.Resolver(), transactions); err != nil {
		return nil, err
	}

	if err = l.applyStakes(stateDiff); err != nil {
		return nil, err
	}
	if err = stateDiff.Modifier().CommitTo(l.Storage); err != nil {
		l.revertStakes(stateDiff)
		return nil, err
	}

	stateDiff.ForEachApplied(func(transaction *utxo.Transaction, undo *TransactionUndo) {
		l.MemPool.Remove(transaction.ID())
		l.Events.TransactionApplied.Trigger(&TransactionAppliedEvent{
			TransactionID: transaction.ID(),
			Transaction:   transaction,
			Undo:          undo,
		})
	})
	l.Events.BatchCommitted.Trigger(&BatchCommittedEvent{StateDiff: stateDiff})

	return stateDiff, nil
}

// RollbackBatch reverses a previously committed StateDiff: the outputs it created disappear, the outputs it consumed
// become unspent again and the stake view is restored.
func (l *Ledger) RollbackBatch(stateDiff *StateDiff) (err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	revertingModifier := NewUtxoModifier()
	stateDiff.ForEachAppliedReversed(func(transaction *utxo.Transaction, undo *TransactionUndo) {
		revertingModifier.RevertTransaction(transaction, undo)

		if err == nil {
			err = l.Stakes.RevertTransaction(transaction, undo)
		}
	})
	if err != nil {
		return errors.Errorf("failed to roll back batch: %w", err)
	}

	if err = revertingModifier.CommitTo(l.Storage); err != nil {
		return errors.Errorf("failed to roll back batch: %w", err)
	}

	l.Events.BatchRolledBack.Trigger(&BatchRolledBackEvent{StateDiff: stateDiff})

	return nil
}

// applyStakes folds the stake changes of a verified batch into the stake view. If one of the transitions fails the
// already applied ones are reverted, so the view never reflects half a batch.
func (l *Ledger) applyStakes(stateDiff *StateDiff) (err error) {
	applied := make([]*utxo.Transaction, 0, stateDiff.Size())
	stateDiff.ForEachApplied(func(transaction *utxo.Transaction, undo *TransactionUndo) {
		if err != nil {
			return
		}
		if err = l.Stakes.ApplyTransaction(transaction, undo); err == nil {
			applied = append(applied, transaction)
		}
	})
	if err == nil {
		return nil
	}

	for i := len(applied) - 1; i >= 0; i-- {
		if undo, exists := stateDiff.Undo(applied[i].ID()); exists {
			_ = l.Stakes.RevertTransaction(applied[i], undo)
		}
	}

	return errors.Errorf("failed to apply stake changes: %w", err)
}

// revertStakes undoes the stake changes of a batch that could not be committed.
func (l *Ledger) revertStakes(stateDiff *StateDiff) {
	stateDiff.ForEachAppliedReversed(func(transaction *utxo.Transaction, undo *TransactionUndo) {
		_ = l.Stakes.RevertTransaction(transaction, undo)
	})
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
