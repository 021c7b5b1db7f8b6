package ledger

import (
	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/generics/orderedmap"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region UtxoModifier /////////////////////////////////////////////////////////////////////////////////////////////////

// UtxoModifier is a composable overlay over an abstract unspent output mapping. It records the outputs created and
// the outputs spent by a batch of transactions without touching the base Storage, so a verification or block
// application session can speculate freely and either commit the net effect as a unit or throw it away.
type UtxoModifier struct {
	created *orderedmap.OrderedMap[utxo.OutputID, *utxo.OutputInfo]
	removed utxo.OutputIDs
}

// NewUtxoModifier returns a new, empty UtxoModifier.
func NewUtxoModifier() *UtxoModifier {
	return &UtxoModifier{
		created: orderedmap.New[utxo.OutputID, *utxo.OutputInfo](),
		removed: utxo.NewOutputIDs(),
	}
}

// ResolveOutput looks up the given OutputID through the overlay: outputs spent in-session are gone, outputs created
// in-session are visible, and everything else falls through to the base resolver.
func (u *UtxoModifier) ResolveOutput(base OutputResolver, outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool) {
	if u.removed.Has(outputID) {
		return nil, false
	}
	if outputInfo, exists = u.created.Get(outputID); exists {
		return outputInfo, true
	}

	return base.ResolveOutput(outputID)
}

// Resolver returns an OutputResolver that consults the overlay before falling through to the given base resolver.
func (u *UtxoModifier) Resolver(base OutputResolver) OutputResolver {
	return ResolverFunc(func(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool) {
		return u.ResolveOutput(base, outputID)
	})
}

// ApplySpend marks the given OutputID as consumed. An output that was created in-session simply disappears from the
// overlay; everything else is shadowed from the base mapping. Spending an already removed key is a no-op.
func (u *UtxoModifier) ApplySpend(outputID utxo.OutputID) {
	if _, createdInSession := u.created.Get(outputID); createdInSession {
		u.created.Delete(outputID)
		return
	}

	u.removed.Add(outputID)
}

// ApplyAdd registers a newly created output in the overlay. Adding a key that is still unspent (in the overlay or in
// the base mapping) indicates a bug in the caller and is reported as ErrDoubleSpendRegistered.
func (u *UtxoModifier) ApplyAdd(base OutputResolver, outputID utxo.OutputID, outputInfo *utxo.OutputInfo) (err error) {
	if _, unspent := u.ResolveOutput(base, outputID); unspent {
		return errors.Errorf("failed to add output %s: %w", outputID, ErrDoubleSpendRegistered)
	}

	u.removed.Delete(outputID)
	u.created.Set(outputID, outputInfo)

	return nil
}

// ApplyTransaction folds the effect of a verified Transaction into the overlay: its inputs are spent and its outputs
// become available for later transactions of the same session.
func (u *UtxoModifier) ApplyTransaction(base OutputResolver, transaction *utxo.Transaction) (err error) {
	for _, input := range transaction.Inputs() {
		u.ApplySpend(input.ConsumedOutputID())
	}

	txID := transaction.ID()
	for index, output := range transaction.Outputs() {
		outputID := utxo.NewOutputID(txID, uint16(index))
		if err = u.ApplyAdd(base, outputID, utxo.NewOutputInfo(output, nil)); err != nil {
			return errors.Errorf("failed to apply transaction %s: %w", txID, err)
		}
	}

	return nil
}

// RevertTransaction reverses the effect of a previously applied Transaction: its created outputs vanish from the
// overlay and its consumed outputs (preserved in the undo record) become available again.
func (u *UtxoModifier) RevertTransaction(transaction *utxo.Transaction, undo *TransactionUndo) {
	txID := transaction.ID()
	for index := range transaction.Outputs() {
		u.ApplySpend(utxo.NewOutputID(txID, uint16(index)))
	}

	undo.ForEach(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) {
		u.removed.Delete(outputID)
		u.created.Set(outputID, outputInfo)
	})
}

// Merge folds the given overlay (representing a later batch) into the receiver. The result is equivalent to applying
// both batches in order against the same base mapping.
func (u *UtxoModifier) Merge(other *UtxoModifier) {
	_ = other.removed.ForEach(func(outputID utxo.OutputID) (err error) {
		u.ApplySpend(outputID)
		return nil
	})

	other.created.ForEach(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		u.removed.Delete(outputID)
		u.created.Set(outputID, outputInfo)

		return true
	})
}

// CommitTo folds the overlay into the given Storage. This is the only place where the authoritative unspent output
// mapping is mutated.
func (u *UtxoModifier) CommitTo(storage *Storage) (err error) {
	if err = u.removed.ForEach(func(outputID utxo.OutputID) error {
		return storage.DeleteOutput(outputID)
	}); err != nil {
		return errors.Errorf("failed to commit spends: %w", err)
	}

	u.created.ForEach(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		err = storage.StoreOutput(outputID, outputInfo)
		return err == nil
	})
	if err != nil {
		return errors.Errorf("failed to commit created outputs: %w", err)
	}

	return nil
}

// CreatedOutputIDs returns the identifiers of the outputs that were created in-session.
func (u *UtxoModifier) CreatedOutputIDs() (createdOutputIDs utxo.OutputIDs) {
	createdOutputIDs = utxo.NewOutputIDs()
	u.created.ForEach(func(outputID utxo.OutputID, _ *utxo.OutputInfo) bool {
		createdOutputIDs.Add(outputID)
		return true
	})

	return createdOutputIDs
}

// SpentOutputIDs returns the identifiers of the base mapping's outputs that were spent in-session.
func (u *UtxoModifier) SpentOutputIDs() (spentOutputIDs utxo.OutputIDs) {
	return u.removed.Clone()
}

// IsEmpty returns true if the overlay does not contain any changes.
func (u *UtxoModifier) IsEmpty() bool {
	return u.created.Size() == 0 && u.removed.IsEmpty()
}

// String returns a human-readable version of the UtxoModifier.
func (u *UtxoModifier) String() string {
	return stringify.Struct("UtxoModifier",
		stringify.StructField("createdCount", uint64(u.created.Size())),
		stringify.StructField("removedCount", uint64(u.removed.Size())),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
