package ledger

import (
	"github.com/iotaledger/hive.go/generics/orderedmap"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region TransactionUndo //////////////////////////////////////////////////////////////////////////////////////////////

// TransactionUndo preserves the outputs that a Transaction consumed, keyed by their OutputID and in input order. It
// carries everything needed to reverse the transaction, so a rollback never has to consult any other source.
type TransactionUndo struct {
	spentOutputs *orderedmap.OrderedMap[utxo.OutputID, *utxo.OutputInfo]
}

// NewTransactionUndo returns a new, empty TransactionUndo.
func NewTransactionUndo() *TransactionUndo {
	return &TransactionUndo{
		spentOutputs: orderedmap.New[utxo.OutputID, *utxo.OutputInfo](),
	}
}

// RecordSpend adds a consumed output to the undo record.
func (t *TransactionUndo) RecordSpend(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) {
	t.spentOutputs.Set(outputID, outputInfo)
}

// SpentOutput returns the preserved output consumed under the given OutputID.
func (t *TransactionUndo) SpentOutput(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool) {
	return t.spentOutputs.Get(outputID)
}

// ForEach calls the given consumer for every preserved output in input order.
func (t *TransactionUndo) ForEach(consumer func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo)) {
	t.spentOutputs.ForEach(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		consumer(outputID, outputInfo)
		return true
	})
}

// Size returns the number of preserved outputs.
func (t *TransactionUndo) Size() int {
	return t.spentOutputs.Size()
}

// Bytes returns a marshaled version of the TransactionUndo.
func (t *TransactionUndo) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint32(uint32(t.spentOutputs.Size()))
	t.spentOutputs.ForEach(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		marshalUtil.Write(outputID)
		marshalUtil.WriteBytes(outputInfo.Bytes())

		return true
	})

	return marshalUtil.Bytes()
}

// String returns a human-readable version of the TransactionUndo.
func (t *TransactionUndo) String() string {
	structBuilder := stringify.StructBuilder("TransactionUndo")
	t.spentOutputs.ForEach(func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool {
		structBuilder.AddField(stringify.StructField(outputID.String(), outputInfo))
		return true
	})

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region UndoMap //////////////////////////////////////////////////////////////////////////////////////////////////////

// UndoMap collects the TransactionUndo records of a batch in application order, so the whole batch can be reversed by
// replaying the records back to front.
type UndoMap struct {
	undos *orderedmap.OrderedMap[utxo.TransactionID, *TransactionUndo]
	order []utxo.TransactionID
}

// NewUndoMap returns a new, empty UndoMap.
func NewUndoMap() *UndoMap {
	return &UndoMap{
		undos: orderedmap.New[utxo.TransactionID, *TransactionUndo](),
	}
}

// Record stores the undo record of an applied Transaction.
func (u *UndoMap) Record(txID utxo.TransactionID, undo *TransactionUndo) {
	if _, exists := u.undos.Get(txID); !exists {
		u.order = append(u.order, txID)
	}
	u.undos.Set(txID, undo)
}

// Undo returns the undo record of the given Transaction.
func (u *UndoMap) Undo(txID utxo.TransactionID) (undo *TransactionUndo, exists bool) {
	return u.undos.Get(txID)
}

// ForEachReversed calls the given consumer for every undo record in reverse application order.
func (u *UndoMap) ForEachReversed(consumer func(txID utxo.TransactionID, undo *TransactionUndo)) {
	for i := len(u.order) - 1; i >= 0; i-- {
		if undo, exists := u.undos.Get(u.order[i]); exists {
			consumer(u.order[i], undo)
		}
	}
}

// Size returns the number of recorded transactions.
func (u *UndoMap) Size() int {
	return u.undos.Size()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
