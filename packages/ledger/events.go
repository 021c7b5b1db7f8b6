package ledger

import (
	"github.com/iotaledger/hive.go/generics/event"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region Events ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Events is a container that acts as a dictionary for the existing events of a Ledger.
type Events struct {
	// TransactionApplied is triggered whenever a Transaction passes verification as part of a committed batch.
	TransactionApplied *event.Event[*TransactionAppliedEvent]

	// TransactionRejected is triggered whenever a Transaction fails verification.
	TransactionRejected *event.Event[*TransactionRejectedEvent]

	// BatchCommitted is triggered whenever a batch of Transactions was applied to the authoritative state.
	BatchCommitted *event.Event[*BatchCommittedEvent]

	// BatchRolledBack is triggered whenever a previously committed batch was reversed.
	BatchRolledBack *event.Event[*BatchRolledBackEvent]
}

// newEvents returns a new Events object.
func newEvents() *Events {
	return &Events{
		TransactionApplied:  event.New[*TransactionAppliedEvent](),
		TransactionRejected: event.New[*TransactionRejectedEvent](),
		BatchCommitted:      event.New[*BatchCommittedEvent](),
		BatchRolledBack:     event.New[*BatchRolledBackEvent](),
	}
}

// TransactionAppliedEvent is the payload of the TransactionApplied event.
type TransactionAppliedEvent struct {
	TransactionID utxo.TransactionID
	Transaction   *utxo.Transaction
	Undo          *TransactionUndo
}

// TransactionRejectedEvent is the payload of the TransactionRejected event.
type TransactionRejectedEvent struct {
	TransactionID utxo.TransactionID
	Transaction   *utxo.Transaction
	Reason        error
}

// BatchCommittedEvent is the payload of the BatchCommitted event.
type BatchCommittedEvent struct {
	StateDiff *StateDiff
}

// BatchRolledBackEvent is the payload of the BatchRolledBack event.
type BatchRolledBackEvent struct {
	StateDiff *StateDiff
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
