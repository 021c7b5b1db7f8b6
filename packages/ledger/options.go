package ledger

import (
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

// region Options //////////////////////////////////////////////////////////////////////////////////////////////////////

// options is a container for all configurable parameters of a Ledger.
type options struct {
	store                       kvstore.KVStore
	maxInputCount               int
	signatureValidationDisabled bool
	parallelSignatureChecks     bool
}

// newOptions returns a new options object with the default parameters, overridden by the given Options.
func newOptions(opts ...Option) (new *options) {
	return (&options{
		store:                   mapdb.NewMapDB(),
		maxInputCount:           127,
		parallelSignatureChecks: true,
	}).apply(opts...)
}

func (o *options) apply(opts ...Option) (self *options) {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Option represents a configurable parameter of a Ledger that modifies its behavior.
type Option func(*options)

// WithStore is an Option for the Ledger that configures which KVStore the unspent output mapping is persisted in.
func WithStore(store kvstore.KVStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithMaxInputCount is an Option for the Ledger that configures how many inputs a single Transaction may consume.
func WithMaxInputCount(maxInputCount int) Option {
	return func(o *options) {
		o.maxInputCount = maxInputCount
	}
}

// WithoutSignatureValidation is an Option for the Ledger that skips signature checks entirely. It exists for replaying
// batches that were fully verified before (e.g. during state reconstruction).
func WithoutSignatureValidation() Option {
	return func(o *options) {
		o.signatureValidationDisabled = true
	}
}

// WithParallelSignatureChecks is an Option for the Ledger that configures whether the signatures of a Transaction are
// verified concurrently.
func WithParallelSignatureChecks(enabled bool) Option {
	return func(o *options) {
		o.parallelSignatureChecks = enabled
	}
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
