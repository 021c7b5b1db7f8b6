package ledger

import (
	"github.com/spendlabs/txcore/packages/utxo"
)

// OutputResolver looks up unspent Outputs. Verification resolves every input of a Transaction through such a
// resolver, which is typically the base Storage combined with the UtxoModifier of the current session. A resolver
// must be a pure function of the state it captures: it is called once per input and its answer is treated as final
// for that verification pass.
type OutputResolver interface {
	// ResolveOutput returns the OutputInfo for the given OutputID, or false if the referenced output is unknown or
	// already spent.
	ResolveOutput(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool)
}

// ResolverFunc is an adapter that allows plain functions to be used as OutputResolvers.
type ResolverFunc func(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool)

// ResolveOutput returns the OutputInfo for the given OutputID by calling the wrapped function.
func (r ResolverFunc) ResolveOutput(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool) {
	return r(outputID)
}
