package ledger

import (
	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/byteutils"
	"github.com/iotaledger/hive.go/cerrors"
	"github.com/iotaledger/hive.go/kvstore"

	"github.com/spendlabs/txcore/packages/utxo"
)

// prefixUnspentOutputs is the key prefix that separates the unspent output mapping from other data in the KVStore.
const prefixUnspentOutputs byte = 0

// region Storage //////////////////////////////////////////////////////////////////////////////////////////////////////

// Storage is the authoritative unspent output mapping, backed by an abstract key-value store that is owned by the
// caller's persistence layer. Verification never writes to it directly; all speculative changes live in a
// UtxoModifier until they are committed as a unit.
type Storage struct {
	store kvstore.KVStore
}

// NewStorage returns a new Storage that persists its entries in the given KVStore.
func NewStorage(store kvstore.KVStore) *Storage {
	return &Storage{
		store: store,
	}
}

// Output returns the OutputInfo stored under the given OutputID, or false if the output is not part of the unspent
// output mapping.
func (s *Storage) Output(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool, err error) {
	value, err := s.store.Get(s.outputKey(outputID))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, false, nil
		}

		return nil, false, errors.Errorf("failed to load output %s: %w", outputID, cerrors.ErrFatal)
	}

	if outputInfo, _, err = utxo.OutputInfoFromBytes(value); err != nil {
		return nil, false, errors.Errorf("failed to parse output %s: %w", outputID, err)
	}

	return outputInfo, true, nil
}

// StoreOutput adds the given OutputInfo to the unspent output mapping.
func (s *Storage) StoreOutput(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) (err error) {
	if err = s.store.Set(s.outputKey(outputID), outputInfo.Bytes()); err != nil {
		return errors.Errorf("failed to store output %s: %w", outputID, cerrors.ErrFatal)
	}

	return nil
}

// DeleteOutput removes the given OutputID from the unspent output mapping.
func (s *Storage) DeleteOutput(outputID utxo.OutputID) (err error) {
	if err = s.store.Delete(s.outputKey(outputID)); err != nil {
		return errors.Errorf("failed to delete output %s: %w", outputID, cerrors.ErrFatal)
	}

	return nil
}

// ForEachOutput iterates through the unspent output mapping and calls the consumer for every entry. Iteration can be
// aborted by returning false in the consumer.
func (s *Storage) ForEachOutput(consumer func(outputID utxo.OutputID, outputInfo *utxo.OutputInfo) bool) (err error) {
	iterationErr := s.store.Iterate(kvstore.KeyPrefix{prefixUnspentOutputs}, func(key kvstore.Key, value kvstore.Value) bool {
		outputID, _, outputIDErr := utxo.OutputIDFromBytes(key[1:])
		if outputIDErr != nil {
			err = errors.Errorf("failed to parse OutputID from storage key: %w", outputIDErr)
			return false
		}

		outputInfo, _, outputInfoErr := utxo.OutputInfoFromBytes(value)
		if outputInfoErr != nil {
			err = errors.Errorf("failed to parse OutputInfo from storage value: %w", outputInfoErr)
			return false
		}

		return consumer(outputID, outputInfo)
	})
	if iterationErr != nil {
		return errors.Errorf("failed to iterate outputs: %w", cerrors.ErrFatal)
	}

	return err
}

// Resolver returns an OutputResolver that answers lookups from the Storage. Lookup errors surface as unresolved
// outputs; the verifier reports them per input.
func (s *Storage) Resolver() OutputResolver {
	return ResolverFunc(func(outputID utxo.OutputID) (outputInfo *utxo.OutputInfo, exists bool) {
		outputInfo, exists, err := s.Output(outputID)
		if err != nil {
			return nil, false
		}

		return outputInfo, exists
	})
}

// outputKey returns the storage key of the given OutputID.
func (s *Storage) outputKey(outputID utxo.OutputID) kvstore.Key {
	return byteutils.ConcatBytes([]byte{prefixUnspentOutputs}, outputID.Bytes())
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
