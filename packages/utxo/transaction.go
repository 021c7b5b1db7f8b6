package utxo

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/address/signaturescheme"
)

// region Transaction //////////////////////////////////////////////////////////////////////////////////////////////////

// Transaction moves funds from a list of consumed Outputs to a list of newly created Outputs. It is immutable and
// identified by the hash of its serialized content.
type Transaction struct {
	inputs  Inputs
	outputs Outputs

	id      *TransactionID
	idMutex sync.RWMutex

	bytes      []byte
	bytesMutex sync.RWMutex
}

// NewTransaction creates a new Transaction from the given details.
func NewTransaction(inputs Inputs, outputs Outputs) *Transaction {
	return &Transaction{
		inputs:  inputs,
		outputs: outputs,
	}
}

// TransactionFromBytes unmarshals a Transaction from a sequence of bytes.
func TransactionFromBytes(bytes []byte) (transaction *Transaction, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if transaction, err = TransactionFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Transaction from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// TransactionFromMarshalUtil unmarshals a Transaction using a MarshalUtil.
func TransactionFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (transaction *Transaction, err error) {
	transaction = &Transaction{}
	if transaction.inputs, err = InputsFromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse Inputs: %w", err)
	}
	if transaction.outputs, err = OutputsFromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse Outputs: %w", err)
	}

	return transaction, nil
}

// ID returns the identifier of the Transaction. It is calculated lazily from the serialized content and cached for
// later calls.
func (t *Transaction) ID() TransactionID {
	t.idMutex.RLock()
	if t.id != nil {
		defer t.idMutex.RUnlock()

		return *t.id
	}

	t.idMutex.RUnlock()
	t.idMutex.Lock()
	defer t.idMutex.Unlock()

	if t.id != nil {
		return *t.id
	}

	id := NewTransactionID(t.Bytes())
	t.id = &id

	return id
}

// Inputs returns the ordered list of Inputs that the Transaction consumes.
func (t *Transaction) Inputs() Inputs {
	return t.inputs
}

// Outputs returns the ordered list of Outputs that the Transaction creates.
func (t *Transaction) Outputs() Outputs {
	return t.outputs
}

// SigningPayload returns the message that needs to be signed to authorize the spend of the given consumed Output from
// within this Transaction.
func (t *Transaction) SigningPayload(consumedOutputID OutputID) []byte {
	return SigningPayload(consumedOutputID, t.outputs)
}

// Bytes returns a marshaled version of the Transaction. The result is cached since the Transaction is immutable.
func (t *Transaction) Bytes() []byte {
	t.bytesMutex.RLock()
	if t.bytes != nil {
		defer t.bytesMutex.RUnlock()

		return t.bytes
	}

	t.bytesMutex.RUnlock()
	t.bytesMutex.Lock()
	defer t.bytesMutex.Unlock()

	if t.bytes != nil {
		return t.bytes
	}

	t.bytes = marshalutil.New().
		WriteBytes(t.inputs.Bytes()).
		WriteBytes(t.outputs.Bytes()).
		Bytes()

	return t.bytes
}

// String returns a human-readable version of the Transaction.
func (t *Transaction) String() string {
	return stringify.Struct("Transaction",
		stringify.StructField("id", t.ID()),
		stringify.StructField("inputCount", uint64(len(t.inputs))),
		stringify.StructField("outputCount", uint64(len(t.outputs))),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region SigningPayload ///////////////////////////////////////////////////////////////////////////////////////////////

// SigningPayload builds the message that authorizes spending the given Output in a Transaction with the given list of
// Outputs. The message binds the referenced Transaction hash, the referenced output index and the full output list of
// the spending Transaction, so a Signature can be produced before the spending Transaction is assembled.
func SigningPayload(consumedOutputID OutputID, outputs Outputs) []byte {
	return marshalutil.New().
		Write(consumedOutputID.TransactionID).
		WriteUint16(consumedOutputID.Index).
		WriteBytes(outputs.Bytes()).
		Bytes()
}

// NewSignedInput creates an Input that spends the given Output with a valid Signature for a Transaction that creates
// the given list of Outputs.
func NewSignedInput(keyPair *ed25519.KeyPair, consumedOutputID OutputID, outputs Outputs) *Input {
	return NewInput(consumedOutputID, signaturescheme.Sign(keyPair, SigningPayload(consumedOutputID, outputs)))
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
