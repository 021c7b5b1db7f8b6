package utxo

import (
	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/address/signaturescheme"
)

// region Input ////////////////////////////////////////////////////////////////////////////////////////////////////////

// Input consumes an unspent Output. It references the Output by the Transaction that created it and the position in
// that Transaction's output list, and it carries the Signature that authorizes the spend.
type Input struct {
	consumedOutputID OutputID
	signature        *signaturescheme.Signature
}

// NewInput creates a new Input from the given details.
func NewInput(consumedOutputID OutputID, signature *signaturescheme.Signature) *Input {
	return &Input{
		consumedOutputID: consumedOutputID,
		signature:        signature,
	}
}

// InputFromMarshalUtil unmarshals an Input using a MarshalUtil (for easier unmarshaling).
func InputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (input *Input, err error) {
	input = &Input{}
	if err = input.consumedOutputID.FromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse consumed OutputID: %w", err)
	}
	if input.signature, err = signaturescheme.FromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse Signature: %w", err)
	}

	return input, nil
}

// ConsumedOutputID returns the identifier of the Output that the Input spends.
func (i *Input) ConsumedOutputID() OutputID {
	return i.consumedOutputID
}

// Signature returns the Signature that authorizes the spend.
func (i *Input) Signature() *signaturescheme.Signature {
	return i.signature
}

// Bytes returns a marshaled version of the Input.
func (i *Input) Bytes() []byte {
	return marshalutil.New().
		WriteBytes(i.consumedOutputID.Bytes()).
		WriteBytes(i.signature.Bytes()).
		Bytes()
}

// String returns a human-readable version of the Input.
func (i *Input) String() string {
	return stringify.Struct("Input",
		stringify.StructField("consumedOutputID", i.consumedOutputID),
		stringify.StructField("signature", i.signature),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Inputs ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Inputs represents the ordered list of Inputs of a Transaction.
type Inputs []*Input

// InputsFromMarshalUtil unmarshals a list of Inputs using a MarshalUtil.
func InputsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (inputs Inputs, err error) {
	inputCount, err := marshalUtil.ReadUint32()
	if err != nil {
		return nil, errors.Errorf("failed to parse input count: %w", err)
	}

	inputs = make(Inputs, inputCount)
	for i := uint32(0); i < inputCount; i++ {
		if inputs[i], err = InputFromMarshalUtil(marshalUtil); err != nil {
			return nil, errors.Errorf("failed to parse Input: %w", err)
		}
	}

	return inputs, nil
}

// ConsumedOutputIDs returns the identifiers of all Outputs that the Inputs spend, in input order.
func (i Inputs) ConsumedOutputIDs() (consumedOutputIDs []OutputID) {
	consumedOutputIDs = make([]OutputID, len(i))
	for index, input := range i {
		consumedOutputIDs[index] = input.ConsumedOutputID()
	}

	return consumedOutputIDs
}

// Bytes returns a marshaled version of the Inputs.
func (i Inputs) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint32(uint32(len(i)))
	for _, input := range i {
		marshalUtil.WriteBytes(input.Bytes())
	}

	return marshalUtil.Bytes()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
