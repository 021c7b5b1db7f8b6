package utxo

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/generics/set"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/types"
	"github.com/mr-tron/base58"
)

// region TransactionID ////////////////////////////////////////////////////////////////////////////////////////////////

// TransactionID is the unique, content-derived identifier of a Transaction.
type TransactionID struct {
	types.Identifier
}

// NewTransactionID returns the TransactionID for the given serialized transaction data.
func NewTransactionID(txData []byte) TransactionID {
	return TransactionID{
		types.NewIdentifier(txData),
	}
}

// FromMarshalUtil un-serializes a TransactionID using a MarshalUtil.
func (t *TransactionID) FromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (err error) {
	if err = t.Identifier.FromMarshalUtil(marshalUtil); err != nil {
		return errors.Errorf("failed to parse TransactionID: %w", err)
	}

	return nil
}

// Unmarshal un-serializes a TransactionID using a MarshalUtil (additional signature required for generic collections).
func (t TransactionID) Unmarshal(marshalUtil *marshalutil.MarshalUtil) (txID TransactionID, err error) {
	err = txID.FromMarshalUtil(marshalUtil)
	return txID, err
}

// String returns a human-readable version of the TransactionID.
func (t TransactionID) String() string {
	return "TransactionID(" + t.Alias() + ")"
}

// EmptyTransactionID contains the null-value of the TransactionID type.
var EmptyTransactionID TransactionID

// TransactionIDLength contains the byte length of a serialized TransactionID.
const TransactionIDLength = types.IdentifierLength

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region TransactionIDs ///////////////////////////////////////////////////////////////////////////////////////////////

// TransactionIDs represents a collection of TransactionIDs.
type TransactionIDs = *set.AdvancedSet[TransactionID]

// NewTransactionIDs returns a new TransactionID collection with the given elements.
func NewTransactionIDs(ids ...TransactionID) TransactionIDs {
	return set.NewAdvancedSet[TransactionID](ids...)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputID /////////////////////////////////////////////////////////////////////////////////////////////////////

// OutputID is the unique identifier of an Output. It doubles as the key of the unspent output mapping: an Output is
// addressed by the Transaction that created it and its position in that Transaction's output list.
type OutputID struct {
	TransactionID TransactionID
	Index         uint16
}

// NewOutputID returns a new OutputID for the given details.
func NewOutputID(txID TransactionID, index uint16) OutputID {
	return OutputID{
		TransactionID: txID,
		Index:         index,
	}
}

// OutputIDFromBytes unmarshals an OutputID from a sequence of bytes.
func OutputIDFromBytes(bytes []byte) (outputID OutputID, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if err = outputID.FromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse OutputID from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// FromMarshalUtil un-serializes an OutputID using a MarshalUtil.
func (o *OutputID) FromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (err error) {
	if err = o.TransactionID.FromMarshalUtil(marshalUtil); err != nil {
		return errors.Errorf("failed to parse TransactionID: %w", err)
	}
	if o.Index, err = marshalUtil.ReadUint16(); err != nil {
		return errors.Errorf("failed to parse Index: %w", err)
	}

	return nil
}

// Unmarshal un-serializes an OutputID using a MarshalUtil (additional signature required for generic collections).
func (o OutputID) Unmarshal(marshalUtil *marshalutil.MarshalUtil) (outputID OutputID, err error) {
	err = outputID.FromMarshalUtil(marshalUtil)
	return outputID, err
}

// Base58 returns a base58 encoded version of the OutputID.
func (o OutputID) Base58() string {
	return base58.Encode(o.Bytes())
}

// Bytes returns a serialized version of the OutputID.
func (o OutputID) Bytes() []byte {
	return marshalutil.New(OutputIDLength).
		Write(o.TransactionID).
		WriteUint16(o.Index).
		Bytes()
}

// String returns a human-readable version of the OutputID.
func (o OutputID) String() string {
	return "OutputID(" + o.TransactionID.Alias() + ", " + strconv.Itoa(int(o.Index)) + ")"
}

// EmptyOutputID contains the null-value of the OutputID type.
var EmptyOutputID OutputID

// OutputIDLength contains the byte length of a serialized OutputID.
const OutputIDLength = TransactionIDLength + marshalutil.Uint16Size

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputIDs ////////////////////////////////////////////////////////////////////////////////////////////////////

// OutputIDs represents a collection of OutputIDs.
type OutputIDs = *set.AdvancedSet[OutputID]

// NewOutputIDs returns a new OutputID collection with the given elements.
func NewOutputIDs(ids ...OutputID) OutputIDs {
	return set.NewAdvancedSet[OutputID](ids...)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
