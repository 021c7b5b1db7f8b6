package utxo

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/address"
	"github.com/spendlabs/txcore/packages/coin"
)

// region Output ///////////////////////////////////////////////////////////////////////////////////////////////////////

// Output represents the receiving end of a value transfer: an amount of coins locked to an Address.
type Output struct {
	address address.Address
	balance coin.Coin
}

// NewOutput creates a new Output from the given details.
func NewOutput(addr address.Address, balance coin.Coin) *Output {
	return &Output{
		address: addr,
		balance: balance,
	}
}

// OutputFromMarshalUtil unmarshals an Output using a MarshalUtil (for easier unmarshaling).
func OutputFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (output *Output, err error) {
	output = &Output{}
	if output.address, err = address.FromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse Address: %w", err)
	}
	if output.balance, err = coin.FromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse Coin: %w", err)
	}

	return output, nil
}

// Address returns the Address that the Output is locked to.
func (o *Output) Address() address.Address {
	return o.address
}

// Balance returns the amount of coins that the Output holds.
func (o *Output) Balance() coin.Coin {
	return o.balance
}

// Bytes returns a marshaled version of the Output.
func (o *Output) Bytes() []byte {
	return marshalutil.New(address.Length + marshalutil.Uint64Size).
		WriteBytes(o.address.Bytes()).
		WriteBytes(o.balance.Bytes()).
		Bytes()
}

// String returns a human-readable version of the Output.
func (o *Output) String() string {
	return stringify.Struct("Output",
		stringify.StructField("address", o.address),
		stringify.StructField("balance", o.balance),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Outputs //////////////////////////////////////////////////////////////////////////////////////////////////////

// Outputs represents the ordered list of Outputs of a Transaction. The position of an Output in this list is the
// Index of its OutputID.
type Outputs []*Output

// OutputsFromMarshalUtil unmarshals a list of Outputs using a MarshalUtil.
func OutputsFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (outputs Outputs, err error) {
	outputCount, err := marshalUtil.ReadUint32()
	if err != nil {
		return nil, errors.Errorf("failed to parse output count: %w", err)
	}

	outputs = make(Outputs, outputCount)
	for i := uint32(0); i < outputCount; i++ {
		if outputs[i], err = OutputFromMarshalUtil(marshalUtil); err != nil {
			return nil, errors.Errorf("failed to parse Output: %w", err)
		}
	}

	return outputs, nil
}

// TotalBalance returns the sum of the balances of all Outputs as an arbitrary-precision integer, so that summing
// bounded Coins can never overflow.
func (o Outputs) TotalBalance() (sum *big.Int) {
	sum = new(big.Int)
	for _, output := range o {
		sum.Add(sum, output.Balance().BigInt())
	}

	return sum
}

// Bytes returns a marshaled version of the Outputs.
func (o Outputs) Bytes() []byte {
	marshalUtil := marshalutil.New()
	marshalUtil.WriteUint32(uint32(len(o)))
	for _, output := range o {
		marshalUtil.WriteBytes(output.Bytes())
	}

	return marshalUtil.Bytes()
}

// String returns a human-readable version of the Outputs.
func (o Outputs) String() string {
	structBuilder := stringify.StructBuilder("Outputs")
	for i, output := range o {
		structBuilder.AddField(stringify.StructField(strconv.Itoa(i), output))
	}

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region OutputInfo ///////////////////////////////////////////////////////////////////////////////////////////////////

// OutputInfo bundles an Output with the auxiliary data that the ledger tracks for it (an opaque stake-distribution
// blob that this core carries along but never interprets).
type OutputInfo struct {
	output            *Output
	stakeDistribution []byte
}

// NewOutputInfo creates a new OutputInfo from the given details.
func NewOutputInfo(output *Output, stakeDistribution []byte) *OutputInfo {
	return &OutputInfo{
		output:            output,
		stakeDistribution: stakeDistribution,
	}
}

// OutputInfoFromBytes unmarshals an OutputInfo from a sequence of bytes.
func OutputInfoFromBytes(bytes []byte) (outputInfo *OutputInfo, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if outputInfo, err = OutputInfoFromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse OutputInfo from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// OutputInfoFromMarshalUtil unmarshals an OutputInfo using a MarshalUtil.
func OutputInfoFromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (outputInfo *OutputInfo, err error) {
	outputInfo = &OutputInfo{}
	if outputInfo.output, err = OutputFromMarshalUtil(marshalUtil); err != nil {
		return nil, errors.Errorf("failed to parse Output: %w", err)
	}
	stakeDistributionSize, err := marshalUtil.ReadUint32()
	if err != nil {
		return nil, errors.Errorf("failed to parse stake distribution size: %w", err)
	}
	if outputInfo.stakeDistribution, err = marshalUtil.ReadBytes(int(stakeDistributionSize)); err != nil {
		return nil, errors.Errorf("failed to parse stake distribution: %w", err)
	}

	return outputInfo, nil
}

// Output returns the Output that the OutputInfo decorates.
func (o *OutputInfo) Output() *Output {
	return o.output
}

// StakeDistribution returns the opaque stake-distribution metadata of the Output.
func (o *OutputInfo) StakeDistribution() []byte {
	return o.stakeDistribution
}

// Bytes returns a marshaled version of the OutputInfo.
func (o *OutputInfo) Bytes() []byte {
	return marshalutil.New().
		WriteBytes(o.output.Bytes()).
		WriteUint32(uint32(len(o.stakeDistribution))).
		WriteBytes(o.stakeDistribution).
		Bytes()
}

// String returns a human-readable version of the OutputInfo.
func (o *OutputInfo) String() string {
	return stringify.Struct("OutputInfo",
		stringify.StructField("output", o.output),
		stringify.StructField("stakeDistributionSize", uint64(len(o.stakeDistribution))),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
