package coin

import (
	"math/big"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/marshalutil"
)

// MaxCoinValue is the highest amount of coins that a single Coin value (and therefore the total supply) can hold.
const MaxCoinValue = Coin(45_000_000_000_000_000)

var (
	// ErrCoinOverflow is returned when an arithmetic operation would exceed MaxCoinValue.
	ErrCoinOverflow = errors.New("coin value overflows the maximum supply")

	// ErrCoinUnderflow is returned when a subtraction would produce a negative amount of coins.
	ErrCoinUnderflow = errors.New("coin value underflow")
)

// region Coin /////////////////////////////////////////////////////////////////////////////////////////////////////////

// Coin represents a bounded, non-negative amount of funds. All arithmetic on Coins detects overflows instead of
// wrapping around.
type Coin uint64

// New creates a Coin from the given raw value. It returns an error if the value exceeds MaxCoinValue.
func New(value uint64) (result Coin, err error) {
	if Coin(value) > MaxCoinValue {
		return 0, errors.Errorf("failed to create Coin from %d: %w", value, ErrCoinOverflow)
	}

	return Coin(value), nil
}

// FromBytes unmarshals a Coin from a sequence of bytes.
func FromBytes(bytes []byte) (result Coin, consumedBytes int, err error) {
	marshalUtil := marshalutil.New(bytes)
	if result, err = FromMarshalUtil(marshalUtil); err != nil {
		err = errors.Errorf("failed to parse Coin from MarshalUtil: %w", err)
		return
	}
	consumedBytes = marshalUtil.ReadOffset()

	return
}

// FromMarshalUtil unmarshals a Coin using a MarshalUtil (for easier unmarshaling when the Coin is part of a bigger
// structure).
func FromMarshalUtil(marshalUtil *marshalutil.MarshalUtil) (result Coin, err error) {
	value, err := marshalUtil.ReadUint64()
	if err != nil {
		return 0, errors.Errorf("failed to parse Coin value: %w", err)
	}
	if result, err = New(value); err != nil {
		return 0, errors.Errorf("failed to parse Coin: %w", err)
	}

	return result, nil
}

// Add returns the sum of the two Coins. It returns an error if the sum exceeds MaxCoinValue.
func (c Coin) Add(other Coin) (result Coin, err error) {
	if other > MaxCoinValue-c {
		return 0, errors.Errorf("failed to add %s to %s: %w", other, c, ErrCoinOverflow)
	}

	return c + other, nil
}

// Subtract returns the difference of the two Coins. It returns an error if the subtrahend is bigger than the Coin
// itself.
func (c Coin) Subtract(other Coin) (result Coin, err error) {
	if other > c {
		return 0, errors.Errorf("failed to subtract %s from %s: %w", other, c, ErrCoinUnderflow)
	}

	return c - other, nil
}

// Value returns the raw value of the Coin.
func (c Coin) Value() uint64 {
	return uint64(c)
}

// BigInt returns the value of the Coin as an arbitrary-precision integer. Summations over many Coins are carried out
// in this representation so that the bounded range of a single Coin can never cause a spurious overflow.
func (c Coin) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(c))
}

// Bytes returns a marshaled version of the Coin.
func (c Coin) Bytes() []byte {
	return marshalutil.New(marshalutil.Uint64Size).
		WriteUint64(uint64(c)).
		Bytes()
}

// String returns a human-readable version of the Coin.
func (c Coin) String() string {
	return "Coin(" + strconv.FormatUint(uint64(c), 10) + ")"
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////

// region Sum //////////////////////////////////////////////////////////////////////////////////////////////////////////

// Sum accumulates the given Coins into an arbitrary-precision integer. The result can exceed MaxCoinValue and is
// therefore only used for comparisons (i.e. checking that a transaction does not create value).
func Sum(coins ...Coin) (sum *big.Int) {
	sum = new(big.Int)
	for _, c := range coins {
		sum.Add(sum, c.BigInt())
	}

	return sum
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
