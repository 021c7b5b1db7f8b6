package ledger

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/iotaledger/hive.go/generics/orderedmap"
	"github.com/iotaledger/hive.go/stringify"

	"github.com/spendlabs/txcore/packages/address"
	"github.com/spendlabs/txcore/packages/coin"
	"github.com/spendlabs/txcore/packages/utxo"
)

// region StakesView ///////////////////////////////////////////////////////////////////////////////////////////////////

// StakesView tracks how many coins each address holds. It is kept incrementally: applying a Transaction credits the
// receiving addresses and debits the addresses whose outputs were consumed, so the view always mirrors the unspent
// output mapping it was derived from. Addresses whose balance drops to zero are evicted.
type StakesView struct {
	stakes *orderedmap.OrderedMap[address.Address, coin.Coin]
	total  *big.Int
}

// NewStakesView returns a new, empty StakesView.
func NewStakesView() *StakesView {
	return &StakesView{
		stakes: orderedmap.New[address.Address, coin.Coin](),
		total:  big.NewInt(0),
	}
}

// Credit increases the stake of the given address.
func (s *StakesView) Credit(addr address.Address, amount coin.Coin) (err error) {
	current, _ := s.stakes.Get(addr)
	updated, err := current.Add(amount)
	if err != nil {
		return errors.Errorf("failed to credit %s to %s: %w", amount, addr, err)
	}

	s.stakes.Set(addr, updated)
	s.total.Add(s.total, amount.BigInt())

	return nil
}

// Debit decreases the stake of the given address. Debiting more than the address holds is reported as
// ErrBalanceUnderflow.
func (s *StakesView) Debit(addr address.Address, amount coin.Coin) (err error) {
	current, exists := s.stakes.Get(addr)
	if !exists || current < amount {
		return errors.Errorf("failed to debit %s from %s holding %s: %w", amount, addr, current, ErrBalanceUnderflow)
	}

	if updated := current - amount; updated == 0 {
		s.stakes.Delete(addr)
	} else {
		s.stakes.Set(addr, updated)
	}
	s.total.Sub(s.total, amount.BigInt())

	return nil
}

// ApplyTransaction folds the effect of an applied Transaction into the view, using its undo record to identify the
// holders of the consumed outputs.
func (s *StakesView) ApplyTransaction(transaction *utxo.Transaction, undo *TransactionUndo) (err error) {
	undo.ForEach(func(_ utxo.OutputID, outputInfo *utxo.OutputInfo) {
		if err != nil {
			return
		}
		err = s.Debit(outputInfo.Output().Address(), outputInfo.Output().Balance())
	})
	if err != nil {
		return errors.Errorf("failed to apply transaction %s: %w", transaction.ID(), err)
	}

	for _, output := range transaction.Outputs() {
		if err = s.Credit(output.Address(), output.Balance()); err != nil {
			return errors.Errorf("failed to apply transaction %s: %w", transaction.ID(), err)
		}
	}

	return nil
}

// RevertTransaction reverses the effect of a previously applied Transaction on the view.
func (s *StakesView) RevertTransaction(transaction *utxo.Transaction, undo *TransactionUndo) (err error) {
	for _, output := range transaction.Outputs() {
		if err = s.Debit(output.Address(), output.Balance()); err != nil {
			return errors.Errorf("failed to revert transaction %s: %w", transaction.ID(), err)
		}
	}

	undo.ForEach(func(_ utxo.OutputID, outputInfo *utxo.OutputInfo) {
		if err != nil {
			return
		}
		err = s.Credit(outputInfo.Output().Address(), outputInfo.Output().Balance())
	})
	if err != nil {
		return errors.Errorf("failed to revert transaction %s: %w", transaction.ID(), err)
	}

	return nil
}

// StakeOf returns the stake of the given address.
func (s *StakesView) StakeOf(addr address.Address) (stake coin.Coin) {
	stake, _ = s.stakes.Get(addr)
	return stake
}

// Total returns the sum of all stakes.
func (s *StakesView) Total() *big.Int {
	return new(big.Int).Set(s.total)
}

// Size returns the number of addresses holding a positive stake.
func (s *StakesView) Size() int {
	return s.stakes.Size()
}

// ForEach calls the given consumer for every address holding a positive stake, in first-credit order.
func (s *StakesView) ForEach(consumer func(addr address.Address, stake coin.Coin) bool) {
	s.stakes.ForEach(consumer)
}

// Clone returns an independent copy of the view.
func (s *StakesView) Clone() (cloned *StakesView) {
	cloned = NewStakesView()
	s.stakes.ForEach(func(addr address.Address, stake coin.Coin) bool {
		cloned.stakes.Set(addr, stake)
		return true
	})
	cloned.total.Set(s.total)

	return cloned
}

// Merge folds the stakes of the given view into the receiver.
func (s *StakesView) Merge(other *StakesView) (err error) {
	other.stakes.ForEach(func(addr address.Address, stake coin.Coin) bool {
		err = s.Credit(addr, stake)
		return err == nil
	})

	return err
}

// String returns a human-readable version of the StakesView.
func (s *StakesView) String() string {
	structBuilder := stringify.StructBuilder("StakesView")
	s.stakes.ForEach(func(addr address.Address, stake coin.Coin) bool {
		structBuilder.AddField(stringify.StructField(addr.Base58(), stake))
		return true
	})

	return structBuilder.String()
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
