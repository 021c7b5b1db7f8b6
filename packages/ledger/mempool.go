package ledger

import (
	"sync"

	"github.com/iotaledger/hive.go/generics/orderedmap"
	"github.com/iotaledger/hive.go/stringify"
	"go.uber.org/atomic"

	"github.com/spendlabs/txcore/packages/utxo"
)

// region MemPool //////////////////////////////////////////////////////////////////////////////////////////////////////

// MemPool holds the Transactions that were received but not yet applied to the authoritative state. Iteration follows
// insertion order and the element count is tracked separately, so Size never has to walk the pool.
type MemPool struct {
	transactions *orderedmap.OrderedMap[utxo.TransactionID, *utxo.Transaction]
	size         *atomic.Int64

	mutex sync.RWMutex
}

// NewMemPool returns a new, empty MemPool.
func NewMemPool() *MemPool {
	return &MemPool{
		transactions: orderedmap.New[utxo.TransactionID, *utxo.Transaction](),
		size:         atomic.NewInt64(0),
	}
}

// Insert adds a Transaction to the pool. Inserting an already known Transaction is a no-op.
func (m *MemPool) Insert(transaction *utxo.Transaction) (inserted bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	txID := transaction.ID()
	if _, exists := m.transactions.Get(txID); exists {
		return false
	}

	m.transactions.Set(txID, transaction)
	m.size.Inc()

	return true
}

// Remove deletes the Transaction with the given identifier from the pool.
func (m *MemPool) Remove(txID utxo.TransactionID) (removed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if removed = m.transactions.Delete(txID); removed {
		m.size.Dec()
	}

	return removed
}

// Get returns the Transaction with the given identifier.
func (m *MemPool) Get(txID utxo.TransactionID) (transaction *utxo.Transaction, exists bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.transactions.Get(txID)
}

// Has returns true if the pool contains a Transaction with the given identifier.
func (m *MemPool) Has(txID utxo.TransactionID) (has bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, has = m.transactions.Get(txID)
	return has
}

// Size returns the number of Transactions in the pool.
func (m *MemPool) Size() int {
	return int(m.size.Load())
}

// ForEach calls the given consumer for every Transaction in insertion order until it returns false.
func (m *MemPool) ForEach(consumer func(txID utxo.TransactionID, transaction *utxo.Transaction) bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	m.transactions.ForEach(consumer)
}

// Transactions returns the pooled Transactions in insertion order.
func (m *MemPool) Transactions() (transactions []*utxo.Transaction) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	transactions = make([]*utxo.Transaction, 0, m.transactions.Size())
	m.transactions.ForEach(func(_ utxo.TransactionID, transaction *utxo.Transaction) bool {
		transactions = append(transactions, transaction)
		return true
	})

	return transactions
}

// String returns a human-readable version of the MemPool.
func (m *MemPool) String() string {
	return stringify.Struct("MemPool",
		stringify.StructField("size", uint64(m.Size())),
	)
}

// endregion ///////////////////////////////////////////////////////////////////////////////////////////////////////////
