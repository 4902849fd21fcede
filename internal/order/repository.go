package order

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateTransaction is returned by Create when an order with the
	// same payment transaction id already exists. Callers treat it as the
	// already-processed outcome, not a failure.
	ErrDuplicateTransaction = errors.New("order already exists for transaction")
)

type Repository interface {
	Create(ord Order) (Order, error)
	FindByTransactionID(transactionID string) (Order, error)
	GetByID(id string) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)
}

// InMemoryRepository backs tests and local scenarios. It enforces the same
// transaction-id uniqueness the postgres unique index provides.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	byTxn  map[string]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byTxn: make(map[string]int)}
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTxn[ord.Payment.TransactionID]; exists {
		return Order{}, ErrDuplicateTransaction
	}
	r.byTxn[ord.Payment.TransactionID] = len(r.orders)
	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) FindByTransactionID(transactionID string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byTxn[transactionID]
	if !ok {
		return Order{}, ErrNotFound
	}
	return r.orders[idx], nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ord := range r.orders {
		if ord.ID == id {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.User.ID == userID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}
