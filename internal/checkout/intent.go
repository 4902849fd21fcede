package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mindstormbook/bookstore-backend/internal/order"
)

var ErrIntentNotFound = errors.New("checkout intent not found")

// CheckoutIntent records what a payment session was for, keyed by the
// processor's session/order id. It holds the original line references plus
// the charged amounts so reconciliation never trusts client or processor
// restated data. Consumed and deleted by the first successful reconciliation.
type CheckoutIntent struct {
	SessionID     string              `json:"sessionId"`
	UserID        int                 `json:"userId"`
	ShippingInfo  order.ShippingInfo  `json:"shippingInfo"`
	Items         []order.LineRef     `json:"orderItems"`
	ItemsPrice    float64             `json:"itemsPrice"`
	ShippingPrice float64             `json:"shippingPrice"`
	TotalPrice    float64             `json:"totalPrice"`
	OrderType     order.ItemType      `json:"orderType"`
	CreatedAt     time.Time           `json:"createdAt"`
	ExpiresAt     time.Time           `json:"expiresAt"`
}

// IntentStore is a durable keyed store. It must survive process restarts:
// the completion signal can arrive minutes later, to another instance.
type IntentStore interface {
	Put(ctx context.Context, intent CheckoutIntent, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (CheckoutIntent, error)
	Delete(ctx context.Context, sessionID string) error
	// DeleteExpired removes abandoned intents and reports how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// InMemoryIntentStore backs tests and local scenarios.
type InMemoryIntentStore struct {
	mu      sync.RWMutex
	intents map[string]CheckoutIntent
}

func NewInMemoryIntentStore() *InMemoryIntentStore {
	return &InMemoryIntentStore{intents: make(map[string]CheckoutIntent)}
}

func (s *InMemoryIntentStore) Put(_ context.Context, intent CheckoutIntent, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now().UTC()
	}
	intent.ExpiresAt = intent.CreatedAt.Add(ttl)
	s.intents[intent.SessionID] = intent
	return nil
}

func (s *InMemoryIntentStore) Get(_ context.Context, sessionID string) (CheckoutIntent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	intent, ok := s.intents[sessionID]
	if !ok {
		return CheckoutIntent{}, ErrIntentNotFound
	}
	return intent, nil
}

func (s *InMemoryIntentStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, sessionID)
	return nil
}

func (s *InMemoryIntentStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, intent := range s.intents {
		if intent.ExpiresAt.Before(now) {
			delete(s.intents, id)
			removed++
		}
	}
	return removed, nil
}
