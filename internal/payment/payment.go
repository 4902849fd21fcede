// Package payment wraps the two external payment processors behind one
// small capability so checkout and reconciliation are written once.
package payment

import "context"

// Session identifies a created payment session. RedirectURL is the hosted
// payment page for Stripe; for PayPal the client redirects using the ID.
type Session struct {
	ID          string
	RedirectURL string
}

// CreateSessionInput carries the amounts to charge. ShippingPrice is already
// zeroed for digital-only carts before it reaches an adapter.
type CreateSessionInput struct {
	TotalPrice    float64
	ItemsPrice    float64
	ShippingPrice float64
	Description   string
}

// Completion is the common shape both completion paths converge to.
type Completion struct {
	SessionID     string
	TransactionID string
	// Completed is false for signals that are authentic but not a payment
	// completion (e.g. other webhook event types).
	Completed bool
}

type Processor interface {
	Name() string
	CreateSession(ctx context.Context, in CreateSessionInput) (Session, error)
}
