package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mindstormbook/bookstore-backend/internal/order"
	"github.com/mindstormbook/bookstore-backend/internal/payment"
	"github.com/mindstormbook/bookstore-backend/internal/user"
)

var (
	// ErrMetadataLost means no checkout intent exists for the session id of a
	// completed payment. Money has moved but the cart contents are gone; the
	// case needs manual reconciliation.
	ErrMetadataLost = errors.New("checkout metadata not found")
	// ErrUserMissing means the purchaser recorded in the intent no longer
	// resolves to an account.
	ErrUserMissing = errors.New("checkout user not found")
	// ErrInvalidTransaction means a completion signal carried no usable
	// transaction id.
	ErrInvalidTransaction = errors.New("missing transaction id")
)

const (
	defaultIntentTTL  = 24 * time.Hour
	processorTimeout  = 15 * time.Second
	orderDescription  = "Book Store Order Payment"
	paymentStatusPaid = "paid"
)

// CheckoutRequest is the client checkout payload. Only ids, types and
// quantities of OrderItems are ever trusted; prices are re-derived.
type CheckoutRequest struct {
	ShippingInfo  order.ShippingInfo `json:"shippingInfo"`
	OrderItems    []order.LineRef    `json:"orderItems"`
	ItemsPrice    float64            `json:"itemsPrice"`
	ShippingPrice float64            `json:"shippingPrice"`
	TotalPrice    float64            `json:"totalPrice"`
}

type Service struct {
	intents   IntentStore
	orders    order.ServiceInterface
	users     user.ServiceInterface
	resolver  *Resolver
	intentTTL time.Duration
}

func NewService(intents IntentStore, orders order.ServiceInterface, users user.ServiceInterface, resolver *Resolver) *Service {
	return &Service{
		intents:   intents,
		orders:    orders,
		users:     users,
		resolver:  resolver,
		intentTTL: defaultIntentTTL,
	}
}

// Initiate creates a payment session with the given processor and persists
// the checkout intent keyed by the returned session id. Nothing is persisted
// unless the processor confirmed session creation, so a failed or timed-out
// call leaves no state behind.
func (s *Service) Initiate(ctx context.Context, userID int, proc payment.Processor, req CheckoutRequest) (payment.Session, error) {
	// Classification here uses the client-declared types. It only decides
	// whether to zero the shipping charge; final pricing and classification
	// happen again at reconciliation from catalog data.
	orderType := order.TypeOfRefs(req.OrderItems)
	shippingInfo := req.ShippingInfo
	shippingPrice := req.ShippingPrice
	if order.IsDigitalOnly(orderType) {
		shippingInfo = order.ShippingInfo{}
		shippingPrice = 0
	}

	callCtx, cancel := context.WithTimeout(ctx, processorTimeout)
	defer cancel()

	sess, err := proc.CreateSession(callCtx, payment.CreateSessionInput{
		TotalPrice:    req.TotalPrice,
		ItemsPrice:    req.ItemsPrice,
		ShippingPrice: shippingPrice,
		Description:   orderDescription,
	})
	if err != nil {
		return payment.Session{}, err
	}

	intent := CheckoutIntent{
		SessionID:     sess.ID,
		UserID:        userID,
		ShippingInfo:  shippingInfo,
		Items:         req.OrderItems,
		ItemsPrice:    req.ItemsPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    req.TotalPrice,
		OrderType:     orderType,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.intents.Put(ctx, intent, s.intentTTL); err != nil {
		return payment.Session{}, err
	}

	return sess, nil
}

// ReconcileInput is the common shape both completion paths converge to once
// the signal is verified: webhook (stripe) and capture call (paypal).
type ReconcileInput struct {
	Method        string
	TransactionID string
	SessionID     string
}

type ReconcileResult struct {
	Order order.Order
	// Duplicate marks the already-processed outcome: an order for this
	// transaction id existed before this invocation.
	Duplicate bool
}

// Reconcile turns a verified payment completion into exactly one order.
// Safe to invoke any number of times for the same transaction id, including
// concurrently: the duplicate check short-circuits repeats, and the unique
// index on the transaction id catches the check-then-insert race.
func (s *Service) Reconcile(ctx context.Context, in ReconcileInput) (ReconcileResult, error) {
	if in.TransactionID == "" {
		return ReconcileResult{}, ErrInvalidTransaction
	}

	if existing, err := s.orders.FindByTransactionID(in.TransactionID); err == nil {
		return ReconcileResult{Order: existing, Duplicate: true}, nil
	} else if err != order.ErrNotFound {
		return ReconcileResult{}, err
	}

	intent, err := s.intents.Get(ctx, in.SessionID)
	if err != nil {
		if err == ErrIntentNotFound {
			log.Printf("checkout: payment %s completed but no intent for session %s; manual reconciliation required", in.TransactionID, in.SessionID)
			return ReconcileResult{}, ErrMetadataLost
		}
		return ReconcileResult{}, err
	}

	usr, err := s.users.GetByID(intent.UserID)
	if err != nil {
		if err == user.ErrNotFound {
			log.Printf("checkout: payment %s completed but user %d is gone; manual reconciliation required", in.TransactionID, intent.UserID)
			return ReconcileResult{}, ErrUserMissing
		}
		return ReconcileResult{}, err
	}

	// Re-resolve from the catalog; the resolved classification wins if the
	// cart drifted since initiation. Totals stay as charged.
	items := s.resolver.ResolveAll(intent.Items)
	orderType := order.TypeOfItems(items)
	shippingInfo := intent.ShippingInfo
	shippingPrice := intent.ShippingPrice
	status := order.StatusPending
	if order.IsDigitalOnly(orderType) {
		shippingInfo = order.ShippingInfo{}
		shippingPrice = 0
		status = order.StatusCompleted
	}

	ord := order.Order{
		ID: uuid.NewString(),
		User: order.UserSnapshot{
			ID:      usr.ID,
			Name:    usr.Name,
			Email:   usr.Email,
			Phone:   usr.Phone,
			Country: usr.Country,
		},
		ShippingInfo:  shippingInfo,
		OrderItems:    items,
		ItemsPrice:    intent.ItemsPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    intent.TotalPrice,
		Payment: order.PaymentInfo{
			Method:        in.Method,
			TransactionID: in.TransactionID,
			Status:        paymentStatusPaid,
		},
		OrderType:   orderType,
		OrderStatus: status,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	created, err := s.orders.Create(ord)
	if err == order.ErrDuplicateTransaction {
		// Lost a concurrent race for the same transaction; the winner's
		// order is the order.
		log.Printf("checkout: concurrent reconciliation for transaction %s resolved as duplicate", in.TransactionID)
		if existing, findErr := s.orders.FindByTransactionID(in.TransactionID); findErr == nil {
			return ReconcileResult{Order: existing, Duplicate: true}, nil
		}
		return ReconcileResult{Duplicate: true}, nil
	}
	if err != nil {
		log.Printf("checkout: payment %s charged but order insert failed: %v; manual reconciliation required", in.TransactionID, err)
		return ReconcileResult{}, err
	}

	// Intent deletion is not co-committed with the insert; a leftover intent
	// is inert because the next attempt hits the duplicate path.
	if err := s.intents.Delete(ctx, in.SessionID); err != nil {
		log.Printf("checkout: could not delete intent %s: %v", in.SessionID, err)
	}

	return ReconcileResult{Order: created}, nil
}
