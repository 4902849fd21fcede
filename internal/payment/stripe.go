package payment

import (
	"context"
	"encoding/json"
	"math"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Stripe charges through hosted Checkout Sessions and confirms through a
// signed webhook.
type Stripe struct {
	webhookSecret string
	frontendURL   string
}

func NewStripe(secretKey, webhookSecret, frontendURL string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{webhookSecret: webhookSecret, frontendURL: frontendURL}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateSession(ctx context.Context, in CreateSessionInput) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(s.frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(s.frontendURL + "/payment-cancel"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
					UnitAmount: stripe.Int64(toCents(in.TotalPrice)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: sess.ID, RedirectURL: sess.URL}, nil
}

// VerifyCompletion validates the webhook signature and extracts the session
// and transaction ids from a checkout.session.completed event. Authentic
// events of other types come back with Completed=false.
func (s *Stripe) VerifyCompletion(payload []byte, signature string) (Completion, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return Completion{}, err
	}

	if event.Type != "checkout.session.completed" {
		return Completion{}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return Completion{}, err
	}

	comp := Completion{SessionID: sess.ID, Completed: true}
	if sess.PaymentIntent != nil {
		comp.TransactionID = sess.PaymentIntent.ID
	}
	return comp, nil
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
