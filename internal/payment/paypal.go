package payment

import (
	"context"
	"strconv"

	paypal "github.com/plutov/paypal/v4"
)

// Paypal charges through the Orders API: create with intent CAPTURE, then an
// explicit capture call triggered by the client after approval.
type Paypal struct {
	client      *paypal.Client
	frontendURL string
}

func NewPaypal(clientID, secret, frontendURL string, live bool) (*Paypal, error) {
	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}
	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	return &Paypal{client: c, frontendURL: frontendURL}, nil
}

func (p *Paypal) Name() string { return "paypal" }

func (p *Paypal) CreateSession(ctx context.Context, in CreateSessionInput) (Session, error) {
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return Session{}, err
	}

	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: "USD",
				Value:    money(in.TotalPrice),
				Breakdown: &paypal.PurchaseUnitAmountBreakdown{
					ItemTotal: &paypal.Money{Currency: "USD", Value: money(in.ItemsPrice)},
					Shipping:  &paypal.Money{Currency: "USD", Value: money(in.ShippingPrice)},
				},
			},
			Description: in.Description,
		},
	}
	appContext := &paypal.ApplicationContext{
		ReturnURL: p.frontendURL + "/paypal-success",
		CancelURL: p.frontendURL + "/payment-cancel",
	}

	ord, err := p.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appContext)
	if err != nil {
		return Session{}, err
	}

	sess := Session{ID: ord.ID}
	for _, link := range ord.Links {
		if link.Rel == "approve" {
			sess.RedirectURL = link.Href
		}
	}
	return sess, nil
}

// Capture finalizes an approved PayPal order and returns the capture
// (transaction) id. An empty id means PayPal reported no capture.
func (p *Paypal) Capture(ctx context.Context, orderID string) (string, error) {
	if _, err := p.client.GetAccessToken(ctx); err != nil {
		return "", err
	}

	resp, err := p.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return "", err
	}

	if len(resp.PurchaseUnits) == 0 || resp.PurchaseUnits[0].Payments == nil ||
		len(resp.PurchaseUnits[0].Payments.Captures) == 0 {
		return "", nil
	}
	return resp.PurchaseUnits[0].Payments.Captures[0].ID, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
