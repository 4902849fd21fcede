package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/mindstormbook/bookstore-backend/internal/payment"
)

type fakeStripe struct {
	fakeProcessor
	completion payment.Completion
	verifyErr  error
}

func (p *fakeStripe) VerifyCompletion([]byte, string) (payment.Completion, error) {
	if p.verifyErr != nil {
		return payment.Completion{}, p.verifyErr
	}
	return p.completion, nil
}

type fakePaypal struct {
	fakeProcessor
	captureID  string
	captureErr error
}

func (p *fakePaypal) Capture(_ context.Context, orderID string) (string, error) {
	if p.captureErr != nil {
		return "", p.captureErr
	}
	return p.captureID, nil
}

// testAuth stands in for the JWT middleware and stores the same locals shape
// it would.
func testAuth(userID int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": float64(userID)}})
		return c.Next()
	}
}

func newTestApp(t *testing.T, stripe *fakeStripe, paypal *fakePaypal, authed bool) (*fiber.App, fixture) {
	t.Helper()
	f := newFixture(t)
	h := NewHandler(f.svc, stripe, paypal)

	app := fiber.New()
	h.RegisterPublicRoutes(app)
	if authed {
		app.Use(testAuth(7))
	}
	h.RegisterProtectedRoutes(app)
	return app, f
}

func jsonRequest(method, target string, body any) *http.Request {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestStripeCheckoutHandler(t *testing.T) {
	stripe := &fakeStripe{fakeProcessor: fakeProcessor{name: "stripe", session: payment.Session{ID: "sess_1", RedirectURL: "https://pay/1"}}}
	app, f := newTestApp(t, stripe, &fakePaypal{}, true)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/stripe/checkout", digitalRequest()), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["url"] != "https://pay/1" {
		t.Errorf("expected redirect url, got %+v", body)
	}
	if stripe.gotIn.ShippingPrice != 0 {
		t.Errorf("digital cart charged shipping: %v", stripe.gotIn.ShippingPrice)
	}
	if _, err := f.intents.Get(context.Background(), "sess_1"); err != nil {
		t.Errorf("intent not persisted: %v", err)
	}
}

func TestStripeCheckoutHandler_Unauthorized(t *testing.T) {
	app, _ := newTestApp(t, &fakeStripe{}, &fakePaypal{}, false)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/stripe/checkout", digitalRequest()), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestStripeCheckoutHandler_EmptyCart(t *testing.T) {
	app, _ := newTestApp(t, &fakeStripe{}, &fakePaypal{}, true)

	req := digitalRequest()
	req.OrderItems = nil
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/stripe/checkout", req), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestStripeWebhookHandler(t *testing.T) {
	stripe := &fakeStripe{
		fakeProcessor: fakeProcessor{name: "stripe", session: payment.Session{ID: "sess_1"}},
		completion:    payment.Completion{SessionID: "sess_1", TransactionID: "TX1", Completed: true},
	}
	app, f := newTestApp(t, stripe, &fakePaypal{}, true)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/stripe/checkout", digitalRequest()), -1)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout failed: %v %d", err, resp.StatusCode)
	}

	hook := httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", strings.NewReader("{}"))
	hook.Header.Set("Stripe-Signature", "sig")

	resp, err = app.Test(hook, -1)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "Order created" {
		t.Fatalf("expected order creation, got %d %q", resp.StatusCode, body)
	}

	ord, err := f.orders.FindByTransactionID("TX1")
	if err != nil {
		t.Fatalf("order not stored: %v", err)
	}
	if ord.Payment.Method != "stripe" {
		t.Errorf("unexpected payment method %q", ord.Payment.Method)
	}

	// Redelivery of the same event.
	hook = httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", strings.NewReader("{}"))
	hook.Header.Set("Stripe-Signature", "sig")
	resp, err = app.Test(hook, -1)
	if err != nil {
		t.Fatalf("webhook redelivery: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "Order already exists" {
		t.Errorf("expected duplicate acknowledgement, got %d %q", resp.StatusCode, body)
	}
}

func TestStripeWebhookHandler_BadSignature(t *testing.T) {
	stripe := &fakeStripe{verifyErr: errors.New("bad signature")}
	app, _ := newTestApp(t, stripe, &fakePaypal{}, true)

	hook := httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", strings.NewReader("{}"))
	resp, err := app.Test(hook, -1)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusBadRequest || !strings.HasPrefix(string(body), "Webhook Error:") {
		t.Errorf("expected webhook error, got %d %q", resp.StatusCode, body)
	}
}

func TestStripeWebhookHandler_IgnoredEvent(t *testing.T) {
	stripe := &fakeStripe{completion: payment.Completion{Completed: false}}
	app, _ := newTestApp(t, stripe, &fakePaypal{}, true)

	hook := httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", strings.NewReader("{}"))
	resp, err := app.Test(hook, -1)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "Webhook received" {
		t.Errorf("expected plain acknowledgement, got %d %q", resp.StatusCode, body)
	}
}

func TestStripeWebhookHandler_MetadataLost(t *testing.T) {
	stripe := &fakeStripe{completion: payment.Completion{SessionID: "sess_unknown", TransactionID: "TX1", Completed: true}}
	app, _ := newTestApp(t, stripe, &fakePaypal{}, true)

	hook := httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", strings.NewReader("{}"))
	resp, err := app.Test(hook, -1)
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for lost metadata, got %d", resp.StatusCode)
	}
}

func TestPaypalCheckoutHandler(t *testing.T) {
	paypal := &fakePaypal{fakeProcessor: fakeProcessor{name: "paypal", session: payment.Session{ID: "PAYID-1", RedirectURL: "https://paypal/approve"}}}
	app, _ := newTestApp(t, &fakeStripe{}, paypal, true)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/paypal/checkout", physicalRequest()), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "PAYID-1" {
		t.Errorf("expected the paypal order id, got %+v", body)
	}
	if paypal.gotIn.ShippingPrice != 4.50 {
		t.Errorf("physical cart lost its shipping charge: %v", paypal.gotIn.ShippingPrice)
	}
}

func TestPaypalCaptureHandler(t *testing.T) {
	paypal := &fakePaypal{
		fakeProcessor: fakeProcessor{name: "paypal", session: payment.Session{ID: "PAYID-1"}},
		captureID:     "CAP-1",
	}
	app, f := newTestApp(t, &fakeStripe{}, paypal, true)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/paypal/checkout", physicalRequest()), -1)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout failed: %v %d", err, resp.StatusCode)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/v1/paypal/capture", fiber.Map{"orderID": "PAYID-1"}), -1)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d %q", resp.StatusCode, body)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "PayPal order saved successfully" {
		t.Errorf("unexpected message %q", body.Message)
	}

	ord, err := f.orders.FindByTransactionID("CAP-1")
	if err != nil {
		t.Fatalf("order not stored: %v", err)
	}
	if ord.Payment.Method != "paypal" || ord.OrderStatus != "pending" {
		t.Errorf("unexpected order %+v", ord)
	}
}

func TestPaypalCaptureHandler_InvalidTransaction(t *testing.T) {
	paypal := &fakePaypal{fakeProcessor: fakeProcessor{name: "paypal"}, captureID: ""}
	app, _ := newTestApp(t, &fakeStripe{}, paypal, true)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/paypal/capture", fiber.Map{"orderID": "PAYID-1"}), -1)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty capture id, got %d", resp.StatusCode)
	}
}

func TestPaypalCaptureHandler_MissingOrderID(t *testing.T) {
	app, _ := newTestApp(t, &fakeStripe{}, &fakePaypal{}, true)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/paypal/capture", fiber.Map{}), -1)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
