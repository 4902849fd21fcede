package checkout

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mindstormbook/bookstore-backend/internal/payment"
	"github.com/mindstormbook/bookstore-backend/internal/user"
)

// StripeProcessor is the push-style processor: session creation plus signed
// webhook verification.
type StripeProcessor interface {
	payment.Processor
	VerifyCompletion(payload []byte, signature string) (payment.Completion, error)
}

// PaypalProcessor is the pull-style processor: session creation plus an
// explicit capture call.
type PaypalProcessor interface {
	payment.Processor
	Capture(ctx context.Context, orderID string) (string, error)
}

type Handler struct {
	service *Service
	stripe  StripeProcessor
	paypal  PaypalProcessor
}

func NewHandler(service *Service, stripe StripeProcessor, paypal PaypalProcessor) *Handler {
	return &Handler{service: service, stripe: stripe, paypal: paypal}
}

// The webhook must stay outside the JWT middleware: Stripe authenticates
// with its signature, not a bearer token.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/stripe/webhook", h.stripeWebhook)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/stripe/checkout", h.stripeCheckout)
	app.Post("/api/v1/paypal/checkout", h.paypalCheckout)
	app.Post("/api/v1/paypal/capture", h.paypalCapture)
}

func (h *Handler) stripeCheckout(c *fiber.Ctx) error {
	sess, ok := h.initiate(c, h.stripe)
	if !ok {
		return nil
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": sess.RedirectURL})
}

// The PayPal client exchanges the order id for a processor-hosted approval
// page, so only the id goes back.
func (h *Handler) paypalCheckout(c *fiber.Ctx) error {
	sess, ok := h.initiate(c, h.paypal)
	if !ok {
		return nil
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": sess.ID})
}

// initiate runs the shared checkout steps and writes the error response
// itself when something fails; ok reports whether sess is usable.
func (h *Handler) initiate(c *fiber.Ctx, proc payment.Processor) (payment.Session, bool) {
	payload := new(CheckoutRequest)
	if err := c.BodyParser(payload); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		return payment.Session{}, false
	}
	if len(payload.OrderItems) == 0 {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart cannot be empty"})
		return payment.Session{}, false
	}
	for _, ref := range payload.OrderItems {
		if ref.ID == "" || ref.Quantity <= 0 {
			c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "order items need an id and a positive quantity"})
			return payment.Session{}, false
		}
	}
	if payload.ItemsPrice < 0 || payload.ShippingPrice < 0 || payload.TotalPrice < 0 {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "prices must be non-negative"})
		return payment.Session{}, false
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		return payment.Session{}, false
	}

	sess, err := h.service.Initiate(c.UserContext(), userID, proc, *payload)
	if err != nil {
		c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "payment initiation failed: " + err.Error()})
		return payment.Session{}, false
	}
	return sess, true
}

func (h *Handler) stripeWebhook(c *fiber.Ctx) error {
	comp, err := h.stripe.VerifyCompletion(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		// Non-2xx so Stripe retries per its own policy.
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}
	if !comp.Completed {
		return c.SendString("Webhook received")
	}

	res, err := h.service.Reconcile(c.UserContext(), ReconcileInput{
		Method:        h.stripe.Name(),
		TransactionID: comp.TransactionID,
		SessionID:     comp.SessionID,
	})
	if err != nil {
		return h.reconcileError(c, err, false)
	}
	if res.Duplicate {
		return c.SendString("Order already exists")
	}
	return c.SendString("Order created")
}

type captureRequest struct {
	OrderID string `json:"orderID"`
}

func (h *Handler) paypalCapture(c *fiber.Ctx) error {
	payload := new(captureRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "orderID is required"})
	}

	captureCtx, cancel := context.WithTimeout(c.UserContext(), processorTimeout)
	defer cancel()
	transactionID, err := h.paypal.Capture(captureCtx, payload.OrderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "capture failed: " + err.Error()})
	}
	if transactionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid PayPal transaction"})
	}

	res, err := h.service.Reconcile(c.UserContext(), ReconcileInput{
		Method:        h.paypal.Name(),
		TransactionID: transactionID,
		SessionID:     payload.OrderID,
	})
	if err != nil {
		return h.reconcileError(c, err, true)
	}
	if res.Duplicate {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Order already exists"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "PayPal order saved successfully", "order": res.Order})
}

func (h *Handler) reconcileError(c *fiber.Ctx, err error, asJSON bool) error {
	status := fiber.StatusInternalServerError
	switch err {
	case ErrInvalidTransaction, ErrMetadataLost:
		status = fiber.StatusBadRequest
	case ErrUserMissing:
		status = fiber.StatusNotFound
	}
	if asJSON {
		return c.Status(status).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(status).SendString(err.Error())
}
