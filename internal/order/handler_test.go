package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func newTestApp(t *testing.T, userID int, role string, seed ...Order) *fiber.App {
	t.Helper()
	repo := NewInMemoryRepository()
	for _, ord := range seed {
		if _, err := repo.Create(ord); err != nil {
			t.Fatalf("seed order %s: %v", ord.ID, err)
		}
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": float64(userID),
			"role":    role,
		}})
		return c.Next()
	})
	NewHandler(NewService(repo)).RegisterProtectedRoutes(app)
	return app
}

func orderFor(id string, userID int, txn string) Order {
	return Order{
		ID:          id,
		User:        UserSnapshot{ID: userID, Name: "Jane"},
		Payment:     PaymentInfo{Method: "stripe", TransactionID: txn, Status: "paid"},
		OrderType:   TypeEbook,
		OrderStatus: StatusCompleted,
	}
}

func TestGetOrders(t *testing.T) {
	app := newTestApp(t, 7, "user",
		orderFor("o1", 7, "TX1"),
		orderFor("o2", 8, "TX2"),
		orderFor("o3", 7, "TX3"),
	)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var orders []Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for user 7, got %d", len(orders))
	}
	for _, ord := range orders {
		if ord.User.ID != 7 {
			t.Errorf("foreign order leaked: %+v", ord)
		}
	}
}

func TestGetOrder_Owner(t *testing.T) {
	app := newTestApp(t, 7, "user", orderFor("o1", 7, "TX1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/order/o1", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var ord Order
	if err := json.NewDecoder(resp.Body).Decode(&ord); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ord.ID != "o1" || ord.Payment.TransactionID != "TX1" {
		t.Errorf("unexpected order %+v", ord)
	}
}

func TestGetOrder_ForeignUserForbidden(t *testing.T) {
	app := newTestApp(t, 9, "user", orderFor("o1", 7, "TX1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/order/o1", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
}

func TestGetOrder_AdminCanReadAny(t *testing.T) {
	app := newTestApp(t, 1, "admin", orderFor("o1", 7, "TX1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/order/o1", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	app := newTestApp(t, 7, "user")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/order/missing", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetAllOrders_AdminOnly(t *testing.T) {
	seed := []Order{orderFor("o1", 7, "TX1"), orderFor("o2", 8, "TX2")}

	app := newTestApp(t, 7, "user", seed...)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	app = newTestApp(t, 1, "admin", seed...)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}

	var orders []Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected all orders, got %d", len(orders))
	}
}
