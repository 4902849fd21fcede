package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func newTestApp(t *testing.T, role string, seedBooks []Book, seedPackages []Package) *fiber.App {
	t.Helper()
	svc := NewService(NewInMemoryRepository())
	for _, b := range seedBooks {
		if _, err := svc.CreateBook(b); err != nil {
			t.Fatalf("seed book %s: %v", b.ID, err)
		}
	}
	for _, p := range seedPackages {
		if _, err := svc.CreatePackage(p); err != nil {
			t.Fatalf("seed package %s: %v", p.ID, err)
		}
	}

	h := NewHandler(svc)
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": float64(1),
			"role":    role,
		}})
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestListAndGetBook(t *testing.T) {
	app := newTestApp(t, "user", []Book{
		{ID: "B1", Name: "Dune", Type: "ebook", DiscountPrice: 9.99},
		{ID: "B2", Name: "Hyperion", Type: "book", DiscountPrice: 7.50},
	}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/books", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var books []Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("expected 2 books, got %d", len(books))
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/book/B1", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var b Book
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Name != "Dune" {
		t.Errorf("unexpected book %+v", b)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/book/NOPE", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetPackageRoute(t *testing.T) {
	app := newTestApp(t, "user", nil, []Package{
		{ID: "P1", Name: "Sci-Fi Bundle", DiscountPrice: 24.99, BookIDs: []string{"B1", "B2"}},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/package/P1", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var p Package
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Sci-Fi Bundle" || len(p.BookIDs) != 2 {
		t.Errorf("unexpected package %+v", p)
	}
}

func TestCreateBookRoute_AdminGate(t *testing.T) {
	payload, _ := json.Marshal(Book{ID: "B1", Name: "Dune", Type: "ebook", DiscountPrice: 9.99})

	app := newTestApp(t, "user", nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/book", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	app = newTestApp(t, "admin", nil, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/book", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", resp.StatusCode)
	}
	var created Book
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "B1" || created.CreatedAt == "" {
		t.Errorf("unexpected created book %+v", created)
	}
}
