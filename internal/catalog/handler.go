package catalog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mindstormbook/bookstore-backend/internal/user"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/books", h.listBooks)
	app.Get("/api/v1/book/:id", h.getBook)
	app.Get("/api/v1/packages", h.listPackages)
	app.Get("/api/v1/package/:id", h.getPackage)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/book", h.createBook)
	app.Post("/api/v1/admin/package", h.createPackage)
}

func (h *Handler) listBooks(c *fiber.Ctx) error {
	return c.JSON(h.service.ListBooks())
}

func (h *Handler) getBook(c *fiber.Ctx) error {
	b, err := h.service.GetBook(c.Params("id"))
	if err != nil {
		if err == ErrBookNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "book not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(b)
}

func (h *Handler) listPackages(c *fiber.Ctx) error {
	return c.JSON(h.service.ListPackages())
}

func (h *Handler) getPackage(c *fiber.Ctx) error {
	p, err := h.service.GetPackage(c.Params("id"))
	if err != nil {
		if err == ErrPackageNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "package not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

func (h *Handler) createBook(c *fiber.Ctx) error {
	if user.GetRoleFromCtx(c) != user.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}
	payload := new(Book)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.CreatedAt == "" {
		payload.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	created, err := h.service.CreateBook(*payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) createPackage(c *fiber.Ctx) error {
	if user.GetRoleFromCtx(c) != user.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}
	payload := new(Package)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.CreatedAt == "" {
		payload.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	created, err := h.service.CreatePackage(*payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
