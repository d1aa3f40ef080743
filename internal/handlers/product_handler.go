package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for single-record product operations,
// the list endpoint, export and stats.
type ProductHandler struct {
	service  *services.ProductService
	exports  *services.ExportService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, exports *services.ExportService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		exports:  exports,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes. The bulk handler must be
// registered first so /products/bulk is matched ahead of /products/:id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	auth := middleware.AuthRequired(authService)
	products := router.Group("/products")
	products.Get("/", middleware.AuthOptional(authService), h.HandleList)
	products.Get("/export", auth, h.HandleExport)
	products.Post("/", auth, h.HandleCreate)
	products.Put("/:id", auth, h.HandleUpdate)
	products.Delete("/:id", auth, h.HandleDelete)

	router.Get("/stats", auth, h.HandleStats)
}

// HandleList returns one page of the caller's products. Anonymous callers
// get an empty page, not an error.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	params := services.ListParams{
		Q:        c.Query("q"),
		Status:   c.Query("status"),
		Min:      c.Query("min"),
		Max:      c.Query("max"),
		SortBy:   c.Query("sortBy"),
		SortDir:  c.Query("sortDir"),
		Page:     c.Query("page"),
		PageSize: c.Query("pageSize"),
	}
	result, err := h.service.List(middleware.Email(c), params)
	if err != nil {
		return serverError(c, err, "Error listing products")
	}
	return c.JSON(result)
}

// parseProductInput reads and validates a single-record body, normalizing
// before validation: name and category are trimmed so a whitespace-only
// value fails the required rule, and anything but the "archived" status
// literal becomes active, so single-record writes never fail on status.
func (h *ProductHandler) parseProductInput(c *fiber.Ctx) (*models.ProductInput, error) {
	var body models.ProductInput
	if err := c.BodyParser(&body); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Category = strings.TrimSpace(body.Category)
	body.Status = models.NormalizeStatus(body.Status)
	if err := h.validate.Struct(body); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErrors(err, ""),
		})
	}
	return &body, nil
}

// HandleCreate creates a product owned by the caller.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	body, done := h.parseProductInput(c)
	if body == nil {
		return done
	}
	product, err := h.service.Create(middleware.Email(c), *body)
	if err != nil {
		return serverError(c, err, "Error creating product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate replaces the mutable fields of one owned product. An id that
// does not match one of the caller's records is reported as not found, never
// as someone else's record.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	body, done := h.parseProductInput(c)
	if body == nil {
		return done
	}
	product, err := h.service.Update(middleware.Email(c), c.Params("id"), *body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid id",
			})
		case errors.Is(err, repositories.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Not found",
			})
		default:
			return serverError(c, err, "Error updating product")
		}
	}
	return c.JSON(product)
}

// HandleDelete removes one owned product. Deleting an id that matches
// nothing still reports ok.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.Email(c), c.Params("id")); err != nil {
		return serverError(c, err, "Error deleting product")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleExport streams the caller's filtered inventory as a CSV attachment.
func (h *ProductHandler) HandleExport(c *fiber.Ctx) error {
	params := services.ExportParams{
		Q:        c.Query("q"),
		Status:   c.Query("status"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
		Sort:     c.Query("sort"),
		Dir:      c.Query("dir"),
	}
	csv, err := h.exports.ExportCSV(middleware.Email(c), params)
	if err != nil {
		return serverError(c, err, "Error exporting products")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="products_export_%d.csv"`, time.Now().UnixMilli()))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.SendString(csv)
}

// HandleStats returns the caller's inventory aggregates.
func (h *ProductHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(middleware.Email(c))
	if err != nil {
		return serverError(c, err, "Error aggregating stats")
	}
	return c.JSON(stats)
}
