package handlers

import (
	"fmt"
	"io"
	"strings"

	"gudang/internal/middleware"
	"gudang/internal/models"
	"gudang/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BulkHandler handles the multi-record endpoints: bulk create, bulk status
// update, bulk delete and the spreadsheet import. Every payload is validated
// in full before any store access; one bad item rejects the whole request.
type BulkHandler struct {
	bulk     *services.BulkService
	importer *services.ImportService
	validate *validator.Validate
}

// NewBulkHandler creates a new BulkHandler.
func NewBulkHandler(bulk *services.BulkService, importer *services.ImportService) *BulkHandler {
	return &BulkHandler{
		bulk:     bulk,
		importer: importer,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the bulk routes. Call this before the product
// handler's routes so /products/bulk wins over /products/:id.
func (h *BulkHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	auth := middleware.AuthRequired(authService)
	products := router.Group("/products")
	products.Post("/bulk", auth, h.HandleBulkCreate)
	products.Patch("/bulk", auth, h.HandleBulkStatus)
	products.Delete("/bulk", auth, h.HandleBulkDelete)
	products.Post("/import", auth, h.HandleImport)
}

// validateItems trims each item's name and category, then checks every
// input against the single-create field rules, keying failures per item.
// Unlike the single-record endpoints, an explicit status outside the enum
// is rejected here, not coerced.
func (h *BulkHandler) validateItems(items []models.ProductInput) map[string]string {
	problems := make(map[string]string)
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		items[i].Category = strings.TrimSpace(items[i].Category)
		if err := h.validate.Struct(items[i]); err != nil {
			for field, msg := range validationErrors(err, fmt.Sprintf("items[%d].", i)) {
				problems[field] = msg
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// insertMany runs the shared tail of bulk create and import.
func (h *BulkHandler) insertMany(c *fiber.Ctx, items []models.ProductInput) error {
	products, err := h.bulk.CreateMany(middleware.Email(c), items)
	if err != nil {
		return serverError(c, err, "Error bulk creating products")
	}
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return c.JSON(fiber.Map{
		"inserted": len(products),
		"ids":      ids,
	})
}

// HandleBulkCreate inserts a batch of products for the caller.
func (h *BulkHandler) HandleBulkCreate(c *fiber.Ctx) error {
	var body struct {
		Items []models.ProductInput `json:"items"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(body.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"items": "items must contain at least 1 item"},
		})
	}
	if problems := h.validateItems(body.Items); problems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": problems,
		})
	}
	return h.insertMany(c, body.Items)
}

// bulkStatusRequest is the PATCH /products/bulk body.
type bulkStatusRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Status string   `json:"status" validate:"required,oneof=active archived"`
}

// HandleBulkStatus applies a status to every listed record the caller owns.
func (h *BulkHandler) HandleBulkStatus(c *fiber.Ctx) error {
	var body bulkStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErrors(err, ""),
		})
	}
	result, err := h.bulk.UpdateStatus(middleware.Email(c), body.IDs, body.Status)
	if err != nil {
		return serverError(c, err, "Error bulk updating status")
	}
	return c.JSON(fiber.Map{
		"matched":  result.Matched,
		"modified": result.Modified,
	})
}

// bulkDeleteRequest is the DELETE /products/bulk body.
type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// HandleBulkDelete removes every listed record the caller owns.
func (h *BulkHandler) HandleBulkDelete(c *fiber.Ctx) error {
	var body bulkDeleteRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErrors(err, ""),
		})
	}
	deleted, err := h.bulk.DeleteMany(middleware.Email(c), body.IDs)
	if err != nil {
		return serverError(c, err, "Error bulk deleting products")
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// HandleImport parses an uploaded .xlsx workbook and inserts its rows the
// same way bulk create would.
func (h *BulkHandler) HandleImport(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"file": "file is required"},
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"file": "file could not be read"},
		})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"file": "file could not be read"},
		})
	}

	items, problems, err := h.importer.ParseWorkbook(data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"file": err.Error()},
		})
	}
	if problems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": problems,
		})
	}
	if fieldProblems := h.validateItems(items); fieldProblems != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fieldProblems,
		})
	}
	return h.insertMany(c, items)
}
