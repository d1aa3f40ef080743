package services

import (
	"errors"
	"log"
	"strings"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/pkg/rabbitmq"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when a record id is not syntactically valid.
var ErrInvalidID = errors.New("invalid product id")

// ProductService handles business logic for single-record product
// operations: listing, create, update, delete and stats. Writes publish an
// inventory event when a broker client is configured.
type ProductService struct {
	repo repositories.ProductRepository
	mq   *rabbitmq.Client
}

// NewProductService creates a new ProductService. mq may be nil, in which
// case event publishing is skipped.
func NewProductService(repo repositories.ProductRepository, mq *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo: repo,
		mq:   mq,
	}
}

// ListResult is one page of products plus the paging echo and the total
// match count, which is computed independent of the page window.
type ListResult struct {
	Items    []models.Product `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int64            `json:"total"`
}

// List returns the owner's products matching params. An empty owner (no
// resolved identity) yields an empty first page rather than an error; the UI
// renders that as a signed-out inventory.
func (s *ProductService) List(owner string, params ListParams) (*ListResult, error) {
	if owner == "" {
		return &ListResult{Items: []models.Product{}, Page: 1, PageSize: DefaultPageSize, Total: 0}, nil
	}

	query := BuildListQuery(owner, params)
	total, err := s.repo.Count(query.Filter)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Find(query.Filter, query.Sort, query.Skip(), query.PageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ListResult{
		Items:    items,
		Page:     query.Page,
		PageSize: query.PageSize,
		Total:    total,
	}, nil
}

// productFromInput builds a record from a validated input: names trimmed,
// status coerced, owner stamped. Price and Qty are guaranteed non-nil by
// validation.
func productFromInput(owner string, in models.ProductInput) models.Product {
	return models.Product{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Price:    *in.Price,
		Qty:      int(*in.Qty),
		Status:   models.NormalizeStatus(in.Status),
		Owner:    owner,
	}
}

// Create inserts a new record owned by owner and returns it with its
// store-assigned id and timestamps.
func (s *ProductService) Create(owner string, in models.ProductInput) (*models.Product, error) {
	product := productFromInput(owner, in)
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	s.publish("product.created", map[string]interface{}{
		"id":    product.ID,
		"owner": owner,
		"name":  product.Name,
	})
	return &product, nil
}

// Update replaces the mutable fields of an owned record. A syntactically bad
// id yields ErrInvalidID; an id that does not match one of the owner's
// records yields repositories.ErrProductNotFound.
func (s *ProductService) Update(owner, id string, in models.ProductInput) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	product, err := s.repo.UpdateOwned(id, owner, repositories.ProductUpdate{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		Price:    *in.Price,
		Qty:      int(*in.Qty),
		Status:   models.NormalizeStatus(in.Status),
	})
	if err != nil {
		return nil, err
	}
	s.publish("product.updated", map[string]interface{}{
		"id":    product.ID,
		"owner": owner,
	})
	return product, nil
}

// Delete removes an owned record. Deleting an id that matches nothing still
// succeeds; the operation is idempotent.
func (s *ProductService) Delete(owner, id string) error {
	if err := s.repo.DeleteOwned(id, owner); err != nil {
		return err
	}
	s.publish("product.deleted", map[string]interface{}{
		"id":    id,
		"owner": owner,
	})
	return nil
}

// Stats aggregates the owner's inventory for the dashboard cards.
func (s *ProductService) Stats(owner string) (*repositories.InventoryStats, error) {
	return s.repo.Stats(owner)
}

// publish sends an inventory event, logging instead of failing the write
// when the broker is down or not configured.
func (s *ProductService) publish(event string, payload map[string]interface{}) {
	if s.mq == nil {
		return
	}
	if err := s.mq.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
