package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gudang/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It reproduces the store's filter/sort/page semantics over a map so service
// tests can run without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func matchesFilter(p models.Product, f ProductFilter) bool {
	if p.Owner != f.Owner {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (r *MockProductRepository) matching(f ProductFilter) []models.Product {
	var out []models.Product
	for _, p := range r.products {
		if matchesFilter(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the matching products in sort order with skip/limit applied.
func (r *MockProductRepository) Find(filter ProductFilter, sortSpec ProductSort, skip, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(filter)
	less := func(a, b models.Product) bool {
		switch sortSpec.Field {
		case "price":
			return a.Price < b.Price
		case "qty":
			return a.Qty < b.Qty
		case "name":
			return a.Name < b.Name
		default: // created_at
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if sortSpec.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	if skip > len(matched) {
		skip = len(matched)
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the total number of matching products.
func (r *MockProductRepository) Count(filter ProductFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.matching(filter))), nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// CreateMany adds a batch of products.
func (r *MockProductRepository) CreateMany(products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
		r.products[products[i].ID] = products[i]
	}
	return nil
}

// UpdateOwned replaces the mutable fields of an owned record.
func (r *MockProductRepository) UpdateOwned(id, owner string, update ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok || existing.Owner != owner {
		return nil, ErrProductNotFound
	}
	existing.Name = update.Name
	existing.Category = update.Category
	existing.Price = update.Price
	existing.Qty = update.Qty
	existing.Status = update.Status
	existing.UpdatedAt = time.Now()
	r.products[id] = existing
	return &existing, nil
}

// DeleteOwned removes an owned record; missing records are not an error.
func (r *MockProductRepository) DeleteOwned(id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.products[id]; ok && existing.Owner == owner {
		delete(r.products, id)
	}
	return nil
}

// UpdateStatusByIDs sets status on every owned record in the id list.
func (r *MockProductRepository) UpdateStatusByIDs(ids []string, owner, status string) (BulkResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result BulkResult
	for _, id := range ids {
		existing, ok := r.products[id]
		if !ok || existing.Owner != owner {
			continue
		}
		result.Matched++
		if existing.Status != status {
			existing.Status = status
			existing.UpdatedAt = time.Now()
			r.products[id] = existing
			result.Modified++
		}
	}
	return result, nil
}

// DeleteByIDs removes every owned record in the id list.
func (r *MockProductRepository) DeleteByIDs(ids []string, owner string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if existing, ok := r.products[id]; ok && existing.Owner == owner {
			delete(r.products, id)
			deleted++
		}
	}
	return deleted, nil
}

// Stats aggregates an owner's records.
func (r *MockProductRepository) Stats(owner string) (*InventoryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats InventoryStats
	for _, p := range r.products {
		if p.Owner != owner {
			continue
		}
		stats.TotalProducts++
		stats.TotalStock += int64(p.Qty)
		stats.TotalValue += float64(p.Qty) * p.Price
		if p.Qty < models.LowStockThreshold {
			stats.LowStock++
		}
	}
	return &stats, nil
}
