package repositories

import (
	"fmt"
	"strings"

	"gudang/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text so
// it is matched literally. Paired with ESCAPE '\' in the query, which both
// SQLite and PostgreSQL accept.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// applyFilter translates a ProductFilter into WHERE clauses on tx.
func applyFilter(tx *gorm.DB, f ProductFilter) *gorm.DB {
	tx = tx.Where("owner = ?", f.Owner)
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		tx = tx.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.MinPrice != nil {
		tx = tx.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		tx = tx.Where("price <= ?", *f.MaxPrice)
	}
	return tx
}

// Find retrieves the matching products in sort order with skip/limit paging.
func (r *GORMProductRepository) Find(filter ProductFilter, sort ProductSort, skip, limit int) ([]models.Product, error) {
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	// sort.Field comes from the query builder's column whitelist, so it is
	// safe to interpolate.
	tx := applyFilter(r.db.Model(&models.Product{}), filter).
		Order(fmt.Sprintf("%s %s", sort.Field, direction))
	if skip > 0 {
		tx = tx.Offset(skip)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// Count returns the total number of matching products, independent of paging.
func (r *GORMProductRepository) Count(filter ProductFilter) (int64, error) {
	var total int64
	if err := applyFilter(r.db.Model(&models.Product{}), filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Create inserts a new product, assigning a UUID when none is set.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// CreateMany inserts a batch of products in one statement. IDs are assigned
// up front so the caller can report them back.
func (r *GORMProductRepository) CreateMany(products []models.Product) error {
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
	}
	if err := r.db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to create products: %w", err)
	}
	return nil
}

// UpdateOwned replaces the mutable fields of the record matching id AND
// owner. A non-matching id yields ErrProductNotFound whether the record does
// not exist or belongs to someone else, so existence is never leaked.
func (r *GORMProductRepository) UpdateOwned(id, owner string, update ProductUpdate) (*models.Product, error) {
	// A map keeps zero values (price 0, qty 0) in the UPDATE; struct-based
	// Updates would drop them.
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND owner = ?", id, owner).
		Updates(map[string]interface{}{
			"name":     update.Name,
			"category": update.Category,
			"price":    update.Price,
			"qty":      update.Qty,
			"status":   update.Status,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product %s: %w", id, err)
	}
	return &product, nil
}

// DeleteOwned removes the record matching id AND owner. Deleting a record
// that is already gone succeeds.
func (r *GORMProductRepository) DeleteOwned(id, owner string) error {
	res := r.db.Delete(&models.Product{}, "id = ? AND owner = ?", id, owner)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	return nil
}

// UpdateStatusByIDs sets status on every owned record in the id list. The
// matched and modified counts are taken inside one transaction so they agree
// with each other; modified only counts rows whose status actually changed.
func (r *GORMProductRepository) UpdateStatusByIDs(ids []string, owner, status string) (BulkResult, error) {
	var result BulkResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("id IN ? AND owner = ?", ids, owner).
			Count(&result.Matched).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Product{}).
			Where("id IN ? AND owner = ? AND status <> ?", ids, owner, status).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		result.Modified = res.RowsAffected
		return nil
	})
	if err != nil {
		return BulkResult{}, fmt.Errorf("failed to bulk update status: %w", err)
	}
	return result, nil
}

// DeleteByIDs removes every owned record in the id list.
func (r *GORMProductRepository) DeleteByIDs(ids []string, owner string) (int64, error) {
	res := r.db.Delete(&models.Product{}, "id IN ? AND owner = ?", ids, owner)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to bulk delete products: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Stats aggregates an owner's inventory in two queries: one row of sums and
// a low-stock count.
func (r *GORMProductRepository) Stats(owner string) (*InventoryStats, error) {
	var stats InventoryStats
	err := r.db.Model(&models.Product{}).
		Select("COUNT(*) AS total_products, COALESCE(SUM(qty), 0) AS total_stock, COALESCE(SUM(qty * price), 0) AS total_value").
		Where("owner = ?", owner).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	err = r.db.Model(&models.Product{}).
		Where("owner = ? AND qty < ?", owner, models.LowStockThreshold).
		Count(&stats.LowStock).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}
	return &stats, nil
}
