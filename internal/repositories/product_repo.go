package repositories

import (
	"errors"

	"gudang/internal/models"
)

// Sentinel errors returned by product repositories. Handlers map these to
// HTTP statuses with errors.Is, so implementations must return them
// unwrapped or wrapped with %w.
var (
	// ErrProductNotFound means no record matched both the id and the owner.
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter is the combined predicate applied to list and export
// queries. Zero values mean "no constraint" except Owner, which callers must
// always set: an empty owner matches nothing by design, never everything.
type ProductFilter struct {
	Owner    string
	Search   string // case-insensitive substring over name OR category
	Status   string // "" = all
	MinPrice *float64
	MaxPrice *float64
}

// ProductSort is a single-key sort specification. Field must be one of the
// whitelisted columns produced by the query builder.
type ProductSort struct {
	Field string
	Desc  bool
}

// ProductUpdate carries the replaceable fields of a single-record update.
type ProductUpdate struct {
	Name     string
	Category string
	Price    float64
	Qty      int
	Status   string
}

// BulkResult reports a bulk status update with fixed field names regardless
// of the backing store. Matched counts records the id list hit; Modified
// counts those whose status actually changed.
type BulkResult struct {
	Matched  int64
	Modified int64
}

// InventoryStats aggregates an owner's records for the dashboard.
type InventoryStats struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalStock    int64   `json:"totalStock"`
	TotalValue    float64 `json:"totalValue"`
	LowStock      int64   `json:"lowStock"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Find returns the records matching filter in sort order, skipping skip
	// rows and returning at most limit rows. limit <= 0 means no limit.
	Find(filter ProductFilter, sort ProductSort, skip, limit int) ([]models.Product, error)
	// Count returns the total match count independent of any paging.
	Count(filter ProductFilter) (int64, error)
	Create(product *models.Product) error
	CreateMany(products []models.Product) error
	// UpdateOwned replaces the mutable fields of the record matching both id
	// and owner, returning ErrProductNotFound when nothing matched.
	UpdateOwned(id, owner string, update ProductUpdate) (*models.Product, error)
	// DeleteOwned removes the record matching id and owner. Zero matches is
	// not an error; single-record deletion is idempotent.
	DeleteOwned(id, owner string) error
	// UpdateStatusByIDs sets status on every owned record whose id is listed.
	UpdateStatusByIDs(ids []string, owner, status string) (BulkResult, error)
	// DeleteByIDs removes every owned record whose id is listed and reports
	// how many went away.
	DeleteByIDs(ids []string, owner string) (int64, error)
	Stats(owner string) (*InventoryStats, error)
}
