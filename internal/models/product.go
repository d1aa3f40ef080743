package models

import "time"

// Product statuses. A record is either live inventory or archived; there is
// no third state.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// LowStockThreshold is the qty below which a product counts as low stock in
// the dashboard stats.
const LowStockThreshold = 20

// Product represents a single inventory record. Every record belongs to
// exactly one owner (the email of the user who created it) and is only
// visible to that owner.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	Category  string    `json:"category" gorm:"type:varchar(200);not null"`
	Price     float64   `json:"price" gorm:"not null"`
	Qty       int       `json:"qty" gorm:"not null"`
	Status    string    `json:"status" gorm:"type:varchar(16);default:active;index"`
	Owner     string    `json:"owner" gorm:"type:varchar(255);index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductInput is the request body for creating or replacing a product,
// either singly or as part of a bulk payload. Price and Qty are pointers so
// an absent field can be told apart from a legitimate zero. Qty travels as a
// JSON number and must be integral, which the custom "wholenum" rule
// enforces.
type ProductInput struct {
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Qty      *float64 `json:"qty" validate:"required,gte=0,wholenum"`
	Status   string   `json:"status" validate:"omitempty,oneof=active archived"`
}

// NormalizeStatus coerces a raw status value the way the single-record
// endpoints do: the exact literal "archived" archives, anything else is
// active.
func NormalizeStatus(s string) string {
	if s == StatusArchived {
		return StatusArchived
	}
	return StatusActive
}
