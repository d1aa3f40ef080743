package services

import (
	"strconv"
	"strings"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// Paging defaults and bounds for list queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
)

// ListParams are the raw, untrusted query parameters of a list or export
// request, exactly as they arrived on the wire.
type ListParams struct {
	Q        string
	Status   string
	Min      string
	Max      string
	SortBy   string
	SortDir  string
	Page     string
	PageSize string
}

// ListQuery is the validated store-level specification built from
// ListParams: a filter, a single-key sort, and a page window.
type ListQuery struct {
	Filter   repositories.ProductFilter
	Sort     repositories.ProductSort
	Page     int
	PageSize int
}

// Skip is the number of rows the page window skips.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.PageSize
}

// sortColumns whitelists the sortable fields and maps the wire name to the
// store column. Anything else falls back to createdAt.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"qty":       "qty",
	"name":      "name",
}

// BuildListQuery normalizes raw query parameters into a ListQuery scoped to
// owner. It never fails: unrecognized or unparsable values fall back to
// defaults rather than raising errors.
func BuildListQuery(owner string, p ListParams) ListQuery {
	filter := repositories.ProductFilter{
		Owner:  owner,
		Search: strings.TrimSpace(p.Q),
	}

	// "all" and any unknown status mean no status constraint.
	switch p.Status {
	case models.StatusActive, models.StatusArchived:
		filter.Status = p.Status
	}

	// Price bounds are parsed individually; a bad bound is dropped without
	// affecting the other one.
	filter.MinPrice = parsePrice(p.Min)
	filter.MaxPrice = parsePrice(p.Max)

	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}
	sort := repositories.ProductSort{
		Field: column,
		Desc:  p.SortDir != "asc",
	}

	page := parseIntDefault(p.Page, 1)
	if page < 1 {
		page = 1
	}
	pageSize := parseIntDefault(p.PageSize, DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return ListQuery{
		Filter:   filter,
		Sort:     sort,
		Page:     page,
		PageSize: pageSize,
	}
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseIntDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
