package services

import (
	"strconv"
	"strings"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// exportColumns is the fixed column order of an export. Parsers on the other
// side derive field positions from this header row.
var exportColumns = []string{"name", "category", "price", "qty", "status", "createdAt", "updatedAt"}

// ExportParams are the raw query parameters of an export request. The wire
// names differ from the list endpoint (minPrice/maxPrice/sort/dir) but the
// normalization rules are the same.
type ExportParams struct {
	Q        string
	Status   string
	MinPrice string
	MaxPrice string
	Sort     string
	Dir      string
}

// ExportService renders an owner's filtered, sorted inventory as CSV.
type ExportService struct {
	repo repositories.ProductRepository
}

// NewExportService creates a new ExportService.
func NewExportService(repo repositories.ProductRepository) *ExportService {
	return &ExportService{
		repo: repo,
	}
}

// ExportCSV fetches every record matching the filter (no paging) and encodes
// it with EncodeCSV.
func (s *ExportService) ExportCSV(owner string, params ExportParams) (string, error) {
	query := BuildListQuery(owner, ListParams{
		Q:       params.Q,
		Status:  params.Status,
		Min:     params.MinPrice,
		Max:     params.MaxPrice,
		SortBy:  params.Sort,
		SortDir: params.Dir,
	})
	rows, err := s.repo.Find(query.Filter, query.Sort, 0, 0)
	if err != nil {
		return "", err
	}
	return EncodeCSV(rows), nil
}

// EncodeCSV renders a header row followed by one row per record. Timestamps
// are RFC 3339 in UTC; prices keep their minimal decimal form.
func EncodeCSV(products []models.Product) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, ","))
	for _, p := range products {
		fields := []string{
			escapeCSV(p.Name),
			escapeCSV(p.Category),
			escapeCSV(strconv.FormatFloat(p.Price, 'f', -1, 64)),
			escapeCSV(strconv.Itoa(p.Qty)),
			escapeCSV(p.Status),
			escapeCSV(p.CreatedAt.UTC().Format(time.RFC3339)),
			escapeCSV(p.UpdatedAt.UTC().Format(time.RFC3339)),
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(fields, ","))
	}
	return b.String()
}

// escapeCSV wraps a field in double quotes, doubling internal quotes, if and
// only if it contains a comma, a double quote, or a newline. Everything else
// is emitted verbatim.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
