package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gudang/internal/models"

	"github.com/xuri/excelize/v2"
)

// ImportService parses an uploaded .xlsx workbook into bulk-create inputs.
// The first sheet must carry a header row with at least name, category,
// price and qty columns; a status column is optional. Column order does not
// matter and header matching is case-insensitive.
type ImportService struct{}

// NewImportService creates a new ImportService.
func NewImportService() *ImportService {
	return &ImportService{}
}

// importColumns are the recognized header names.
var importColumns = []string{"name", "category", "price", "qty", "status"}

// ParseWorkbook reads the workbook bytes and returns one input per data row.
// Blank rows are skipped. Rows with unparsable numeric cells are reported in
// the problems map keyed "rowN.field"; when problems is non-empty no inputs
// are returned, mirroring the validate-everything-up-front rule of the bulk
// endpoints.
func (s *ImportService) ParseWorkbook(data []byte) ([]models.ProductInput, map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("workbook is empty")
	}

	columns, err := mapImportColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var inputs []models.ProductInput
	problems := make(map[string]string)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if rowIsBlank(row) {
			continue
		}
		// Rows are 1-based in spreadsheet terms.
		rowKey := fmt.Sprintf("row%d", i+1)

		in := models.ProductInput{
			Name:     strings.TrimSpace(cellAt(row, columns["name"])),
			Category: strings.TrimSpace(cellAt(row, columns["category"])),
			Status:   strings.ToLower(strings.TrimSpace(cellAt(row, columns["status"]))),
		}
		if price, perr := parseCellFloat(cellAt(row, columns["price"])); perr != nil {
			problems[rowKey+".price"] = perr.Error()
		} else {
			in.Price = &price
		}
		if qty, qerr := parseCellFloat(cellAt(row, columns["qty"])); qerr != nil {
			problems[rowKey+".qty"] = qerr.Error()
		} else {
			in.Qty = &qty
		}
		inputs = append(inputs, in)
	}

	if len(problems) > 0 {
		return nil, problems, nil
	}
	if len(inputs) == 0 {
		return nil, nil, fmt.Errorf("workbook has no data rows")
	}
	return inputs, nil, nil
}

// mapImportColumns maps recognized header names to their column index.
// Missing required columns fail the whole import.
func mapImportColumns(header []string) (map[string]int, error) {
	columns := map[string]int{"status": -1}
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		for _, known := range importColumns {
			if name == known {
				columns[known] = idx
			}
		}
	}
	for _, required := range []string{"name", "category", "price", "qty"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q in header row", required)
		}
	}
	return columns, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseCellFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("value is required")
	}
	// Tolerate thousands separators exported by spreadsheet tools.
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
