// Package exchange converts between tabular interchange files (CSV, XLSX)
// and expense records. Export serializes a filtered collection without
// touching the store; import parses and validates a whole file before a
// single row is written, so a bad file commits nothing.
package exchange

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"tally/internal/core"
)

// Columns is the fixed interchange column order. On import only Amount,
// Category and Date are required; Description is optional and ID, if
// present, is ignored (imported rows are always brand-new inserts).
var Columns = []string{"ID", "Amount", "Category", "Date", "Description"}

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

type (
	// Format names an interchange file format.
	Format string

	// RowError describes one rejected row. Row is the 1-based row number
	// in the file, counting the header as row 1.
	RowError struct {
		Row int
		Err error
	}

	// ImportError reports why an import was rejected. The whole file is
	// rejected as a unit: zero rows are committed when any row fails.
	ImportError struct {
		Rows []RowError
	}
)

// DetectFormat picks the interchange format from a file name extension.
func DetectFormat(filename string) (Format, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(strings.ToLower(filename), ".xlsx"):
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (want .csv or .xlsx)", filename)
	}
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

func (e *ImportError) Error() string {
	if len(e.Rows) == 0 {
		return "import rejected"
	}
	parts := make([]string, len(e.Rows))
	for i, re := range e.Rows {
		parts[i] = re.Error()
	}
	return fmt.Sprintf("import rejected, %d invalid row(s): %s", len(e.Rows), strings.Join(parts, "; "))
}

// columnIndex locates the interchange columns in a header row. Header
// names match case-insensitively after trimming.
type columnIndex struct {
	amount, category, date, description int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{amount: -1, category: -1, date: -1, description: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "amount":
			idx.amount = i
		case "category":
			idx.category = i
		case "date":
			idx.date = i
		case "description":
			idx.description = i
		}
	}
	var missing []string
	if idx.amount < 0 {
		missing = append(missing, "Amount")
	}
	if idx.category < 0 {
		missing = append(missing, "Category")
	}
	if idx.date < 0 {
		missing = append(missing, "Date")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRows validates every data row and converts the valid set to
// expenses (with zero IDs; the store assigns real ones). If any row is
// invalid the result is nil and an *ImportError listing every bad row.
func parseRows(header []string, rows [][]string) ([]core.Expense, error) {
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		out     []core.Expense
		rowErrs []RowError
	)
	for i, row := range rows {
		rowNum := i + 2 // header is row 1

		if len(row) == 0 {
			continue
		}
		amount, err := core.ParseAmount(cell(row, idx.amount))
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: err})
			continue
		}
		date, err := core.ParseDate(cell(row, idx.date))
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: err})
			continue
		}
		category := cell(row, idx.category)
		if category == "" {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: core.ErrEmptyCategory})
			continue
		}

		out = append(out, core.Expense{
			Amount:      amount,
			Category:    category,
			Date:        date,
			Description: cell(row, idx.description),
		})
	}

	if len(rowErrs) > 0 {
		return nil, &ImportError{Rows: rowErrs}
	}
	return out, nil
}

// Read dispatches to the reader for the given format.
func Read(r io.Reader, format Format) ([]core.Expense, error) {
	switch format {
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return ReadCSV(r)
	}
}

// Write dispatches to the writer for the given format.
func Write(w io.Writer, format Format, expenses []core.Expense) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, expenses)
	default:
		return WriteCSV(w, expenses)
	}
}

// AsImportError unwraps err to an *ImportError if it is one.
func AsImportError(err error) (*ImportError, bool) {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
