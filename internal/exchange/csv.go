package exchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"tally/internal/core"
)

// WriteCSV serializes expenses in the fixed column order, header first.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			e.Category,
			e.Date.String(),
			e.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV interchange file into expenses, validating every
// row before returning.
func ReadCSV(r io.Reader) ([]core.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are handled per cell

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	return parseRows(records[0], records[1:])
}
