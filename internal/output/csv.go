package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vegasq/databoard/internal/table"
)

// CSVFormatter writes a table as CSV with a header row. Columns keep
// their table order and cells use their canonical text form, so the
// written file round-trips kind-preserving formatting: integers have
// no decimal point, dates render as YYYY-MM-DD, nulls are empty.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer.
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV.
func (c *CSVFormatter) Format(t *table.Table) error {
	w := csv.NewWriter(c.writer)

	if err := w.Write(t.ColumnNames()); err != nil {
		return err
	}

	cols := t.Cols()
	for i := 0; i < t.RowCount(); i++ {
		record := make([]string, len(cols))
		for j := range cols {
			record[j] = cols[j].Values[i].Text()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
