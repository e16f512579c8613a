package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/databoard/internal/table"
)

// TextFormatter renders a table as an aligned plain-text grid for
// terminal display.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new plain-text formatter.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// SetOutput sets the output writer.
func (f *TextFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table with aligned columns and a header row.
func (f *TextFormatter) Format(t *table.Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.ColumnNames())
	tw.SetAutoFormatHeaders(false)

	cols := t.Cols()
	for i := 0; i < t.RowCount(); i++ {
		record := make([]string, len(cols))
		for j := range cols {
			record[j] = cols[j].Values[i].Text()
		}
		tw.Append(record)
	}

	tw.Render()
	return nil
}
