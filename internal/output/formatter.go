// Package output provides formatters for writing tables to various
// output formats.
//
// Currently supported formats:
//   - CSV: comma-separated values with header row (also used for
//     result export)
//   - JSON Lines: one JSON object per row
//   - Text: an aligned plain-text table for terminal preview
package output

import (
	"io"

	"github.com/vegasq/databoard/internal/table"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
