// Package table provides the in-memory columnar table used throughout
// the engine.
//
// A Table is an ordered sequence of named, homogeneously typed columns
// of equal length. Columns are addressable by name (unique within a
// table) and by position. The zero-column, zero-row table is the valid
// initial state of a session.
package table

import (
	"fmt"

	"github.com/vegasq/databoard/internal/value"
)

// NotFoundError reports a column name that does not exist in a table.
type NotFoundError struct {
	Column string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// Column is a named, homogeneously typed sequence of values.
type Column struct {
	Name   string
	Kind   value.Kind
	Values []value.Value
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols []Column
}

// New creates a table from the given columns, preserving their order.
func New(cols ...Column) *Table {
	return &Table{cols: cols}
}

// Empty returns the zero-column, zero-row table.
func Empty() *Table {
	return &Table{}
}

// Cols returns the columns in order. The slice is shared, not copied;
// callers must not mutate it.
func (t *Table) Cols() []Column {
	return t.cols
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column or a NotFoundError.
func (t *Table) Column(name string) (*Column, error) {
	for i := range t.cols {
		if t.cols[i].Name == name {
			return &t.cols[i], nil
		}
	}
	return nil, &NotFoundError{Column: name}
}

// RowCount returns the number of rows. All columns share this length.
func (t *Table) RowCount() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// Head returns the first n rows. n is clamped to the row count.
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// Slice returns up to limit rows starting at start. A start at or past
// the end yields a zero-row table with the same columns; the limit is
// clamped at the end of the table. Negative arguments read as zero.
func (t *Table) Slice(start, limit int) *Table {
	rows := t.RowCount()
	if start < 0 {
		start = 0
	}
	if limit < 0 {
		limit = 0
	}
	if start > rows {
		start = rows
	}
	end := start + limit
	if end > rows {
		end = rows
	}

	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = Column{
			Name:   c.Name,
			Kind:   c.Kind,
			Values: c.Values[start:end],
		}
	}
	return &Table{cols: cols}
}

// Select returns a new table containing the rows at the given indexes,
// in the order given. Indexes must be valid row positions.
func (t *Table) Select(rowIdx []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		vals := make([]value.Value, len(rowIdx))
		for j, idx := range rowIdx {
			vals[j] = c.Values[idx]
		}
		cols[i] = Column{Name: c.Name, Kind: c.Kind, Values: vals}
	}
	return &Table{cols: cols}
}

// Rows encodes the table as row-oriented maps from column name to the
// canonical JSON-compatible scalar of each cell, rows in table order.
// Kind-preserving: integers stay integral, dates format as YYYY-MM-DD,
// nulls become nil.
func (t *Table) Rows() []map[string]any {
	rows := make([]map[string]any, t.RowCount())
	for i := range rows {
		row := make(map[string]any, len(t.cols))
		for _, c := range t.cols {
			row[c.Name] = c.Values[i].Scalar()
		}
		rows[i] = row
	}
	return rows
}

// Distinct returns the unique values of the named column in first-seen
// order, or a NotFoundError if the column does not exist. Null cells
// contribute a single null entry.
func (t *Table) Distinct(name string) ([]value.Value, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	sawNull := false
	out := make([]value.Value, 0)
	for _, v := range col.Values {
		if v.Null {
			if !sawNull {
				sawNull = true
				out = append(out, v)
			}
			continue
		}
		key := v.Text()
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}
	return out, nil
}
