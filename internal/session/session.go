// Package session owns the three tables of a databoard session — the
// raw as-loaded data, its normalized form, and the result of the most
// recent query — and sequences the lifecycle operations over them.
//
// Every table is replaced wholesale, never updated in place: a failed
// load or normalization leaves the previous state intact, and a query
// only reads the normalized table while assigning a fresh result.
//
// The session itself is not safe for concurrent use; the command
// layer serializes access with one exclusive lock per call.
package session

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/vegasq/databoard/internal/etl"
	"github.com/vegasq/databoard/internal/output"
	"github.com/vegasq/databoard/internal/query"
	"github.com/vegasq/databoard/internal/reader"
	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// PreviewRows caps the immediate response of a query; the full result
// stays available for paging.
const PreviewRows = 30

// ColumnDescriptor describes one raw column for the command layer.
// Kind is the wire-format integer code.
type ColumnDescriptor struct {
	Name string `json:"name"`
	Kind int    `json:"kind"`
}

// Session holds the raw, normalized and result tables of one loaded
// dataset.
type Session struct {
	id         uuid.UUID
	raw        *table.Table
	normalized *table.Table
	result     *table.Table
}

// New creates an empty session. All three tables start as the valid
// zero-column, zero-row table.
func New() *Session {
	return &Session{
		id:         uuid.New(),
		raw:        table.Empty(),
		normalized: table.Empty(),
		result:     table.Empty(),
	}
}

// ID identifies the currently loaded dataset; it changes on every
// successful load.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Load reads the file at path and replaces the raw table wholesale.
// On failure the previous raw table is kept. The normalized and
// result tables are not touched either way; they keep describing the
// previously normalized data until the next Normalize call.
func (s *Session) Load(path string) error {
	t, err := reader.Load(path)
	if err != nil {
		return err
	}
	s.raw = t
	s.id = uuid.New()
	slog.Info("dataset loaded",
		"dataset_id", s.id,
		"path", path,
		"rows", t.RowCount(),
		"columns", len(t.ColumnNames()))
	return nil
}

// Count returns the raw row count.
func (s *Session) Count() int {
	return s.raw.RowCount()
}

// Preview returns the first n raw rows, clamped to the row count.
func (s *Session) Preview(n int) *table.Table {
	return s.raw.Head(n)
}

// Describe returns name and kind metadata for the raw columns, for
// the command layer to offer a type-mapping form. It reflects the raw
// table, not the normalized one.
func (s *Session) Describe() []ColumnDescriptor {
	cols := s.raw.Cols()
	out := make([]ColumnDescriptor, len(cols))
	for i, c := range cols {
		out[i] = ColumnDescriptor{Name: c.Name, Kind: c.Kind.Code()}
	}
	return out
}

// Unique returns the distinct values of a normalized column in
// first-seen order.
func (s *Session) Unique(column string) ([]value.Value, error) {
	return s.normalized.Distinct(column)
}

// Normalize derives the normalized table from raw and the type
// mapping. The replacement is atomic: on any error the previous
// normalized table is untouched.
func (s *Session) Normalize(mapping map[string]value.Kind) error {
	t, err := etl.Normalize(s.raw, mapping)
	if err != nil {
		return err
	}
	s.normalized = t
	slog.Info("dataset normalized", "dataset_id", s.id, "rows", t.RowCount())
	return nil
}

// Query runs q against the normalized table, replaces the result
// table with the full output, and returns a bounded preview of it.
func (s *Session) Query(q query.Query) (*table.Table, error) {
	result, err := query.Execute(s.normalized, q)
	if err != nil {
		return nil, err
	}
	s.result = result
	slog.Info("query executed", "dataset_id", s.id, "result_rows", result.RowCount())
	return result.Head(PreviewRows), nil
}

// Page returns a window of the result table. Paging past the end
// yields an empty row set, never an error.
func (s *Session) Page(start, limit int) *table.Table {
	return s.result.Slice(start, limit)
}

// Export writes the entire result table — not just the preview — to a
// CSV file at path.
func (s *Session) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := output.NewCSVFormatter(f).Format(s.result); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	slog.Info("result exported", "dataset_id", s.id, "path", path, "rows", s.result.RowCount())
	return nil
}
