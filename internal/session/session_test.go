package session

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vegasq/databoard/internal/query"
	"github.com/vegasq/databoard/internal/value"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func loadedSession(t *testing.T, content string) *Session {
	t.Helper()
	s := New()
	if err := s.Load(writeCSV(t, content)); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return s
}

func TestLoadReplacesDataset(t *testing.T) {
	s := loadedSession(t, "a\n1\n2\n")
	firstID := s.ID()

	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	if err := s.Load(writeCSV(t, "b\n1\n2\n3\n")); err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if s.Count() != 3 {
		t.Errorf("Count() after reload = %d, want 3", s.Count())
	}
	if s.ID() == firstID {
		t.Error("dataset id did not change on reload")
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	s := loadedSession(t, "a\n1\n")
	id := s.ID()

	if err := s.Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("loading a missing file did not fail")
	}
	if s.Count() != 1 || s.ID() != id {
		t.Error("failed load disturbed the previous dataset")
	}
}

func TestDescribe(t *testing.T) {
	s := loadedSession(t, "name,amount\nalice,10\nbob,20\n")

	got := s.Describe()
	want := []ColumnDescriptor{
		{Name: "name", Kind: 0},
		{Name: "amount", Kind: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Describe() = %v, want %v", got, want)
	}
}

func TestNormalizeAtomicity(t *testing.T) {
	s := loadedSession(t, "a,b\nx,1\ny,2\n")
	full := map[string]value.Kind{"a": value.KindString, "b": value.KindInteger}
	if err := s.Normalize(full); err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	before, err := s.Unique("b")
	if err != nil {
		t.Fatalf("Unique error: %v", err)
	}

	// Partial mapping fails; the earlier normalized table survives.
	if err := s.Normalize(map[string]value.Kind{"a": value.KindString}); err == nil {
		t.Fatal("partial mapping did not fail")
	}
	after, err := s.Unique("b")
	if err != nil {
		t.Fatalf("Unique after failure: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("failed normalization disturbed the normalized table")
	}
}

func TestQueryPreviewCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	s := loadedSession(t, b.String())
	if err := s.Normalize(map[string]value.Kind{"n": value.KindInteger}); err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	preview, err := s.Query(query.Query{})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if preview.RowCount() != PreviewRows {
		t.Errorf("preview rows = %d, want %d", preview.RowCount(), PreviewRows)
	}

	// The full result stays available for paging.
	if got := s.Page(100, 100).RowCount(); got != 20 {
		t.Errorf("last page rows = %d, want 20", got)
	}
	if got := s.Page(500, 100).RowCount(); got != 0 {
		t.Errorf("page past end rows = %d, want 0", got)
	}
}

func TestQueryAggregates(t *testing.T) {
	s := loadedSession(t, "region,sales\neast,10\neast,30\nwest,5\n")
	mapping := map[string]value.Kind{"region": value.KindString, "sales": value.KindInteger}
	if err := s.Normalize(mapping); err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	preview, err := s.Query(query.Query{
		Dimensions: query.Dimensions{Rows: []string{"region"}},
		Metrics:    []query.Metric{{Column: "sales", Mode: query.ModeSum}},
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}

	rows := preview.Rows()
	want := []map[string]any{
		{"region": "east", "sales": int32(40)},
		{"region": "west", "sales": int32(5)},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestExportWritesFullResult(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	s := loadedSession(t, b.String())
	if err := s.Normalize(map[string]value.Kind{"n": value.KindInteger}); err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	preview, err := s.Query(query.Query{})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if preview.RowCount() != 30 {
		t.Fatalf("preview rows = %d, want 30", preview.RowCount())
	}

	out := filepath.Join(t.TempDir(), "export.csv")
	if err := s.Export(out); err != nil {
		t.Fatalf("Export error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	lines := strings.Count(string(data), "\n")
	if lines != 51 { // header + all 50 rows, not just the preview
		t.Errorf("exported %d lines, want 51", lines)
	}
}

func TestUniqueRequiresNormalization(t *testing.T) {
	s := loadedSession(t, "a\nx\n")
	// Unique reads the normalized table, which is still empty.
	if _, err := s.Unique("a"); err == nil {
		t.Error("Unique before normalization did not fail")
	}
}
