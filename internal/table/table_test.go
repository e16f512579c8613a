package table

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vegasq/databoard/internal/value"
)

func sample() *Table {
	return New(
		Column{Name: "region", Kind: value.KindString, Values: []value.Value{
			value.String("east"), value.String("west"), value.String("east"), value.Null(value.KindString),
		}},
		Column{Name: "sales", Kind: value.KindInteger, Values: []value.Value{
			value.Int(10), value.Int(20), value.Int(30), value.Int(40),
		}},
	)
}

func TestRowCount(t *testing.T) {
	if got := sample().RowCount(); got != 4 {
		t.Errorf("RowCount() = %d, want 4", got)
	}
	if got := Empty().RowCount(); got != 0 {
		t.Errorf("Empty().RowCount() = %d, want 0", got)
	}
}

func TestColumnLookup(t *testing.T) {
	tbl := sample()

	col, err := tbl.Column("sales")
	if err != nil {
		t.Fatalf("Column(\"sales\") error: %v", err)
	}
	if col.Kind != value.KindInteger {
		t.Errorf("sales kind = %s, want integer", col.Kind)
	}

	_, err = tbl.Column("missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Column(\"missing\") error = %v, want NotFoundError", err)
	}
	if notFound.Column != "missing" {
		t.Errorf("NotFoundError.Column = %q, want %q", notFound.Column, "missing")
	}
}

func TestSlice(t *testing.T) {
	tests := []struct {
		name         string
		start, limit int
		wantRows     int
		wantFirst    int32
	}{
		{name: "middle window", start: 1, limit: 2, wantRows: 2, wantFirst: 20},
		{name: "limit clamped at end", start: 2, limit: 100, wantRows: 2, wantFirst: 30},
		{name: "start at end", start: 4, limit: 10, wantRows: 0},
		{name: "start past end", start: 99, limit: 10, wantRows: 0},
		{name: "negative start reads as zero", start: -5, limit: 1, wantRows: 1, wantFirst: 10},
		{name: "zero limit", start: 0, limit: 0, wantRows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sample().Slice(tt.start, tt.limit)
			if got.RowCount() != tt.wantRows {
				t.Fatalf("Slice(%d, %d) rows = %d, want %d",
					tt.start, tt.limit, got.RowCount(), tt.wantRows)
			}
			if len(got.ColumnNames()) != 2 {
				t.Errorf("slice lost columns: %v", got.ColumnNames())
			}
			if tt.wantRows > 0 {
				col, _ := got.Column("sales")
				if col.Values[0].Int != tt.wantFirst {
					t.Errorf("first sales value = %d, want %d", col.Values[0].Int, tt.wantFirst)
				}
			}
		})
	}
}

func TestHeadClamps(t *testing.T) {
	if got := sample().Head(100).RowCount(); got != 4 {
		t.Errorf("Head(100) rows = %d, want 4", got)
	}
	if got := sample().Head(2).RowCount(); got != 2 {
		t.Errorf("Head(2) rows = %d, want 2", got)
	}
}

func TestSelect(t *testing.T) {
	got := sample().Select([]int{2, 0})
	col, _ := got.Column("sales")
	if col.Values[0].Int != 30 || col.Values[1].Int != 10 {
		t.Errorf("Select([2,0]) sales = %v", col.Values)
	}
}

func TestRows(t *testing.T) {
	rows := sample().Rows()
	if len(rows) != 4 {
		t.Fatalf("Rows() = %d rows, want 4", len(rows))
	}
	want := map[string]any{"region": "east", "sales": int32(10)}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("rows[0] = %v, want %v", rows[0], want)
	}
	if rows[3]["region"] != nil {
		t.Errorf("null cell = %v, want nil", rows[3]["region"])
	}
}

func TestDistinct(t *testing.T) {
	vals, err := sample().Distinct("region")
	if err != nil {
		t.Fatalf("Distinct error: %v", err)
	}
	// First-seen order, one null entry.
	if len(vals) != 3 {
		t.Fatalf("Distinct = %d values, want 3", len(vals))
	}
	if vals[0].Str != "east" || vals[1].Str != "west" || !vals[2].Null {
		t.Errorf("Distinct order = %v", vals)
	}

	if _, err := sample().Distinct("nope"); err == nil {
		t.Error("Distinct on unknown column did not fail")
	}
}
