package query

import (
	"testing"
	"time"

	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

func intColumn(name string, cells ...int32) table.Column {
	vals := make([]value.Value, len(cells))
	for i, c := range cells {
		vals[i] = value.Int(c)
	}
	return table.Column{Name: name, Kind: value.KindInteger, Values: vals}
}

func strColumn(name string, cells ...string) table.Column {
	vals := make([]value.Value, len(cells))
	for i, c := range cells {
		vals[i] = value.String(c)
	}
	return table.Column{Name: name, Kind: value.KindString, Values: vals}
}

func dateColumn(name string, days ...string) table.Column {
	vals := make([]value.Value, len(days))
	for i, d := range days {
		t, _ := time.Parse(value.DateLayout, d)
		vals[i] = value.Date(t)
	}
	return table.Column{Name: name, Kind: value.KindDate, Values: vals}
}

func TestApplySearchBaseline(t *testing.T) {
	// Rows whose first-column value is null are dropped even with no
	// search terms.
	tbl := table.New(table.Column{
		Name: "id", Kind: value.KindInteger,
		Values: []value.Value{value.Int(1), value.Null(value.KindInteger), value.Int(3)},
	})

	got := applySearch(tbl, nil)
	if got.RowCount() != 2 {
		t.Fatalf("baseline kept %d rows, want 2", got.RowCount())
	}
}

func TestApplySearchInteger(t *testing.T) {
	tbl := table.New(intColumn("n", 5, 10, 15, 20, 25))

	tests := []struct {
		name string
		term SearchTerm
		want []int32
	}{
		{
			name: "single equality",
			term: SearchTerm{Column: "n", Mode: FilterSingle, Values: []string{"15"}},
			want: []int32{15},
		},
		{
			name: "prefix also means equality",
			term: SearchTerm{Column: "n", Mode: FilterPrefix, Values: []string{"10"}},
			want: []int32{10},
		},
		{
			name: "multi membership",
			term: SearchTerm{Column: "n", Mode: FilterMulti, Values: []string{"5", "25"}},
			want: []int32{5, 25},
		},
		{
			name: "range inclusive on both ends",
			term: SearchTerm{Column: "n", Mode: FilterDateRange, Values: []string{"10", "20"}},
			want: []int32{10, 15, 20},
		},
		{
			name: "unparsable value skips the term",
			term: SearchTerm{Column: "n", Mode: FilterSingle, Values: []string{"abc"}},
			want: []int32{5, 10, 15, 20, 25},
		},
		{
			name: "unknown column skips the term",
			term: SearchTerm{Column: "missing", Mode: FilterSingle, Values: []string{"5"}},
			want: []int32{5, 10, 15, 20, 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applySearch(tbl, []SearchTerm{tt.term})
			col, _ := got.Column("n")
			if len(col.Values) != len(tt.want) {
				t.Fatalf("kept %d rows, want %d", len(col.Values), len(tt.want))
			}
			for i, w := range tt.want {
				if col.Values[i].Int != w {
					t.Errorf("row %d = %d, want %d", i, col.Values[i].Int, w)
				}
			}
		})
	}
}

func TestApplySearchString(t *testing.T) {
	tbl := table.New(strColumn("city", "berlin", "boston", "tokyo"))

	got := applySearch(tbl, []SearchTerm{
		{Column: "city", Mode: FilterPrefix, Values: []string{"b"}},
	})
	if got.RowCount() != 2 {
		t.Fatalf("prefix kept %d rows, want 2", got.RowCount())
	}

	got = applySearch(tbl, []SearchTerm{
		{Column: "city", Mode: FilterSingle, Values: []string{" tokyo "}},
	})
	col, _ := got.Column("city")
	if len(col.Values) != 1 || col.Values[0].Str != "tokyo" {
		t.Errorf("single with padded value kept %v", col.Values)
	}
}

func TestApplySearchDateRange(t *testing.T) {
	tbl := table.New(dateColumn("d", "2024-01-01", "2024-02-15", "2024-03-31"))

	// On date columns the prefix mode carries an inclusive range.
	got := applySearch(tbl, []SearchTerm{
		{Column: "d", Mode: FilterPrefix, Values: []string{"2024-02-15", "2024-03-31"}},
	})
	if got.RowCount() != 2 {
		t.Fatalf("date range kept %d rows, want 2", got.RowCount())
	}
}

func TestApplySearchTermsAreANDed(t *testing.T) {
	tbl := table.New(
		strColumn("city", "berlin", "boston", "berlin"),
		intColumn("n", 1, 2, 3),
	)

	got := applySearch(tbl, []SearchTerm{
		{Column: "city", Mode: FilterSingle, Values: []string{"berlin"}},
		{Column: "n", Mode: FilterSingle, Values: []string{"3"}},
	})
	if got.RowCount() != 1 {
		t.Fatalf("AND of terms kept %d rows, want 1", got.RowCount())
	}
}

func TestApplySearchNullNeverMatches(t *testing.T) {
	tbl := table.New(
		intColumn("id", 1, 2, 3),
		table.Column{Name: "s", Kind: value.KindString, Values: []value.Value{
			value.String("a"), value.Null(value.KindString), value.String("ab"),
		}},
	)

	got := applySearch(tbl, []SearchTerm{
		{Column: "s", Mode: FilterPrefix, Values: []string{"a"}},
	})
	if got.RowCount() != 2 {
		t.Fatalf("kept %d rows, want 2 (null excluded)", got.RowCount())
	}
}
