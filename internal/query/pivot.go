package query

import (
	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// pivot cross-tabulates t: one result row per distinct value of the
// row dimension, one result column per distinct value of the column
// dimension (in first-seen order), each cell holding the metric
// aggregated over the matching rows. Cells with no matching rows are
// null. Result rows are sorted ascending by the row dimension.
func pivot(t *table.Table, rowDim, colDim string, m Metric) (*table.Table, error) {
	rowCol, err := t.Column(rowDim)
	if err != nil {
		return nil, err
	}
	spreadCol, err := t.Column(colDim)
	if err != nil {
		return nil, err
	}
	metricCol, err := t.Column(m.Column)
	if err != nil {
		return nil, err
	}
	agg, outKind, err := newAggregator(m.Mode, metricCol.Kind, m.Column)
	if err != nil {
		return nil, err
	}

	// Distinct row and spread values in first-seen order, plus the
	// row set for every (row, spread) cell.
	rowKeys := make(map[string]int)
	var rowOrder []value.Value
	spreadKeys := make(map[string]int)
	var spreadOrder []value.Value
	cells := make(map[[2]int][]int)

	for i := 0; i < t.RowCount(); i++ {
		rv := rowCol.Values[i]
		sv := spreadCol.Values[i]

		rk := cellKey(rv)
		r, ok := rowKeys[rk]
		if !ok {
			r = len(rowOrder)
			rowKeys[rk] = r
			rowOrder = append(rowOrder, rv)
		}

		sk := cellKey(sv)
		s, ok := spreadKeys[sk]
		if !ok {
			s = len(spreadOrder)
			spreadKeys[sk] = s
			spreadOrder = append(spreadOrder, sv)
		}

		cells[[2]int{r, s}] = append(cells[[2]int{r, s}], i)
	}

	out := make([]table.Column, 0, 1+len(spreadOrder))
	out = append(out, table.Column{Name: rowDim, Kind: rowCol.Kind, Values: rowOrder})

	for s, sv := range spreadOrder {
		name := sv.Text()
		if sv.Null {
			name = "null"
		}
		vals := make([]value.Value, len(rowOrder))
		for r := range rowOrder {
			rows, ok := cells[[2]int{r, s}]
			if !ok {
				vals[r] = value.Null(outKind)
				continue
			}
			vals[r] = agg(metricCol, rows)
		}
		out = append(out, table.Column{Name: name, Kind: outKind, Values: vals})
	}

	result := table.New(out...)
	return sortAscending(result, []string{rowDim})
}

// cellKey identifies a dimension value within a pivot; nulls collapse
// into one bucket distinct from any real value.
func cellKey(v value.Value) string {
	if v.Null {
		return "\x00null\x00"
	}
	return v.Text()
}
