package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// aggregate groups t by the dimension columns, in the order given, and
// computes every metric per group. Result rows are sorted ascending by
// the dimension columns.
func aggregate(t *table.Table, dims []string, metrics []Metric) (*table.Table, error) {
	dimCols := make([]*table.Column, len(dims))
	for i, name := range dims {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		dimCols[i] = col
	}

	// Hash-based grouping with first-seen order.
	groupIdx := make(map[string]int)
	var groups [][]int
	var keys []string
	for row := 0; row < t.RowCount(); row++ {
		key := groupKey(dimCols, row)
		g, ok := groupIdx[key]
		if !ok {
			g = len(groups)
			groupIdx[key] = g
			groups = append(groups, nil)
			keys = append(keys, key)
		}
		groups[g] = append(groups[g], row)
	}

	out := make([]table.Column, 0, len(dims)+len(metrics))
	for i, col := range dimCols {
		vals := make([]value.Value, len(groups))
		for g, rows := range groups {
			vals[g] = col.Values[rows[0]]
		}
		out = append(out, table.Column{Name: dims[i], Kind: col.Kind, Values: vals})
	}

	used := make(map[string]bool, len(out)+len(metrics))
	for _, c := range out {
		used[c.Name] = true
	}
	for _, m := range metrics {
		col, err := t.Column(m.Column)
		if err != nil {
			return nil, err
		}
		agg, outKind, err := newAggregator(m.Mode, col.Kind, m.Column)
		if err != nil {
			return nil, err
		}
		vals := make([]value.Value, len(groups))
		for g, rows := range groups {
			vals[g] = agg(col, rows)
		}
		name := metricName(m, used)
		used[name] = true
		out = append(out, table.Column{Name: name, Kind: outKind, Values: vals})
	}

	result := table.New(out...)
	return sortAscending(result, dims)
}

// metricName keeps result column names unique: the first metric over a
// column keeps the column's name, later ones are suffixed with their
// mode so two metrics over the same column never collide.
func metricName(m Metric, used map[string]bool) string {
	name := m.Column
	if !used[name] {
		return name
	}
	name = fmt.Sprintf("%s_%s", m.Column, m.Mode)
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s_%s%d", m.Column, m.Mode, i)
	}
	return name
}

// groupKey builds a composite key from the dimension cells of one row.
// Separators are unlikely byte sequences to avoid collisions between
// adjacent values.
func groupKey(dimCols []*table.Column, row int) string {
	var b strings.Builder
	for i, col := range dimCols {
		if i > 0 {
			b.WriteString("\x00||\x00")
		}
		v := col.Values[row]
		if v.Null {
			b.WriteString("\x00null\x00")
			continue
		}
		b.WriteString(v.Text())
	}
	return b.String()
}

// newAggregator returns a function computing one metric over a set of
// row indexes of a column, together with the kind of the result.
// Null cells count as missing and are skipped. Rate is declared in the
// wire format but has no implementation; requesting it is an error
// rather than a silent substitution.
func newAggregator(mode MetricMode, src value.Kind, name string) (func(*table.Column, []int) value.Value, value.Kind, error) {
	switch mode {
	case ModeRate:
		return nil, 0, &NotImplementedError{Mode: mode}

	case ModeCount:
		return func(col *table.Column, rows []int) value.Value {
			n := int32(0)
			for _, r := range rows {
				if !col.Values[r].Null {
					n++
				}
			}
			return value.Int(n)
		}, value.KindInteger, nil

	case ModeSum:
		switch src {
		case value.KindInteger:
			return func(col *table.Column, rows []int) value.Value {
				var sum int64
				seen := false
				for _, r := range rows {
					v := col.Values[r]
					if v.Null {
						continue
					}
					sum += int64(v.Int)
					seen = true
				}
				if !seen {
					return value.Null(value.KindInteger)
				}
				return value.Int(int32(sum))
			}, value.KindInteger, nil
		case value.KindFloat:
			return func(col *table.Column, rows []int) value.Value {
				var sum float64
				seen := false
				for _, r := range rows {
					v := col.Values[r]
					if v.Null {
						continue
					}
					sum += float64(v.Float)
					seen = true
				}
				if !seen {
					return value.Null(value.KindFloat)
				}
				return value.Float(float32(sum))
			}, value.KindFloat, nil
		}
		return nil, 0, fmt.Errorf("cannot sum column %q of kind %s", name, src)

	case ModeAvg:
		if src != value.KindInteger && src != value.KindFloat {
			return nil, 0, fmt.Errorf("cannot average column %q of kind %s", name, src)
		}
		return func(col *table.Column, rows []int) value.Value {
			var sum float64
			var n int
			for _, r := range rows {
				v := col.Values[r]
				if v.Null {
					continue
				}
				if src == value.KindInteger {
					sum += float64(v.Int)
				} else {
					sum += float64(v.Float)
				}
				n++
			}
			if n == 0 {
				return value.Null(value.KindFloat)
			}
			return value.Float(float32(sum / float64(n)))
		}, value.KindFloat, nil

	case ModeMax, ModeMin:
		if src == value.KindBool {
			return nil, 0, fmt.Errorf("cannot order column %q of kind %s", name, src)
		}
		wantGreater := mode == ModeMax
		return func(col *table.Column, rows []int) value.Value {
			best := value.Null(src)
			for _, r := range rows {
				v := col.Values[r]
				if v.Null {
					continue
				}
				if best.Null {
					best = v
					continue
				}
				cmp := compareValues(v, best)
				if (wantGreater && cmp > 0) || (!wantGreater && cmp < 0) {
					best = v
				}
			}
			return best
		}, src, nil
	}

	return nil, 0, fmt.Errorf("unknown metric mode %d", mode)
}

// compareValues orders two non-null values of the same kind.
// Returns -1, 0 or +1.
func compareValues(a, b value.Value) int {
	switch a.Kind {
	case value.KindInteger:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	case value.KindFloat:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		}
		return 0
	case value.KindDate:
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	default:
		return strings.Compare(a.Text(), b.Text())
	}
}

// sortAscending orders the rows of t ascending by the named columns,
// in the order given. Null cells sort first.
func sortAscending(t *table.Table, by []string) (*table.Table, error) {
	cols := make([]*table.Column, len(by))
	for i, name := range by {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	idx := make([]int, t.RowCount())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		for _, col := range cols {
			a, b := col.Values[idx[i]], col.Values[idx[j]]
			if a.Null && b.Null {
				continue
			}
			if a.Null {
				return true
			}
			if b.Null {
				return false
			}
			if cmp := compareValues(a, b); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return t.Select(idx), nil
}
