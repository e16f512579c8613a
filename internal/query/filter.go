package query

import (
	"strings"
	"time"

	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// applySearch reduces t to the rows matching every applicable search
// term. The baseline predicate requires the first column's value to
// be present; each term then ANDs one more predicate, dispatched on
// the column's kind and the term's mode.
//
// Filtering degrades rather than fails: a term whose column is
// missing, whose values do not parse for the column's kind, or whose
// mode has no meaning for the kind is skipped and the predicate is
// left unchanged.
func applySearch(t *table.Table, terms []SearchTerm) *table.Table {
	cols := t.Cols()
	if len(cols) == 0 {
		return t
	}

	rows := t.RowCount()
	mask := make([]bool, rows)
	for i, v := range cols[0].Values {
		mask[i] = !v.Null
	}

	for _, term := range terms {
		col, err := t.Column(term.Column)
		if err != nil {
			continue
		}
		applyTerm(mask, col, term)
	}

	idx := make([]int, 0, rows)
	for i, keep := range mask {
		if keep {
			idx = append(idx, i)
		}
	}
	return t.Select(idx)
}

// applyTerm narrows mask in place for one search term. Terms that
// cannot be applied leave the mask untouched.
func applyTerm(mask []bool, col *table.Column, term SearchTerm) {
	switch col.Kind {
	case value.KindInteger:
		vals, ok := parseIntValues(term.Values)
		if !ok || len(vals) == 0 {
			return
		}
		switch term.Mode {
		case FilterSingle, FilterPrefix:
			// Prefix matching is not defined for integers; both
			// modes compare for equality.
			narrow(mask, col, func(v value.Value) bool { return v.Int == vals[0] })
		case FilterMulti:
			set := intSet(vals)
			narrow(mask, col, func(v value.Value) bool { return set[v.Int] })
		case FilterDateRange:
			// The date-range mode carries inclusive integer bounds.
			if len(vals) > 1 {
				lo, hi := vals[0], vals[1]
				narrow(mask, col, func(v value.Value) bool { return v.Int >= lo && v.Int <= hi })
			}
		}

	case value.KindFloat:
		vals, ok := parseFloatValues(term.Values)
		if !ok || len(vals) == 0 {
			return
		}
		if term.Mode == FilterNumberRange && len(vals) > 1 {
			lo, hi := vals[0], vals[1]
			narrow(mask, col, func(v value.Value) bool { return v.Float >= lo && v.Float <= hi })
		}

	case value.KindString:
		vals := trimValues(term.Values)
		if len(vals) == 0 {
			return
		}
		switch term.Mode {
		case FilterSingle:
			narrow(mask, col, func(v value.Value) bool { return v.Str == vals[0] })
		case FilterMulti:
			set := stringSet(vals)
			narrow(mask, col, func(v value.Value) bool { return set[v.Str] })
		case FilterPrefix:
			narrow(mask, col, func(v value.Value) bool { return strings.HasPrefix(v.Str, vals[0]) })
		}

	case value.KindDate:
		vals := trimValues(term.Values)
		if len(vals) == 0 {
			return
		}
		switch term.Mode {
		case FilterSingle:
			narrow(mask, col, func(v value.Value) bool { return v.Text() == vals[0] })
		case FilterMulti:
			set := stringSet(vals)
			narrow(mask, col, func(v value.Value) bool { return set[v.Text()] })
		case FilterPrefix:
			// The prefix mode carries an inclusive date range.
			if len(vals) < 2 {
				return
			}
			lo, err1 := time.Parse(value.DateLayout, vals[0])
			hi, err2 := time.Parse(value.DateLayout, vals[1])
			if err1 != nil || err2 != nil {
				return
			}
			narrow(mask, col, func(v value.Value) bool {
				return !v.Date.Before(lo) && !v.Date.After(hi)
			})
		}
	}
}

// narrow ANDs pred over the column's cells into mask. Null cells never
// match.
func narrow(mask []bool, col *table.Column, pred func(value.Value) bool) {
	for i, v := range col.Values {
		if !mask[i] {
			continue
		}
		if v.Null || !pred(v) {
			mask[i] = false
		}
	}
}

// parseIntValues parses every value strictly as int32. A single parse
// failure invalidates the whole list so the term is skipped.
func parseIntValues(values []string) ([]int32, bool) {
	out := make([]int32, 0, len(values))
	for _, s := range values {
		n, ok := value.ParseStrictInt(s)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func parseFloatValues(values []string) ([]float32, bool) {
	out := make([]float32, 0, len(values))
	for _, s := range values {
		f, ok := value.ParseStrictFloat(s)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func trimValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func intSet(vals []int32) map[int32]bool {
	set := make(map[int32]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}

func stringSet(vals []string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
