// Package etl implements the normalization pass that turns a raw,
// as-loaded table into a well-typed one.
//
// Normalization is driven by a per-column target-kind mapping and a
// coercion rule keyed by (source kind, target kind). Cell-level parse
// failures never abort the pass: unparsable numeric cells become null
// and unmatched date cells become the sentinel date. Only structural
// problems — a column with no mapping entry, or a kind pair with no
// rule — fail the call, and then the whole call fails with no partial
// result.
package etl

import (
	"fmt"
	"strings"
	"time"

	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// MissingMappingError reports a raw column absent from the type
// mapping. The normalization call fails atomically.
type MissingMappingError struct {
	Column string
}

func (e *MissingMappingError) Error() string {
	return fmt.Sprintf("no type mapping for column %q", e.Column)
}

// UnsupportedCoercionError reports a (source, target) kind pair with
// no defined coercion rule.
type UnsupportedCoercionError struct {
	From, To value.Kind
}

func (e *UnsupportedCoercionError) Error() string {
	return fmt.Sprintf("unsupported coercion from %s to %s", e.From, e.To)
}

// Normalize applies the type mapping to every column of raw and
// returns the normalized table. Column order and names are preserved.
// The input table is never mutated.
func Normalize(raw *table.Table, mapping map[string]value.Kind) (*table.Table, error) {
	cols := make([]table.Column, 0, len(raw.Cols()))
	for _, src := range raw.Cols() {
		target, ok := mapping[src.Name]
		if !ok {
			return nil, &MissingMappingError{Column: src.Name}
		}
		out, err := coerceColumn(src, target)
		if err != nil {
			return nil, err
		}
		cols = append(cols, out)
	}
	return table.New(cols...), nil
}

// coerceColumn converts one column to the target kind.
func coerceColumn(src table.Column, target value.Kind) (table.Column, error) {
	cast, outKind, err := castFunc(src.Kind, target)
	if err != nil {
		return table.Column{}, err
	}

	vals := make([]value.Value, len(src.Values))
	for i, v := range src.Values {
		if v.Null {
			vals[i] = value.Null(outKind)
			continue
		}
		vals[i] = cast(v)
	}
	return table.Column{Name: src.Name, Kind: outKind, Values: vals}, nil
}

// castFunc selects the per-cell coercion for a (source, target) pair
// and reports the kind the output column will have. The output kind is
// usually the target, except where a rule deliberately keeps the
// source kind (bool→date is an identity no-op).
func castFunc(from, to value.Kind) (func(value.Value) value.Value, value.Kind, error) {
	switch from {
	case value.KindInteger:
		switch to {
		case value.KindString:
			return func(v value.Value) value.Value { return value.String(v.Text()) }, to, nil
		case value.KindInteger:
			return identity, to, nil
		case value.KindFloat:
			return func(v value.Value) value.Value { return value.Float(float32(v.Int)) }, to, nil
		case value.KindDate:
			// Integers are assumed to be Unix timestamps in seconds.
			return func(v value.Value) value.Value { return secondsToDate(int64(v.Int)) }, to, nil
		}
	case value.KindFloat:
		switch to {
		case value.KindString:
			return func(v value.Value) value.Value { return value.String(v.Text()) }, to, nil
		case value.KindInteger:
			return func(v value.Value) value.Value { return value.Int(int32(v.Float)) }, to, nil
		case value.KindFloat:
			return identity, to, nil
		case value.KindDate:
			return func(v value.Value) value.Value { return secondsToDate(int64(v.Float)) }, to, nil
		}
	case value.KindString:
		switch to {
		case value.KindString:
			return func(v value.Value) value.Value { return value.String(strings.TrimSpace(v.Str)) }, to, nil
		case value.KindInteger:
			return func(v value.Value) value.Value {
				n, ok := value.ExtractInt(v.Str)
				if !ok {
					return value.Null(value.KindInteger)
				}
				return value.Int(n)
			}, to, nil
		case value.KindFloat:
			return func(v value.Value) value.Value {
				f, ok := value.ExtractFloat(v.Str)
				if !ok {
					return value.Null(value.KindFloat)
				}
				return value.Float(f)
			}, to, nil
		case value.KindDate:
			// Unparsable dates degrade to the sentinel, not null.
			// This asymmetry with the numeric rules is intentional.
			return func(v value.Value) value.Value {
				t, ok := value.ExtractDate(v.Str)
				if !ok {
					return value.Date(value.Sentinel())
				}
				return value.Date(t)
			}, to, nil
		}
	case value.KindDate:
		switch to {
		case value.KindString:
			return func(v value.Value) value.Value { return value.String(v.Text()) }, to, nil
		case value.KindInteger:
			return func(v value.Value) value.Value { return value.Int(daysSinceEpoch(v.Date)) }, to, nil
		case value.KindFloat:
			return func(v value.Value) value.Value { return value.Float(float32(daysSinceEpoch(v.Date))) }, to, nil
		case value.KindDate:
			return identity, to, nil
		}
	case value.KindBool:
		switch to {
		case value.KindString:
			return func(v value.Value) value.Value { return value.String(v.Text()) }, to, nil
		case value.KindInteger:
			return func(v value.Value) value.Value {
				if v.Bool {
					return value.Int(1)
				}
				return value.Int(0)
			}, to, nil
		case value.KindFloat:
			return func(v value.Value) value.Value {
				if v.Bool {
					return value.Float(1)
				}
				return value.Float(0)
			}, to, nil
		case value.KindDate:
			// No bool→date rule exists; the column is kept as-is.
			return identity, value.KindBool, nil
		}
	}
	return nil, 0, &UnsupportedCoercionError{From: from, To: to}
}

func identity(v value.Value) value.Value { return v }

// secondsToDate interprets n as Unix seconds and truncates the
// resulting instant to its UTC calendar day.
func secondsToDate(n int64) value.Value {
	ms := n * 1000
	return value.Date(time.UnixMilli(ms).UTC())
}

// daysSinceEpoch is the integer cast for date columns.
func daysSinceEpoch(t time.Time) int32 {
	return int32(t.Unix() / 86400)
}
