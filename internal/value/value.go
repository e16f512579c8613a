// Package value defines the typed value domain for table columns.
//
// A column holds values of exactly one Kind: string, 32-bit integer,
// 32-bit float, or calendar date. Bool exists only as a source kind
// produced by load-time inference; it is never a normalization target.
//
// Parsing in this package is deliberately forgiving: extraction helpers
// pull the first plausible run out of messy text (currency symbols,
// units, thousands separators) instead of demanding a strict grammar,
// and a cell that cannot be parsed degrades to a null or a sentinel
// rather than failing. Malformed cells must never abort a whole load.
package value

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the type of a column's values.
//
// The integer codes for String through Date are part of the wire
// format used by the command layer and must not be reordered.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindDate

	// KindBool is internal only: it can appear in a freshly loaded
	// table but never survives normalization as a target kind.
	KindBool
)

// KindFromCode maps a wire-format integer code to a Kind.
// Unknown codes fall back to KindString.
func KindFromCode(code int) Kind {
	switch code {
	case 1:
		return KindInteger
	case 2:
		return KindFloat
	case 3:
		return KindDate
	default:
		return KindString
	}
}

// Code returns the wire-format integer code for the kind.
// KindBool has no code of its own and reports as string.
func (k Kind) Code() int {
	switch k {
	case KindInteger:
		return 1
	case KindFloat:
		return 2
	case KindDate:
		return 3
	default:
		return 0
	}
}

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DateLayout is the canonical text representation for dates.
const DateLayout = "2006-01-02"

// Sentinel returns the fallback date used when no layout matches.
// Date parsing never fails; it degrades to this fixed day instead.
func Sentinel() time.Time {
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Value is a tagged variant holding one cell of a column.
// Only the payload field matching Kind is meaningful; Null marks a
// missing cell of that kind.
type Value struct {
	Kind  Kind
	Null  bool
	Str   string
	Int   int32
	Float float32
	Bool  bool
	Date  time.Time
}

// String wraps a string payload.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int wraps an int32 payload.
func Int(i int32) Value { return Value{Kind: KindInteger, Int: i} }

// Float wraps a float32 payload.
func Float(f float32) Value { return Value{Kind: KindFloat, Float: f} }

// Bool wraps a bool payload.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Date wraps a calendar date payload, truncated to UTC midnight.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Date: Day(t)}
}

// Null returns a missing cell of the given kind.
func Null(k Kind) Value { return Value{Kind: k, Null: true} }

// Day truncates a time to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Text returns the canonical text form of the value: integers without
// a decimal point, floats with no forced precision, dates as
// YYYY-MM-DD. Null cells render as the empty string.
func (v Value) Text() string {
	if v.Null {
		return ""
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInteger:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Scalar returns a JSON-compatible scalar for row encoding: numbers
// stay numeric, dates become canonical text, nulls become nil.
func (v Value) Scalar() any {
	if v.Null {
		return nil
	}
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}
