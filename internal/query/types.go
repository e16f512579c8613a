// Package query implements the declarative query engine: filter the
// normalized table, then aggregate it by row dimensions or pivot it
// into a row×column cross-tab, and sort the result.
//
// The query model mirrors the JSON payload of the command layer.
// Metric and filter modes travel as integer codes; unknown codes
// default rather than fail, so an out-of-date caller degrades
// gracefully instead of being rejected.
package query

import (
	"encoding/json"
	"fmt"
)

// MetricMode selects how a metric column is aggregated.
type MetricMode int

const (
	ModeSum MetricMode = iota
	ModeCount
	ModeMax
	ModeMin
	ModeAvg
	ModeRate // declared in the wire format, not implemented
)

// String returns the lowercase mode name.
func (m MetricMode) String() string {
	switch m {
	case ModeSum:
		return "sum"
	case ModeCount:
		return "count"
	case ModeMax:
		return "max"
	case ModeMin:
		return "min"
	case ModeAvg:
		return "avg"
	case ModeRate:
		return "rate"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MetricModeFromCode maps a wire code to a MetricMode.
// Unknown codes default to ModeCount.
func MetricModeFromCode(code int) MetricMode {
	switch code {
	case 0:
		return ModeSum
	case 2:
		return ModeMax
	case 3:
		return ModeMin
	case 4:
		return ModeAvg
	case 5:
		return ModeRate
	default:
		return ModeCount
	}
}

// UnmarshalJSON decodes the integer wire code with defaulting.
func (m *MetricMode) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("metric mode: %w", err)
	}
	*m = MetricModeFromCode(code)
	return nil
}

// MarshalJSON encodes the integer wire code.
func (m MetricMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(m))
}

// FilterMode selects the comparison applied by a search term. The
// same mode can mean different comparisons on different column kinds:
// FilterDateRange doubles as the integer range mode and FilterPrefix
// doubles as the date range mode. The mode/kind dispatch table in
// filter.go is the authority; the names follow the wire format.
type FilterMode int

const (
	FilterSingle FilterMode = iota
	FilterMulti
	FilterPrefix
	FilterDateRange
	FilterNumberRange
)

// FilterModeFromCode maps a wire code to a FilterMode.
// Unknown codes default to FilterPrefix.
func FilterModeFromCode(code int) FilterMode {
	switch code {
	case 0:
		return FilterSingle
	case 1:
		return FilterMulti
	case 3:
		return FilterDateRange
	case 4:
		return FilterNumberRange
	default:
		return FilterPrefix
	}
}

// UnmarshalJSON decodes the integer wire code with defaulting.
func (f *FilterMode) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("filter mode: %w", err)
	}
	*f = FilterModeFromCode(code)
	return nil
}

// MarshalJSON encodes the integer wire code.
func (f FilterMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Dimensions names the grouping columns of a query. Rows drive
// aggregation; when Columns is also non-empty the query pivots
// instead.
type Dimensions struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
}

// Metric pairs a column with an aggregation mode.
type Metric struct {
	Column string     `json:"index"`
	Mode   MetricMode `json:"mode"`
}

// Filter is carried in the wire format for compatibility but is never
// consulted; only Search terms drive filtering.
type Filter struct {
	Column string     `json:"index"`
	Mode   FilterMode `json:"mode"`
}

// Rule is carried in the wire format for compatibility but is never
// consulted.
type Rule struct {
	Name string `json:"name"`
	Calc string `json:"calc"`
}

// SearchTerm is one filter predicate: a column, a comparison mode and
// the values it compares against.
type SearchTerm struct {
	Column string     `json:"index"`
	Mode   FilterMode `json:"mode"`
	Values []string   `json:"value"`
}

// Query is the declarative query payload.
type Query struct {
	Dimensions Dimensions   `json:"dimensions"`
	Metrics    []Metric     `json:"metrics"`
	Filters    []Filter     `json:"filters"`
	Rules      []Rule       `json:"rules"`
	Search     []SearchTerm `json:"search"`
}

// NotImplementedError reports a declared but unimplemented
// aggregation mode. It is a recoverable, query-scoped error; callers
// must never see it as a crash.
type NotImplementedError struct {
	Mode MetricMode
}

func (e *NotImplementedError) Error() string {
	return "rate aggregation is not implemented"
}
