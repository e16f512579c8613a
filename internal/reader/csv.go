// Package reader loads tabular files into in-memory tables.
//
// CSV is the primary format: the first record is the header and every
// column's kind is inferred from its cells. Parquet files are also
// supported and carry their own schema.
package reader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// Load reads the file at path into a table, choosing the format by
// file extension: ".parquet" routes to the parquet reader, everything
// else reads as delimited text with a header row.
func Load(path string) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return ReadParquet(path)
	}
	return ReadCSV(path)
}

// ReadCSV reads a delimited-text file with a header row into a table.
// Each column's kind is inferred from its cells: a column where every
// non-empty cell parses as an int32 becomes integer, then float, then
// bool, otherwise string. Empty cells load as nulls. Dates are never
// inferred at load time; they appear only after normalization.
func ReadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header row", path)
	}

	header := records[0]
	body := records[1:]

	cols := make([]table.Column, len(header))
	for i, name := range header {
		cells := make([]string, len(body))
		for j, rec := range body {
			cells[j] = rec[i]
		}
		cols[i] = buildColumn(strings.TrimSpace(name), cells)
	}
	return table.New(cols...), nil
}

// buildColumn infers the kind of one column and converts its cells.
func buildColumn(name string, cells []string) table.Column {
	kind := inferKind(cells)

	vals := make([]value.Value, len(cells))
	for i, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			vals[i] = value.Null(kind)
			continue
		}
		switch kind {
		case value.KindInteger:
			n, _ := value.ParseStrictInt(cell)
			vals[i] = value.Int(n)
		case value.KindFloat:
			f, _ := value.ParseStrictFloat(cell)
			vals[i] = value.Float(f)
		case value.KindBool:
			b, _ := value.ParseStrictBool(cell)
			vals[i] = value.Bool(b)
		default:
			vals[i] = value.String(cell)
		}
	}
	return table.Column{Name: name, Kind: kind, Values: vals}
}

// inferKind picks the narrowest kind every non-empty cell fits.
func inferKind(cells []string) value.Kind {
	sawValue := false
	isInt, isFloat, isBool := true, true, true
	for _, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		sawValue = true
		if isInt {
			if _, ok := value.ParseStrictInt(cell); !ok {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := value.ParseStrictFloat(cell); !ok {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := value.ParseStrictBool(cell); !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}
	if !sawValue {
		return value.KindString
	}
	switch {
	case isInt:
		return value.KindInteger
	case isFloat:
		return value.KindFloat
	case isBool:
		return value.KindBool
	default:
		return value.KindString
	}
}
