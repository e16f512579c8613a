package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/databoard/internal/table"
	"github.com/vegasq/databoard/internal/value"
)

// ReadParquet reads an entire parquet file into a table. Column order
// follows the file schema. Parquet's richer types collapse into the
// engine's value domain: integer widths narrow to int32, doubles to
// float32, byte arrays to strings; anything else is kept as its text
// form.
func ReadParquet(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fields := pqFile.Schema().Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = field.Name()
	}

	rows := make([]map[string]any, 0)
	pr := parquet.NewReader(pqFile)
	defer func() { _ = pr.Close() }()
	for {
		row := make(map[string]any)
		if err := pr.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	cols := make([]table.Column, len(names))
	for i, name := range names {
		cols[i] = buildParquetColumn(name, rows)
	}
	return table.New(cols...), nil
}

// buildParquetColumn converts one column of decoded row maps. The
// column kind is taken from the first non-nil cell.
func buildParquetColumn(name string, rows []map[string]any) table.Column {
	kind := value.KindString
	for _, row := range rows {
		if cell, ok := row[name]; ok && cell != nil {
			kind = goKind(cell)
			break
		}
	}

	vals := make([]value.Value, len(rows))
	for i, row := range rows {
		cell, ok := row[name]
		if !ok || cell == nil {
			vals[i] = value.Null(kind)
			continue
		}
		vals[i] = convertCell(cell, kind)
	}
	return table.Column{Name: name, Kind: kind, Values: vals}
}

// goKind maps a decoded parquet value to a column kind.
func goKind(cell any) value.Kind {
	switch cell.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return value.KindInteger
	case float32, float64:
		return value.KindFloat
	case bool:
		return value.KindBool
	case time.Time:
		return value.KindDate
	default:
		return value.KindString
	}
}

// convertCell narrows a decoded parquet value into the column's kind.
func convertCell(cell any, kind value.Kind) value.Value {
	switch kind {
	case value.KindInteger:
		switch n := cell.(type) {
		case int:
			return value.Int(int32(n))
		case int8:
			return value.Int(int32(n))
		case int16:
			return value.Int(int32(n))
		case int32:
			return value.Int(n)
		case int64:
			return value.Int(int32(n))
		case uint:
			return value.Int(int32(n))
		case uint8:
			return value.Int(int32(n))
		case uint16:
			return value.Int(int32(n))
		case uint32:
			return value.Int(int32(n))
		case uint64:
			return value.Int(int32(n))
		}
	case value.KindFloat:
		switch f := cell.(type) {
		case float32:
			return value.Float(f)
		case float64:
			return value.Float(float32(f))
		}
	case value.KindBool:
		if b, ok := cell.(bool); ok {
			return value.Bool(b)
		}
	case value.KindDate:
		if t, ok := cell.(time.Time); ok {
			return value.Date(t)
		}
	case value.KindString:
		if s, ok := cell.(string); ok {
			return value.String(s)
		}
	}
	return value.String(fmt.Sprintf("%v", cell))
}
