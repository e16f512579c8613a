package query

import (
	"errors"

	"github.com/vegasq/databoard/internal/table"
)

// Execute runs a query against the normalized table and returns the
// full, unbounded result. The input table is never mutated.
//
// The pipeline is filter → shape → sort. Shaping depends on the
// dimensions: both row and column dimensions select pivot mode, row
// dimensions alone select aggregate mode, and a query with no row
// dimensions passes the filtered table through unchanged.
func Execute(t *table.Table, q Query) (*table.Table, error) {
	filtered := applySearch(t, q.Search)

	if len(q.Dimensions.Columns) > 0 {
		if len(q.Dimensions.Rows) > 0 {
			return executePivot(filtered, q)
		}
		// Column dimensions without row dimensions have no shaping
		// defined; the filtered table passes through.
		return filtered, nil
	}
	if len(q.Dimensions.Rows) > 0 {
		return aggregate(filtered, q.Dimensions.Rows, q.Metrics)
	}
	return filtered, nil
}

// executePivot tries each requested metric in order and keeps the
// first pivot that succeeds, discarding the rest: the cross-tab holds
// a single metric value. Multi-level pivots are unsupported, so only
// the first row and first column dimension are consulted. A metric
// whose pivot fails (missing column, aggregation undefined for the
// kind) is skipped; if none succeeds the filtered table is returned
// unchanged. Rate is the exception: it aborts the query outright.
func executePivot(filtered *table.Table, q Query) (*table.Table, error) {
	rowDim := q.Dimensions.Rows[0]
	colDim := q.Dimensions.Columns[0]

	for _, m := range q.Metrics {
		result, err := pivot(filtered, rowDim, colDim, m)
		if err != nil {
			var notImpl *NotImplementedError
			if errors.As(err, &notImpl) {
				return nil, err
			}
			continue
		}
		return result, nil
	}
	return filtered, nil
}
