// Package sqliface defines the interfaces for executing SQL against the
// backing time-series store and introspecting its schema. The concrete HTTP
// client in pkg/client implements both; handlers depend only on these
// interfaces, which keeps query processing testable with in-memory fakes.
package sqliface

import (
	"context"
	"encoding/json"

	"sqltsdb-grafana-plugin/pkg/schema"
)

// ResultSet is the decoded response of one SQL query. Row values are
// json.Number for numeric cells so 64-bit epoch values survive decoding
// without float truncation.
type ResultSet struct {
	Columns []schema.Column
	Rows    []map[string]any
}

// SQLQueryExecutor executes a final (fully substituted) SQL statement.
type SQLQueryExecutor interface {
	QueryWithContext(ctx context.Context, sql string) (*ResultSet, error)
}

// SchemaIntrospector fetches the column records of a table via a
// DESCRIBE-style query.
type SchemaIntrospector interface {
	DescribeTable(ctx context.Context, table string) ([]schema.Column, error)
}

// NumberToInt64 converts a numeric row value to int64 without a float
// round-trip. It accepts json.Number and the integer types fakes tend to
// put in test fixtures.
func NumberToInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
