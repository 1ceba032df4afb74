// Package warehouse provides SQL execution against the analytics warehouse.
package warehouse

import "context"

// QueryResult contains the tabular result of a SQL query execution.
// Columns are ordered as returned by the statement's result descriptor and
// each row is column-aligned. A result with zero columns is distinct from a
// result with columns but zero rows: the former never comes from a
// successful execution, the latter is a legitimate empty answer.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Empty reports whether the result carries no columns at all.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.Columns) == 0
}

// RowCount returns the number of rows in the result.
func (r *QueryResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// QueryExecutor executes raw SQL against the warehouse.
//
// Each Query call opens a fresh connection, executes the statement, fetches
// all rows, and closes the connection on every exit path. There is no
// pooling and no reuse across calls; this trades latency for simplicity and
// avoids shared-connection hazards.
type QueryExecutor interface {
	// Query runs a SQL statement and returns its full result set.
	// Connection, syntax, and timeout failures are all returned as errors;
	// callers that need the legacy empty-result behavior collapse them.
	Query(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Dialect returns the SQL dialect name used in LLM prompts,
	// e.g. "PostgreSQL" or "SQL Server".
	Dialect() string

	// Close releases any resources held by the executor.
	Close() error
}
