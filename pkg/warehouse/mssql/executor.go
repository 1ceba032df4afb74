package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver for database/sql
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// Executor provides SQL Server query execution for the warehouse.
// Every Query call opens a fresh handle and closes it before returning.
type Executor struct {
	logger *zap.Logger

	// open dials the warehouse; overridable in tests.
	open func() (*sql.DB, error)
}

// NewExecutor creates a SQL Server warehouse executor from connection settings.
func NewExecutor(cfg *warehouse.Config, logger *zap.Logger) *Executor {
	dsn := (&url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.AccessToken),
		Host:     fmt.Sprintf("%s:%d", cfg.Hostname, cfg.Port),
		RawQuery: url.Values{"database": []string{cfg.Database}}.Encode(),
	}).String()

	return &Executor{
		logger: logger.Named("warehouse-mssql"),
		open: func() (*sql.DB, error) {
			return sql.Open("sqlserver", dsn)
		},
	}
}

// Query runs a SQL statement over a fresh handle and returns all rows.
func (e *Executor) Query(ctx context.Context, sqlQuery string) (*warehouse.QueryResult, error) {
	db, err := e.open()
	if err != nil {
		return nil, fmt.Errorf("connect to warehouse: %w", err)
	}
	defer db.Close()

	start := time.Now()

	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read column descriptors: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		resultRows = append(resultRows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	e.logger.Debug("Query executed",
		zap.Int("columns", len(columns)),
		zap.Int("rows", len(resultRows)),
		zap.Duration("elapsed", time.Since(start)))

	return &warehouse.QueryResult{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

// Dialect returns the prompt-facing dialect name.
func (e *Executor) Dialect() string {
	return "SQL Server"
}

// Close is a no-op; handles are opened and closed per query.
func (e *Executor) Close() error {
	return nil
}

// Ensure Executor implements warehouse.QueryExecutor at compile time.
var _ warehouse.QueryExecutor = (*Executor)(nil)
