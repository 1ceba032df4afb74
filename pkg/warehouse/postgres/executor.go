package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// Executor provides PostgreSQL query execution for the warehouse.
// Every Query call dials a fresh connection and closes it before returning.
type Executor struct {
	connStr string
	logger  *zap.Logger
}

// NewExecutor creates a PostgreSQL warehouse executor from connection settings.
func NewExecutor(cfg *warehouse.Config, logger *zap.Logger) *Executor {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Hostname, cfg.Port, cfg.User, cfg.AccessToken, cfg.Database, sslMode,
	)
	return &Executor{
		connStr: connStr,
		logger:  logger.Named("warehouse-postgres"),
	}
}

// Query runs a SQL statement over a fresh connection and returns all rows.
func (e *Executor) Query(ctx context.Context, sqlQuery string) (*warehouse.QueryResult, error) {
	conn, err := pgx.Connect(ctx, e.connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to warehouse: %w", err)
	}
	defer conn.Close(ctx)

	start := time.Now()

	rows, err := conn.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		row := make([]any, len(values))
		copy(row, values)
		resultRows = append(resultRows, row)
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
	return "PostgreSQL"
}

// Close is a no-op; connections are opened and closed per query.
func (e *Executor) Close() error {
	return nil
}

// Ensure Executor implements warehouse.QueryExecutor at compile time.
var _ warehouse.QueryExecutor = (*Executor)(nil)
