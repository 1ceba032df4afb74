package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/apperrors"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

func TestExplorer_Tables(t *testing.T) {
	executor := &describeExecutor{perTable: map[string]queryStep{
		"customers": {result: columnsOf("customer_id", "integer", "name", "text")},
		"products":  {err: errors.New("permission denied")},
		"sales":     {result: columnsOf("sale_id", "integer")},
	}}
	svc := NewExplorerService(executor, "workspace", "claude", zap.NewNop())

	tables := svc.Tables(context.Background())

	require.Len(t, tables, 2)
	assert.Equal(t, "customers", tables[0].Name)
	assert.Equal(t, "workspace.claude.customers", tables[0].FullName)
	require.Len(t, tables[0].Columns, 2)
	assert.Equal(t, "customer_id", tables[0].Columns[0].Name)
	assert.Equal(t, "integer", tables[0].Columns[0].DataType)
	assert.Equal(t, "sales", tables[1].Name)
}

func TestExplorer_SampleUnknownTable(t *testing.T) {
	svc := NewExplorerService(&describeExecutor{}, "workspace", "claude", zap.NewNop())

	_, err := svc.Sample(context.Background(), "secrets", 5)
	assert.ErrorIs(t, err, apperrors.ErrUnknownTable)
}

func TestExplorer_SampleQueryShape(t *testing.T) {
	executor := &recordingExecutor{result: &warehouse.QueryResult{
		Columns: []string{"customer_id", "name"},
		Rows:    [][]any{{1, "Ada Lindgren"}},
	}}
	svc := NewExplorerService(executor, "workspace", "claude", zap.NewNop())

	result, err := svc.Sample(context.Background(), "customers", 0)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM workspace.claude.customers LIMIT 5", executor.lastQ)
	assert.Equal(t, 1, result.RowCount())
}
