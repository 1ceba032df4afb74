package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/apperrors"
	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

const defaultSampleLimit = 5

// ExplorerService exposes the allowlisted warehouse tables for browsing:
// column metadata and sample rows. Only tables on the fixed allowlist are
// reachable.
type ExplorerService interface {
	// Tables describes every allowlisted table that can currently be
	// introspected. Tables that fail to describe are omitted.
	Tables(ctx context.Context) []models.TableDescription

	// Sample returns up to limit rows from an allowlisted table.
	Sample(ctx context.Context, table string, limit int) (*warehouse.QueryResult, error)
}

type explorerService struct {
	executor warehouse.QueryExecutor
	catalog  string
	schema   string
	logger   *zap.Logger
}

// NewExplorerService creates a new explorer service.
func NewExplorerService(executor warehouse.QueryExecutor, catalog, schema string, logger *zap.Logger) ExplorerService {
	return &explorerService{
		executor: executor,
		catalog:  catalog,
		schema:   schema,
		logger:   logger.Named("explorer"),
	}
}

var _ ExplorerService = (*explorerService)(nil)

func (s *explorerService) Tables(ctx context.Context) []models.TableDescription {
	tables := make([]models.TableDescription, 0, len(warehouseTables))

	for _, table := range warehouseTables {
		query := fmt.Sprintf(
			"SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = '%s' AND table_name = '%s' ORDER BY ordinal_position",
			escapeLiteral(s.schema), escapeLiteral(table))

		result, err := s.executor.Query(ctx, query)
		if err != nil {
			s.logger.Warn("Failed to describe table",
				zap.String("table", table),
				zap.Error(err))
			continue
		}
		if result.RowCount() == 0 {
			continue
		}

		desc := models.TableDescription{
			Name:     table,
			FullName: s.fullTableName(table),
			Columns:  make([]models.ColumnDescription, 0, len(result.Rows)),
		}
		for _, row := range result.Rows {
			if len(row) < 2 {
				continue
			}
			desc.Columns = append(desc.Columns, models.ColumnDescription{
				Name:     fmt.Sprintf("%v", row[0]),
				DataType: fmt.Sprintf("%v", row[1]),
			})
		}
		tables = append(tables, desc)
	}

	return tables
}

func (s *explorerService) Sample(ctx context.Context, table string, limit int) (*warehouse.QueryResult, error) {
	if !isAllowedTable(table) {
		return nil, apperrors.ErrUnknownTable
	}
	if limit <= 0 {
		limit = defaultSampleLimit
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", s.fullTableName(table), limit)
	return s.executor.Query(ctx, query)
}

func (s *explorerService) fullTableName(table string) string {
	return s.catalog + "." + s.schema + "." + table
}

func isAllowedTable(table string) bool {
	for _, t := range warehouseTables {
		if t == table {
			return true
		}
	}
	return false
}
