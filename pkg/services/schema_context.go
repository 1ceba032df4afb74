package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// warehouseTables is the fixed allowlist of tables the assistant can see.
var warehouseTables = []string{"customers", "products", "sales"}

// SchemaContextService renders the warehouse schema as a textual description
// for prompt inclusion. The description is computed lazily once per session
// and reused for every prompt in that session.
type SchemaContextService interface {
	// Describe returns the schema description for a session, building and
	// caching it on first use. Tables that fail to describe are silently
	// omitted.
	Describe(ctx context.Context, sessionID uuid.UUID) string

	// Invalidate drops the cached description for a session. Called on
	// session reset.
	Invalidate(sessionID uuid.UUID)
}

type schemaContextService struct {
	executor warehouse.QueryExecutor
	catalog  string
	schema   string
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[uuid.UUID]string
}

// NewSchemaContextService creates a new schema context service.
func NewSchemaContextService(executor warehouse.QueryExecutor, catalog, schema string, logger *zap.Logger) SchemaContextService {
	return &schemaContextService{
		executor: executor,
		catalog:  catalog,
		schema:   schema,
		logger:   logger.Named("schema-context"),
		cache:    make(map[uuid.UUID]string),
	}
}

var _ SchemaContextService = (*schemaContextService)(nil)

func (s *schemaContextService) Describe(ctx context.Context, sessionID uuid.UUID) string {
	s.mu.Lock()
	if cached, ok := s.cache[sessionID]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	description := s.build(ctx)

	s.mu.Lock()
	s.cache[sessionID] = description
	s.mu.Unlock()

	return description
}

func (s *schemaContextService) Invalidate(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.cache, sessionID)
	s.mu.Unlock()
}

// build queries column metadata for every allowlisted table and formats it
// into one multi-paragraph description.
func (s *schemaContextService) build(ctx context.Context) string {
	parts := []string{"Available database tables:\n"}

	for _, table := range warehouseTables {
		result, err := s.executor.Query(ctx, s.columnsQuery(table))
		if err != nil {
			s.logger.Warn("Failed to describe table, omitting from context",
				zap.String("table", table),
				zap.Error(err))
			continue
		}
		if result.RowCount() == 0 {
			continue
		}

		parts = append(parts, fmt.Sprintf("\n%s.%s.%s:", s.catalog, s.schema, table))
		for _, row := range result.Rows {
			if len(row) < 2 {
				continue
			}
			parts = append(parts, fmt.Sprintf("  - %v (%v)", row[0], row[1]))
		}
	}

	return strings.Join(parts, "\n")
}

func (s *schemaContextService) columnsQuery(table string) string {
	return fmt.Sprintf(
		"SELECT column_name, data_type FROM information_schema.columns WHERE table_schema = '%s' AND table_name = '%s' ORDER BY ordinal_position",
		strings.ReplaceAll(s.schema, "'", "''"),
		strings.ReplaceAll(table, "'", "''"),
	)
}
