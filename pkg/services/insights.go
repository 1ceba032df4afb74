package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// insightsTable is the reporting table that external jobs write to. This
// service only ever reads from it.
const insightsTable = "business_insights"

// InsightsService retrieves precomputed business insights from the
// reporting table.
type InsightsService interface {
	// All returns insights ordered by most recent, capped at limit.
	All(ctx context.Context, limit int) (*warehouse.QueryResult, error)

	// ByType returns insights of one type, most recent first.
	ByType(ctx context.Context, insightType string) (*warehouse.QueryResult, error)

	// LatestPerType returns the most recent insight for each type.
	LatestPerType(ctx context.Context) (*warehouse.QueryResult, error)

	// Types returns the distinct insight types, sorted.
	Types(ctx context.Context) ([]string, error)

	// Search matches a term against metric names and interpretations,
	// case-insensitively, capped at 20 rows.
	Search(ctx context.Context, term string) (*warehouse.QueryResult, error)

	// Summary returns aggregate statistics over the whole table.
	Summary(ctx context.Context) (*models.InsightsSummary, error)
}

type insightsService struct {
	executor  warehouse.QueryExecutor
	tableName string
	logger    *zap.Logger
}

// NewInsightsService creates a new insights service. tablePrefix is the
// catalog.schema qualifier.
func NewInsightsService(executor warehouse.QueryExecutor, tablePrefix string, logger *zap.Logger) InsightsService {
	return &insightsService{
		executor:  executor,
		tableName: tablePrefix + "." + insightsTable,
		logger:    logger.Named("insights"),
	}
}

var _ InsightsService = (*insightsService)(nil)

func (s *insightsService) All(ctx context.Context, limit int) (*warehouse.QueryResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		"SELECT insight_id, insight_type, metric_name, metric_value, ai_interpretation, generated_at FROM %s ORDER BY generated_at DESC LIMIT %d",
		s.tableName, limit)
	return s.executor.Query(ctx, query)
}

func (s *insightsService) ByType(ctx context.Context, insightType string) (*warehouse.QueryResult, error) {
	query := fmt.Sprintf(
		"SELECT insight_id, metric_name, metric_value, ai_interpretation, generated_at FROM %s WHERE insight_type = '%s' ORDER BY generated_at DESC",
		s.tableName, escapeLiteral(insightType))
	return s.executor.Query(ctx, query)
}

func (s *insightsService) LatestPerType(ctx context.Context) (*warehouse.QueryResult, error) {
	query := fmt.Sprintf(`WITH ranked_insights AS (
    SELECT insight_id, insight_type, metric_name, metric_value, ai_interpretation, generated_at,
           ROW_NUMBER() OVER (PARTITION BY insight_type ORDER BY generated_at DESC) AS rn
    FROM %s
)
SELECT insight_id, insight_type, metric_name, metric_value, ai_interpretation, generated_at
FROM ranked_insights
WHERE rn = 1
ORDER BY insight_type`, s.tableName)
	return s.executor.Query(ctx, query)
}

func (s *insightsService) Types(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT insight_type FROM %s ORDER BY insight_type", s.tableName)
	result, err := s.executor.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	types := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) == 0 || row[0] == nil {
			continue
		}
		types = append(types, fmt.Sprintf("%v", row[0]))
	}
	return types, nil
}

func (s *insightsService) Search(ctx context.Context, term string) (*warehouse.QueryResult, error) {
	escaped := escapeLiteral(term)
	query := fmt.Sprintf(
		"SELECT insight_id, insight_type, metric_name, metric_value, ai_interpretation, generated_at FROM %s WHERE LOWER(metric_name) LIKE LOWER('%%%s%%') OR LOWER(ai_interpretation) LIKE LOWER('%%%s%%') ORDER BY generated_at DESC LIMIT 20",
		s.tableName, escaped, escaped)
	return s.executor.Query(ctx, query)
}

func (s *insightsService) Summary(ctx context.Context) (*models.InsightsSummary, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*) AS total_insights, COUNT(DISTINCT insight_type) AS unique_types, MIN(generated_at) AS earliest_insight, MAX(generated_at) AS latest_insight FROM %s",
		s.tableName)
	result, err := s.executor.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 || len(result.Rows[0]) < 4 {
		return nil, fmt.Errorf("summary query returned unexpected shape: %d rows", len(result.Rows))
	}

	row := result.Rows[0]
	summary := &models.InsightsSummary{
		TotalInsights: toInt64(row[0]),
		UniqueTypes:   toInt64(row[1]),
	}
	if t, ok := toTime(row[2]); ok {
		summary.EarliestInsight = &t
	}
	if t, ok := toTime(row[3]); ok {
		summary.LatestInsight = &t
	}
	return summary, nil
}

// escapeLiteral doubles single quotes so user-supplied terms survive string
// literal embedding. Broader injection defense is out of scope for this
// read-only reporting path.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	default:
		return time.Time{}, false
	}
}
