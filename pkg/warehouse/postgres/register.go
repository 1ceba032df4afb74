package postgres

import (
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

func init() {
	warehouse.Register(warehouse.TypePostgres, func(cfg *warehouse.Config, logger *zap.Logger) warehouse.QueryExecutor {
		return NewExecutor(cfg, logger)
	})
}
