package warehouse

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ExecutorFactory builds a QueryExecutor from warehouse settings.
type ExecutorFactory func(cfg *Config, logger *zap.Logger) QueryExecutor

var (
	registryMu sync.RWMutex
	registry   = make(map[string]ExecutorFactory)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(warehouseType string, factory ExecutorFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[warehouseType] = factory
}

// NewQueryExecutor creates an executor for the configured warehouse type.
// The adapter package must be imported (for its init registration) or the
// type is reported as unsupported.
func NewQueryExecutor(cfg *Config, logger *zap.Logger) (QueryExecutor, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported warehouse type %q", cfg.Type)
	}
	return factory(cfg, logger), nil
}
