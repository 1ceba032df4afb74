package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/config"
	"github.com/chatlytics-io/chatlytics-engine/pkg/conversation"
	"github.com/chatlytics-io/chatlytics-engine/pkg/handlers"
	"github.com/chatlytics-io/chatlytics-engine/pkg/llm"
	"github.com/chatlytics-io/chatlytics-engine/pkg/services"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"

	// Warehouse adapters register themselves with the executor factory.
	_ "github.com/chatlytics-io/chatlytics-engine/pkg/warehouse/mssql"
	_ "github.com/chatlytics-io/chatlytics-engine/pkg/warehouse/postgres"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Local development reads secrets from .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("warehouse_type", cfg.Warehouse.Type),
		zap.String("warehouse", cfg.Warehouse.Hostname),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("table_prefix", cfg.TablePrefix()))

	executor, err := warehouse.NewQueryExecutor(cfg.WarehouseConnection(), logger)
	if err != nil {
		logger.Fatal("Failed to create warehouse executor", zap.Error(err))
	}
	defer func() { _ = executor.Close() }()

	llmClient, err := llm.NewClient(cfg.LLMClientConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	store := conversation.NewStore()
	schemaContext := services.NewSchemaContextService(executor, cfg.Catalog, cfg.Schema, logger)
	agent := services.NewAgentService(store, llmClient, executor, schemaContext, cfg.TablePrefix(), cfg.RepairBudget, logger)
	insights := services.NewInsightsService(executor, cfg.TablePrefix(), logger)
	explorer := services.NewExplorerService(executor, cfg.Catalog, cfg.Schema, logger)

	sessionStore := handlers.NewSessionStore(cfg.SessionKey)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(agent, sessionStore, logger).RegisterRoutes(mux)
	handlers.NewInsightsHandler(insights, logger).RegisterRoutes(mux)
	handlers.NewExplorerHandler(explorer, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting chatlytics-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
