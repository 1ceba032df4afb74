package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/chatlytics-io/chatlytics-engine/pkg/llm"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// Config holds all configuration for chatlytics-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (warehouse access token, LLM API key, cookie key) must only come
// from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// SessionKey signs the session cookie that ties a browser to its
	// conversation. Randomly generated at startup when unset, which is fine
	// for a single instance but logs everyone out on restart.
	SessionKey string `yaml:"-" env:"SESSION_KEY"` // Secret - not in YAML

	// Warehouse connection configuration
	Warehouse WarehouseConfig `yaml:"warehouse"`

	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Catalog and Schema qualify every table name the assistant queries.
	Catalog string `yaml:"catalog" env:"WAREHOUSE_CATALOG" env-default:"workspace"`
	Schema  string `yaml:"schema" env:"WAREHOUSE_SCHEMA" env-default:"claude"`

	// RepairBudget is how many automatic fix attempts a failed query gets.
	RepairBudget int `yaml:"repair_budget" env:"REPAIR_BUDGET" env-default:"1"`
}

// WarehouseConfig holds the analytics warehouse connection settings.
type WarehouseConfig struct {
	Type     string `yaml:"type" env:"WAREHOUSE_TYPE" env-default:"postgres"`
	Hostname string `yaml:"hostname" env:"WAREHOUSE_HOSTNAME" env-default:""`
	Port     int    `yaml:"port" env:"WAREHOUSE_PORT" env-default:"5432"`
	Database string `yaml:"database" env:"WAREHOUSE_DATABASE" env-default:""`
	User     string `yaml:"user" env:"WAREHOUSE_USER" env-default:"token"`
	SSLMode  string `yaml:"ssl_mode" env:"WAREHOUSE_SSL_MODE" env-default:"require"`

	AccessToken string `yaml:"-" env:"WAREHOUSE_ACCESS_TOKEN"` // Secret - not in YAML
}

// LLMConfig holds the language model provider settings.
type LLMConfig struct {
	Provider  string `yaml:"provider" env:"LLM_PROVIDER" env-default:"anthropic"`
	Model     string `yaml:"model" env:"LLM_MODEL" env-default:"claude-sonnet-4-20250514"`
	Endpoint  string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:""`
	MaxTokens int    `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"4096"`

	APIKey string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist, configuration comes from the
// environment alone. The version parameter is injected at build time and set
// on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate checks that everything the engine cannot run without is present.
func (c *Config) validate() error {
	if c.Warehouse.Hostname == "" {
		return fmt.Errorf("warehouse hostname is required (WAREHOUSE_HOSTNAME)")
	}
	if c.Warehouse.Database == "" {
		return fmt.Errorf("warehouse database is required (WAREHOUSE_DATABASE)")
	}
	if c.Warehouse.AccessToken == "" {
		return fmt.Errorf("warehouse access token is required (WAREHOUSE_ACCESS_TOKEN)")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (LLM_API_KEY)")
	}
	if c.RepairBudget < 0 {
		return fmt.Errorf("repair_budget must be zero or positive, got %d", c.RepairBudget)
	}
	return nil
}

// TablePrefix returns the catalog.schema qualifier prepended to table names
// in generated SQL.
func (c *Config) TablePrefix() string {
	return c.Catalog + "." + c.Schema
}

// WarehouseConnection converts the loaded settings into the executor
// factory's connection config.
func (c *Config) WarehouseConnection() *warehouse.Config {
	return &warehouse.Config{
		Type:        c.Warehouse.Type,
		Hostname:    c.Warehouse.Hostname,
		Port:        c.Warehouse.Port,
		Database:    c.Warehouse.Database,
		User:        c.Warehouse.User,
		AccessToken: c.Warehouse.AccessToken,
		SSLMode:     c.Warehouse.SSLMode,
	}
}

// LLMClientConfig converts the loaded settings into the LLM client
// factory's config.
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Provider:  c.LLM.Provider,
		APIKey:    c.LLM.APIKey,
		Model:     c.LLM.Model,
		Endpoint:  c.LLM.Endpoint,
		MaxTokens: c.LLM.MaxTokens,
	}
}
