package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// DefaultMaxTokens caps response length when the config does not set one.
const DefaultMaxTokens = 4096

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider  string // ProviderAnthropic (default) or ProviderOpenAI
	APIKey    string
	Model     string
	Endpoint  string // base URL for OpenAI-compatible endpoints, optional
	MaxTokens int
}

// NewClient creates an LLM client for the configured provider.
func NewClient(cfg *Config, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return NewAnthropicClient(cfg, logger)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
