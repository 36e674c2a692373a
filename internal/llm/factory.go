package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/sanket/internal/model"
)

// NewProvider creates a provider based on the configuration. An empty
// provider name returns (nil, nil): answering then falls back to raw
// retrieval instead of generation.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic", "claude":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel maps application configuration to provider
// configuration, resolving the API key from the environment.
func ConfigFromModel(cfg model.LLMConfig) Config {
	out := Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
	if out.APIKey == "" {
		switch strings.ToLower(cfg.Provider) {
		case "openai":
			out.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			out.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	return out
}
