package llm

import "context"

// Provider defines the interface for hosted LLM providers that turn a
// grounded prompt into an answer.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for the given request
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for answer generation.
type GenerateRequest struct {
	// System is the system instruction (optional; providers fall back
	// to a default)
	System string

	// Prompt is the full user prompt including any retrieved context
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the LLM's output.
type GenerateResponse struct {
	// Text is the generated answer
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// defaultSystemPrompt applies when a request carries no system
// instruction.
const defaultSystemPrompt = "You are an expert analyst of mine safety statistics. Answer using only the provided context."

func (r GenerateRequest) system() string {
	if r.System != "" {
		return r.System
	}
	return defaultSystemPrompt
}
