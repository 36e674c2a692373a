package model

import "time"

// Config is the full application configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Dataset   DatasetConfig   `yaml:"dataset" mapstructure:"dataset"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Vector    VectorConfig    `yaml:"vector" mapstructure:"vector"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behaviour (scraping and download).
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RatePerSec   float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst    int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// ScrapeConfig locates the bulletin listing page.
type ScrapeConfig struct {
	ListingURL string `yaml:"listing_url" mapstructure:"listing_url"`
	PDFPath    string `yaml:"pdf_path" mapstructure:"pdf_path"`
}

// DatasetConfig controls persisted record files and parsing defaults.
type DatasetConfig struct {
	CSVPath  string `yaml:"csv_path" mapstructure:"csv_path"`
	JSONPath string `yaml:"json_path" mapstructure:"json_path"`

	// DefaultYear is the year assigned when a record's date cannot be
	// normalized. The source bulletins are annual, so a single constant
	// is a reasonable best guess.
	DefaultYear string `yaml:"default_year" mapstructure:"default_year"`
}

// EmbeddingConfig selects the embedding model.
type EmbeddingConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	APIKeyEnv string `yaml:"api_key_env" mapstructure:"api_key_env"`
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
	Workers   int    `yaml:"workers" mapstructure:"workers"`
}

// VectorConfig selects and configures the vector store.
type VectorConfig struct {
	Store      string `yaml:"store" mapstructure:"store"` // "memory" or "qdrant"
	URL        string `yaml:"url" mapstructure:"url"`
	APIKeyEnv  string `yaml:"api_key_env" mapstructure:"api_key_env"`
	Collection string `yaml:"collection" mapstructure:"collection"`
	TopK       int    `yaml:"top_k" mapstructure:"top_k"`
}

// LLMConfig configures the answer-generation provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // from env only, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// CacheConfig controls the layered fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls CLI output behaviour.
type OutputConfig struct {
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat string `yaml:"log_format" mapstructure:"log_format"` // json or console
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Sanket/0.1 (+https://github.com/ppiankov/sanket)",
			MaxBodyBytes: 20_000_000,
			RatePerSec:   1,
			RateBurst:    2,
		},
		Scrape: ScrapeConfig{
			ListingURL: "https://dgms.gov.in/UserView/index?mid=1650",
			PDFPath:    "latest_sanket.pdf",
		},
		Dataset: DatasetConfig{
			CSVPath:     "dgms_accidents.csv",
			JSONPath:    "dgms_accidents.json",
			DefaultYear: "2015",
		},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 64,
			Workers:   4,
		},
		Vector: VectorConfig{
			Store:      "memory",
			URL:        "http://localhost:6333",
			APIKeyEnv:  "QDRANT_API_KEY",
			Collection: "mine-stats",
			TopK:       6,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:   false,
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}
