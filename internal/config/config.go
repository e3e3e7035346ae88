// Package config provides configuration management for the novelty analysis service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the novelty analysis service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Search contains similarity search service settings.
	Search SearchConfig `mapstructure:"search"`
	// OpenAlex contains publication registry settings.
	OpenAlex OpenAlexConfig `mapstructure:"openalex"`
	// Epo contains patent registry settings.
	Epo EpoConfig `mapstructure:"epo"`
	// Hydration contains document hydration fan-out settings.
	Hydration HydrationConfig `mapstructure:"hydration"`
	// LLM contains LLM client settings for pairwise comparison.
	LLM LLMConfig `mapstructure:"llm"`
	// Comparison contains pairwise comparison execution settings.
	Comparison ComparisonConfig `mapstructure:"comparison"`
	// Agent contains voice agent proxy settings.
	Agent AgentConfig `mapstructure:"agent"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// AllowedOrigins lists origins allowed by CORS ("*" allows all).
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
}

// SearchConfig holds similarity search service settings.
type SearchConfig struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string `mapstructure:"endpoint"`
	// APIKey is the bearer token (loaded from NOVELTY_SEARCH_API_KEY env var).
	APIKey string `mapstructure:"-"`
	// Model is the embedding model identifier.
	Model string `mapstructure:"model"`
	// Amount is the number of similar documents to request.
	Amount int `mapstructure:"amount"`
	// Indices are the search indices to query.
	Indices []string `mapstructure:"indices"`
	// Timeout is the timeout for search calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// OpenAlexConfig holds publication registry settings.
type OpenAlexConfig struct {
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Email is the contact email for the polite pool.
	Email string `mapstructure:"email"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// EpoConfig holds patent registry settings.
type EpoConfig struct {
	// BaseURL is the OPS API base URL.
	BaseURL string `mapstructure:"base_url"`
	// ConsumerKey is the OAuth consumer key (loaded from NOVELTY_EPO_CONSUMER_KEY env var).
	ConsumerKey string `mapstructure:"-"`
	// ConsumerSecret is the OAuth consumer secret (loaded from NOVELTY_EPO_CONSUMER_SECRET env var).
	ConsumerSecret string `mapstructure:"-"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// HydrationConfig holds document hydration fan-out settings.
type HydrationConfig struct {
	// Workers bounds concurrent hydration calls per request.
	Workers int `mapstructure:"workers"`
}

// LLMConfig holds LLM client configuration for pairwise comparison.
type LLMConfig struct {
	// Enabled controls whether pairwise comparison runs at all.
	Enabled bool `mapstructure:"enabled"`
	// Timeout is the timeout for LLM API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetries is the maximum number of retries for failed calls.
	MaxRetries int `mapstructure:"max_retries"`
	// Temperature is the LLM temperature setting.
	Temperature float64 `mapstructure:"temperature"`
	// OpenAI contains OpenAI-specific settings.
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// OpenAIConfig holds OpenAI-specific settings.
type OpenAIConfig struct {
	// APIKey is the OpenAI API key (loaded from NOVELTY_LLM_OPENAI_API_KEY env var).
	APIKey string `mapstructure:"-"`
	// Model is the OpenAI model to use.
	Model string `mapstructure:"model"`
	// BaseURL is the OpenAI API base URL (for custom endpoints).
	BaseURL string `mapstructure:"base_url"`
}

// ComparisonConfig holds pairwise comparison execution settings.
type ComparisonConfig struct {
	// Workers is the maximum number of simultaneous LLM calls.
	Workers int `mapstructure:"workers"`
	// Sequential switches to one-call-at-a-time mode.
	Sequential bool `mapstructure:"sequential"`
	// SequentialDelay is the pause between consecutive sequential calls.
	SequentialDelay time.Duration `mapstructure:"sequential_delay"`
}

// AgentConfig holds voice agent proxy settings.
type AgentConfig struct {
	// BaseURL is the ElevenLabs API base URL.
	BaseURL string `mapstructure:"base_url"`
	// AgentID identifies the conversational agent (loaded from NOVELTY_AGENT_ID env var).
	AgentID string `mapstructure:"-"`
	// APIKey is the ElevenLabs API key (loaded from NOVELTY_AGENT_API_KEY env var).
	APIKey string `mapstructure:"-"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("NOVELTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/novelty-analysis-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables.
	// These fields use mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
// These fields are tagged with mapstructure:"-" to prevent loading from config files.
func loadSecrets(cfg *Config) {
	cfg.Search.APIKey = os.Getenv("NOVELTY_SEARCH_API_KEY")
	cfg.Epo.ConsumerKey = os.Getenv("NOVELTY_EPO_CONSUMER_KEY")
	cfg.Epo.ConsumerSecret = os.Getenv("NOVELTY_EPO_CONSUMER_SECRET")
	cfg.LLM.OpenAI.APIKey = os.Getenv("NOVELTY_LLM_OPENAI_API_KEY")
	cfg.Agent.AgentID = os.Getenv("NOVELTY_AGENT_ID")
	cfg.Agent.APIKey = os.Getenv("NOVELTY_AGENT_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Similarity search defaults
	// The API key is loaded exclusively from environment variables (see loadSecrets).
	v.SetDefault("search.endpoint", "https://api.logic-mill.net/api/v1/graphql/")
	v.SetDefault("search.model", "patspecter")
	v.SetDefault("search.amount", 50)
	v.SetDefault("search.indices", []string{"patents", "publications"})
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.rate_limit", 10.0)

	// OpenAlex defaults
	v.SetDefault("openalex.base_url", "https://api.openalex.org")
	v.SetDefault("openalex.email", "")
	v.SetDefault("openalex.timeout", "10s")
	v.SetDefault("openalex.rate_limit", 10.0)

	// EPO OPS defaults
	// Credentials are loaded exclusively from environment variables (see loadSecrets).
	v.SetDefault("epo.base_url", "https://ops.epo.org/3.2")
	v.SetDefault("epo.timeout", "10s")
	v.SetDefault("epo.rate_limit", 5.0)

	// Hydration defaults
	v.SetDefault("hydration.workers", 5)

	// LLM defaults
	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")

	// Comparison defaults
	v.SetDefault("comparison.workers", 5)
	v.SetDefault("comparison.sequential", false)
	v.SetDefault("comparison.sequential_delay", "500ms")

	// Agent defaults
	// Agent ID and API key are loaded exclusively from environment variables (see loadSecrets).
	v.SetDefault("agent.base_url", "https://api.elevenlabs.io")
	v.SetDefault("agent.timeout", "30s")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate server ports
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate search config
	if c.Search.Endpoint == "" {
		return fmt.Errorf("search endpoint is required")
	}
	if c.Search.Amount <= 0 {
		return fmt.Errorf("search amount must be positive")
	}
	if len(c.Search.Indices) == 0 {
		return fmt.Errorf("at least one search index is required")
	}

	// Validate concurrency settings
	if c.Hydration.Workers < 1 {
		return fmt.Errorf("hydration workers must be at least 1")
	}
	if c.Comparison.Workers < 1 {
		return fmt.Errorf("comparison workers must be at least 1")
	}

	// Validate LLM config. The pairwise comparison phase is opt-in, and
	// enabling it without a key is a configuration error rather than a
	// per-request surprise.
	if c.LLM.Enabled {
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("pairwise comparison requires NOVELTY_LLM_OPENAI_API_KEY to be set")
		}
		if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
			return fmt.Errorf("LLM temperature must be between 0 and 2")
		}
	}

	return nil
}
