package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	assert.Equal(t, "https://api.logic-mill.net/api/v1/graphql/", cfg.Search.Endpoint)
	assert.Equal(t, "patspecter", cfg.Search.Model)
	assert.Equal(t, 50, cfg.Search.Amount)
	assert.Equal(t, []string{"patents", "publications"}, cfg.Search.Indices)

	assert.Equal(t, "https://api.openalex.org", cfg.OpenAlex.BaseURL)
	assert.Equal(t, "https://ops.epo.org/3.2", cfg.Epo.BaseURL)

	assert.Equal(t, 5, cfg.Hydration.Workers)
	assert.Equal(t, 5, cfg.Comparison.Workers)
	assert.False(t, cfg.Comparison.Sequential)
	assert.Equal(t, 500*time.Millisecond, cfg.Comparison.SequentialDelay)

	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)

	assert.Equal(t, "https://api.elevenlabs.io", cfg.Agent.BaseURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("NOVELTY_SERVER_HTTP_PORT", "9000")
	t.Setenv("NOVELTY_LOGGING_LEVEL", "debug")
	t.Setenv("NOVELTY_SEARCH_MODEL", "specter2")
	t.Setenv("NOVELTY_COMPARISON_SEQUENTIAL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "specter2", cfg.Search.Model)
	assert.True(t, cfg.Comparison.Sequential)
}

func TestLoad_SecretsFromEnvironment(t *testing.T) {
	t.Setenv("NOVELTY_SEARCH_API_KEY", "search-key")
	t.Setenv("NOVELTY_EPO_CONSUMER_KEY", "epo-key")
	t.Setenv("NOVELTY_EPO_CONSUMER_SECRET", "epo-secret")
	t.Setenv("NOVELTY_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("NOVELTY_AGENT_ID", "agent-1")
	t.Setenv("NOVELTY_AGENT_API_KEY", "xi-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "search-key", cfg.Search.APIKey)
	assert.Equal(t, "epo-key", cfg.Epo.ConsumerKey)
	assert.Equal(t, "epo-secret", cfg.Epo.ConsumerSecret)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "agent-1", cfg.Agent.AgentID)
	assert.Equal(t, "xi-key", cfg.Agent.APIKey)
}

func TestLoad_LLMEnabledRequiresKey(t *testing.T) {
	t.Setenv("NOVELTY_LLM_ENABLED", "true")
	t.Setenv("NOVELTY_LLM_OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOVELTY_LLM_OPENAI_API_KEY")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects invalid http port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.HTTPPort = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects invalid metrics port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.MetricsPort = 70000
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects invalid log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty search endpoint", func(t *testing.T) {
		cfg := valid()
		cfg.Search.Endpoint = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive search amount", func(t *testing.T) {
		cfg := valid()
		cfg.Search.Amount = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty indices", func(t *testing.T) {
		cfg := valid()
		cfg.Search.Indices = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects zero hydration workers", func(t *testing.T) {
		cfg := valid()
		cfg.Hydration.Workers = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out-of-range llm temperature when enabled", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.Enabled = true
		cfg.LLM.OpenAI.APIKey = "sk-test"
		cfg.LLM.Temperature = 3.5
		assert.Error(t, cfg.Validate())
	})
}
