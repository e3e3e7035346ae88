// Package agent obtains signed session URLs for the conversational voice
// agent from the ElevenLabs API.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/registry"
)

const (
	// DefaultBaseURL is the default ElevenLabs API base URL.
	DefaultBaseURL = "https://api.elevenlabs.io"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// signedURLPath is the conversational-AI signed URL endpoint.
	// The endpoint only accepts GET; POST returns 405.
	signedURLPath = "/v1/convai/conversation/get-signed-url"
)

// Config holds configuration for the ElevenLabs client.
type Config struct {
	// BaseURL is the ElevenLabs API base URL.
	// Defaults to https://api.elevenlabs.io
	BaseURL string

	// AgentID identifies the conversational agent to open a session for.
	AgentID string

	// APIKey is the ElevenLabs API key sent as the xi-api-key header.
	APIKey string

	// Timeout is the request timeout.
	// Defaults to 30 seconds.
	Timeout time.Duration
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Client fetches signed session URLs from ElevenLabs.
type Client struct {
	config     Config
	httpClient *registry.HTTPClient
}

// New creates a new ElevenLabs client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpClient := registry.NewHTTPClient(registry.HTTPClientConfig{
		Timeout: cfg.Timeout,
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new ElevenLabs client with a custom HTTP
// client. This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *registry.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// signedURLResponse is the upstream response payload.
type signedURLResponse struct {
	SignedURL string `json:"signed_url"`
}

// SignedURL requests a signed session URL for the configured agent.
// Missing agent ID or API key is a configuration failure, reported before
// any network call is made.
func (c *Client) SignedURL(ctx context.Context) (string, error) {
	if c.config.AgentID == "" {
		return "", domain.NewCredentialsError("ElevenLabs", "NOVELTY_AGENT_ID")
	}
	if c.config.APIKey == "" {
		return "", domain.NewCredentialsError("ElevenLabs", "NOVELTY_AGENT_API_KEY")
	}

	endpoint := c.config.BaseURL + signedURLPath + "?agent_id=" + url.QueryEscape(c.config.AgentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("xi-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", domain.NewExternalAPIError(
			"ElevenLabs",
			resp.StatusCode,
			string(body),
			nil,
		)
	}

	var payload signedURLResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if payload.SignedURL == "" {
		return "", domain.NewExternalAPIError("ElevenLabs", resp.StatusCode, "empty signed_url in response", nil)
	}

	return payload.SignedURL, nil
}
