// Package search queries the Logic Mill similarity search service.
//
// Logic Mill embeds a document (title plus abstract) with a transformer
// model and returns the nearest neighbours across its patent and publication
// indices in a single GraphQL call.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/registry"
)

const (
	// DefaultEndpoint is the default Logic Mill GraphQL endpoint.
	DefaultEndpoint = "https://api.logic-mill.net/api/v1/graphql/"

	// DefaultModel is the default embedding model. PatSPECTER embeds
	// patents and scientific publications into a shared vector space.
	DefaultModel = "patspecter"

	// DefaultAmount is the default number of similar documents to request.
	DefaultAmount = 50

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit for requests per second.
	DefaultRateLimit = 10.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 10
)

// similaritySearchQuery embeds the document and runs the nearest-neighbour
// search in one round trip.
const similaritySearchQuery = `
query embedDocumentAndSimilaritySearch($data: [EncodeDocumentPart], $indices: [String], $amount: Int, $model: String!) {
  encodeDocumentAndSimilaritySearch(
    data: $data
    indices: $indices
    amount: $amount
    model: $model
  ) {
    id
    score
    index
    document {
      title
      url
    }
  }
}
`

// patentIndex is the Logic Mill index name that maps to the patent
// document type; every other index maps to publications.
const patentIndex = "patents"

// DefaultIndices returns the indices searched by default.
func DefaultIndices() []string {
	return []string{"patents", "publications"}
}

// Config holds configuration for the Logic Mill client.
type Config struct {
	// Endpoint is the GraphQL endpoint URL.
	// Defaults to https://api.logic-mill.net/api/v1/graphql/
	Endpoint string

	// APIKey is the Logic Mill bearer token.
	APIKey string

	// Model is the embedding model name.
	// Defaults to patspecter.
	Model string

	// Amount is the number of similar documents to request.
	// Defaults to 50.
	Amount int

	// Indices are the Logic Mill indices to search.
	// Defaults to patents and publications.
	Indices []string

	// Timeout is the request timeout.
	// Defaults to 30 seconds.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to 10 req/sec.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to 10.
	BurstSize int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Amount == 0 {
		c.Amount = DefaultAmount
	}
	if len(c.Indices) == 0 {
		c.Indices = DefaultIndices()
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
}

// Client queries Logic Mill for documents similar to a given title and
// abstract.
type Client struct {
	config     Config
	httpClient *registry.HTTPClient
}

// New creates a new Logic Mill client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	httpClient := registry.NewHTTPClient(registry.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
	})

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// NewWithHTTPClient creates a new Logic Mill client with a custom HTTP
// client. This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *registry.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Search embeds the title and abstract and returns the ranked similar
// documents across the configured indices. Result order follows the
// ranking returned by Logic Mill.
func (c *Client) Search(ctx context.Context, title, abstract string) ([]domain.SearchResult, error) {
	if c.config.APIKey == "" {
		return nil, domain.NewCredentialsError("Logic Mill", "NOVELTY_SEARCH_API_KEY")
	}

	payload, err := json.Marshal(graphqlRequest{
		Query: similaritySearchQuery,
		Variables: map[string]any{
			"model": c.config.Model,
			"data": []documentPart{
				{Key: "title", Value: title},
				{Key: "abstract", Value: abstract},
			},
			"amount":  c.config.Amount,
			"indices": c.config.Indices,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(
			"Logic Mill",
			resp.StatusCode,
			string(body),
			nil,
		)
	}

	// Limit body to 10MB to prevent resource exhaustion.
	var gqlResp graphqlResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, domain.NewExternalAPIError(
			"Logic Mill",
			resp.StatusCode,
			gqlResp.Errors[0].Message,
			nil,
		)
	}

	results := make([]domain.SearchResult, 0, len(gqlResp.Data.Results))
	for _, hit := range gqlResp.Data.Results {
		results = append(results, domain.SearchResult{
			ID:    hit.ID,
			Title: hit.Document.Title,
			Type:  documentType(hit.Index),
			Score: hit.Score,
			URL:   hit.Document.URL,
		})
	}

	return results, nil
}

// documentType maps a Logic Mill index name to a document type.
func documentType(index string) domain.DocumentType {
	if index == patentIndex {
		return domain.DocumentTypePatent
	}
	return domain.DocumentTypePublication
}
