// Package epo hydrates patent search results from the EPO Open Patent
// Services (OPS) API.
//
// OPS uses OAuth client-credentials authentication; the client exchanges the
// consumer key and secret for a bearer token and caches it until shortly
// before expiry. Bibliographic records are served as exchange-format XML.
package epo

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/registry"
)

const (
	// DefaultBaseURL is the default EPO OPS API base URL.
	DefaultBaseURL = "https://ops.epo.org/3.2"

	// DefaultRateLimit is the default rate limit for requests per second.
	// OPS free tier throttles aggressively, so stay conservative.
	DefaultRateLimit = 5.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 5

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// defaultTokenTTL is assumed when OPS omits or mangles expires_in.
	defaultTokenTTL = 20 * time.Minute

	// tokenExpiryMargin is subtracted from the token TTL so a token is
	// refreshed before it can expire mid-request.
	tokenExpiryMargin = time.Minute
)

// publicationNumberPattern extracts the country code and serial number from
// a patent identifier, dropping kind codes and other suffixes
// (e.g. "EP1000000B1" becomes "EP1000000").
var publicationNumberPattern = regexp.MustCompile(`^([A-Z]+[0-9]+)`)

// unicodeSpacePattern matches Unicode whitespace characters (EN SPACE,
// EM SPACE, THIN SPACE, line and paragraph separators) that OPS embeds in
// party names.
var unicodeSpacePattern = regexp.MustCompile(`[\x{2000}-\x{200B}\x{2028}\x{2029}]`)

// multiSpacePattern collapses runs of whitespace into a single space.
var multiSpacePattern = regexp.MustCompile(`\s+`)

// Config holds configuration for the EPO OPS client.
type Config struct {
	// BaseURL is the OPS API base URL.
	// Defaults to https://ops.epo.org/3.2
	BaseURL string

	// ConsumerKey and ConsumerSecret are the OPS OAuth client credentials.
	ConsumerKey    string
	ConsumerSecret string

	// Timeout is the request timeout.
	// Defaults to 30 seconds.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to 5 req/sec.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to 5.
	BurstSize int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
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

// Client implements the registry.Hydrator interface for EPO OPS.
type Client struct {
	config     Config
	httpClient *registry.HTTPClient

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Ensure Client implements the Hydrator interface.
var _ registry.Hydrator = (*Client)(nil)

// New creates a new EPO OPS client with the given configuration.
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

// NewWithHTTPClient creates a new EPO OPS client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *registry.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// Hydrate fetches the bibliographic record for a patent search result.
// The identifier is reduced to its country-code-plus-number form before the
// lookup, and missing fields on the record degrade to empty values.
func (c *Client) Hydrate(ctx context.Context, result domain.SearchResult) (*domain.EnrichedDocument, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	biblioURL := fmt.Sprintf(
		"%s/rest-services/published-data/publication/epodoc/%s/biblio",
		strings.TrimSuffix(c.config.BaseURL, "/"),
		publicationNumber(result.ID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, biblioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewNotFoundError("patent", result.ID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, domain.NewExternalAPIError(
			"EPO OPS",
			resp.StatusCode,
			string(body),
			nil,
		)
	}

	// Limit body to 10MB to prevent resource exhaustion.
	var data worldPatentData
	if err := xml.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.documentFromExchange(result, &data), nil
}

// DocumentType returns the document type this hydrator owns.
func (c *Client) DocumentType() domain.DocumentType {
	return domain.DocumentTypePatent
}

// Name returns the human-readable name for this registry.
func (c *Client) Name() string {
	return "EPO OPS"
}

// accessToken returns a valid bearer token, fetching a fresh one from the
// OPS auth endpoint when the cached token is missing or about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.config.ConsumerKey == "" {
		return "", domain.NewCredentialsError("EPO OPS", "NOVELTY_EPO_CONSUMER_KEY")
	}
	if c.config.ConsumerSecret == "" {
		return "", domain.NewCredentialsError("EPO OPS", "NOVELTY_EPO_CONSUMER_SECRET")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	tokenURL := strings.TrimSuffix(c.config.BaseURL, "/") + "/auth/accesstoken"
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", domain.NewExternalAPIError(
			"EPO OPS",
			resp.StatusCode,
			"access token request failed: "+string(body),
			nil,
		)
	}

	var token tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&token); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", domain.NewExternalAPIError("EPO OPS", resp.StatusCode, "empty access token", nil)
	}

	ttl := defaultTokenTTL
	if seconds, err := strconv.Atoi(token.ExpiresIn); err == nil && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}
	if ttl > tokenExpiryMargin {
		ttl -= tokenExpiryMargin
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(ttl)

	return c.token, nil
}

// documentFromExchange converts the first exchange document in an OPS
// response into an enriched document.
func (c *Client) documentFromExchange(result domain.SearchResult, data *worldPatentData) *domain.EnrichedDocument {
	doc := domain.NewEnrichedDocument(result)

	if len(data.ExchangeDocuments.Documents) == 0 {
		return doc
	}
	exchange := data.ExchangeDocuments.Documents[0]

	if title := pickTitle(exchange.BibliographicData.InventionTitles); title != "" {
		doc.Title = title
	}
	doc.Abstract = pickAbstract(exchange.Abstracts)
	doc.PublicationDate = formatDate(pickDate(exchange.BibliographicData.PublicationReference))

	// Inventors map to authors, applicants to institutions. Names are
	// cleaned and deduplicated keeping first occurrence.
	seenInventors := make(map[string]struct{})
	for _, inv := range exchange.BibliographicData.Parties.Inventors.Inventors {
		name := cleanText(inv.Name.Name)
		if name == "" {
			continue
		}
		if _, ok := seenInventors[name]; ok {
			continue
		}
		seenInventors[name] = struct{}{}
		doc.Authors = append(doc.Authors, name)
	}

	seenApplicants := make(map[string]struct{})
	for _, app := range exchange.BibliographicData.Parties.Applicants.Applicants {
		name := cleanText(app.Name.Name)
		if name == "" {
			continue
		}
		if _, ok := seenApplicants[name]; ok {
			continue
		}
		seenApplicants[name] = struct{}{}
		doc.Institutions = append(doc.Institutions, name)
	}

	return doc
}

// publicationNumber reduces a patent identifier to its country code and
// serial number, dropping kind codes. Identifiers that do not match the
// expected shape pass through unchanged.
func publicationNumber(id string) string {
	if match := publicationNumberPattern.FindStringSubmatch(id); match != nil {
		return match[1]
	}
	return id
}

// pickTitle selects the English invention title when present, otherwise the
// first title in any language.
func pickTitle(titles []inventionTitle) string {
	for _, t := range titles {
		if t.Lang == "en" {
			return strings.TrimSpace(t.Value)
		}
	}
	if len(titles) > 0 {
		return strings.TrimSpace(titles[0].Value)
	}
	return ""
}

// pickAbstract selects the first paragraph of the English abstract when
// present, otherwise of the first abstract in any language.
func pickAbstract(abstracts []abstract) string {
	for _, a := range abstracts {
		if a.Lang == "en" && len(a.Paragraphs) > 0 {
			return strings.TrimSpace(a.Paragraphs[0])
		}
	}
	for _, a := range abstracts {
		if len(a.Paragraphs) > 0 {
			return strings.TrimSpace(a.Paragraphs[0])
		}
	}
	return ""
}

// pickDate returns the first non-empty date among the publication
// reference's document identifiers.
func pickDate(ref publicationReference) string {
	for _, id := range ref.DocumentIDs {
		if d := strings.TrimSpace(id.Date); d != "" {
			return d
		}
	}
	return ""
}

// formatDate converts an OPS YYYYMMDD date to ISO 8601 (YYYY-MM-DD).
// Dates in any other shape pass through unchanged.
func formatDate(date string) string {
	if len(date) != 8 {
		return date
	}
	return date[:4] + "-" + date[4:6] + "-" + date[6:8]
}

// cleanText replaces Unicode whitespace characters with plain spaces,
// collapses whitespace runs, and trims the result.
func cleanText(text string) string {
	text = unicodeSpacePattern.ReplaceAllString(text, " ")
	text = multiSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
