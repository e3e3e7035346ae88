package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/pipeline"
)

// fakeAnalyzer returns a canned analysis response or error.
type fakeAnalyzer struct {
	resp *pipeline.AnalysisResponse
	err  error

	gotTitle    string
	gotAbstract string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, title, abstract string) (*pipeline.AnalysisResponse, error) {
	f.gotTitle = title
	f.gotAbstract = abstract
	return f.resp, f.err
}

// fakeAgent returns a canned signed URL or error.
type fakeAgent struct {
	url string
	err error
}

func (f *fakeAgent) SignedURL(ctx context.Context) (string, error) {
	return f.url, f.err
}

func newTestServer(analyzer Analyzer, agent SignedURLProvider) *Server {
	return NewServer(Config{
		Address:        "127.0.0.1:0",
		AllowedOrigins: []string{"*"},
	}, analyzer, agent, zerolog.Nop())
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetAnalysis(t *testing.T) {
	t.Run("returns analysis response", func(t *testing.T) {
		analyzer := &fakeAnalyzer{resp: &pipeline.AnalysisResponse{
			Documents: []*domain.EnrichedDocument{
				{ID: "EP1", Title: "patent one", Type: domain.DocumentTypePatent, Score: 0.9},
			},
			NoveltyScore:     0.1,
			NoveltyAnalysis:  "Novelty score calculated from top 1 documents with highest similarity scores",
			PublicationDates: []string{"2020-01-01"},
		}}
		srv := newTestServer(analyzer, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/get_analysis?title=quantum+widgets&abstract=a+method+for+widgets", nil)
		srv.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "quantum widgets", analyzer.gotTitle)
		assert.Equal(t, "a method for widgets", analyzer.gotAbstract)

		var resp pipeline.AnalysisResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Documents, 1)
		assert.Equal(t, "EP1", resp.Documents[0].ID)
		assert.InDelta(t, 0.1, resp.NoveltyScore, 1e-9)
		assert.Equal(t, []string{"2020-01-01"}, resp.PublicationDates)
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_analysis?abstract=something", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing abstract is rejected", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_analysis?title=something", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank parameters are rejected", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_analysis?title=+&abstract=+", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing search credentials surface as server error", func(t *testing.T) {
		analyzer := &fakeAnalyzer{err: domain.NewCredentialsError("Logic Mill", "NOVELTY_SEARCH_API_KEY")}
		srv := newTestServer(analyzer, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_analysis?title=t&abstract=a", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOVELTY_SEARCH_API_KEY")
	})

	t.Run("upstream failure surfaces as bad gateway", func(t *testing.T) {
		analyzer := &fakeAnalyzer{err: domain.NewExternalAPIError("Logic Mill", http.StatusBadGateway, "boom", nil)}
		srv := newTestServer(analyzer, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_analysis?title=t&abstract=a", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("unknown failure surfaces as server error", func(t *testing.T) {
		analyzer := &fakeAnalyzer{err: errors.New("unexpected")}
		srv := newTestServer(analyzer, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_analysis?title=t&abstract=a", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetSignedURL(t *testing.T) {
	t.Run("returns signed url without body", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{url: "wss://api.elevenlabs.io/session/abc"})

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signed-url", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"signed_url":"wss://api.elevenlabs.io/session/abc"}`, rec.Body.String())
	})

	t.Run("echoes context as system prompt override", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{url: "wss://session"})

		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"context": "novelty score is 0.42"}`)
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signed-url", body))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp signedURLResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "wss://session", resp.SignedURL)
		assert.Equal(t, "novelty score is 0.42", resp.SystemPromptOverride)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{url: "wss://session"})

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signed-url", strings.NewReader("{not json")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing agent configuration surfaces as server error", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, nil)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signed-url", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "not configured")
	})

	t.Run("missing credentials surface as server error", func(t *testing.T) {
		agent := &fakeAgent{err: domain.NewCredentialsError("ElevenLabs", "NOVELTY_AGENT_API_KEY")}
		srv := newTestServer(&fakeAnalyzer{}, agent)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signed-url", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("upstream failure surfaces as bad gateway", func(t *testing.T) {
		agent := &fakeAgent{err: domain.NewExternalAPIError("ElevenLabs", http.StatusForbidden, "denied", nil)}
		srv := newTestServer(&fakeAnalyzer{}, agent)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signed-url", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
