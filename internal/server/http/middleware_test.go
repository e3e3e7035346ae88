package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	t.Run("wildcard allows any origin", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight requests short-circuit", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/get_analysis", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
	})

	t.Run("explicit origin list echoes matching origin only", func(t *testing.T) {
		srv := NewServer(Config{
			Address:        "127.0.0.1:0",
			AllowedOrigins: []string{"https://trusted.example.com"},
		}, &fakeAnalyzer{}, &fakeAgent{}, zerolog.Nop())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://trusted.example.com")
		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, "https://trusted.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		srv.Router().ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Run("echoes provided correlation id", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Correlation-ID", "corr-42")
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, "corr-42", rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("generates correlation id when absent", func(t *testing.T) {
		srv := newTestServer(&fakeAnalyzer{}, &fakeAgent{})

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	})
}
