package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/observability"
)

// maxRequestBodySize caps signed-url request bodies at 1 MB.
const maxRequestBodySize = 1 << 20

// analysisQuery holds the validated query parameters for an analysis request.
type analysisQuery struct {
	Title    string `validate:"required,max=10000"`
	Abstract string `validate:"required,max=10000"`
}

// signedURLRequest is the optional JSON request body for the signed-url
// endpoint. Context, when present, is echoed back so the caller can seed the
// voice agent with the analysis it is narrating.
type signedURLRequest struct {
	Context string `json:"context,omitempty"`
}

type signedURLResponse struct {
	SignedURL            string `json:"signed_url"`
	SystemPromptOverride string `json:"system_prompt_override,omitempty"`
}

// getAnalysis handles GET /get_analysis. It runs the full analysis pipeline
// for the given title and abstract and returns the enriched documents plus
// novelty analytics.
func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestContext(s.logger, middleware.GetReqID(ctx))

	query := analysisQuery{
		Title:    strings.TrimSpace(r.URL.Query().Get("title")),
		Abstract: strings.TrimSpace(r.URL.Query().Get("abstract")),
	}
	if err := s.validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "title and abstract query parameters are required")
		return
	}

	resp, err := s.analyzer.Analyze(ctx, query.Title, query.Abstract)
	if err != nil {
		logger.Error().Err(err).Msg("analysis failed")
		writeError(w, statusForError(err), "analysis failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// getSignedURL handles POST /signed-url. The request body is optional; when
// it carries a context string the response echoes it back as a system prompt
// override for the voice agent session.
func (s *Server) getSignedURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestContext(s.logger, middleware.GetReqID(ctx))

	var req signedURLRequest
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON request body")
			return
		}
	}

	if s.agent == nil {
		writeError(w, http.StatusInternalServerError, "voice agent is not configured")
		return
	}

	signedURL, err := s.agent.SignedURL(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("signed url request failed")
		writeError(w, statusForError(err), "failed to get signed URL: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, signedURLResponse{
		SignedURL:            signedURL,
		SystemPromptOverride: req.Context,
	})
}

// statusForError maps domain errors to HTTP status codes. Missing upstream
// credentials are a deployment problem, not the caller's, so they surface as
// 500 rather than 4xx.
func statusForError(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if domain.IsMissingCredentials(err) {
		return http.StatusInternalServerError
	}
	var apiErr *domain.ExternalAPIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
