package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/novelty-analysis-service/internal/analysis"
	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/observability"
)

// Searcher is the similarity search dependency of the pipeline.
type Searcher interface {
	// Search returns ranked candidates for the given title and abstract.
	Search(ctx context.Context, title, abstract string) ([]domain.SearchResult, error)
}

// AnalysisResponse is the aggregate returned to the caller.
type AnalysisResponse struct {
	Documents        []*domain.EnrichedDocument `json:"documents"`
	NoveltyScore     float64                    `json:"novelty_score"`
	NoveltyAnalysis  string                     `json:"novelty_analysis"`
	PublicationDates []string                   `json:"publication_dates"`
	Authors          []domain.AuthorData        `json:"authors"`
}

// Pipeline drives a full novelty analysis: search, hydrate, analyze, and
// optionally compare. It holds no per-request state and is safe for
// concurrent use.
type Pipeline struct {
	searcher   Searcher
	aggregator *Aggregator
	comparison *ComparisonRunner
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// New creates a pipeline. comparison may be nil, which disables the pairwise
// comparison phase; documents then keep nil Similarities/Differences.
func New(searcher Searcher, aggregator *Aggregator, comparison *ComparisonRunner, logger zerolog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		searcher:   searcher,
		aggregator: aggregator,
		comparison: comparison,
		logger:     logger,
		metrics:    metrics,
	}
}

// Analyze runs the full pipeline for a title/abstract pair.
//
// A search failure fails the whole request since there is nothing to enrich.
// Hydration and comparison failures degrade per document instead.
func (p *Pipeline) Analyze(ctx context.Context, title, abstract string) (*AnalysisResponse, error) {
	p.metrics.RecordAnalysisStarted()
	start := time.Now()

	searchStart := time.Now()
	p.metrics.RecordSearchStarted()
	results, err := p.searcher.Search(ctx, title, abstract)
	if err != nil {
		p.metrics.RecordSearchFailed(time.Since(searchStart).Seconds())
		p.metrics.RecordAnalysisFailed(time.Since(start).Seconds())
		p.logger.Error().Err(err).Msg("similarity search failed")
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	p.metrics.RecordSearchCompleted(len(results), time.Since(searchStart).Seconds())

	p.logger.Info().
		Int("candidates", len(results)).
		Msg("similarity search completed")

	documents := p.aggregator.Hydrate(ctx, results)
	if dropped := len(results) - len(documents); dropped > 0 {
		p.logger.Info().
			Int("dropped", dropped).
			Int("hydrated", len(documents)).
			Msg("some candidates were dropped during hydration")
	}

	if p.comparison != nil {
		p.comparison.Run(ctx, title, abstract, documents)
	}

	novelty := analysis.Novelty(documents)

	resp := &AnalysisResponse{
		Documents:        documents,
		NoveltyScore:     novelty.NoveltyScore,
		NoveltyAnalysis:  novelty.NoveltyAnalysis,
		PublicationDates: analysis.PublicationDates(documents),
		Authors:          analysis.Authors(documents),
	}

	p.metrics.RecordAnalysisCompleted(time.Since(start).Seconds())
	return resp, nil
}
