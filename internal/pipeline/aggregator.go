// Package pipeline orchestrates the novelty analysis flow: similarity
// search, concurrent hydration, analytics, and optional pairwise comparison.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/observability"
	"github.com/helixir/novelty-analysis-service/internal/registry"
)

// DefaultHydrationWorkers bounds concurrent hydration calls per request.
const DefaultHydrationWorkers = 5

// Aggregator fans search results out to the hydrator owning each document
// type and joins the results back in search-rank order.
//
// Failed hydrations are dropped from the output: a document we could not
// fetch has no abstract, date, or authors to contribute, so keeping an empty
// shell would only skew the analytics. Failures are logged and counted.
type Aggregator struct {
	hydrators map[domain.DocumentType]registry.Hydrator
	workers   int
	logger    zerolog.Logger
	metrics   *observability.Metrics
}

// NewAggregator creates an aggregator dispatching to the given hydrators.
// workers bounds the number of concurrent hydration calls; values below 1
// fall back to DefaultHydrationWorkers.
func NewAggregator(hydrators []registry.Hydrator, workers int, logger zerolog.Logger, metrics *observability.Metrics) *Aggregator {
	if workers < 1 {
		workers = DefaultHydrationWorkers
	}

	byType := make(map[domain.DocumentType]registry.Hydrator, len(hydrators))
	for _, h := range hydrators {
		byType[h.DocumentType()] = h
	}

	return &Aggregator{
		hydrators: byType,
		workers:   workers,
		logger:    logger,
		metrics:   metrics,
	}
}

// Hydrate fetches the full record for every search result concurrently and
// returns the successfully hydrated documents in the original rank order.
// Each hydration is independent; one failure never aborts the others.
func (a *Aggregator) Hydrate(ctx context.Context, results []domain.SearchResult) []*domain.EnrichedDocument {
	// Index-partitioned slots: each worker writes only its own index, so
	// the join needs no synchronization beyond the WaitGroup barrier.
	slots := make([]*domain.EnrichedDocument, len(results))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.workers)

	for i, result := range results {
		wg.Add(1)
		go func(i int, result domain.SearchResult) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			slots[i] = a.hydrateOne(ctx, result)
		}(i, result)
	}
	wg.Wait()

	documents := make([]*domain.EnrichedDocument, 0, len(results))
	for _, doc := range slots {
		if doc != nil {
			documents = append(documents, doc)
		}
	}
	return documents
}

// hydrateOne dispatches a single result to its hydrator and records the
// outcome. It returns nil when the result cannot be hydrated.
func (a *Aggregator) hydrateOne(ctx context.Context, result domain.SearchResult) *domain.EnrichedDocument {
	hydrator, ok := a.hydrators[result.Type]
	if !ok {
		a.logger.Warn().
			Str("document_id", result.ID).
			Str("document_type", string(result.Type)).
			Msg("no hydrator registered for document type, dropping result")
		return nil
	}

	start := time.Now()
	doc, err := hydrator.Hydrate(ctx, result)
	duration := time.Since(start).Seconds()

	a.metrics.RecordHydration(hydrator.Name(), duration)

	if err != nil {
		a.metrics.RecordHydrationFailed(hydrator.Name(), errorType(err))
		a.logger.Warn().
			Err(err).
			Str("document_id", result.ID).
			Str("registry", hydrator.Name()).
			Msg("hydration failed, dropping result")
		return nil
	}

	return doc
}

// errorType classifies a hydration error for metric labeling.
func errorType(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsMissingCredentials(err):
		return "credentials"
	default:
		return "upstream"
	}
}
