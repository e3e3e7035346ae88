package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/llm"
	"github.com/helixir/novelty-analysis-service/internal/observability"
)

const (
	// DefaultComparisonWorkers bounds concurrent calls to the LLM backend.
	DefaultComparisonWorkers = 5

	// DefaultSequentialDelay is the pause between consecutive calls in
	// sequential mode.
	DefaultSequentialDelay = 500 * time.Millisecond
)

// ComparisonConfig configures the comparison runner.
type ComparisonConfig struct {
	// Workers is the maximum number of simultaneous LLM calls.
	// Values below 1 fall back to DefaultComparisonWorkers.
	Workers int

	// Sequential switches to one-call-at-a-time mode with a delay between
	// calls, for environments with strict upstream rate limits.
	Sequential bool

	// SequentialDelay is the pause between consecutive sequential calls.
	// Zero falls back to DefaultSequentialDelay.
	SequentialDelay time.Duration
}

// applyDefaults sets default values for unset configuration fields.
func (c *ComparisonConfig) applyDefaults() {
	if c.Workers < 1 {
		c.Workers = DefaultComparisonWorkers
	}
	if c.SequentialDelay == 0 {
		c.SequentialDelay = DefaultSequentialDelay
	}
}

// ComparisonRunner runs pairwise comparisons between the query document and
// every enriched document, writing the resulting similarity/difference lists
// back onto the documents in place.
//
// Each worker exclusively owns the one document it mutates, so no
// synchronization is required beyond the join barrier. A failed comparison
// leaves that document's Similarities and Differences nil while the rest
// complete.
type ComparisonRunner struct {
	comparer llm.Comparer
	config   ComparisonConfig
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewComparisonRunner creates a comparison runner backed by the given
// comparer.
func NewComparisonRunner(comparer llm.Comparer, cfg ComparisonConfig, logger zerolog.Logger, metrics *observability.Metrics) *ComparisonRunner {
	cfg.applyDefaults()

	return &ComparisonRunner{
		comparer: comparer,
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run compares every document against the query title/abstract and mutates
// the documents in place.
func (r *ComparisonRunner) Run(ctx context.Context, title, abstract string, documents []*domain.EnrichedDocument) {
	if r.config.Sequential {
		r.runSequential(ctx, title, abstract, documents)
		return
	}
	r.runConcurrent(ctx, title, abstract, documents)
}

// runConcurrent fans comparisons out over a bounded worker pool.
func (r *ComparisonRunner) runConcurrent(ctx context.Context, title, abstract string, documents []*domain.EnrichedDocument) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.config.Workers)

	for _, doc := range documents {
		wg.Add(1)
		go func(doc *domain.EnrichedDocument) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			r.compareOne(ctx, title, abstract, doc)
		}(doc)
	}
	wg.Wait()
}

// runSequential issues one comparison at a time with a delay between calls.
func (r *ComparisonRunner) runSequential(ctx context.Context, title, abstract string, documents []*domain.EnrichedDocument) {
	for i, doc := range documents {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.config.SequentialDelay):
			}
		}
		r.compareOne(ctx, title, abstract, doc)
	}
}

// compareOne runs a single comparison and writes the result onto the
// document. Failures are logged and counted; the document keeps nil lists.
func (r *ComparisonRunner) compareOne(ctx context.Context, title, abstract string, doc *domain.EnrichedDocument) {
	start := time.Now()
	result, err := r.comparer.Compare(ctx, llm.ComparisonRequest{
		QueryTitle:       title,
		QueryAbstract:    abstract,
		DocumentTitle:    doc.Title,
		DocumentAbstract: doc.Abstract,
		DocumentType:     doc.Type,
	})
	if err != nil {
		r.metrics.RecordComparisonFailed(string(doc.Type))
		r.logger.Warn().
			Err(err).
			Str("document_id", doc.ID).
			Msg("pairwise comparison failed")
		return
	}

	r.metrics.RecordComparison(string(doc.Type), result.Model, time.Since(start).Seconds(), result.InputTokens, result.OutputTokens)

	doc.Similarities = result.Similarities
	doc.Differences = result.Differences
}
