package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the novelty analysis service.
// Metrics are organized by subsystem: analyses, searches, hydration, and LLM
// comparison operations. All counters and histograms are registered via
// promauto against the supplied registerer.
type Metrics struct {
	// AnalysesStarted counts the total number of novelty analyses initiated.
	AnalysesStarted prometheus.Counter

	// AnalysesCompleted counts the total number of analyses that finished successfully.
	AnalysesCompleted prometheus.Counter

	// AnalysesFailed counts the total number of analyses that ended in failure.
	AnalysesFailed prometheus.Counter

	// AnalysisDuration observes the end-to-end duration of analyses in seconds.
	AnalysisDuration prometheus.Histogram

	// SearchesStarted counts similarity searches initiated.
	SearchesStarted prometheus.Counter

	// SearchesCompleted counts successful similarity searches.
	SearchesCompleted prometheus.Counter

	// SearchesFailed counts failed similarity searches.
	SearchesFailed prometheus.Counter

	// SearchDuration observes similarity search duration in seconds.
	SearchDuration prometheus.Histogram

	// ResultsPerSearch observes the distribution of candidates returned per search.
	ResultsPerSearch prometheus.Histogram

	// HydrationsTotal counts hydration attempts, labeled by registry.
	HydrationsTotal *prometheus.CounterVec

	// HydrationsFailed counts failed hydrations, labeled by registry and error type.
	HydrationsFailed *prometheus.CounterVec

	// HydrationDuration observes hydration duration in seconds, labeled by registry.
	HydrationDuration *prometheus.HistogramVec

	// ComparisonsTotal counts pairwise comparison attempts, labeled by document type.
	ComparisonsTotal *prometheus.CounterVec

	// ComparisonsFailed counts failed pairwise comparisons, labeled by document type.
	ComparisonsFailed *prometheus.CounterVec

	// LLMRequestDuration observes LLM API request duration in seconds, labeled by model.
	LLMRequestDuration *prometheus.HistogramVec

	// LLMTokensUsed counts tokens consumed by LLM operations, labeled by model and token type.
	LLMTokensUsed *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with the default
// Prometheus registry. The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a new Metrics instance registered with the given
// registerer. Tests pass a fresh prometheus.NewRegistry to avoid duplicate
// registration panics.
func NewMetricsWith(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Analyses
		AnalysesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_started_total",
			Help:      "Total number of novelty analyses started",
		}),
		AnalysesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_completed_total",
			Help:      "Total number of novelty analyses completed successfully",
		}),
		AnalysesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_failed_total",
			Help:      "Total number of novelty analyses that failed",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of novelty analyses in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Searches
		SearchesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of similarity searches started",
		}),
		SearchesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of similarity searches completed",
		}),
		SearchesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of similarity searches that failed",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of similarity searches in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		ResultsPerSearch: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_per_search",
			Help:      "Number of candidates returned per similarity search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),

		// Hydration
		HydrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hydrations_total",
			Help:      "Total number of hydration attempts by registry",
		}, []string{"registry"}),
		HydrationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hydrations_failed_total",
			Help:      "Total number of failed hydrations by registry",
		}, []string{"registry", "error_type"}),
		HydrationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hydration_duration_seconds",
			Help:      "Duration of hydrations in seconds by registry",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"registry"}),

		// Comparisons
		ComparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Total number of pairwise comparison attempts by document type",
		}, []string{"document_type"}),
		ComparisonsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_failed_total",
			Help:      "Total number of failed pairwise comparisons by document type",
		}, []string{"document_type"}),
		LLMRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of LLM requests in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"model"}),
		LLMTokensUsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_used_total",
			Help:      "Total number of tokens used by LLM operations",
		}, []string{"model", "token_type"}),
	}
}

// RecordAnalysisStarted records that an analysis has started.
func (m *Metrics) RecordAnalysisStarted() {
	m.AnalysesStarted.Inc()
}

// RecordAnalysisCompleted records that an analysis has completed.
func (m *Metrics) RecordAnalysisCompleted(durationSeconds float64) {
	m.AnalysesCompleted.Inc()
	m.AnalysisDuration.Observe(durationSeconds)
}

// RecordAnalysisFailed records that an analysis has failed.
func (m *Metrics) RecordAnalysisFailed(durationSeconds float64) {
	m.AnalysesFailed.Inc()
	m.AnalysisDuration.Observe(durationSeconds)
}

// RecordSearchStarted records that a similarity search has started.
func (m *Metrics) RecordSearchStarted() {
	m.SearchesStarted.Inc()
}

// RecordSearchCompleted records that a similarity search has completed.
func (m *Metrics) RecordSearchCompleted(resultCount int, durationSeconds float64) {
	m.SearchesCompleted.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.ResultsPerSearch.Observe(float64(resultCount))
}

// RecordSearchFailed records that a similarity search has failed.
func (m *Metrics) RecordSearchFailed(durationSeconds float64) {
	m.SearchesFailed.Inc()
	m.SearchDuration.Observe(durationSeconds)
}

// RecordHydration records a hydration attempt against a registry.
func (m *Metrics) RecordHydration(registry string, durationSeconds float64) {
	m.HydrationsTotal.WithLabelValues(registry).Inc()
	m.HydrationDuration.WithLabelValues(registry).Observe(durationSeconds)
}

// RecordHydrationFailed records a failed hydration.
func (m *Metrics) RecordHydrationFailed(registry, errorType string) {
	m.HydrationsFailed.WithLabelValues(registry, errorType).Inc()
}

// RecordComparison records a pairwise comparison attempt.
func (m *Metrics) RecordComparison(documentType, model string, durationSeconds float64, inputTokens, outputTokens int) {
	m.ComparisonsTotal.WithLabelValues(documentType).Inc()
	m.LLMRequestDuration.WithLabelValues(model).Observe(durationSeconds)
	m.LLMTokensUsed.WithLabelValues(model, "input").Add(float64(inputTokens))
	m.LLMTokensUsed.WithLabelValues(model, "output").Add(float64(outputTokens))
}

// RecordComparisonFailed records a failed pairwise comparison.
func (m *Metrics) RecordComparisonFailed(documentType string) {
	m.ComparisonsFailed.WithLabelValues(documentType).Inc()
}
