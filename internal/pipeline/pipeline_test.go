package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/novelty-analysis-service/internal/domain"
	"github.com/helixir/novelty-analysis-service/internal/registry"
)

// fakeSearcher returns canned search results or an error.
type fakeSearcher struct {
	results []domain.SearchResult
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, title, abstract string) ([]domain.SearchResult, error) {
	return f.results, f.err
}

func TestPipeline_Analyze(t *testing.T) {
	t.Run("full pipeline with comparison", func(t *testing.T) {
		searcher := &fakeSearcher{results: []domain.SearchResult{
			{ID: "EP1", Title: "patent one", Type: domain.DocumentTypePatent, Score: 0.9},
			{ID: "W1", Title: "paper one", Type: domain.DocumentTypePublication, Score: 0.6},
		}}
		patents := &fakeHydrator{docType: domain.DocumentTypePatent}
		pubs := &fakeHydrator{docType: domain.DocumentTypePublication}
		metrics := testMetrics()

		agg := NewAggregator([]registry.Hydrator{patents, pubs}, 2, zerolog.Nop(), metrics)
		runner := NewComparisonRunner(&fakeComparer{}, ComparisonConfig{Workers: 2}, zerolog.Nop(), metrics)
		p := New(searcher, agg, runner, zerolog.Nop(), metrics)

		resp, err := p.Analyze(context.Background(), "my title", "my abstract")
		require.NoError(t, err)

		require.Len(t, resp.Documents, 2)
		assert.Equal(t, "EP1", resp.Documents[0].ID)
		assert.Equal(t, "W1", resp.Documents[1].ID)

		// 1 - (0.9+0.6)/2 = 0.25
		assert.InDelta(t, 0.25, resp.NoveltyScore, 1e-9)
		assert.NotEmpty(t, resp.NoveltyAnalysis)
		assert.Len(t, resp.PublicationDates, 2)

		for _, doc := range resp.Documents {
			assert.NotNil(t, doc.Similarities)
			assert.NotNil(t, doc.Differences)
		}
	})

	t.Run("comparison phase is optional", func(t *testing.T) {
		searcher := &fakeSearcher{results: []domain.SearchResult{
			{ID: "W1", Type: domain.DocumentTypePublication, Score: 0.5},
		}}
		pubs := &fakeHydrator{docType: domain.DocumentTypePublication}
		metrics := testMetrics()

		agg := NewAggregator([]registry.Hydrator{pubs}, 2, zerolog.Nop(), metrics)
		p := New(searcher, agg, nil, zerolog.Nop(), metrics)

		resp, err := p.Analyze(context.Background(), "t", "a")
		require.NoError(t, err)

		require.Len(t, resp.Documents, 1)
		assert.Nil(t, resp.Documents[0].Similarities)
		assert.Nil(t, resp.Documents[0].Differences)
	})

	t.Run("search failure fails the request", func(t *testing.T) {
		searcher := &fakeSearcher{err: errors.New("search is down")}
		metrics := testMetrics()
		agg := NewAggregator(nil, 2, zerolog.Nop(), metrics)
		p := New(searcher, agg, nil, zerolog.Nop(), metrics)

		_, err := p.Analyze(context.Background(), "t", "a")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "similarity search")
	})

	t.Run("empty search results yield empty analysis", func(t *testing.T) {
		searcher := &fakeSearcher{}
		metrics := testMetrics()
		agg := NewAggregator(nil, 2, zerolog.Nop(), metrics)
		p := New(searcher, agg, nil, zerolog.Nop(), metrics)

		resp, err := p.Analyze(context.Background(), "t", "a")
		require.NoError(t, err)

		assert.Empty(t, resp.Documents)
		assert.Equal(t, 0.0, resp.NoveltyScore)
		assert.Equal(t, "No documents to analyze", resp.NoveltyAnalysis)
		assert.Empty(t, resp.PublicationDates)
		assert.Empty(t, resp.Authors)
	})
}
