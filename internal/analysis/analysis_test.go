package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/novelty-analysis-service/internal/domain"
)

func docWithScore(score float64) *domain.EnrichedDocument {
	return &domain.EnrichedDocument{Score: score}
}

func docWithAuthors(names ...string) *domain.EnrichedDocument {
	return &domain.EnrichedDocument{Authors: names}
}

func TestNovelty(t *testing.T) {
	t.Run("empty input yields zero score with rationale", func(t *testing.T) {
		result := Novelty(nil)

		assert.Equal(t, 0.0, result.NoveltyScore)
		assert.Equal(t, "No documents to analyze", result.NoveltyAnalysis)
	})

	t.Run("single document", func(t *testing.T) {
		result := Novelty([]*domain.EnrichedDocument{docWithScore(0.9)})

		assert.InDelta(t, 0.1, result.NoveltyScore, 1e-9)
		assert.Contains(t, result.NoveltyAnalysis, "top 1 documents")
	})

	t.Run("uses only top ten scores but divides by total count", func(t *testing.T) {
		docs := make([]*domain.EnrichedDocument, 0, 20)
		// Ten high-similarity documents and ten low ones.
		for i := 0; i < 10; i++ {
			docs = append(docs, docWithScore(0.8))
		}
		for i := 0; i < 10; i++ {
			docs = append(docs, docWithScore(0.1))
		}

		result := Novelty(docs)

		// 1 - (10*0.8)/20 = 0.6; the 0.1 scores never enter the sum.
		assert.InDelta(t, 0.6, result.NoveltyScore, 1e-9)
		assert.Contains(t, result.NoveltyAnalysis, "top 10 documents")
	})

	t.Run("picks top scores regardless of input order", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithScore(0.1),
			docWithScore(0.9),
			docWithScore(0.5),
		}

		result := Novelty(docs)

		// All three fit in the top ten: 1 - 1.5/3 = 0.5.
		assert.InDelta(t, 0.5, result.NoveltyScore, 1e-9)
	})

	t.Run("does not reorder the input slice", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithScore(0.1),
			docWithScore(0.9),
		}

		Novelty(docs)

		assert.Equal(t, 0.1, docs[0].Score)
		assert.Equal(t, 0.9, docs[1].Score)
	})
}

func TestPublicationDates(t *testing.T) {
	t.Run("sorts ascending with empty strings first", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			{PublicationDate: "2023-05-01"},
			{PublicationDate: "2021-01-01"},
			{PublicationDate: ""},
		}

		dates := PublicationDates(docs)

		assert.Equal(t, []string{"", "2021-01-01", "2023-05-01"}, dates)
	})

	t.Run("length matches document count", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			{PublicationDate: "2020-01-01"},
			{PublicationDate: ""},
			{PublicationDate: ""},
		}

		assert.Len(t, PublicationDates(docs), 3)
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		assert.Empty(t, PublicationDates(nil))
	})
}

func TestAuthors(t *testing.T) {
	t.Run("counts distinct documents per author", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithAuthors("Alice", "Bob"),
			docWithAuthors("Alice"),
			docWithAuthors("Carol"),
		}

		authors := Authors(docs)

		require.Len(t, authors, 3)
		assert.Equal(t, domain.AuthorData{Name: "Alice", NumberOfPublications: 2}, authors[0])
	})

	t.Run("duplicate author within one document counts once", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithAuthors("Alice", "Alice", "Alice"),
		}

		authors := Authors(docs)

		require.Len(t, authors, 1)
		assert.Equal(t, 1, authors[0].NumberOfPublications)
	})

	t.Run("skips empty author names", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithAuthors("", "Alice", ""),
		}

		authors := Authors(docs)

		require.Len(t, authors, 1)
		assert.Equal(t, "Alice", authors[0].Name)
	})

	t.Run("ties break ascending by case-insensitive name", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithAuthors("Bob", "alice", "Charlie"),
		}

		authors := Authors(docs)

		require.Len(t, authors, 3)
		assert.Equal(t, "alice", authors[0].Name)
		assert.Equal(t, "Bob", authors[1].Name)
		assert.Equal(t, "Charlie", authors[2].Name)
	})

	t.Run("sorts by count descending first", func(t *testing.T) {
		docs := []*domain.EnrichedDocument{
			docWithAuthors("Zoe", "Ann"),
			docWithAuthors("Zoe"),
		}

		authors := Authors(docs)

		require.Len(t, authors, 2)
		assert.Equal(t, "Zoe", authors[0].Name)
		assert.Equal(t, 2, authors[0].NumberOfPublications)
		assert.Equal(t, "Ann", authors[1].Name)
	})

	t.Run("empty input yields empty ranking", func(t *testing.T) {
		assert.Empty(t, Authors(nil))
	})
}
