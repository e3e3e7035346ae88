// Package analysis derives novelty analytics from an enriched document set.
//
// All functions are pure over their inputs and deterministic: given the same
// document set they produce the same score, date list, and author ranking.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helixir/novelty-analysis-service/internal/domain"
)

// topDocumentCount is the number of highest-similarity documents that feed
// the novelty score.
const topDocumentCount = 10

// Novelty computes the novelty score for a document set.
//
// The score is 1 minus the sum of the top-10 similarity scores divided by
// the TOTAL document count (not the top-K count), so it is bounded but not a
// normalized probability. The divisor choice is intentional and matches the
// established scoring behavior.
func Novelty(documents []*domain.EnrichedDocument) domain.NoveltyAnalysis {
	if len(documents) == 0 {
		return domain.NoveltyAnalysis{
			NoveltyScore:    0.0,
			NoveltyAnalysis: "No documents to analyze",
		}
	}

	sorted := make([]*domain.EnrichedDocument, len(documents))
	copy(sorted, documents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	top := sorted
	if len(top) > topDocumentCount {
		top = top[:topDocumentCount]
	}

	var sum float64
	for _, doc := range top {
		sum += doc.Score
	}

	return domain.NoveltyAnalysis{
		NoveltyScore:    1 - sum/float64(len(documents)),
		NoveltyAnalysis: fmt.Sprintf("Novelty score calculated from top %d documents with highest similarity scores", len(top)),
	}
}

// PublicationDates returns every document's publication date, including
// empty ones, sorted ascending. Lexicographic order equals chronological
// order for ISO 8601 dates, and empty strings sort first.
func PublicationDates(documents []*domain.EnrichedDocument) []string {
	dates := make([]string, 0, len(documents))
	for _, doc := range documents {
		dates = append(dates, doc.PublicationDate)
	}
	sort.Strings(dates)
	return dates
}

// Authors ranks authors by the number of distinct documents that list them.
// An author repeated within one document counts once for that document;
// empty names are skipped. The ranking is sorted by count descending, ties
// broken by case-insensitive name ascending, giving a deterministic order.
func Authors(documents []*domain.EnrichedDocument) []domain.AuthorData {
	counts := make(map[string]int)
	for _, doc := range documents {
		seen := make(map[string]struct{})
		for _, name := range doc.Authors {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	authors := make([]domain.AuthorData, 0, len(counts))
	for name, count := range counts {
		authors = append(authors, domain.AuthorData{
			Name:                 name,
			NumberOfPublications: count,
		})
	}

	sort.Slice(authors, func(i, j int) bool {
		if authors[i].NumberOfPublications != authors[j].NumberOfPublications {
			return authors[i].NumberOfPublications > authors[j].NumberOfPublications
		}
		return strings.ToLower(authors[i].Name) < strings.ToLower(authors[j].Name)
	})

	return authors
}
