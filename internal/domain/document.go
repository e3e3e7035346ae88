// Package domain defines the core types shared across the novelty analysis service.
package domain

// DocumentType identifies which registry a document belongs to.
type DocumentType string

const (
	// DocumentTypePatent marks documents hydrated from the patent registry.
	DocumentTypePatent DocumentType = "patent"

	// DocumentTypePublication marks documents hydrated from the publication registry.
	DocumentTypePublication DocumentType = "publication"
)

// IsValid reports whether t is one of the known document types.
func (t DocumentType) IsValid() bool {
	return t == DocumentTypePatent || t == DocumentTypePublication
}

// SearchResult is a single ranked hit from the similarity search service.
// It is immutable once created; the aggregator uses it to select a hydrator
// and to carry identity and ranking into the enriched document.
type SearchResult struct {
	// ID is the registry-scoped identifier of the document.
	ID string `json:"id"`

	// Title is the document title as reported by the search index.
	Title string `json:"title"`

	// Type determines which hydrator owns this result.
	Type DocumentType `json:"type"`

	// Score is the similarity score; higher means more similar to the query.
	Score float64 `json:"score"`

	// URL locates the full record in its registry.
	URL string `json:"url"`
}

// EnrichedDocument is a SearchResult extended with hydrated bibliographic
// data. All hydrated fields default to empty values so callers never need to
// nil-check them; Similarities and Differences are the one exception — they
// stay nil until the pairwise comparison phase has run for this document.
type EnrichedDocument struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Type  DocumentType `json:"type"`
	Score float64      `json:"score"`
	URL   string       `json:"url"`

	// Abstract is the full abstract text, empty when reconstruction failed
	// or the registry has none.
	Abstract string `json:"abstract"`

	// PublicationDate is an ISO 8601 date string, or empty when unknown.
	PublicationDate string `json:"publication_date"`

	// Authors holds display names in registry order. For patents these are
	// the inventors.
	Authors []string `json:"authors"`

	// Institutions holds deduplicated institution display names. For patents
	// these are the applicants.
	Institutions []string `json:"institutions"`

	// Similarities and Differences are filled in place by the pairwise
	// comparison engine. nil means the comparison has not run (or failed)
	// for this document.
	Similarities []string `json:"similarities"`
	Differences  []string `json:"differences"`
}

// NewEnrichedDocument creates an EnrichedDocument carrying over identity and
// ranking from a search result, with empty enrichment fields.
func NewEnrichedDocument(sr SearchResult) *EnrichedDocument {
	return &EnrichedDocument{
		ID:           sr.ID,
		Title:        sr.Title,
		Type:         sr.Type,
		Score:        sr.Score,
		URL:          sr.URL,
		Authors:      []string{},
		Institutions: []string{},
	}
}

// NoveltyAnalysis is the derived novelty metric plus a human-readable
// rationale. The score is not a normalized probability; see analysis.Novelty.
type NoveltyAnalysis struct {
	NoveltyScore    float64 `json:"novelty_score"`
	NoveltyAnalysis string  `json:"novelty_analysis"`
}

// AuthorData pairs an author display name with the number of distinct
// documents in the result set that list them.
type AuthorData struct {
	Name                 string `json:"name"`
	NumberOfPublications int    `json:"number_of_publications"`
}
