// Package registry provides interfaces and shared transport for bibliographic
// registry clients.
//
// A search hit only carries identity and ranking; hydration turns it into a
// full document by fetching the authoritative record from the registry that
// owns it. Each registry (OpenAlex for publications, EPO OPS for patents)
// implements the Hydrator interface with its own parsing and failure policy,
// and the aggregator dispatches on the document type.
//
// Example usage:
//
//	hydrator := openalex.New(cfg)
//	doc, err := hydrator.Hydrate(ctx, result)
package registry

import (
	"context"

	"github.com/helixir/novelty-analysis-service/internal/domain"
)

// Hydrator defines the interface that all registry clients must implement.
type Hydrator interface {
	// Hydrate fetches the full bibliographic record for a search result and
	// returns the enriched document. The context should be used for
	// cancellation and deadline propagation.
	//
	// Implementations must degrade gracefully on partial or malformed
	// upstream data: missing fields default to empty values rather than
	// failing the whole record. An error is returned only when no usable
	// record could be produced at all (record not found, unreachable
	// registry, undecodable response) or on configuration failures such as
	// missing credentials.
	Hydrate(ctx context.Context, result domain.SearchResult) (*domain.EnrichedDocument, error)

	// DocumentType returns the document type this hydrator owns.
	// Used by the aggregator to route search results.
	DocumentType() domain.DocumentType

	// Name returns a human-readable name for this registry.
	// Used for logging and metrics.
	Name() string
}
