// Package llm provides LLM-based pairwise document comparison for the
// Novelty Analysis Service.
//
// This package defines the abstractions and prompt engineering required to
// compare a user-submitted title/abstract against a retrieved patent or
// scientific publication using large language models. The comparison yields
// two ordered bullet lists: similarities and differences.
//
// Example usage:
//
//	comparer := llm.NewOpenAIProvider(cfg, 0.2, 60*time.Second, 3)
//	req := llm.ComparisonRequest{
//		QueryTitle:       "...",
//		QueryAbstract:    "...",
//		DocumentTitle:    doc.Title,
//		DocumentAbstract: doc.Abstract,
//		DocumentType:     doc.Type,
//	}
//	result, err := comparer.Compare(ctx, req)
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/helixir/novelty-analysis-service/internal/domain"
)

// ComparisonRequest contains parameters for a pairwise comparison.
type ComparisonRequest struct {
	// QueryTitle and QueryAbstract describe the user's document.
	QueryTitle    string
	QueryAbstract string

	// DocumentTitle and DocumentAbstract describe the retrieved document
	// being compared against.
	DocumentTitle    string
	DocumentAbstract string

	// DocumentType selects the prompt framing: claims/IP framing for
	// patents, methodology/novelty framing for publications.
	DocumentType domain.DocumentType
}

// ComparisonResult contains the comparison bullet lists and metadata.
type ComparisonResult struct {
	// Similarities lists aspects shared between the two documents.
	Similarities []string

	// Differences lists aspects that set the two documents apart.
	Differences []string

	// Model is the LLM model used.
	Model string

	// InputTokens is the number of input tokens used.
	InputTokens int

	// OutputTokens is the number of output tokens used.
	OutputTokens int
}

// Comparer defines the interface for LLM-based pairwise comparison.
//
// Implementations should handle provider-specific API calls, response
// parsing, and error handling while conforming to this unified interface.
type Comparer interface {
	// Compare produces structured similarity/difference lists for the
	// request pair. The context should be used for cancellation and
	// deadline propagation.
	Compare(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error)

	// Provider returns the name of the LLM provider (e.g., "openai").
	Provider() string

	// Model returns the model identifier being used.
	Model() string
}

// comparisonResponse is the expected JSON structure from LLM responses.
type comparisonResponse struct {
	Similarities []string `json:"similarities"`
	Differences  []string `json:"differences"`
}

// BuildComparisonPrompt builds the system and user prompts for a pairwise
// comparison. The system prompt fixes the response format and the analytical
// framing for the document type; the user prompt carries both documents.
func BuildComparisonPrompt(req ComparisonRequest) (systemPrompt, userPrompt string) {
	systemPrompt = buildSystemPrompt(req.DocumentType)
	userPrompt = buildUserPrompt(req)
	return systemPrompt, userPrompt
}

// buildSystemPrompt constructs the system-level instructions for the LLM.
func buildSystemPrompt(docType domain.DocumentType) string {
	var sb strings.Builder

	switch docType {
	case domain.DocumentTypePatent:
		sb.WriteString("You are a patent analyst with deep expertise in intellectual ")
		sb.WriteString("property and prior-art assessment. Your task is to compare a ")
		sb.WriteString("user's invention description against an existing patent and ")
		sb.WriteString("identify overlaps and distinctions in the claimed subject matter.\n\n")
	default:
		sb.WriteString("You are a research analyst with deep expertise in scientific ")
		sb.WriteString("literature. Your task is to compare a user's research description ")
		sb.WriteString("against a published paper and identify overlaps and distinctions ")
		sb.WriteString("in methodology, findings, and novelty.\n\n")
	}

	sb.WriteString("You MUST respond with valid JSON in exactly this format:\n")
	sb.WriteString(`{"similarities": ["point 1", "point 2"], "differences": ["point 1", "point 2"]}`)
	sb.WriteString("\n\n")

	sb.WriteString("Guidelines for the comparison:\n")
	switch docType {
	case domain.DocumentTypePatent:
		sb.WriteString("1. Focus on the technical problem solved and the claimed solution.\n")
		sb.WriteString("2. Call out overlapping mechanisms, components, or process steps.\n")
		sb.WriteString("3. Call out differences in scope, application domain, or implementation.\n")
	default:
		sb.WriteString("1. Focus on research questions, methods, and reported findings.\n")
		sb.WriteString("2. Call out shared approaches, datasets, or theoretical framing.\n")
		sb.WriteString("3. Call out differences in scope, technique, or conclusions.\n")
	}
	sb.WriteString("4. Keep each point to a single short sentence.\n")
	sb.WriteString("5. Provide 2-5 points per list; never leave a list empty.\n")

	return sb.String()
}

// buildUserPrompt constructs the user-level prompt carrying both documents.
func buildUserPrompt(req ComparisonRequest) string {
	var sb strings.Builder

	label := "published paper"
	if req.DocumentType == domain.DocumentTypePatent {
		label = "patent"
	}

	sb.WriteString(fmt.Sprintf("Compare the user's document against the following %s.\n\n", label))

	sb.WriteString("User's document:\n")
	sb.WriteString("---\n")
	sb.WriteString("Title: " + req.QueryTitle + "\n")
	sb.WriteString("Abstract: " + req.QueryAbstract + "\n")
	sb.WriteString("---\n\n")

	sb.WriteString(strings.ToUpper(label[:1]) + label[1:] + ":\n")
	sb.WriteString("---\n")
	sb.WriteString("Title: " + req.DocumentTitle + "\n")
	sb.WriteString("Abstract: " + req.DocumentAbstract + "\n")
	sb.WriteString("---")

	return sb.String()
}
