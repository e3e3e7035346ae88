package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("work", "W123")
	assert.EqualError(t, err, "work not found: W123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCredentialsError(t *testing.T) {
	err := NewCredentialsError("EPO OPS", "NOVELTY_EPO_CONSUMER_KEY")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Contains(t, err.Error(), "NOVELTY_EPO_CONSUMER_KEY")
}

func TestExternalAPIError(t *testing.T) {
	cause := errors.New("boom")
	err := NewExternalAPIError("Logic Mill", 503, "upstream down", cause)
	assert.EqualError(t, err, "Logic Mill API error (status 503): upstream down")
	assert.ErrorIs(t, err, cause)
}

func TestDocumentTypeIsValid(t *testing.T) {
	assert.True(t, DocumentTypePatent.IsValid())
	assert.True(t, DocumentTypePublication.IsValid())
	assert.False(t, DocumentType("book").IsValid())
}

func TestNewEnrichedDocumentDefaults(t *testing.T) {
	doc := NewEnrichedDocument(SearchResult{
		ID:    "EP1234567",
		Title: "Inflatable restraint",
		Type:  DocumentTypePatent,
		Score: 0.91,
		URL:   "https://example.org/EP1234567",
	})

	assert.Equal(t, "EP1234567", doc.ID)
	assert.Equal(t, DocumentTypePatent, doc.Type)
	assert.Empty(t, doc.Abstract)
	assert.Empty(t, doc.PublicationDate)
	assert.NotNil(t, doc.Authors)
	assert.NotNil(t, doc.Institutions)
	// nil marks "comparison not yet run".
	assert.Nil(t, doc.Similarities)
	assert.Nil(t, doc.Differences)
}
