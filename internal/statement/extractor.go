// Package statement extracts movement drafts from bank and card
// statement documents.
package statement

import (
	"context"
	"fmt"

	"github.com/osoriof/plata/internal/model"
)

// SourceType identifies the statement format. It is supplied by the
// caller, never sniffed from the document contents.
type SourceType string

// Known statement sources.
const (
	SourceSavings    SourceType = "savings"
	SourceCreditCard SourceType = "creditcard"
	SourceOFX        SourceType = "ofx"
)

// Document is a raw statement file handed to an extractor.
type Document struct {
	Source SourceType
	Name   string
	Data   []byte
}

// Text returns the document contents as a string.
func (d Document) Text() string {
	return string(d.Data)
}

// UnparsableDocumentError reports a document that is structurally
// unreadable for its declared source. It is fatal for the whole
// extraction call; individually malformed lines are not.
type UnparsableDocumentError struct {
	Source SourceType
	Name   string
	Reason string
}

func (e *UnparsableDocumentError) Error() string {
	return fmt.Sprintf("unparsable %s document %q: %s", e.Source, e.Name, e.Reason)
}

// Extractor parses raw statement documents into movement drafts. The
// drafts carry date, amount, description, and reference; account and
// currency are assigned later by the ingestion service.
type Extractor interface {
	// CanHandle reports whether this extractor understands the
	// document's source type.
	CanHandle(doc Document) bool
	// Extract parses the document into movement drafts.
	Extract(ctx context.Context, doc Document) ([]model.Movement, error)
}

// Extractors returns every registered extractor.
func Extractors() []Extractor {
	return []Extractor{
		NewSavingsExtractor(),
		NewCreditCardExtractor(),
		NewOFXExtractor(),
	}
}

// ForSource returns the extractor that handles the given document.
func ForSource(doc Document) (Extractor, error) {
	for _, ex := range Extractors() {
		if ex.CanHandle(doc) {
			return ex, nil
		}
	}
	return nil, &UnparsableDocumentError{
		Source: doc.Source,
		Name:   doc.Name,
		Reason: "no extractor registered for source",
	}
}
