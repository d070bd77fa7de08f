package statement

import (
	"context"
	"log/slog"
	"strings"

	"github.com/osoriof/plata/internal/model"
)

// SavingsExtractor parses bank savings account statements. The
// statement text is the page text already extracted from the PDF.
type SavingsExtractor struct{}

// NewSavingsExtractor creates a savings statement extractor.
func NewSavingsExtractor() *SavingsExtractor {
	return &SavingsExtractor{}
}

// CanHandle reports whether the document is a savings statement.
func (e *SavingsExtractor) CanHandle(doc Document) bool {
	return doc.Source == SourceSavings
}

// Extract parses the statement text into movement drafts.
func (e *SavingsExtractor) Extract(_ context.Context, doc Document) ([]model.Movement, error) {
	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &UnparsableDocumentError{Source: doc.Source, Name: doc.Name, Reason: "empty document"}
	}

	movements := extractLines(text, nil)
	if len(movements) == 0 {
		return nil, &UnparsableDocumentError{Source: doc.Source, Name: doc.Name, Reason: "no movement lines found"}
	}

	slog.Info("Extracted savings statement",
		"document", doc.Name,
		"movements", len(movements))

	return movements, nil
}
