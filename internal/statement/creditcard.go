package statement

import (
	"context"
	"log/slog"
	"strings"

	"github.com/osoriof/plata/internal/model"
)

// creditCardFurniture marks lines that look like movement lines on
// credit card statements but are balances or totals, not movements.
var creditCardFurniture = []string{
	"SALDO ANTERIOR",
	"SALDO ACTUAL",
	"PAGO MINIMO",
	"PAGO MÍNIMO",
	"TOTAL A PAGAR",
	"PREVIOUS BALANCE",
	"CURRENT BALANCE",
	"MINIMUM PAYMENT",
}

// CreditCardExtractor parses credit card statements. Cards share the
// savings line grammar but interleave balance and total lines that
// must not become movements.
type CreditCardExtractor struct{}

// NewCreditCardExtractor creates a credit card statement extractor.
func NewCreditCardExtractor() *CreditCardExtractor {
	return &CreditCardExtractor{}
}

// CanHandle reports whether the document is a credit card statement.
func (e *CreditCardExtractor) CanHandle(doc Document) bool {
	return doc.Source == SourceCreditCard
}

// Extract parses the statement text into movement drafts.
func (e *CreditCardExtractor) Extract(_ context.Context, doc Document) ([]model.Movement, error) {
	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return nil, &UnparsableDocumentError{Source: doc.Source, Name: doc.Name, Reason: "empty document"}
	}

	movements := extractLines(text, isCreditCardFurniture)
	if len(movements) == 0 {
		return nil, &UnparsableDocumentError{Source: doc.Source, Name: doc.Name, Reason: "no movement lines found"}
	}

	slog.Info("Extracted credit card statement",
		"document", doc.Name,
		"movements", len(movements))

	return movements, nil
}

func isCreditCardFurniture(line string) bool {
	upper := strings.ToUpper(line)
	for _, marker := range creditCardFurniture {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
