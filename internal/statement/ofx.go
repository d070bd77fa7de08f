package statement

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/osoriof/plata/internal/model"
)

// severityRe fixes mixed-case SEVERITY values some banks emit
// (should be INFO, WARN, or ERROR).
var severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)

// tagFixRe fixes missing closing angle brackets in SGML-style OFX
// files: an opening tag alone on a line with no closing bracket.
var tagFixRe = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)

// OFXExtractor parses OFX/QFX statement exports.
type OFXExtractor struct{}

// NewOFXExtractor creates an OFX statement extractor.
func NewOFXExtractor() *OFXExtractor {
	return &OFXExtractor{}
}

// CanHandle reports whether the document is an OFX export.
func (e *OFXExtractor) CanHandle(doc Document) bool {
	return doc.Source == SourceOFX
}

// preprocess fixes common formatting issues in OFX files before
// handing them to the parser.
func (e *OFXExtractor) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRe.ReplaceAllString(content, "$1>")

	return content
}

// Extract parses the OFX document into movement drafts.
func (e *OFXExtractor) Extract(_ context.Context, doc Document) ([]model.Movement, error) {
	if len(bytes.TrimSpace(doc.Data)) == 0 {
		return nil, &UnparsableDocumentError{Source: doc.Source, Name: doc.Name, Reason: "empty document"}
	}

	content := e.preprocess(doc.Text())

	resp, err := ofxgo.ParseResponse(strings.NewReader(content))
	if err != nil {
		return nil, &UnparsableDocumentError{Source: doc.Source, Name: doc.Name, Reason: err.Error()}
	}

	var movements []model.Movement

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				movements = append(movements, e.convert(ofxTx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				movements = append(movements, e.convert(ofxTx))
			}
		}
	}

	slog.Info("Extracted OFX statement",
		"document", doc.Name,
		"movements", len(movements))

	return movements, nil
}

// convert maps one OFX transaction to a movement draft. OFX already
// uses signed amounts with negative debits, so no sign normalization
// is needed.
func (e *OFXExtractor) convert(ofxTx ofxgo.Transaction) model.Movement {
	posted := ofxTx.DtPosted.Time
	date := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)

	description := strings.TrimSpace(string(ofxTx.Name))
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = strings.TrimSpace(string(ofxTx.Payee.Name))
	}

	movement := model.Movement{
		Date:        date,
		Amount:      decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2),
		Description: description,
		Reference:   strings.TrimSpace(string(ofxTx.FiTID)),
		Detail:      strings.TrimSpace(string(ofxTx.Memo)),
	}

	return movement
}
