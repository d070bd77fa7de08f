// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Movement represents a single ledger entry extracted from a statement
// or entered manually.
type Movement struct {
	Date           time.Time
	CreatedAt      time.Time
	Description    string
	Reference      string
	Detail         string
	Amount         decimal.Decimal
	USDAmount      *decimal.Decimal
	ExchangeRate   *decimal.Decimal
	CounterpartyID *int64
	GroupID        *int64
	ConceptID      *int64
	ID             int64
	AccountID      int64
	CurrencyID     int64
}

// IsExpense reports whether the movement is a debit.
func (m *Movement) IsExpense() bool {
	return m.Amount.IsNegative()
}

// NeedsClassification reports whether the movement is still missing a
// group or concept assignment.
func (m *Movement) NeedsClassification() bool {
	return m.GroupID == nil || m.ConceptID == nil
}

// DescriptionToken returns the first whitespace-delimited token of the
// description, used as the prefix key for historical lookups.
func (m *Movement) DescriptionToken() string {
	fields := strings.Fields(m.Description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
