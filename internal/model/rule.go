package model

import (
	"strings"
	"time"
)

// MatchType selects how a rule pattern is compared against a movement
// description.
type MatchType string

// Match type constants.
const (
	MatchExact      MatchType = "exact"
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
)

// ValidMatchType reports whether the given value is a known match type.
func ValidMatchType(mt MatchType) bool {
	switch mt {
	case MatchExact, MatchContains, MatchStartsWith:
		return true
	}
	return false
}

// ClassificationRule maps a description pattern to classification
// targets. Rules are evaluated in Position order and the first match
// wins; each target field is optional, so a rule may assign only a
// subset of counterparty, group, and concept.
type ClassificationRule struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Pattern        string
	MatchType      MatchType
	CounterpartyID *int64
	GroupID        *int64
	ConceptID      *int64
	ID             int64
	Position       int
	Active         bool
}

// Matches reports whether the rule pattern matches the description.
// Comparison is case-sensitive for every match type.
func (r *ClassificationRule) Matches(description string) bool {
	switch r.MatchType {
	case MatchExact:
		return description == r.Pattern
	case MatchContains:
		return strings.Contains(description, r.Pattern)
	case MatchStartsWith:
		return strings.HasPrefix(description, r.Pattern)
	}
	return false
}

// Assigns reports whether the rule carries at least one target field.
func (r *ClassificationRule) Assigns() bool {
	return r.CounterpartyID != nil || r.GroupID != nil || r.ConceptID != nil
}
