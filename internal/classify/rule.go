package classify

import (
	"context"
	"fmt"

	"github.com/osoriof/plata/internal/model"
	"github.com/osoriof/plata/internal/service"
)

// ruleAttempt classifies by the ordered pattern rule list. The first
// matching active rule wins; its non-nil target fields are applied and
// its nil fields leave the movement untouched.
type ruleAttempt struct {
	rules service.RuleSource
}

// NewRuleAttempt creates the rule-pass strategy.
func NewRuleAttempt(rules service.RuleSource) Attempt {
	return &ruleAttempt{rules: rules}
}

func (a *ruleAttempt) Name() string { return "rule" }

func (a *ruleAttempt) Classify(ctx context.Context, movement *model.Movement) (bool, error) {
	rules, err := a.rules.AllRules(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load classification rules: %w", err)
	}

	for i := range rules {
		rule := &rules[i]
		if !rule.Active || !rule.Assigns() {
			continue
		}
		if !rule.Matches(movement.Description) {
			continue
		}
		return applyRule(movement, rule), nil
	}

	return false, nil
}

// applyRule copies the rule's non-nil targets onto the movement and
// reports whether anything changed.
func applyRule(movement *model.Movement, rule *model.ClassificationRule) bool {
	assigned := false
	if rule.CounterpartyID != nil && movement.CounterpartyID == nil {
		id := *rule.CounterpartyID
		movement.CounterpartyID = &id
		assigned = true
	}
	if rule.GroupID != nil && movement.GroupID == nil {
		id := *rule.GroupID
		movement.GroupID = &id
		assigned = true
	}
	if rule.ConceptID != nil && movement.ConceptID == nil {
		id := *rule.ConceptID
		movement.ConceptID = &id
		assigned = true
	}
	return assigned
}
