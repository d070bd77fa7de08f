package classify

import (
	"context"
	"fmt"

	"github.com/osoriof/plata/internal/model"
	"github.com/osoriof/plata/internal/service"
)

// DefaultHistoryWindow is the number of prefix-match candidates the
// historical pass considers. Tunable, not a hard law.
const DefaultHistoryWindow = 5

// historyAttempt classifies by analogy to previously classified
// movements: an exact reference match first, then the most recent
// movement whose description starts with the same first token.
type historyAttempt struct {
	store  service.MovementStore
	window int
}

// NewHistoryAttempt creates the historical-context strategy.
func NewHistoryAttempt(store service.MovementStore, window int) Attempt {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &historyAttempt{store: store, window: window}
}

func (a *historyAttempt) Name() string { return "history" }

func (a *historyAttempt) Classify(ctx context.Context, movement *model.Movement) (bool, error) {
	if movement.Reference != "" {
		prior, err := a.store.FindByReference(ctx, movement.Reference)
		if err != nil {
			return false, fmt.Errorf("failed to look up reference %q: %w", movement.Reference, err)
		}
		if prior != nil && prior.CounterpartyID != nil {
			return copyClassification(movement, prior), nil
		}
	}

	token := movement.DescriptionToken()
	if token == "" {
		return false, nil
	}

	candidates, err := a.store.FindByDescriptionPrefix(ctx, token, a.window)
	if err != nil {
		return false, fmt.Errorf("failed to look up description prefix %q: %w", token, err)
	}

	// Candidates arrive most recent first; the best match is the most
	// recent classified one.
	for i := range candidates {
		prior := &candidates[i]
		if prior.ID == movement.ID {
			continue
		}
		if prior.GroupID == nil && prior.ConceptID == nil && prior.CounterpartyID == nil {
			continue
		}
		return copyClassification(movement, prior), nil
	}

	return false, nil
}

// copyClassification fills the movement's unset classification fields
// from a prior movement and reports whether anything changed.
func copyClassification(movement, prior *model.Movement) bool {
	assigned := false
	if prior.CounterpartyID != nil && movement.CounterpartyID == nil {
		id := *prior.CounterpartyID
		movement.CounterpartyID = &id
		assigned = true
	}
	if prior.GroupID != nil && movement.GroupID == nil {
		id := *prior.GroupID
		movement.GroupID = &id
		assigned = true
	}
	if prior.ConceptID != nil && movement.ConceptID == nil {
		id := *prior.ConceptID
		movement.ConceptID = &id
		assigned = true
	}
	return assigned
}
