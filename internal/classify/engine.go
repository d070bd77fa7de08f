package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/osoriof/plata/internal/model"
	"github.com/osoriof/plata/internal/service"
)

// Engine orchestrates the classification of pending movements.
type Engine struct {
	store    service.MovementStore
	attempts []Attempt
}

// Config holds configuration options for the classification engine.
type Config struct {
	HistoryWindow int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{HistoryWindow: DefaultHistoryWindow}
}

// NewEngine creates a classification engine with the standard attempt
// order: pattern rules first, historical context second.
func NewEngine(store service.MovementStore, rules service.RuleSource, config Config) *Engine {
	return NewEngineWithAttempts(store,
		NewRuleAttempt(rules),
		NewHistoryAttempt(store, config.HistoryWindow),
	)
}

// NewEngineWithAttempts creates an engine with a custom ordered
// strategy list.
func NewEngineWithAttempts(store service.MovementStore, attempts ...Attempt) *Engine {
	return &Engine{store: store, attempts: attempts}
}

// ClassifyPending classifies every movement still missing a group or
// concept and returns run statistics. A movement that no strategy can
// resolve stays pending; that is surfaced in Details, not as an error.
func (e *Engine) ClassifyPending(ctx context.Context) (service.ClassifyResult, error) {
	var result service.ClassifyResult

	pending, err := e.store.FindPendingClassification(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load pending movements: %w", err)
	}
	result.Total = len(pending)

	if len(pending) == 0 {
		slog.Info("No movements pending classification")
		return result, nil
	}

	slog.Info("Classifying pending movements", "count", len(pending))

	for i := range pending {
		movement := &pending[i]

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		outcome, err := e.ClassifyOne(ctx, movement)
		if err != nil {
			return result, err
		}

		switch {
		case outcome.Resolved:
			result.Classified++
			result.Details = append(result.Details,
				fmt.Sprintf("movement %d %q classified by %s", movement.ID, movement.Description, strings.Join(outcome.Methods, "+")))
		case outcome.Assigned:
			result.Details = append(result.Details,
				fmt.Sprintf("movement %d %q partially classified by %s, still pending", movement.ID, movement.Description, strings.Join(outcome.Methods, "+")))
		default:
			result.Details = append(result.Details,
				fmt.Sprintf("movement %d %q could not be classified", movement.ID, movement.Description))
		}
	}

	slog.Info("Classification run finished",
		"total", result.Total,
		"classified", result.Classified)

	return result, nil
}

// ClassifyOne runs the ordered strategies against a single movement
// and persists any assignment. Strategy errors abort the call; an
// unresolved movement does not.
func (e *Engine) ClassifyOne(ctx context.Context, movement *model.Movement) (Outcome, error) {
	var outcome Outcome

	for _, attempt := range e.attempts {
		if !movement.NeedsClassification() {
			break
		}

		assigned, err := attempt.Classify(ctx, movement)
		if err != nil {
			return outcome, fmt.Errorf("%s attempt failed for movement %d: %w", attempt.Name(), movement.ID, err)
		}
		if assigned {
			outcome.Assigned = true
			outcome.Methods = append(outcome.Methods, attempt.Name())
		}
	}

	outcome.Resolved = !movement.NeedsClassification()

	if outcome.Assigned {
		if err := e.store.UpdateClassification(ctx, movement); err != nil {
			return outcome, fmt.Errorf("failed to save classification for movement %d: %w", movement.ID, err)
		}
	}

	return outcome, nil
}
