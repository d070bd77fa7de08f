// Package classify implements the two-pass classification engine that
// assigns counterparty, group, and concept to pending movements.
package classify

import (
	"context"

	"github.com/osoriof/plata/internal/model"
)

// Attempt is one classification strategy. Strategies are evaluated in
// order until the movement no longer needs classification; each one
// only fills fields the previous attempts left unset.
type Attempt interface {
	// Name identifies the strategy in run details and logs.
	Name() string
	// Classify tries to assign classification fields to the movement.
	// It reports whether it assigned anything.
	Classify(ctx context.Context, movement *model.Movement) (bool, error)
}

// Outcome describes the result of classifying one movement.
type Outcome struct {
	// Methods lists the strategies that assigned at least one field,
	// in evaluation order.
	Methods []string
	// Assigned is true when any field was assigned during this run.
	Assigned bool
	// Resolved is true when the movement no longer needs
	// classification. An unresolved movement stays pending; that is a
	// normal terminal state, not an error.
	Resolved bool
}
