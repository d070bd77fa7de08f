package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osoriof/plata/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidMovement  = errors.New("invalid movement")
	ErrInvalidRule      = errors.New("invalid classification rule")
	ErrMovementNotFound = errors.New("movement not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMovement validates a movement before persistence.
func validateMovement(movement *model.Movement) error {
	if movement == nil {
		return fmt.Errorf("%w: movement", ErrNilParameter)
	}
	if movement.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidMovement)
	}
	if movement.AccountID == 0 {
		return fmt.Errorf("%w: missing account", ErrInvalidMovement)
	}
	if movement.CurrencyID == 0 {
		return fmt.Errorf("%w: missing currency", ErrInvalidMovement)
	}
	if movement.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidMovement)
	}
	return nil
}

// validateRule validates a classification rule before persistence.
func validateRule(rule *model.ClassificationRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if rule.Pattern == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidRule)
	}
	if !model.ValidMatchType(rule.MatchType) {
		return fmt.Errorf("%w: unknown match type %q", ErrInvalidRule, rule.MatchType)
	}
	if !rule.Assigns() {
		return fmt.Errorf("%w: rule assigns nothing", ErrInvalidRule)
	}
	return nil
}
