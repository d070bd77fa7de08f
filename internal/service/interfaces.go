// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/osoriof/plata/internal/model"
	"github.com/shopspring/decimal"
)

// MovementStore defines the persistence contract the pipeline consumes.
// Implementations select a backend at composition time; the pipeline
// never knows which one it talks to.
type MovementStore interface {
	// ExistsMovement reports whether a movement with the exact
	// (date, amount, reference) triple is already persisted.
	ExistsMovement(ctx context.Context, date time.Time, amount decimal.Decimal, reference string) (bool, error)
	// SaveMovement persists a movement and assigns its ID.
	SaveMovement(ctx context.Context, movement *model.Movement) error
	// GetMovement returns the movement with the given ID.
	GetMovement(ctx context.Context, id int64) (*model.Movement, error)
	// FindPendingClassification returns movements still missing a
	// group or concept, oldest first.
	FindPendingClassification(ctx context.Context) ([]model.Movement, error)
	// FindByReference returns the most recent classified movement with
	// the exact reference, or nil when none exists.
	FindByReference(ctx context.Context, reference string) (*model.Movement, error)
	// FindByDescriptionPrefix returns classified movements whose
	// description starts with prefix, most recent first.
	FindByDescriptionPrefix(ctx context.Context, prefix string, limit int) ([]model.Movement, error)
	// UpdateClassification persists the classification fields of an
	// already-saved movement.
	UpdateClassification(ctx context.Context, movement *model.Movement) error
}

// RuleSource provides the ordered classification rules. Order is
// precedence and must be preserved.
type RuleSource interface {
	AllRules(ctx context.Context) ([]model.ClassificationRule, error)
}

// CatalogReader exposes the externally-owned lookup tables.
type CatalogReader interface {
	GetAccount(ctx context.Context, id int64) (*model.Account, error)
	GetCurrency(ctx context.Context, id int64) (*model.Currency, error)
	GetCounterparty(ctx context.Context, id int64) (*model.Counterparty, error)
	GetGroup(ctx context.Context, id int64) (*model.Group, error)
	GetConcept(ctx context.Context, id int64) (*model.Concept, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	ListConcepts(ctx context.Context) ([]model.Concept, error)
}

// Storage is the full contract implemented by a storage backend.
type Storage interface {
	MovementStore
	RuleSource
	CatalogReader

	Migrate(ctx context.Context) error
	Close() error
}

// IngestResult summarizes one document ingestion run.
type IngestResult struct {
	Errors         []string
	TotalRead      int
	NewCount       int
	DuplicateCount int
}

// ClassifyResult summarizes one classification run.
type ClassifyResult struct {
	Details    []string
	Total      int
	Classified int
}
