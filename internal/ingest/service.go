// Package ingest orchestrates statement extraction, movement
// completion, duplicate detection, and persistence.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/service"
	"github.com/osoriof/plata/internal/statement"
)

// Service ingests statement documents into the movement store.
type Service struct {
	store service.MovementStore
}

// NewService creates an ingestion service backed by the given store.
func NewService(store service.MovementStore) *Service {
	return &Service{store: store}
}

// Process extracts the document and persists every movement that is
// not already stored. Extraction failure is terminal for the call;
// per-movement failures are collected into the result's Errors and
// processing continues. Duplicates are counted, never errors.
func (s *Service) Process(ctx context.Context, doc statement.Document, extractor statement.Extractor, accountID, currencyID int64) (service.IngestResult, error) {
	var result service.IngestResult

	if !extractor.CanHandle(doc) {
		return result, &statement.UnparsableDocumentError{
			Source: doc.Source,
			Name:   doc.Name,
			Reason: "extractor does not handle this source",
		}
	}

	drafts, err := extractor.Extract(ctx, doc)
	if err != nil {
		return result, fmt.Errorf("failed to extract document %q: %w", doc.Name, err)
	}
	result.TotalRead = len(drafts)

	for _, draft := range drafts {
		// The extractor does not know the account or currency.
		draft.AccountID = accountID
		draft.CurrencyID = currencyID

		exists, err := s.store.ExistsMovement(ctx, draft.Date, draft.Amount, draft.Reference)
		if err != nil {
			common.LogError(err, "duplicate check failed", common.Fields{
				"document":    doc.Name,
				"description": draft.Description,
			})
			result.Errors = append(result.Errors,
				fmt.Sprintf("duplicate check for %q on %s: %v", draft.Description, draft.Date.Format("2006-01-02"), err))
			continue
		}
		if exists {
			result.DuplicateCount++
			continue
		}

		if err := s.store.SaveMovement(ctx, &draft); err != nil {
			// The store enforces the dedup triple with a unique
			// index, so a concurrent writer surfaces here.
			if errors.Is(err, common.ErrDuplicateEntry) {
				result.DuplicateCount++
				continue
			}
			common.LogError(err, "failed to save movement", common.Fields{
				"document":    doc.Name,
				"description": draft.Description,
			})
			result.Errors = append(result.Errors,
				fmt.Sprintf("save %q on %s: %v", draft.Description, draft.Date.Format("2006-01-02"), err))
			continue
		}
		result.NewCount++
	}

	common.LogInfo("Processed statement document", common.Fields{
		"document":   doc.Name,
		"total_read": result.TotalRead,
		"new":        result.NewCount,
		"duplicates": result.DuplicateCount,
		"errors":     len(result.Errors),
	})

	return result, nil
}
