package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/osoriof/plata/internal/model"
)

// AllRules returns every classification rule in precedence order.
// Position ordering is significant: the engine applies the first match.
func (s *SQLiteStore) AllRules(ctx context.Context) ([]model.ClassificationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern, match_type, counterparty_id, group_id, concept_id,
		       position, is_active, created_at, updated_at
		FROM classification_rules
		ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query classification rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.ClassificationRule
	for rows.Next() {
		var rule model.ClassificationRule
		var matchType string
		var counterpartyID, groupID, conceptID sql.NullInt64
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&rule.ID, &rule.Pattern, &matchType,
			&counterpartyID, &groupID, &conceptID,
			&rule.Position, &rule.Active, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan classification rule: %w", err)
		}

		rule.MatchType = model.MatchType(matchType)
		rule.CounterpartyID = fromNullID(counterpartyID)
		rule.GroupID = fromNullID(groupID)
		rule.ConceptID = fromNullID(conceptID)
		if createdAt.Valid {
			rule.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			rule.UpdatedAt = updatedAt.Time
		}

		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classification rules: %w", err)
	}

	return rules, nil
}

// CreateRule persists a classification rule and assigns its ID. A zero
// position places the rule after every existing one.
func (s *SQLiteStore) CreateRule(ctx context.Context, rule *model.ClassificationRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	if rule.Position == 0 {
		var maxPosition sql.NullInt64
		if err := s.db.QueryRowContext(ctx,
			"SELECT MAX(position) FROM classification_rules").Scan(&maxPosition); err != nil {
			return fmt.Errorf("failed to determine rule position: %w", err)
		}
		rule.Position = int(maxPosition.Int64) + 1
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO classification_rules (
			pattern, match_type, counterparty_id, group_id, concept_id, position, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rule.Pattern,
		string(rule.MatchType),
		nullID(rule.CounterpartyID),
		nullID(rule.GroupID),
		nullID(rule.ConceptID),
		rule.Position,
		rule.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create classification rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get classification rule ID: %w", err)
	}

	rule.ID = id
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return nil
}
