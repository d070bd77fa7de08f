package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/model"
)

// Catalog tables are owned by the surrounding application; the
// pipeline only reads them. The Create helpers exist for composition
// and test seeding.

// GetAccount returns an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var account model.Account
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, is_active FROM accounts WHERE id = ?", id,
	).Scan(&account.ID, &account.Name, &account.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetCurrency returns a currency by ID.
func (s *SQLiteStore) GetCurrency(ctx context.Context, id int64) (*model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var currency model.Currency
	err := s.db.QueryRowContext(ctx,
		"SELECT id, code, name, is_active FROM currencies WHERE id = ?", id,
	).Scan(&currency.ID, &currency.Code, &currency.Name, &currency.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("currency %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return &currency, nil
}

// GetCounterparty returns a counterparty by ID.
func (s *SQLiteStore) GetCounterparty(ctx context.Context, id int64) (*model.Counterparty, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var counterparty model.Counterparty
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, is_active FROM counterparties WHERE id = ?", id,
	).Scan(&counterparty.ID, &counterparty.Name, &counterparty.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("counterparty %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get counterparty: %w", err)
	}
	return &counterparty, nil
}

// GetGroup returns a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var group model.Group
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, is_active FROM groups WHERE id = ?", id,
	).Scan(&group.ID, &group.Name, &group.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// GetConcept returns a concept by ID.
func (s *SQLiteStore) GetConcept(ctx context.Context, id int64) (*model.Concept, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var concept model.Concept
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, group_id, is_active FROM concepts WHERE id = ?", id,
	).Scan(&concept.ID, &concept.Name, &concept.GroupID, &concept.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("concept %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get concept: %w", err)
	}
	return &concept, nil
}

// ListGroups returns every group.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]model.Group, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, is_active FROM groups ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []model.Group
	for rows.Next() {
		var group model.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.Active); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// ListConcepts returns every concept.
func (s *SQLiteStore) ListConcepts(ctx context.Context) ([]model.Concept, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, group_id, is_active FROM concepts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var concepts []model.Concept
	for rows.Next() {
		var concept model.Concept
		if err := rows.Scan(&concept.ID, &concept.Name, &concept.GroupID, &concept.Active); err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		concepts = append(concepts, concept)
	}
	return concepts, rows.Err()
}

// CreateAccount inserts an account row.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *model.Account) error {
	return s.createNamed(ctx, "accounts", account.Name, account.Active, &account.ID)
}

// CreateCounterparty inserts a counterparty row.
func (s *SQLiteStore) CreateCounterparty(ctx context.Context, counterparty *model.Counterparty) error {
	return s.createNamed(ctx, "counterparties", counterparty.Name, counterparty.Active, &counterparty.ID)
}

// CreateGroup inserts a group row.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *model.Group) error {
	return s.createNamed(ctx, "groups", group.Name, group.Active, &group.ID)
}

// CreateCurrency inserts a currency row.
func (s *SQLiteStore) CreateCurrency(ctx context.Context, currency *model.Currency) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(currency.Code, "code"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO currencies (code, name, is_active) VALUES (?, ?, ?)",
		currency.Code, currency.Name, currency.Active)
	if err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	currency.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get currency ID: %w", err)
	}
	return nil
}

// CreateConcept inserts a concept row.
func (s *SQLiteStore) CreateConcept(ctx context.Context, concept *model.Concept) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(concept.Name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO concepts (name, group_id, is_active) VALUES (?, ?, ?)",
		concept.Name, concept.GroupID, concept.Active)
	if err != nil {
		return fmt.Errorf("failed to create concept: %w", err)
	}
	concept.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get concept ID: %w", err)
	}
	return nil
}

func (s *SQLiteStore) createNamed(ctx context.Context, table, name string, active bool, id *int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (name, is_active) VALUES (?, ?)", table),
		name, active)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get %s ID: %w", table, err)
	}
	*id = newID
	return nil
}
