package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/model"
)

// dateLayout is the canonical movement date representation. Dates are
// stored as plain text so the exact-triple duplicate check is a
// string comparison with no timezone or precision drift.
const dateLayout = "2006-01-02"

const movementColumns = `id, account_id, currency_id, date, amount, description, reference, detail,
	counterparty_id, group_id, concept_id, usd_amount, exchange_rate, created_at`

// ExistsMovement reports whether a movement with the exact
// (date, amount, reference) triple is already persisted. Amounts are
// compared by canonical decimal string, so a one-cent difference or a
// blank versus populated reference makes a new movement.
func (s *SQLiteStore) ExistsMovement(ctx context.Context, date time.Time, amount decimal.Decimal, reference string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movements WHERE date = ? AND amount = ? AND reference = ?`,
		date.Format(dateLayout), amount.String(), reference,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate movement: %w", err)
	}

	return count > 0, nil
}

// SaveMovement persists a movement and assigns its ID.
func (s *SQLiteStore) SaveMovement(ctx context.Context, movement *model.Movement) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMovement(movement); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO movements (
			account_id, currency_id, date, amount, description, reference, detail,
			counterparty_id, group_id, concept_id, usd_amount, exchange_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.AccountID,
		movement.CurrencyID,
		movement.Date.Format(dateLayout),
		movement.Amount.String(),
		movement.Description,
		movement.Reference,
		movement.Detail,
		nullID(movement.CounterpartyID),
		nullID(movement.GroupID),
		nullID(movement.ConceptID),
		nullDecimal(movement.USDAmount),
		nullDecimal(movement.ExchangeRate),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("movement on %s for %s: %w",
				movement.Date.Format(dateLayout), movement.Amount.String(), common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get movement ID: %w", err)
	}

	movement.ID = id
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	return nil
}

// GetMovement returns the movement with the given ID.
func (s *SQLiteStore) GetMovement(ctx context.Context, id int64) (*model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE id = ?`, id)

	movement, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movement %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get movement %d: %w", id, err)
	}
	return movement, nil
}

// FindPendingClassification returns movements still missing a group or
// concept, oldest first.
func (s *SQLiteStore) FindPendingClassification(ctx context.Context) ([]model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE group_id IS NULL OR concept_id IS NULL
		ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending movements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMovements(rows)
}

// FindByReference returns the most recent classified movement with the
// exact reference and a counterparty assigned, or nil when none exists.
func (s *SQLiteStore) FindByReference(ctx context.Context, reference string) (*model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(reference, "reference"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE reference = ? AND counterparty_id IS NOT NULL
		ORDER BY date DESC, id DESC
		LIMIT 1`, reference)

	movement, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find movement by reference: %w", err)
	}
	return movement, nil
}

// FindByDescriptionPrefix returns classified movements whose
// description starts with prefix, most recent first.
func (s *SQLiteStore) FindByDescriptionPrefix(ctx context.Context, prefix string, limit int) ([]model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(prefix, "prefix"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE description LIKE ? ESCAPE '\'
		  AND (counterparty_id IS NOT NULL OR group_id IS NOT NULL OR concept_id IS NOT NULL)
		ORDER BY date DESC, id DESC
		LIMIT ?`, escapeLike(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements by prefix: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanMovements(rows)
}

// UpdateClassification persists the classification fields of an
// already-saved movement in a single statement.
func (s *SQLiteStore) UpdateClassification(ctx context.Context, movement *model.Movement) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if movement == nil {
		return fmt.Errorf("%w: movement", ErrNilParameter)
	}
	if movement.ID == 0 {
		return fmt.Errorf("%w: movement has no ID", ErrInvalidMovement)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE movements
		SET counterparty_id = ?, group_id = ?, concept_id = ?
		WHERE id = ?`,
		nullID(movement.CounterpartyID),
		nullID(movement.GroupID),
		nullID(movement.ConceptID),
		movement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to verify classification update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: movement %d", ErrMovementNotFound, movement.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*model.Movement, error) {
	var m model.Movement
	var dateText, amountText string
	var counterpartyID, groupID, conceptID sql.NullInt64
	var usdAmount, exchangeRate sql.NullString
	var createdAt sql.NullTime

	err := row.Scan(
		&m.ID, &m.AccountID, &m.CurrencyID, &dateText, &amountText,
		&m.Description, &m.Reference, &m.Detail,
		&counterpartyID, &groupID, &conceptID,
		&usdAmount, &exchangeRate, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	m.Date, err = time.Parse(dateLayout, dateText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date %q: %w", dateText, err)
	}
	m.Amount, err = decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", amountText, err)
	}

	m.CounterpartyID = fromNullID(counterpartyID)
	m.GroupID = fromNullID(groupID)
	m.ConceptID = fromNullID(conceptID)

	if usdAmount.Valid {
		usd, err := decimal.NewFromString(usdAmount.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored usd amount %q: %w", usdAmount.String, err)
		}
		m.USDAmount = &usd
	}
	if exchangeRate.Valid {
		rate, err := decimal.NewFromString(exchangeRate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored exchange rate %q: %w", exchangeRate.String, err)
		}
		m.ExchangeRate = &rate
	}
	if createdAt.Valid {
		m.CreatedAt = createdAt.Time
	}

	return &m, nil
}

func scanMovements(rows *sql.Rows) ([]model.Movement, error) {
	var movements []model.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}
	return movements, nil
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func fromNullID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// escapeLike escapes LIKE wildcards so a description token is matched
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
