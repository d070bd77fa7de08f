package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the
// application expects. If the database cannot be migrated to this
// version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Movements and classification rules",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS movements (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					currency_id INTEGER NOT NULL,
					date TEXT NOT NULL,
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					reference TEXT NOT NULL DEFAULT '',
					detail TEXT NOT NULL DEFAULT '',
					counterparty_id INTEGER,
					group_id INTEGER,
					concept_id INTEGER,
					usd_amount TEXT,
					exchange_rate TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE UNIQUE INDEX idx_movements_dedup ON movements(date, amount, reference)`,
				`CREATE INDEX idx_movements_description ON movements(description)`,
				`CREATE INDEX idx_movements_reference ON movements(reference)`,

				`CREATE TABLE IF NOT EXISTS classification_rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					pattern TEXT NOT NULL,
					match_type TEXT NOT NULL,
					counterparty_id INTEGER,
					group_id INTEGER,
					concept_id INTEGER,
					position INTEGER NOT NULL DEFAULT 0,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_rules_position ON classification_rules(position)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Catalog lookup tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1
				)`,
				`CREATE TABLE IF NOT EXISTS currencies (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					code TEXT NOT NULL,
					name TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1
				)`,
				`CREATE TABLE IF NOT EXISTS counterparties (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1
				)`,
				`CREATE TABLE IF NOT EXISTS groups (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1
				)`,
				`CREATE TABLE IF NOT EXISTS concepts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					group_id INTEGER NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1,
					FOREIGN KEY (group_id) REFERENCES groups(id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index classification state for pending lookups",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX idx_movements_pending ON movements(group_id, concept_id)`,
				`CREATE INDEX idx_movements_date ON movements(date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies pending schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if currentVersion != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", currentVersion, ExpectedSchemaVersion)
	}

	return nil
}
