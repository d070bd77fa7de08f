// Package testutil provides test helpers for packages that need a
// migrated movement store.
package testutil

import (
	"context"
	"testing"

	"github.com/osoriof/plata/internal/model"
	"github.com/osoriof/plata/internal/storage"
)

// TestDB wraps an in-memory migrated store with seeding helpers.
type TestDB struct {
	Store *storage.SQLiteStore
	t     *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations
// applied and cleanup registered.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Store: store, t: t}
}

// SeedCatalog inserts one account, one currency, one counterparty,
// one group, and one concept, returning their IDs in that order.
func (db *TestDB) SeedCatalog(ctx context.Context) (accountID, currencyID, counterpartyID, groupID, conceptID int64) {
	db.t.Helper()

	account := model.Account{Name: "Savings", Active: true}
	if err := db.Store.CreateAccount(ctx, &account); err != nil {
		db.t.Fatalf("failed to seed account: %v", err)
	}

	currency := model.Currency{Code: "COP", Name: "Colombian Peso", Active: true}
	if err := db.Store.CreateCurrency(ctx, &currency); err != nil {
		db.t.Fatalf("failed to seed currency: %v", err)
	}

	counterparty := model.Counterparty{Name: "Netflix", Active: true}
	if err := db.Store.CreateCounterparty(ctx, &counterparty); err != nil {
		db.t.Fatalf("failed to seed counterparty: %v", err)
	}

	group := model.Group{Name: "Entertainment", Active: true}
	if err := db.Store.CreateGroup(ctx, &group); err != nil {
		db.t.Fatalf("failed to seed group: %v", err)
	}

	concept := model.Concept{Name: "Streaming", GroupID: group.ID, Active: true}
	if err := db.Store.CreateConcept(ctx, &concept); err != nil {
		db.t.Fatalf("failed to seed concept: %v", err)
	}

	return account.ID, currency.ID, counterparty.ID, group.ID, concept.ID
}
