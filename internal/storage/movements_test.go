package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func idPtr(id int64) *int64 { return &id }

func testMovement(day int, amount, description, reference string) model.Movement {
	return model.Movement{
		AccountID:   1,
		CurrencyID:  1,
		Date:        time.Date(2026, time.January, day, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Reference:   reference,
	}
}

func TestSaveMovementRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	usd := decimal.RequireFromString("11.25")
	rate := decimal.RequireFromString("4000.50")

	m := testMovement(14, "-45000.00", "Netflix Subscription", "00451278")
	m.Detail = "pago automatico"
	m.USDAmount = &usd
	m.ExchangeRate = &rate

	require.NoError(t, store.SaveMovement(ctx, &m))
	assert.NotZero(t, m.ID)

	pending, err := store.FindPendingClassification(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	got := pending[0]
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Date, got.Date)
	assert.True(t, decimal.RequireFromString("-45000").Equal(got.Amount))
	assert.Equal(t, "Netflix Subscription", got.Description)
	assert.Equal(t, "00451278", got.Reference)
	assert.Equal(t, "pago automatico", got.Detail)
	require.NotNil(t, got.USDAmount)
	assert.True(t, usd.Equal(*got.USDAmount))
	require.NotNil(t, got.ExchangeRate)
	assert.True(t, rate.Equal(*got.ExchangeRate))
}

func TestSaveMovementDuplicateTriple(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := testMovement(14, "-45000.00", "Netflix Subscription", "")
	require.NoError(t, store.SaveMovement(ctx, &first))

	// Same (date, amount, reference) triple with a different
	// description still violates the dedup index.
	second := testMovement(14, "-45000.00", "NETFLIX.COM", "")
	err := store.SaveMovement(ctx, &second)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	// Any leg of the triple differing makes a distinct movement.
	third := testMovement(14, "-45000.01", "Netflix Subscription", "")
	require.NoError(t, store.SaveMovement(ctx, &third))
}

func TestGetMovement(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := testMovement(14, "-45000.00", "Netflix Subscription", "2026011401")
	m.GroupID = idPtr(3)
	require.NoError(t, store.SaveMovement(ctx, &m))

	got, err := store.GetMovement(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, "Netflix Subscription", got.Description)
	assert.Equal(t, "2026011401", got.Reference)
	assert.True(t, m.Amount.Equal(got.Amount))
	require.NotNil(t, got.GroupID)
	assert.Equal(t, int64(3), *got.GroupID)

	_, err = store.GetMovement(ctx, 9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveMovementValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name   string
		mutate func(*model.Movement)
	}{
		{name: "missing date", mutate: func(m *model.Movement) { m.Date = time.Time{} }},
		{name: "missing account", mutate: func(m *model.Movement) { m.AccountID = 0 }},
		{name: "missing currency", mutate: func(m *model.Movement) { m.CurrencyID = 0 }},
		{name: "missing description", mutate: func(m *model.Movement) { m.Description = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMovement(14, "-10.00", "COMPRA", "")
			tt.mutate(&m)
			require.Error(t, store.SaveMovement(ctx, &m))
		})
	}
}

func TestExistsMovementExactTriple(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := testMovement(14, "-10000.00", "COMPRA TIENDA", "")
	require.NoError(t, store.SaveMovement(ctx, &m))

	date := m.Date
	amount := decimal.RequireFromString("-10000.00")

	exists, err := store.ExistsMovement(ctx, date, amount, "")
	require.NoError(t, err)
	assert.True(t, exists)

	// A differently formatted but equal decimal still matches.
	exists, err = store.ExistsMovement(ctx, date, decimal.RequireFromString("-10000"), "")
	require.NoError(t, err)
	assert.True(t, exists)

	// One cent difference: no match.
	exists, err = store.ExistsMovement(ctx, date, decimal.RequireFromString("-10000.01"), "")
	require.NoError(t, err)
	assert.False(t, exists)

	// Populated reference against stored blank: no match.
	exists, err = store.ExistsMovement(ctx, date, amount, "00998877")
	require.NoError(t, err)
	assert.False(t, exists)

	// Different date: no match.
	exists, err = store.ExistsMovement(ctx, date.AddDate(0, 0, 1), amount, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindByReference(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	older := testMovement(2, "-10.00", "TRANSFERENCIA A", "99120034")
	older.CounterpartyID = idPtr(1)
	older.GroupID = idPtr(1)
	require.NoError(t, store.SaveMovement(ctx, &older))

	newer := testMovement(9, "-20.00", "TRANSFERENCIA B", "99120034")
	newer.CounterpartyID = idPtr(2)
	newer.GroupID = idPtr(2)
	require.NoError(t, store.SaveMovement(ctx, &newer))

	unclassified := testMovement(20, "-30.00", "TRANSFERENCIA C", "99120034")
	require.NoError(t, store.SaveMovement(ctx, &unclassified))

	got, err := store.FindByReference(ctx, "99120034")
	require.NoError(t, err)
	require.NotNil(t, got)
	// Most recent with a counterparty wins; the unclassified one is
	// not a candidate.
	assert.Equal(t, newer.ID, got.ID)

	got, err = store.FindByReference(ctx, "00000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByDescriptionPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a := testMovement(2, "-10.00", "UBER TRIP BOG", "")
	a.GroupID = idPtr(1)
	require.NoError(t, store.SaveMovement(ctx, &a))

	b := testMovement(9, "-20.00", "UBER EATS", "")
	b.GroupID = idPtr(2)
	require.NoError(t, store.SaveMovement(ctx, &b))

	c := testMovement(5, "-30.00", "UBER TRIP MED", "")
	require.NoError(t, store.SaveMovement(ctx, &c)) // unclassified

	d := testMovement(6, "-40.00", "UNRELATED", "")
	d.GroupID = idPtr(3)
	require.NoError(t, store.SaveMovement(ctx, &d))

	got, err := store.FindByDescriptionPrefix(ctx, "UBER", 5)
	require.NoError(t, err)
	require.Len(t, got, 2, "unclassified and unrelated movements are excluded")
	assert.Equal(t, b.ID, got[0].ID, "most recent first")
	assert.Equal(t, a.ID, got[1].ID)

	got, err = store.FindByDescriptionPrefix(ctx, "UBER", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestFindByDescriptionPrefixEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := testMovement(2, "-10.00", "100% DESCUENTO", "")
	m.GroupID = idPtr(1)
	require.NoError(t, store.SaveMovement(ctx, &m))

	other := testMovement(3, "-20.00", "100X DESCUENTO", "")
	other.GroupID = idPtr(2)
	require.NoError(t, store.SaveMovement(ctx, &other))

	got, err := store.FindByDescriptionPrefix(ctx, "100%", 5)
	require.NoError(t, err)
	require.Len(t, got, 1, "LIKE wildcards in the token are literal")
	assert.Equal(t, m.ID, got[0].ID)
}

func TestUpdateClassification(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	m := testMovement(14, "-45000.00", "Netflix Subscription", "")
	require.NoError(t, store.SaveMovement(ctx, &m))

	m.CounterpartyID = idPtr(4)
	m.GroupID = idPtr(3)
	m.ConceptID = idPtr(7)
	require.NoError(t, store.UpdateClassification(ctx, &m))

	pending, err := store.FindPendingClassification(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "fully classified movements are no longer pending")

	// A movement that was never saved cannot be updated.
	ghost := testMovement(1, "-1.00", "GHOST", "")
	ghost.ID = 9999
	ghost.GroupID = idPtr(1)
	err = store.UpdateClassification(ctx, &ghost)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMovementNotFound)
}

func TestFindPendingClassificationOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	later := testMovement(20, "-10.00", "SEGUNDO", "")
	require.NoError(t, store.SaveMovement(ctx, &later))

	earlier := testMovement(2, "-10.00", "PRIMERO", "")
	require.NoError(t, store.SaveMovement(ctx, &earlier))

	partial := testMovement(9, "-10.00", "PARCIAL", "")
	partial.GroupID = idPtr(1)
	require.NoError(t, store.SaveMovement(ctx, &partial))

	pending, err := store.FindPendingClassification(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3, "a partial classification is still pending")
	assert.Equal(t, "PRIMERO", pending[0].Description)
	assert.Equal(t, "PARCIAL", pending[1].Description)
	assert.Equal(t, "SEGUNDO", pending[2].Description)
}
