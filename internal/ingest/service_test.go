package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osoriof/plata/internal/common"
	"github.com/osoriof/plata/internal/model"
	"github.com/osoriof/plata/internal/statement"
	"github.com/osoriof/plata/internal/testutil"
)

const sampleStatement = `BANCO EJEMPLO S.A.
02 ene 2026 PAGO NOMINA EMPRESA SAS 00451278 $ 3.500.000,00
05 ene 2026 COMPRA EXITO CALLE 80 -$ 185.430,50
14 Jan 2026 Netflix Subscription -$ 45.000,00
`

func savingsDoc(text string) statement.Document {
	return statement.Document{
		Source: statement.SourceSavings,
		Name:   "extracto.txt",
		Data:   []byte(text),
	}
}

func TestProcessPersistsNewMovements(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	accountID, currencyID, _, _, _ := db.SeedCatalog(ctx)

	svc := NewService(db.Store)
	doc := savingsDoc(sampleStatement)
	extractor, err := statement.ForSource(doc)
	require.NoError(t, err)

	result, err := svc.Process(ctx, doc, extractor, accountID, currencyID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRead)
	assert.Equal(t, 3, result.NewCount)
	assert.Equal(t, 0, result.DuplicateCount)
	assert.Empty(t, result.Errors)

	pending, err := db.Store.FindPendingClassification(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for _, m := range pending {
		assert.Equal(t, accountID, m.AccountID)
		assert.Equal(t, currencyID, m.CurrencyID)
		assert.NotZero(t, m.ID)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	accountID, currencyID, _, _, _ := db.SeedCatalog(ctx)

	svc := NewService(db.Store)
	doc := savingsDoc(sampleStatement)
	extractor, err := statement.ForSource(doc)
	require.NoError(t, err)

	first, err := svc.Process(ctx, doc, extractor, accountID, currencyID)
	require.NoError(t, err)
	assert.Equal(t, 3, first.NewCount)

	second, err := svc.Process(ctx, doc, extractor, accountID, currencyID)
	require.NoError(t, err)
	assert.Equal(t, 3, second.TotalRead)
	assert.Equal(t, 0, second.NewCount)
	assert.Equal(t, 3, second.DuplicateCount)
}

func TestProcessDuplicateTripleIsExact(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	accountID, currencyID, _, _, _ := db.SeedCatalog(ctx)

	svc := NewService(db.Store)

	base := savingsDoc("14 ene 2026 COMPRA TIENDA -$ 10.000,00\n")
	extractor, err := statement.ForSource(base)
	require.NoError(t, err)

	_, err = svc.Process(ctx, base, extractor, accountID, currencyID)
	require.NoError(t, err)

	// One cent off: a distinct movement.
	cents := savingsDoc("14 ene 2026 COMPRA TIENDA -$ 10.000,01\n")
	result, err := svc.Process(ctx, cents, extractor, accountID, currencyID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewCount)
	assert.Equal(t, 0, result.DuplicateCount)

	// Same date and amount but now with a reference: also distinct.
	withRef := savingsDoc("14 ene 2026 COMPRA TIENDA 00998877 -$ 10.000,00\n")
	result, err = svc.Process(ctx, withRef, extractor, accountID, currencyID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewCount)
	assert.Equal(t, 0, result.DuplicateCount)

	// The original triple again: duplicate.
	result, err = svc.Process(ctx, base, extractor, accountID, currencyID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewCount)
	assert.Equal(t, 1, result.DuplicateCount)
}

func TestProcessUnparsableDocumentIsTerminal(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	svc := NewService(db.Store)
	doc := savingsDoc("")
	extractor := statement.NewSavingsExtractor()

	_, err := svc.Process(ctx, doc, extractor, 1, 1)
	require.Error(t, err)
	var unparsable *statement.UnparsableDocumentError
	assert.True(t, errors.As(err, &unparsable))
}

func TestProcessWrongExtractorForSource(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	svc := NewService(db.Store)
	doc := statement.Document{Source: statement.SourceOFX, Name: "f.ofx"}

	_, err := svc.Process(ctx, doc, statement.NewSavingsExtractor(), 1, 1)
	require.Error(t, err)
}

// failingStore wraps a live store but fails every save, to prove that
// per-movement failures are collected instead of aborting the batch.
type failingStore struct {
	saveErr error
}

func (f *failingStore) ExistsMovement(_ context.Context, _ time.Time, _ decimal.Decimal, _ string) (bool, error) {
	return false, nil
}

func (f *failingStore) SaveMovement(_ context.Context, _ *model.Movement) error {
	return f.saveErr
}

func (f *failingStore) GetMovement(_ context.Context, _ int64) (*model.Movement, error) {
	return nil, nil
}

func (f *failingStore) FindPendingClassification(_ context.Context) ([]model.Movement, error) {
	return nil, nil
}

func (f *failingStore) FindByReference(_ context.Context, _ string) (*model.Movement, error) {
	return nil, nil
}

func (f *failingStore) FindByDescriptionPrefix(_ context.Context, _ string, _ int) ([]model.Movement, error) {
	return nil, nil
}

func (f *failingStore) UpdateClassification(_ context.Context, _ *model.Movement) error {
	return nil
}

func TestProcessCollectsPerMovementErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&failingStore{saveErr: errors.New("disk full")})
	doc := savingsDoc(sampleStatement)
	extractor := statement.NewSavingsExtractor()

	result, err := svc.Process(ctx, doc, extractor, 1, 1)
	require.NoError(t, err, "per-movement failures never abort the batch")

	assert.Equal(t, 3, result.TotalRead)
	assert.Equal(t, 0, result.NewCount)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "disk full")
}

func TestProcessCountsRacedDuplicates(t *testing.T) {
	ctx := context.Background()

	// A save losing the dedup race to a concurrent writer surfaces
	// the unique index violation; it counts as a duplicate, not an
	// error.
	raceErr := fmt.Errorf("movement already stored: %w", common.ErrDuplicateEntry)
	svc := NewService(&failingStore{saveErr: raceErr})
	doc := savingsDoc(sampleStatement)

	result, err := svc.Process(ctx, doc, statement.NewSavingsExtractor(), 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRead)
	assert.Equal(t, 0, result.NewCount)
	assert.Equal(t, 3, result.DuplicateCount)
	assert.Empty(t, result.Errors)
}
