package statement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savingsDoc(text string) Document {
	return Document{Source: SourceSavings, Name: "extracto.txt", Data: []byte(text)}
}

func TestSavingsExtractorCanHandle(t *testing.T) {
	e := NewSavingsExtractor()
	assert.True(t, e.CanHandle(savingsDoc("x")))
	assert.False(t, e.CanHandle(Document{Source: SourceCreditCard}))
	assert.False(t, e.CanHandle(Document{Source: SourceOFX}))
}

func TestSavingsExtractorSingleLine(t *testing.T) {
	e := NewSavingsExtractor()

	movements, err := e.Extract(context.Background(), savingsDoc(
		"14 Jan 2026 Netflix Subscription -$ 45.000,00\n"))
	require.NoError(t, err)
	require.Len(t, movements, 1)

	m := movements[0]
	assert.Equal(t, time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC), m.Date)
	assert.True(t, decimal.RequireFromString("-45000.00").Equal(m.Amount), "got %s", m.Amount)
	assert.Equal(t, "Netflix Subscription", m.Description)
	assert.Equal(t, "", m.Reference)
	assert.True(t, m.IsExpense())
}

func TestSavingsExtractorFullStatement(t *testing.T) {
	text := `BANCO EJEMPLO S.A.
EXTRACTO DE CUENTA DE AHORROS
Periodo: 01/ene/2026 - 31/ene/2026

02 ene 2026 PAGO NOMINA EMPRESA SAS 00451278 $ 3.500.000,00
05 ene 2026 COMPRA EXITO CALLE 80 -$ 185.430,50
14 Jan 2026 Netflix Subscription -$ 45.000,00
20 ene 2026 TRANSFERENCIA RECIBIDA 99120034 $ 250.000,00
This line is page furniture and has no date anchor
31 ene 2026 CUOTA DE MANEJO SIN IMPORTE
`
	e := NewSavingsExtractor()

	movements, err := e.Extract(context.Background(), savingsDoc(text))
	require.NoError(t, err)
	// The anchored line without an amount token is dropped, not an error.
	require.Len(t, movements, 4)

	first := movements[0]
	assert.Equal(t, "PAGO NOMINA EMPRESA SAS", first.Description)
	assert.Equal(t, "00451278", first.Reference)
	assert.True(t, decimal.RequireFromString("3500000").Equal(first.Amount))
	assert.False(t, first.IsExpense())

	second := movements[1]
	assert.Equal(t, "COMPRA EXITO CALLE 80", second.Description)
	assert.Equal(t, "", second.Reference, "short digit runs are not references")
	assert.True(t, decimal.RequireFromString("-185430.50").Equal(second.Amount))

	fourth := movements[3]
	assert.Equal(t, "TRANSFERENCIA RECIBIDA", fourth.Description)
	assert.Equal(t, "99120034", fourth.Reference)
}

func TestSavingsExtractorReferenceNeedsSixDigits(t *testing.T) {
	e := NewSavingsExtractor()

	movements, err := e.Extract(context.Background(), savingsDoc(
		"05 ene 2026 COMPRA LOCAL 123 -$ 10.000,00\n"+
			"06 ene 2026 COMPRA LOCAL 123456 -$ 10.000,00\n"))
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, "COMPRA LOCAL 123", movements[0].Description)
	assert.Equal(t, "", movements[0].Reference)

	assert.Equal(t, "COMPRA LOCAL", movements[1].Description)
	assert.Equal(t, "123456", movements[1].Reference)
}

func TestSavingsExtractorUnparsable(t *testing.T) {
	e := NewSavingsExtractor()

	tests := []struct {
		name string
		text string
	}{
		{name: "empty document", text: ""},
		{name: "whitespace only", text: "   \n\t\n"},
		{name: "no movement lines", text: "BANCO EJEMPLO\nsin movimientos\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), savingsDoc(tt.text))
			require.Error(t, err)
			var unparsable *UnparsableDocumentError
			assert.True(t, errors.As(err, &unparsable))
		})
	}
}

func TestSavingsExtractorInvalidAnchorDates(t *testing.T) {
	e := NewSavingsExtractor()

	// An out-of-range day or unknown month never anchors a movement.
	text := "32 ene 2026 NO EXISTE -$ 1,00\n" +
		"14 xyz 2026 MES DESCONOCIDO -$ 1,00\n" +
		"29 feb 2025 NO BISIESTO -$ 1,00\n" +
		"14 ene 2026 VALIDO -$ 1,00\n"

	movements, err := e.Extract(context.Background(), savingsDoc(text))
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "VALIDO", movements[0].Description)
}

func TestForSource(t *testing.T) {
	ex, err := ForSource(savingsDoc("x"))
	require.NoError(t, err)
	assert.IsType(t, &SavingsExtractor{}, ex)

	ex, err = ForSource(Document{Source: SourceCreditCard})
	require.NoError(t, err)
	assert.IsType(t, &CreditCardExtractor{}, ex)

	ex, err = ForSource(Document{Source: SourceOFX})
	require.NoError(t, err)
	assert.IsType(t, &OFXExtractor{}, ex)

	_, err = ForSource(Document{Source: SourceType("unknown"), Name: "f"})
	require.Error(t, err)
	var unparsable *UnparsableDocumentError
	assert.True(t, errors.As(err, &unparsable))
}
