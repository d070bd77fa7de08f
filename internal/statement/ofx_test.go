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

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260101120000[0:GMT]
<DTEND>20260131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260114120000[0:GMT]
<TRNAMT>-45.00
<FITID>2026011401
<NAME>NETFLIX.COM
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20260120120000[0:GMT]
<TRNAMT>1250.00
<FITID>2026012001
<NAME>PAYROLL DEPOSIT
<MEMO>EMPLOYER INC
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1205.00
<DTASOF>20260131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestOFXExtractor(t *testing.T) {
	e := NewOFXExtractor()

	movements, err := e.Extract(context.Background(), Document{
		Source: SourceOFX,
		Name:   "export.ofx",
		Data:   []byte(sampleBankOFX),
	})
	require.NoError(t, err)
	require.Len(t, movements, 2)

	debit := movements[0]
	assert.Equal(t, time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC), debit.Date)
	assert.True(t, decimal.RequireFromString("-45").Equal(debit.Amount), "got %s", debit.Amount)
	assert.Equal(t, "NETFLIX.COM", debit.Description)
	assert.Equal(t, "2026011401", debit.Reference)
	assert.True(t, debit.IsExpense())

	credit := movements[1]
	assert.True(t, decimal.RequireFromString("1250").Equal(credit.Amount))
	assert.Equal(t, "PAYROLL DEPOSIT", credit.Description)
	assert.Equal(t, "EMPLOYER INC", credit.Detail)
	assert.False(t, credit.IsExpense())
}

func TestOFXExtractorUnparsable(t *testing.T) {
	e := NewOFXExtractor()

	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "not ofx", data: "14 Jan 2026 Netflix -$ 45.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), Document{
				Source: SourceOFX,
				Name:   "broken.ofx",
				Data:   []byte(tt.data),
			})
			require.Error(t, err)
			var unparsable *UnparsableDocumentError
			assert.True(t, errors.As(err, &unparsable))
		})
	}
}
