package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

func sampleStatement() *models.Statement {
	return &models.Statement{
		Bank: models.BankStandard,
		Year: 2024,
		Transactions: []models.TransactionRecord{
			{
				Date:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
				Description: "GROCERY STORE PURCHASE REF12345",
				Direction:   models.Debit,
				Amount:      decimal.RequireFromString("-45.00"),
				FITID:       "202406151",
			},
			{
				Date:        time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
				Description: "SALARY PAYMENT",
				Direction:   models.Credit,
				Amount:      decimal.RequireFromString("2500.00"),
				FITID:       "202406202",
			},
		},
	}
}

func TestOFXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &OFXWriter{BankID: "051001", AccountID: "000000000"}
	require.NoError(t, w.Write(&buf, sampleStatement()))

	out := buf.String()

	// Fixed OFX 1.02 header fields.
	assert.True(t, strings.HasPrefix(out, "OFXHEADER:100\n"))
	assert.Contains(t, out, "VERSION:102")
	assert.Contains(t, out, "DATA:OFXSGML")
	assert.Contains(t, out, "<CURDEF>ZAR")
	assert.Contains(t, out, "<ACCTTYPE>CHECKING")

	// Account metadata.
	assert.Contains(t, out, "<BANKID>051001")
	assert.Contains(t, out, "<ACCTID>000000000")

	// Transaction range and ledger balance.
	assert.Contains(t, out, "<DTSTART>20240615")
	assert.Contains(t, out, "<DTEND>20240620")
	assert.Contains(t, out, "<BALAMT>0.00")

	// One STMTTRN per record with signed amounts.
	assert.Equal(t, 2, strings.Count(out, "<STMTTRN>"))
	assert.Equal(t, 2, strings.Count(out, "</STMTTRN>"))
	assert.Contains(t, out, "<TRNTYPE>DEBIT\n<DTPOSTED>20240615\n<TRNAMT>-45.00\n<FITID>202406151\n<NAME>GROCERY STORE PURCHASE REF12345")
	assert.Contains(t, out, "<TRNTYPE>CREDIT\n<DTPOSTED>20240620\n<TRNAMT>2500.00\n<FITID>202406202\n<NAME>SALARY PAYMENT")

	// Input order is preserved.
	assert.Less(t, strings.Index(out, "<FITID>202406151"), strings.Index(out, "<FITID>202406202"))
}

func TestOFXWriter_WriteDeterministic(t *testing.T) {
	w := &OFXWriter{BankID: "051001", AccountID: "000000000"}

	var a, b bytes.Buffer
	require.NoError(t, w.Write(&a, sampleStatement()))
	require.NoError(t, w.Write(&b, sampleStatement()))
	assert.Equal(t, a.String(), b.String())
}

func TestOFXWriter_EscapesMarkup(t *testing.T) {
	stmt := sampleStatement()
	stmt.Transactions = stmt.Transactions[:1]
	stmt.Transactions[0].Description = "FISH & CHIPS <CAPE TOWN>"

	var buf bytes.Buffer
	w := &OFXWriter{BankID: "051001", AccountID: "000000000"}
	require.NoError(t, w.Write(&buf, stmt))

	assert.Contains(t, buf.String(), "<NAME>FISH &amp; CHIPS &lt;CAPE TOWN&gt;")
}

func TestOFXWriter_EmptyStatement(t *testing.T) {
	var buf bytes.Buffer
	w := &OFXWriter{BankID: "051001", AccountID: "000000000"}
	err := w.Write(&buf, &models.Statement{Bank: models.BankFNB, Year: 2024})
	assert.Error(t, err)
}

func TestOFXWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.ofx")
	w := &OFXWriter{BankID: "051001", AccountID: "000000000"}
	require.NoError(t, w.WriteToFile(path, sampleStatement()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<TRNUID>1")
}
