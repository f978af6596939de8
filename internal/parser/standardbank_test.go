package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

func TestStandardBankParser_TwoLineRecord(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"GROCERY STORE PURCHASE 45.00- 06 15 1200.00",
		"REF12345",
		"", // trailing line so the record line has a successor
	}

	records := p.Parse(lines, 2024)
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}

	txn := records[0]
	if txn.DatePosted() != "20240615" {
		t.Errorf("date: got %q, want %q", txn.DatePosted(), "20240615")
	}
	if txn.Amount.StringFixed(2) != "-45.00" {
		t.Errorf("amount: got %s, want -45.00", txn.Amount.StringFixed(2))
	}
	if txn.Direction != models.Debit {
		t.Errorf("direction: got %q, want DEBIT", txn.Direction)
	}
	if want := "GROCERY STORE PURCHASE REF12345"; txn.Description != want {
		t.Errorf("description: got %q, want %q", txn.Description, want)
	}
	if txn.FITID != "202406151" {
		t.Errorf("fitid: got %q, want %q", txn.FITID, "202406151")
	}
}

func TestStandardBankParser_CreditWithoutMinus(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"SALARY DEPOSIT EMPLOYER 12,500.00 06 25 13700.00",
		"ACME LTD",
		"",
	}

	records := p.Parse(lines, 2024)
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if records[0].Direction != models.Credit {
		t.Errorf("direction: got %q, want CREDIT", records[0].Direction)
	}
	if records[0].Amount.StringFixed(2) != "12500.00" {
		t.Errorf("amount: got %s, want 12500.00", records[0].Amount.StringFixed(2))
	}
}

func TestStandardBankParser_FeeColumnExcluded(t *testing.T) {
	p := &StandardBankParser{}

	// 4.50 between the description and the amount is the fee column.
	lines := []string{
		"ATM WITHDRAWAL MAIN RD 4.50 500.00- 07 01 700.00",
		"CAPE TOWN",
		"",
	}

	records := p.Parse(lines, 2024)
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if want := "ATM WITHDRAWAL MAIN RD CAPE TOWN"; records[0].Description != want {
		t.Errorf("description: got %q, want %q", records[0].Description, want)
	}
	if records[0].Amount.StringFixed(2) != "-500.00" {
		t.Errorf("amount: got %s, want -500.00", records[0].Amount.StringFixed(2))
	}
}

func TestStandardBankParser_SkipsBalanceBroughtForward(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"BALANCE BROUGHT FORWARD 0.00 06 01 1000.00",
		"",
		"CARD PURCHASE SHOP 45.00- 06 02 955.00",
		"REF99",
		"",
	}

	records := p.Parse(lines, 2024)
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	for _, txn := range records {
		if strings.Contains(strings.ToUpper(txn.Description), "BALANCE BROUGHT FORWARD") {
			t.Errorf("balance-forward line leaked into output: %q", txn.Description)
		}
	}
}

func TestStandardBankParser_ShortLinesSkipped(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"Standard Bank",
		"Current Account",
		"Date Description Amount Balance",
		"only four tokens here",
		"",
	}

	// Must not panic and must not emit anything.
	records := p.Parse(lines, 2024)
	if len(records) != 0 {
		t.Errorf("records: got %d, want 0", len(records))
	}
}

func TestStandardBankParser_BadDateSkipped(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"SOME PAYMENT REF 45.00- 13 45 1200.00", // month 13, day 45
		"continuation",
		"SOME PAYMENT REF 45.00- 02 30 1200.00", // Feb 30
		"continuation",
		"",
	}

	records := p.Parse(lines, 2024)
	if len(records) != 0 {
		t.Errorf("records: got %d, want 0", len(records))
	}
}

func TestStandardBankParser_Deterministic(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"GROCERY STORE PURCHASE 45.00- 06 15 1200.00",
		"REF12345",
		"SALARY DEPOSIT 12,500.00 06 25 13700.00",
		"ACME LTD",
		"",
	}

	first := p.Parse(lines, 2024)
	for run := 0; run < 3; run++ {
		again := p.Parse(lines, 2024)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: output differs from first run", run)
		}
	}
}

func TestStandardBankParser_SignMatchesDirection(t *testing.T) {
	p := &StandardBankParser{}

	lines := []string{
		"CARD PURCHASE A 45.00- 06 02 955.00",
		"REF1",
		"DEPOSIT B 100.00 06 03 1055.00",
		"REF2",
		"EFT PAYMENT C 12.34- 06 04 1042.66",
		"REF3",
		"",
	}

	records := p.Parse(lines, 2024)
	if len(records) != 3 {
		t.Fatalf("records: got %d, want 3", len(records))
	}
	seen := make(map[string]bool)
	for i, txn := range records {
		if txn.Amount.IsNegative() != (txn.Direction == models.Debit) {
			t.Errorf("txn[%d]: amount %s does not match direction %s", i, txn.Amount, txn.Direction)
		}
		if seen[txn.FITID] {
			t.Errorf("txn[%d]: duplicate fitid %q", i, txn.FITID)
		}
		seen[txn.FITID] = true
	}
}
