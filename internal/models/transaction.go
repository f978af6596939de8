package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a transaction as money out or money in.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"

	// DirectionUnknown asks the amount normalizer to infer the sign
	// from the token itself.
	DirectionUnknown Direction = ""
)

// BankProfile selects the statement layout and amount formatting rules.
type BankProfile string

const (
	BankStandard BankProfile = "standard-bank"
	BankFNB      BankProfile = "fnb"
)

// DisplayName returns the human-readable bank name.
func (b BankProfile) DisplayName() string {
	switch b {
	case BankStandard:
		return "Standard Bank"
	case BankFNB:
		return "FNB"
	default:
		return string(b)
	}
}

// AmountFormat is the separator convention a bank uses when printing
// amounts. It is fixed per statement profile, never sniffed from the
// token itself.
type AmountFormat int

const (
	// CommaThousands: "1,234.56".
	CommaThousands AmountFormat = iota
	// PeriodThousands: "1.234,56" (SA locale comma decimal).
	PeriodThousands
)

// AmountFormat returns the separator convention for the profile. Both
// currently supported banks print point-decimal amounts; PeriodThousands
// exists for statement variants rendered with the locale comma decimal.
func (b BankProfile) AmountFormat() AmountFormat {
	return CommaThousands
}

// TransactionRecord is a single reconstructed statement transaction.
// Records are immutable after parsing except for an optional year
// correction applied before serialization.
type TransactionRecord struct {
	Date        time.Time       `json:"-"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   Direction       `json:"direction"`
	Description string          `json:"description"`
	FITID       string          `json:"fitid"`
}

// DatePosted returns the posting date in OFX form (YYYYMMDD).
func (r TransactionRecord) DatePosted() string {
	return r.Date.Format("20060102")
}

// SetYear reassigns the statement year while keeping month and day.
func (r *TransactionRecord) SetYear(year int) {
	r.Date = time.Date(year, r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// Statement holds everything recovered from one source document.
type Statement struct {
	Bank         BankProfile
	Year         int
	YearMatched  bool
	Transactions []TransactionRecord
}

// TotalDebit sums the magnitudes of all debit records.
func (s *Statement) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range s.Transactions {
		if txn.Direction == Debit {
			total = total.Add(txn.Amount.Abs())
		}
	}
	return total
}

// TotalCredit sums all credit records.
func (s *Statement) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range s.Transactions {
		if txn.Direction == Credit {
			total = total.Add(txn.Amount)
		}
	}
	return total
}
