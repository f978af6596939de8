package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

// ErrNoTransactions is the whole-document failure condition: the text
// was readable but no line matched the bank's layout. Individual bad
// lines are never surfaced; this is.
var ErrNoTransactions = errors.New("no transactions found in document")

// Parser turns extracted statement text into transaction records.
// Implementations are best-effort and deterministic: malformed lines
// are dropped silently and re-running on the same input yields the
// same records in the same order.
type Parser interface {
	Parse(lines []string, year int) []models.TransactionRecord
	BankName() string
}

// New returns the parser for the given bank profile.
func New(profile models.BankProfile) (Parser, error) {
	switch profile {
	case models.BankStandard:
		return &StandardBankParser{}, nil
	case models.BankFNB:
		return &FNBParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported bank profile: %q", profile)
	}
}

// AutoDetect identifies the bank from statement text content.
func AutoDetect(pages []string) (models.BankProfile, error) {
	combined := strings.ToLower(strings.Join(pages, "\n"))

	if containsAny(combined, []string{"standard bank", "standardbank.co.za", "the standard bank of south africa"}) {
		return models.BankStandard, nil
	}
	if containsAny(combined, []string{"fnb", "first national bank", "fnb.co.za"}) {
		return models.BankFNB, nil
	}

	return "", errors.New("could not auto-detect bank from statement content; specify the bank explicitly")
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// ParseStatement resolves the statement year and runs the profile's
// parser over the document's lines. yearOverride > 0 forces the year.
// The zero-transaction condition is left to the caller to surface.
func ParseStatement(lines []string, profile models.BankProfile, yearOverride int) (*models.Statement, error) {
	p, err := New(profile)
	if err != nil {
		return nil, err
	}

	year, matched := ResolveYear(lines, yearOverride)

	return &models.Statement{
		Bank:         profile,
		Year:         year,
		YearMatched:  matched,
		Transactions: p.Parse(lines, year),
	}, nil
}

// SplitPages flattens extracted pages into the flat line sequence the
// parsers consume.
func SplitPages(pages []string) []string {
	var lines []string
	for _, page := range pages {
		lines = append(lines, strings.Split(page, "\n")...)
	}
	return lines
}
