package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

// ErrAmountParse indicates an amount token that still isn't a valid
// decimal after the profile's separators have been stripped.
var ErrAmountParse = errors.New("amount token is not a valid decimal")

// creditMarker is the suffix FNB prints on credit amounts. Case-sensitive.
const creditMarker = "Cr"

// NormalizeAmount converts a bank-formatted amount token into a signed
// decimal value.
//
// The thousands/decimal separator convention comes from the profile
// and is never sniffed from the token. If dir is known it decides the
// sign; otherwise the sign is inferred from a literal '-' in the token,
// or from the credit marker. A token carrying both '-' and the credit
// marker is ambiguous and rejected.
func NormalizeAmount(token string, profile models.BankProfile, dir models.Direction) (decimal.Decimal, error) {
	return normalizeFormatted(token, profile.AmountFormat(), dir)
}

// normalizeFormatted is NormalizeAmount with the separator convention
// already resolved from the profile.
func normalizeFormatted(token string, format models.AmountFormat, dir models.Direction) (decimal.Decimal, error) {
	s := strings.TrimSpace(token)

	hasCreditMarker := strings.HasSuffix(s, creditMarker)
	if hasCreditMarker {
		s = strings.TrimSuffix(s, creditMarker)
	}

	negative := strings.Contains(s, "-")
	if negative && hasCreditMarker {
		return decimal.Zero, fmt.Errorf("%w: %q carries both a minus sign and a credit marker", ErrAmountParse, token)
	}
	s = strings.ReplaceAll(s, "-", "")

	// Currency symbol and whitespace variants seen in extracted text.
	s = strings.TrimPrefix(s, "R")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")

	if format == models.PeriodThousands {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	value, err := decimal.NewFromString(s)
	if err != nil || value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountParse, token)
	}

	if dir == models.DirectionUnknown {
		switch {
		case hasCreditMarker:
			dir = models.Credit
		case negative:
			dir = models.Debit
		default:
			dir = models.Credit
		}
	}

	if dir == models.Debit {
		value = value.Neg()
	}
	return value, nil
}
