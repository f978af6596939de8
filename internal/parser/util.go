package parser

import (
	"regexp"
	"strings"
	"time"
)

// monthAbbrevs maps the first three letters of a month name to its
// calendar month, matching the abbreviations FNB prints in date columns.
var monthAbbrevs = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

var (
	// A currency-shaped FNB amount: 1-3 digits, optional comma-grouped
	// triples, exactly two fraction digits, optional credit marker.
	currencyAmountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}(?:Cr)?`)

	// A whole token that is an amount in either separator convention,
	// optionally signed ("45.00", "1.234,56", "45.00-", "-1,200.00").
	amountTokenPattern = regexp.MustCompile(`^-?R?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?-?(?:Cr)?$`)

	// A line that itself looks like a "DD Mon" transaction header.
	shortDateHeaderPattern = regexp.MustCompile(`\d{2} \w{3}`)

	// A bare 1-2 digit day-of-month token.
	dayTokenPattern = regexp.MustCompile(`^\d{1,2}$`)
)

// looksLikeAmount reports whether a whole token is amount-shaped.
func looksLikeAmount(token string) bool {
	return amountTokenPattern.MatchString(token)
}

// sanitizeOCRAmounts fixes common Tesseract misreads in amount text.
// Periods inside numbers come back as semicolons or colons, and a stray
// "NA" is sometimes appended after the amount.
func sanitizeOCRAmounts(line string) string {
	line = regexp.MustCompile(`(\d);(\s*)(\d)`).ReplaceAllString(line, "$1.$3")
	line = regexp.MustCompile(`(\d):(\d)`).ReplaceAllString(line, "$1.$2")
	line = regexp.MustCompile(`(\d):\s`).ReplaceAllString(line, "$1 ")
	line = regexp.MustCompile(`(\d):$`).ReplaceAllString(line, "$1")
	line = regexp.MustCompile(`\s+NA\b`).ReplaceAllString(line, "")
	return line
}

// collapseWhitespace trims a description and squeezes internal runs of
// whitespace down to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// validDate builds a date from its parts, rejecting combinations that
// time.Date would silently normalize (e.g. February 30th).
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	dt := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if dt.Month() != month || dt.Day() != day {
		return time.Time{}, false
	}
	return dt, true
}
