package parser

import (
	"regexp"
	"strconv"
)

// DefaultStatementYear is used when no statement-date header can be
// found and no override was supplied. Callers can detect the fallback
// through the matched flag returned by ResolveYear.
const DefaultStatementYear = 2024

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

var (
	// "Statement Date : 5 March 2023" — the canonical header line.
	statementDatePattern = regexp.MustCompile(`(?i)statement\s+date\s*:\s*\d{1,2}\s+(?:` + monthNames + `)\s+(\d{4})`)
	// Bare "05 March 2023" anywhere in the text.
	fullDatePattern = regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:` + monthNames + `)\s+(\d{4})\b`)
)

// ResolveYear determines the calendar year to attach to the day/month
// transaction dates in a statement. An override > 0 wins unconditionally
// so an operator can correct a misdetected year across a whole batch.
func ResolveYear(lines []string, override int) (year int, matched bool) {
	if override > 0 {
		return override, true
	}

	for _, line := range lines {
		if m := statementDatePattern.FindStringSubmatch(line); m != nil {
			y, err := strconv.Atoi(m[1])
			if err == nil {
				return y, true
			}
		}
	}

	for _, line := range lines {
		if m := fullDatePattern.FindStringSubmatch(line); m != nil {
			y, err := strconv.Atoi(m[1])
			if err == nil {
				return y, true
			}
		}
	}

	return DefaultStatementYear, false
}
