package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

// StandardBankParser handles Standard Bank statement text.
//
// Standard Bank statements extract into a fixed tabular layout, read
// from the right-hand end of each line:
//
//	DESCRIPTION... [FEE] AMOUNT MM DD BALANCE
//
// with the rest of the description carried on the next physical line.
// Every transaction therefore spans exactly two lines.
type StandardBankParser struct{}

func (p *StandardBankParser) BankName() string {
	return "Standard Bank"
}

// Parse walks the lines in a single forward pass. A successful record
// consumes its continuation line; anything that doesn't fit the schema
// is skipped without aborting the document.
func (p *StandardBankParser) Parse(lines []string, year int) []models.TransactionRecord {
	var records []models.TransactionRecord
	skipNext := false

	for i := 0; i < len(lines)-1; i++ {
		if skipNext {
			skipNext = false
			continue
		}
		rec, ok := p.tryParseLine(lines[i], lines[i+1], i, year)
		if !ok {
			continue
		}
		records = append(records, rec)
		skipNext = true
	}

	return records
}

// tryParseLine attempts to read one transaction from a line and its
// continuation. Returns false for header lines, short lines, bad dates
// and bad amounts alike.
func (p *StandardBankParser) tryParseLine(line, next string, i, year int) (models.TransactionRecord, bool) {
	parts := strings.Fields(line)
	if len(parts) < 6 {
		return models.TransactionRecord{}, false
	}

	// parts[len-1] is the running balance; informational only.

	month, err := strconv.Atoi(parts[len(parts)-3])
	if err != nil {
		return models.TransactionRecord{}, false
	}
	day, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return models.TransactionRecord{}, false
	}
	date, ok := validDate(year, time.Month(month), day)
	if !ok {
		return models.TransactionRecord{}, false
	}

	amountToken := parts[len(parts)-4]

	// The fee column sits between the description and the amount, but
	// is frequently empty in extracted text. Only treat the token as a
	// fee (and keep it out of the description) when it is amount-shaped.
	descEnd := len(parts) - 4
	if looksLikeAmount(parts[len(parts)-5]) {
		descEnd = len(parts) - 5
	}
	desc := collapseWhitespace(strings.Join(parts[:descEnd], " ") + " " + strings.TrimSpace(next))

	if strings.Contains(strings.ToUpper(desc), "BALANCE BROUGHT FORWARD") {
		return models.TransactionRecord{}, false
	}

	dir := models.Credit
	if strings.Contains(amountToken, "-") {
		dir = models.Debit
	}
	amount, err := NormalizeAmount(amountToken, models.BankStandard, dir)
	if err != nil {
		return models.TransactionRecord{}, false
	}

	return models.TransactionRecord{
		Date:        date,
		Amount:      amount,
		Direction:   dir,
		Description: desc,
		FITID:       date.Format("20060102") + strconv.Itoa(i+1),
	}, true
}
