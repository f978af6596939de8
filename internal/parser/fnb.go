package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

// FNBParser handles FNB statement text, which usually arrives via OCR
// and is far less tabular than Standard Bank's layout. A transaction
// starts at a "DD Mon" header line, its description is spread across an
// unpredictable number of following lines, and the first line matching
// a currency-shaped amount closes the transaction. The amount token is
// the only reliable anchor, so the parser scans forward for it rather
// than trusting fixed offsets.
type FNBParser struct{}

func (p *FNBParser) BankName() string {
	return "FNB"
}

func (p *FNBParser) Parse(lines []string, year int) []models.TransactionRecord {
	var records []models.TransactionRecord

	for i := 0; i < len(lines); i++ {
		parts := strings.Fields(strings.TrimSpace(lines[i]))
		date, ok := p.headerDate(parts, year)
		if !ok {
			continue
		}

		descParts := append([]string(nil), parts[2:]...)

		// Forward-scan for the amount line, accumulating description
		// lines along the way. The amount line itself never joins the
		// description.
		amountToken := ""
		j := i + 1
		for ; j < len(lines); j++ {
			cand := sanitizeOCRAmounts(strings.TrimSpace(lines[j]))
			if m := currencyAmountPattern.FindString(cand); m != "" {
				amountToken = m
				break
			}
			if cand != "" {
				descParts = append(descParts, cand)
			}
		}
		if amountToken == "" {
			// End of input with no amount: no record, nothing left to scan.
			break
		}

		desc := collapseWhitespace(strings.Join(descParts, " "))
		if desc == "" {
			desc = p.lookaheadDescription(lines, i)
		}

		dir := models.Debit
		if strings.Contains(amountToken, creditMarker) {
			dir = models.Credit
		}

		amount, err := NormalizeAmount(amountToken, models.BankFNB, dir)
		if err == nil {
			records = append(records, models.TransactionRecord{
				Date:        date,
				Amount:      amount,
				Direction:   dir,
				Description: desc,
				FITID:       date.Format("20060102") + strconv.Itoa(j+1),
			})
		}

		// Resume immediately after the consumed amount line.
		i = j
	}

	return records
}

// headerDate recognizes a transaction header: an all-digit day token
// followed by a token opening with a month abbreviation.
func (p *FNBParser) headerDate(parts []string, year int) (time.Time, bool) {
	if len(parts) < 2 || !dayTokenPattern.MatchString(parts[0]) || len(parts[1]) < 3 {
		return time.Time{}, false
	}
	month, ok := monthAbbrevs[parts[1][:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	return validDate(year, month, day)
}

// lookaheadDescription checks up to two lines past the header for a
// plausible description: non-empty, not another "DD Mon" header, and
// not itself an amount. Falls back to a literal placeholder.
func (p *FNBParser) lookaheadDescription(lines []string, i int) string {
	for offset := 1; offset <= 2 && i+offset < len(lines); offset++ {
		cand := strings.TrimSpace(lines[i+offset])
		if cand == "" || shortDateHeaderPattern.MatchString(cand) {
			continue
		}
		if currencyAmountPattern.MatchString(cand) {
			continue
		}
		return cand
	}
	return "UNKNOWN"
}
