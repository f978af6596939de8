package writer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

// OFXWriter renders statements as OFX 1.02 SGML documents. BankID and
// AccountID are static account metadata carried into BANKACCTFROM; the
// statement itself never contains them.
type OFXWriter struct {
	BankID    string
	AccountID string
}

// ofxDocument is the template context. Dates are OFX YYYYMMDD strings.
type ofxDocument struct {
	BankID       string
	AccountID    string
	DTStart      string
	DTEnd        string
	Transactions []models.TransactionRecord
}

var ofxTemplate = template.Must(template.New("ofx").Funcs(template.FuncMap{
	"amt":  func(d decimal.Decimal) string { return d.StringFixed(2) },
	"sgml": escapeSGML,
}).Parse(`OFXHEADER:100
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
<DTSERVER>{{.DTEnd}}
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
<CURDEF>ZAR
<BANKACCTFROM>
<BANKID>{{.BankID}}
<ACCTID>{{.AccountID}}
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>{{.DTStart}}
<DTEND>{{.DTEnd}}
{{range .Transactions}}<STMTTRN>
<TRNTYPE>{{.Direction}}
<DTPOSTED>{{.DatePosted}}
<TRNAMT>{{amt .Amount}}
<FITID>{{.FITID}}
<NAME>{{sgml .Description}}
</STMTTRN>
{{end}}</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>0.00
<DTASOF>{{.DTEnd}}
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`))

// Write renders the statement to w. Transactions appear in input order;
// the ledger balance is always reported as zero since no running
// balance is tracked.
func (o *OFXWriter) Write(w io.Writer, stmt *models.Statement) error {
	if len(stmt.Transactions) == 0 {
		return fmt.Errorf("statement has no transactions to write")
	}

	doc := ofxDocument{
		BankID:       o.BankID,
		AccountID:    o.AccountID,
		Transactions: stmt.Transactions,
	}
	doc.DTStart, doc.DTEnd = dateRange(stmt.Transactions)

	if err := ofxTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("render ofx: %w", err)
	}
	return nil
}

// WriteToFile renders the statement to the named file.
func (o *OFXWriter) WriteToFile(path string, stmt *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ofx file: %w", err)
	}
	defer f.Close()
	return o.Write(f, stmt)
}

// dateRange returns the earliest and latest posting dates. Output stays
// deterministic across runs because it never consults the clock.
func dateRange(txns []models.TransactionRecord) (start, end string) {
	first, last := txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	return first.Format("20060102"), last.Format("20060102")
}

// escapeSGML protects the markup characters OFX 1.02 reserves inside
// element content. Descriptions from OCR can contain any of them.
func escapeSGML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
