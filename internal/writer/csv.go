package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ofxbridge/za-statement-converter/internal/models"
)

// CSVWriter writes transactions to CSV format, a secondary output for
// spreadsheet review alongside the OFX export.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, stmt *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, stmt)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, stmt *models.Statement) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Write metadata as comments (CSV header rows)
	if w.IncludeHeader {
		writer.Write([]string{"# Bank", stmt.Bank.DisplayName()})
		writer.Write([]string{"# Statement Year", fmt.Sprintf("%d", stmt.Year)})
	}

	// Write column headers
	header := []string{"Date", "Description", "Type", "Amount"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write transaction rows
	for _, txn := range stmt.Transactions {
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			string(txn.Direction),
			txn.Amount.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}
