package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the text content of each page of a statement PDF.
// Extraction methods are tried in order of fidelity: the structured PDF
// library, the external pdftotext tool (poppler-utils), and finally OCR
// for scanned or image-only documents. Each result must pass the
// readability gate before it is accepted, so garbage from broken font
// encodings is never handed to the parsers.
func ExtractText(filePath string) ([]string, error) {
	methods := []struct {
		name string
		fn   func(string) ([]string, error)
	}{
		{"pdf-library", extractWithLibrary},
		{"pdftotext", extractWithPdftotext},
		{"ocr", ExtractTextOCR},
	}

	var firstErr error
	for _, m := range methods {
		pages, err := m.fn(filePath)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", m.name, err)
			}
			continue
		}
		if isUsableText(pages) {
			return pages, nil
		}
	}

	if firstErr != nil {
		return nil, fmt.Errorf("no readable text could be extracted: %w", firstErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from %s; the document may be image-based with OCR tooling unavailable", filePath)
}

// statementWords are terms that appear in virtually every bank
// statement this tool handles. Extracted text containing none of them
// is treated as garbage regardless of its character quality.
var statementWords = []string{
	"bank", "account", "balance", "statement", "date", "amount",
	"credit", "debit", "transaction", "payment", "transfer", "cheque",
	"fee", "vat", "withdrawal", "deposit", "period", "page",
}

// isUsableText requires a minimum amount of text, a high ratio of plain
// ASCII characters, and at least one recognizable statement word.
func isUsableText(pages []string) bool {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) ||
				unicode.IsSpace(r) || strings.ContainsRune(`.,-/:;()'"&@#%+=*`, r)) {
				readable++
			}
		}
	}
	if total < 50 || float64(readable)/float64(total) <= 0.6 {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range statementWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// extractWithLibrary reads the PDF with ledongthuc/pdf. The library can
// panic on malformed files, so the whole call is guarded.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	if pages = extractByRow(r, numPages); isUsableText(pages) {
		return pages, nil
	}
	if pages = extractByContent(r, numPages); isUsableText(pages) {
		return pages, nil
	}
	if text := extractWholeDocument(r); isUsableText([]string{text}) {
		return []string{text}, nil
	}
	return pages, nil
}

// extractByRow uses the library's row grouping, which preserves the
// tabular layout statements rely on.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent rebuilds rows from raw text objects by grouping on
// the Y coordinate and ordering on X. Handles PDFs whose row metadata
// is broken.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type item struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]item)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], item{x: t.X, s: t.S})
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		// PDF Y runs bottom-to-top.
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			items := rows[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

			var sb strings.Builder
			var prevX float64
			for j, it := range items {
				if j > 0 && it.x-prevX > 15 {
					// Wide gap between text objects marks a column boundary.
					sb.WriteString("  ")
				}
				sb.WriteString(it.s)
				prevX = it.x
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractWholeDocument is the library's flat whole-document path.
func extractWholeDocument(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler's pdftotext, which copes
// with a number of font encodings the Go library does not.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := pdfPageCount(filePath)
	if numPages < 1 {
		numPages = 1
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		n := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", n, "-l", n, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// pdfPageCount asks pdfinfo for the page count; 0 when unknown.
func pdfPageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); err == nil {
				return n
			}
		}
	}
	return 0
}
