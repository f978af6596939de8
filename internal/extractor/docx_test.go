package extractor

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "statement.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestExtractTextDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Statement Date : 15 June 2023</w:t></w:r></w:p>
    <w:p><w:r><w:t>GROCERY STORE</w:t></w:r><w:r><w:tab/><w:t>45.00-</w:t></w:r><w:r><w:t xml:space="preserve"> 06 15 1200.00</w:t></w:r></w:p>
    <w:p/>
  </w:body>
</w:document>`

	pages, err := ExtractTextDOCX(writeDocx(t, doc))
	if err != nil {
		t.Fatalf("ExtractTextDOCX() error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}

	lines := strings.Split(strings.TrimSpace(pages[0]), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	if lines[0] != "Statement Date : 15 June 2023" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "GROCERY STORE 45.00- 06 15 1200.00" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestExtractTextDOCXMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	zw := zip.NewWriter(f)
	if _, err := zw.Create("word/other.xml"); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	zw.Close()
	f.Close()

	if _, err := ExtractTextDOCX(path); err == nil {
		t.Error("expected an error when word/document.xml is missing")
	}
}

func TestExtractTextDOCXNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.docx")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := ExtractTextDOCX(path); err == nil {
		t.Error("expected an error for a non-zip file")
	}
}
