package extractor

import (
	"os/exec"
	"testing"
)

func TestIsOCRAvailable(t *testing.T) {
	_, pdftoppmErr := exec.LookPath("pdftoppm")
	_, tesseractErr := exec.LookPath("tesseract")
	want := pdftoppmErr == nil && tesseractErr == nil

	if got := IsOCRAvailable(); got != want {
		t.Errorf("IsOCRAvailable() = %v, want %v", got, want)
	}
}

func TestExtractTextOCRMissingFile(t *testing.T) {
	if !IsOCRAvailable() {
		t.Skip("ocr tools not installed")
	}
	if _, err := ExtractTextOCR("testdata/does-not-exist.pdf"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
