package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// IsOCRAvailable reports whether both external tools the OCR path needs
// (pdftoppm and tesseract) are installed.
func IsOCRAvailable() bool {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return false
	}
	return true
}

// ExtractTextOCR rasterizes each page with pdftoppm and runs tesseract
// over the images. This is the slowest extraction path and is only
// reached when the document carries no usable embedded text.
func ExtractTextOCR(filePath string) ([]string, error) {
	if !IsOCRAvailable() {
		return nil, fmt.Errorf("ocr tools not installed (need pdftoppm and tesseract)")
	}

	tmpDir, err := os.MkdirTemp("", "stmt-ocr-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// 300 DPI is the sweet spot for tesseract on statement scans.
	prefix := filepath.Join(tmpDir, "page")
	if out, err := exec.Command("pdftoppm", "-r", "300", "-png", filePath, prefix).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v: %s", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}
	sort.Strings(images)

	var pages []string
	for _, img := range images {
		text, err := ocrImage(img)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("ocr recognized no text")
	}
	return pages, nil
}

// ocrImage runs tesseract on a single page image. PSM 4 (single column
// of variable-size text) matches the statement layout far better than
// the default full-page segmentation.
func ocrImage(imagePath string) (string, error) {
	out, err := exec.Command("tesseract", imagePath, "stdout", "--psm", "4").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed on %s: %w", filepath.Base(imagePath), err)
	}
	return string(out), nil
}
