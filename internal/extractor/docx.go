package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ExtractTextDOCX reads the paragraphs of a .docx file. A DOCX is a zip
// archive whose body lives in word/document.xml; every w:p element
// becomes one output line. The whole document is returned as a single
// page since DOCX statements carry no page boundaries in the markup.
func ExtractTextDOCX(filePath string) ([]string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()

		text, err := readParagraphs(rc)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("docx contains no text")
		}
		return []string{text}, nil
	}

	return nil, fmt.Errorf("not a valid docx: word/document.xml missing")
}

// readParagraphs streams the WordprocessingML tokens, collecting the
// character data of w:t runs and emitting a newline at each paragraph
// end. Tabs (w:tab) become spaces so column layouts stay tokenizable.
func readParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
