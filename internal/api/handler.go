package api

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ofxbridge/za-statement-converter/internal/config"
	"github.com/ofxbridge/za-statement-converter/internal/extractor"
	"github.com/ofxbridge/za-statement-converter/internal/models"
	"github.com/ofxbridge/za-statement-converter/internal/parser"
	"github.com/ofxbridge/za-statement-converter/internal/writer"
)

const apiVersion = "1.1.0"

// TransactionJSON is the wire form of a transaction in the convert
// response.
type TransactionJSON struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	FITID       string `json:"fitid"`
}

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool              `json:"success"`
	Error        string            `json:"error,omitempty"`
	Bank         string            `json:"bank,omitempty"`
	Year         int               `json:"year,omitempty"`
	YearMatched  bool              `json:"yearMatched"`
	Transactions []TransactionJSON `json:"transactions"`
	OFX          string            `json:"ofx,omitempty"`
	CSV          string            `json:"csv,omitempty"`
	TotalDebit   string            `json:"totalDebit"`
	TotalCredit  string            `json:"totalCredit"`
	Count        int               `json:"count"`
	RawText      string            `json:"rawText,omitempty"`
	Version      string            `json:"version,omitempty"`
}

// NewApp builds the Fiber application with middleware and routes.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: int(uploadLimit()),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/api/health", HandleHealth)
	app.Post("/api/convert", HandleConvert)
	return app
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": apiVersion,
		"engine":  "fiber",
	})
}

// HandleConvert accepts a statement upload (multipart field "file", PDF
// or DOCX) or pre-extracted text (field "extractedText") and returns
// the parsed transactions together with rendered OFX and CSV. Optional
// fields: "bank" (standard-bank or fnb; auto-detected when absent),
// "year" (statement year override) and "header" (set to "false" to
// drop CSV metadata rows).
func HandleConvert(c *fiber.Ctx) error {
	pages, errStatus, errMsg := uploadedPages(c)
	if errMsg != "" {
		return writeError(c, errStatus, errMsg)
	}

	profile, err := requestedBank(c, pages)
	if err != nil {
		var ue *userError
		if errors.As(err, &ue) {
			return writeError(c, ue.status, ue.msg)
		}
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	yearOverride := 0
	if v := c.FormValue("year"); v != "" {
		yearOverride, err = strconv.Atoi(v)
		if err != nil || yearOverride < 1990 || yearOverride > 2100 {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid year: %q.", v))
		}
	}
	if yearOverride == 0 && config.Cfg != nil {
		yearOverride = config.Cfg.DefaultStatementYear
	}

	lines := parser.SplitPages(pages)
	stmt, err := parser.ParseStatement(lines, profile, yearOverride)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Parsing failed: %v", err))
	}
	if len(stmt.Transactions) == 0 {
		return writeError(c, fiber.StatusUnprocessableEntity, parser.ErrNoTransactions.Error())
	}

	var ofxBuf, csvBuf strings.Builder
	ofxWriter := newOFXWriter()
	if err := ofxWriter.Write(&ofxBuf, stmt); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("OFX generation failed: %v", err))
	}
	csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := csvWriter.Write(&csvBuf, stmt); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	txns := make([]TransactionJSON, 0, len(stmt.Transactions))
	for _, t := range stmt.Transactions {
		txns = append(txns, TransactionJSON{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Type:        string(t.Direction),
			Amount:      t.Amount.StringFixed(2),
			FITID:       t.FITID,
		})
	}

	return c.JSON(ConvertResponse{
		Success:      true,
		Bank:         string(stmt.Bank),
		Year:         stmt.Year,
		YearMatched:  stmt.YearMatched,
		Transactions: txns,
		OFX:          ofxBuf.String(),
		CSV:          csvBuf.String(),
		TotalDebit:   stmt.TotalDebit().StringFixed(2),
		TotalCredit:  stmt.TotalCredit().StringFixed(2),
		Count:        len(txns),
		RawText:      strings.Join(pages, "\n--- PAGE BREAK ---\n"),
		Version:      apiVersion,
	})
}

// uploadedPages resolves the request body to extracted page texts.
// Pre-extracted text wins over the file upload so browser-side
// extraction can skip the server-side tooling entirely.
func uploadedPages(c *fiber.Ctx) (pages []string, status int, errMsg string) {
	if extracted := c.FormValue("extractedText"); extracted != "" {
		for _, page := range strings.Split(extracted, "\n---PAGE_BREAK---\n") {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		if len(pages) == 0 {
			return nil, fiber.StatusBadRequest, "extractedText contains no text."
		}
		return pages, 0, ""
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'."
	}
	if header.Size > uploadLimit() {
		return nil, fiber.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit."
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return nil, fiber.StatusBadRequest, "Only PDF and DOCX files are supported."
	}

	src, err := header.Open()
	if err != nil {
		return nil, fiber.StatusInternalServerError, "Failed to read uploaded file."
	}
	defer src.Close()

	tmpFile, err := os.CreateTemp("", "statement-*"+ext)
	if err != nil {
		return nil, fiber.StatusInternalServerError, "Failed to create temp file."
	}
	defer os.Remove(tmpFile.Name())

	if _, err := io.Copy(tmpFile, src); err != nil {
		tmpFile.Close()
		return nil, fiber.StatusInternalServerError, "Failed to save uploaded file."
	}
	tmpFile.Close()

	if ext == ".docx" {
		pages, err = extractor.ExtractTextDOCX(tmpFile.Name())
	} else {
		pages, err = extractor.ExtractText(tmpFile.Name())
	}
	if err != nil {
		return nil, fiber.StatusUnprocessableEntity, fmt.Sprintf("Text extraction failed: %v", err)
	}
	return pages, 0, ""
}

type userError struct {
	status int
	msg    string
}

func (e *userError) Error() string { return e.msg }

// requestedBank maps the optional "bank" form field to a profile,
// falling back to detection from the extracted text.
func requestedBank(c *fiber.Ctx, pages []string) (models.BankProfile, error) {
	bankParam := c.FormValue("bank")
	if bankParam == "" {
		profile, err := parser.AutoDetect(pages)
		if err != nil {
			return "", &userError{status: fiber.StatusUnprocessableEntity, msg: err.Error()}
		}
		return profile, nil
	}

	switch strings.ToLower(bankParam) {
	case "standard", "standardbank", "standard-bank":
		return models.BankStandard, nil
	case "fnb":
		return models.BankFNB, nil
	default:
		return "", &userError{
			status: fiber.StatusBadRequest,
			msg:    fmt.Sprintf("Unknown bank: %q. Use standard-bank or fnb.", bankParam),
		}
	}
}

func newOFXWriter() *writer.OFXWriter {
	w := &writer.OFXWriter{BankID: "000000", AccountID: "000000000"}
	if config.Cfg != nil {
		w.BankID = config.Cfg.OFXBankID
		w.AccountID = config.Cfg.OFXAccountID
	}
	return w
}

func uploadLimit() int64 {
	if config.Cfg != nil {
		return config.Cfg.MaxUploadSizeBytes
	}
	return 10 * 1024 * 1024
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []TransactionJSON{},
		TotalDebit:   "0.00",
		TotalCredit:  "0.00",
	})
}
