package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ofxbridge/za-statement-converter/internal/api"
	"github.com/ofxbridge/za-statement-converter/internal/config"
	"github.com/ofxbridge/za-statement-converter/internal/extractor"
	"github.com/ofxbridge/za-statement-converter/internal/logger"
	"github.com/ofxbridge/za-statement-converter/internal/models"
	"github.com/ofxbridge/za-statement-converter/internal/parser"
	"github.com/ofxbridge/za-statement-converter/internal/writer"
)

const version = "1.1.0"

func main() {
	// CLI flags
	bankFlag := flag.String("bank", "", "Bank: standard-bank, fnb (auto-detected if omitted)")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with the format's extension)")
	formatFlag := flag.String("format", "ofx", "Output format: ofx or csv")
	yearFlag := flag.Int("year", 0, "Statement year override (used when the statement omits the year)")
	headerFlag := flag.Bool("header", true, "Include metadata header rows in CSV output")
	serveFlag := flag.Bool("serve", false, "Run the HTTP conversion API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `South African Bank Statement to OFX Converter

Converts bank statements from Standard Bank and FNB (PDF or DOCX)
into OFX 1.02 files for import into accounting software.

Usage:
  za-statement-converter [flags] <input.pdf|input.docx> [input2.pdf ...]
  za-statement-converter -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect bank and convert to OFX
  za-statement-converter statement.pdf

  # Specify bank explicitly
  za-statement-converter --bank=fnb statement.pdf

  # CSV output with a custom path
  za-statement-converter --format=csv --output=transactions.csv statement.pdf

  # Force the statement year when the document omits it
  za-statement-converter --year=2023 statement.pdf

  # Convert multiple files
  za-statement-converter --bank=standard-bank jan.pdf feb.pdf mar.pdf

Supported Banks:
  standard-bank  - Standard Bank of South Africa
  fnb            - First National Bank
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("za-statement-converter v%s\n", version)
		os.Exit(0)
	}

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	if *serveFlag {
		serve()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	// Validate bank flag if provided
	var profile models.BankProfile
	if *bankFlag != "" {
		switch strings.ToLower(*bankFlag) {
		case "standard", "standardbank", "standard-bank":
			profile = models.BankStandard
		case "fnb":
			profile = models.BankFNB
		default:
			fatalf("Unknown bank %q. Supported: standard-bank, fnb\n", *bankFlag)
		}
	}

	if *formatFlag != "ofx" && *formatFlag != "csv" {
		fatalf("Unknown format %q. Supported: ofx, csv\n", *formatFlag)
	}

	year := *yearFlag
	if year == 0 {
		year = config.Cfg.DefaultStatementYear
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, profile, *outputFlag, *formatFlag, year, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func serve() {
	app := api.NewApp()
	addr := ":" + config.Cfg.Port
	logger.L.Info("starting conversion API", "addr", addr, "version", version)
	if err := app.Listen(addr); err != nil {
		logger.L.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func processFile(inputPath string, profile models.BankProfile, outputPath, format string, year int, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	var pages []string
	var err error
	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".pdf":
		pages, err = extractor.ExtractText(inputPath)
	case ".docx":
		pages, err = extractor.ExtractTextDOCX(inputPath)
	default:
		return fmt.Errorf("expected a .pdf or .docx file, got %q", ext)
	}
	if err != nil {
		return fmt.Errorf("text extraction failed: %w", err)
	}

	fmt.Printf("  Extracted text from %d page(s)\n", len(pages))

	// Auto-detect bank if not specified
	effective := profile
	if effective == "" {
		detected, err := parser.AutoDetect(pages)
		if err != nil {
			return err
		}
		effective = detected
		fmt.Printf("  Auto-detected bank: %s\n", effective.DisplayName())
	}

	lines := parser.SplitPages(pages)
	stmt, err := parser.ParseStatement(lines, effective, year)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if stmt.YearMatched {
		fmt.Printf("  Statement year: %d\n", stmt.Year)
	} else {
		fmt.Printf("  Statement year: %d (assumed; pass --year to override)\n", stmt.Year)
	}
	fmt.Printf("  Found %d transaction(s)\n", len(stmt.Transactions))

	if len(stmt.Transactions) == 0 {
		fmt.Println("  Warning: No transactions found. The document layout may not match expected patterns.")
		fmt.Println("  Try specifying the bank explicitly with --bank flag if auto-detection was used.")
		return nil
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + "." + format
	}

	switch format {
	case "csv":
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if err := w.WriteToFile(outPath, stmt); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	default:
		w := &writer.OFXWriter{
			BankID:    config.Cfg.OFXBankID,
			AccountID: config.Cfg.OFXAccountID,
		}
		if err := w.WriteToFile(outPath, stmt); err != nil {
			return fmt.Errorf("OFX write failed: %w", err)
		}
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Printf("  Total debits: %s  Total credits: %s\n",
		stmt.TotalDebit().StringFixed(2), stmt.TotalCredit().StringFixed(2))
	fmt.Println("  Done.")
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
