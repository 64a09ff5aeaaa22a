package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DanielZo0/CMS-Sales/constants"
	"github.com/DanielZo0/CMS-Sales/internal/batch"
	"github.com/DanielZo0/CMS-Sales/internal/common"
	"github.com/DanielZo0/CMS-Sales/internal/export"
	"github.com/DanielZo0/CMS-Sales/internal/extract"
	"github.com/DanielZo0/CMS-Sales/internal/normalize"
	"github.com/DanielZo0/CMS-Sales/internal/pipeline"
	"github.com/DanielZo0/CMS-Sales/internal/repository"
	"github.com/DanielZo0/CMS-Sales/internal/resolve"
	"github.com/DanielZo0/CMS-Sales/internal/template"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	// Parse CLI flags; flags override environment configuration.
	var (
		input     = flag.String("input", cfg.InputDir, "directory to scan for sales and purchase files")
		output    = flag.String("output", cfg.OutputDir, "directory for extracted output")
		format    = flag.String("format", cfg.OutputFormat, "output format: excel, csv or json")
		templates = flag.String("templates", cfg.TemplateDir, "directory holding JSON field templates")
		verbose   = flag.Bool("verbose", false, "enable debug logging")
		noLedger  = flag.Bool("no-ledger", false, "disable the SQLite run ledger")
	)
	flag.Parse()

	cfg.InputDir = *input
	cfg.OutputDir = *output
	cfg.OutputFormat = *format
	cfg.TemplateDir = *templates
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if *noLedger {
		cfg.LedgerPath = ""
	} else if cfg.LedgerPath == "" {
		cfg.LedgerPath = filepath.Join(cfg.OutputDir, "cms_sales.db")
	}

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		printError("Error: cannot create output directory %s: %v\n", cfg.OutputDir, err)
		os.Exit(1)
	}

	// Setup logger: console plus a persistent log file in the output
	// directory.
	logOut := io.Writer(os.Stderr)
	logFile, err := os.OpenFile(filepath.Join(cfg.OutputDir, "cms_sales.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		printError("Warning: cannot open log file: %v\n", err)
	} else {
		defer func() { _ = logFile.Close() }()
		logOut = io.MultiWriter(os.Stderr, logFile)
	}
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	templateSet := template.Load(cfg.TemplateDir, logger)

	// Wire the run ledger (best-effort; the batch runs without it).
	var ledger *repository.RunLedger
	if cfg.LedgerPath != "" {
		db, err := repository.Open(cfg.LedgerPath, logger)
		if err != nil {
			logger.Warn("ledger unavailable, continuing without it", "path", cfg.LedgerPath, "error", err)
		} else {
			ledger = repository.NewRunLedger(db, logger)
			defer func() { _ = ledger.Close() }()
		}
	}

	extractors := map[constants.FileFormat]extract.Extractor{
		constants.FormatPDF:   extract.NewPDFExtractor(logger),
		constants.FormatExcel: extract.NewExcelExtractor(logger),
	}

	orch := &batch.Orchestrator{
		Logger:       logger,
		Processor:    pipeline.NewProcessor(logger, extractors, resolve.NewResolver(logger), normalize.NewNormalizer(templateSet, logger)),
		Exporter:     export.NewService(cfg.OutputDir, templateSet, logger),
		Ledger:       ledger,
		OutputFormat: cfg.OutputFormat,
		SkipHidden:   cfg.SkipHidden,
	}

	logger.Info("starting batch", "input", cfg.InputDir, "output", cfg.OutputDir, "format", cfg.OutputFormat)
	result, err := orch.Run(ctx, cfg.InputDir)
	if err != nil {
		logger.Error("failed to read input directory", "dir", cfg.InputDir, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Batch complete!\n")
	fmt.Printf("- Sales records: %d\n", len(result.Sales))
	fmt.Printf("- Purchase records: %d\n", len(result.Purchases))
	fmt.Printf("- Failures: %d\n", len(result.Failures))
	fmt.Printf("- Skipped: %d\n", result.Skipped)
	fmt.Printf("- Output: %s\n", cfg.OutputDir)
}
