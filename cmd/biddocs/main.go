package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/openlettings/biddocs/internal/classify"
	"github.com/openlettings/biddocs/internal/common"
	"github.com/openlettings/biddocs/internal/export"
	"github.com/openlettings/biddocs/internal/extract"
	"github.com/openlettings/biddocs/internal/llm"
	"github.com/openlettings/biddocs/internal/loader"
	"github.com/openlettings/biddocs/internal/mapping"
	"github.com/openlettings/biddocs/internal/ocr"
	"github.com/openlettings/biddocs/internal/pdftext"
	"github.com/openlettings/biddocs/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory of bid documents to process (required)")
		incremental = flag.Bool("incremental", false, "skip files unchanged since the last successful run")
		stateFile   = flag.String("state", "", "incremental state file path (default <dir>/.biddocs_state.json)")
		results     = flag.String("results", "", "JSONL results file path (default <dir parent>/results.jsonl)")
		sqlitePath  = flag.String("sqlite", "", "local SQLite results archive path (optional)")
		out         = flag.String("out", "", "output XLSX file path (optional)")
		workers     = flag.Int("workers", 0, "concurrent workers (default from PIPELINE_WORKERS)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *workers > 0 {
		cfg.Pipeline.Workers = *workers
	}
	if *incremental {
		cfg.Pipeline.Incremental = true
	}
	if *stateFile != "" {
		cfg.Pipeline.StateFile = *stateFile
	}
	if cfg.Pipeline.StateFile == "" {
		cfg.Pipeline.StateFile = filepath.Join(*dir, ".biddocs_state.json")
	}
	if *results == "" {
		*results = filepath.Join(filepath.Dir(*dir), "results.jsonl")
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	text := pdftext.NewExtractor(pdftext.Config{}, logger)
	classifier := classify.NewClassifier(text, logger)
	resolver := mapping.NewResolver(*dir, cfg.Pipeline.MappingPath, logger)
	engine := extract.NewEngine(text, logger)

	// LLM fallback is optional; without a key the pattern extractors
	// stand alone.
	var extractor pipeline.Extractor = engine
	if cfg.LLM.APIKey != "" {
		client := llm.NewClient(llm.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, text, resolver, logger)
		extractor = extract.NewHybrid(engine, client, cfg.Pipeline.ConfidenceThreshold, logger)
		logger.Info("llm fallback enabled", "model", cfg.LLM.Model)
	} else {
		logger.Warn("LLM API key not configured, low-confidence fallback disabled")
	}

	ocrProc := ocr.NewProcessor(ocr.Config{
		Enabled:        cfg.OCR.Enabled,
		Binary:         cfg.OCR.Binary,
		Timeout:        cfg.OCR.Timeout,
		MaxConcurrency: cfg.OCR.MaxConcurrency,
	}, logger)

	p := pipeline.New(pipeline.Config{
		Incremental: cfg.Pipeline.Incremental,
		StateFile:   cfg.Pipeline.StateFile,
		Workers:     cfg.Pipeline.Workers,
	}, classifier, extractor, ocrProc, resolver, logger)

	summary, outcomes, err := p.Run(ctx, *dir)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	if err := loader.WriteJSONL(*results, outcomes); err != nil {
		logger.Error("failed to write results file", "error", err)
		os.Exit(1)
	}

	if *sqlitePath != "" {
		store, err := loader.OpenSQLite(ctx, *sqlitePath, logger)
		if err != nil {
			logger.Error("failed to open sqlite archive", "error", err)
			os.Exit(1)
		}
		if err := store.Load(ctx, outcomes); err != nil {
			logger.Error("failed to archive outcomes", "error", err)
			os.Exit(1)
		}
		if err := store.Close(); err != nil {
			logger.Warn("failed to close sqlite archive", "error", err)
		}
	}

	if cfg.Database.DSN != "" {
		pg, err := loader.OpenPostgres(ctx, loader.PostgresConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to results database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		if err := pg.Load(ctx, outcomes); err != nil {
			logger.Error("failed to load outcomes", "error", err)
			os.Exit(1)
		}
	}

	if *out != "" {
		xlsxBytes, err := export.NewService(logger).ExportOutcomesXLSX(outcomes)
		if err != nil {
			logger.Error("failed to export workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write output file", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Processing complete!\n")
	fmt.Printf("- Files: %d\n", summary.TotalFiles)
	fmt.Printf("- Successful: %d\n", summary.Successful)
	fmt.Printf("- Partial: %d\n", summary.Partial)
	fmt.Printf("- Failed: %d\n", summary.Failed)
	fmt.Printf("- Skipped: %d\n", summary.Skipped)
	fmt.Printf("- Success rate: %s\n", summary.SuccessRate)
	fmt.Printf("- Results: %s\n", *results)
	if *out != "" {
		fmt.Printf("- Workbook: %s\n", *out)
	}
}
