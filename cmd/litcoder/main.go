package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"litcoder/internal/common"
	"litcoder/internal/export"
	"litcoder/internal/extract"
	"litcoder/internal/journal"
	"litcoder/internal/llm"
	"litcoder/internal/parse"
	"litcoder/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory of PDF papers to process (required)")
		out         = flag.String("out", "", "output filename (optional, timestamped default)")
		format      = flag.String("format", "csv", "output format: csv or xlsx")
		promptPath  = flag.String("prompt", "", "prompt template file (overrides PROMPT_FILE)")
		journalPath = flag.String("journal", "", "journal database path (overrides JOURNAL_PATH)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *format != "csv" && *format != "xlsx" {
		printError("Error: --format must be csv or xlsx\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *promptPath != "" {
		cfg.Paths.PromptFile = *promptPath
	}
	if *journalPath != "" {
		cfg.Paths.JournalPath = *journalPath
	}
	if cfg.Paths.JournalPath == "" {
		cfg.Paths.JournalPath = filepath.Join(cfg.Paths.OutputFolder, "litcoder.db")
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	template, err := llm.LoadTemplate(cfg.Paths.PromptFile)
	if err != nil {
		logger.Error("failed to load prompt template", "error", err)
		os.Exit(1)
	}
	logger.Info("prompt template loaded", "path", cfg.Paths.PromptFile, "chars", len(template))

	if err := os.MkdirAll(cfg.Paths.OutputFolder, 0o755); err != nil {
		logger.Error("failed to create output folder", "error", err)
		os.Exit(1)
	}
	jnl, err := journal.Open(cfg.Paths.JournalPath, logger)
	if err != nil {
		logger.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := jnl.Close(); err != nil {
			logger.Warn("journal close error", "error", err)
		}
	}()

	client := llm.NewClient(cfg.LLM, logger)
	logger.Info("OpenAI client initialized", "model", cfg.LLM.Model)

	processor := pipeline.NewProcessor(
		logger,
		extract.NewPDFExtractor(logger),
		client,
		parse.NewParser(logger),
		template,
		cfg.Processing.MaxContextTokens,
		cfg.Processing.MaxTextLength,
	)
	processor.Journal = jnl
	processor.RunID = uuid.New().String()

	paths, err := pipeline.ListPDFs(*dir)
	if err != nil {
		logger.Error("failed to list input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Warn("no PDF files found", "dir", *dir)
		fmt.Println("No PDF files found; nothing to do.")
		return
	}
	logger.Info("starting batch", "run_id", processor.RunID, "files", len(paths), "dir", *dir)

	records := processor.Run(ctx, paths)

	failures := 0
	for _, rec := range records {
		if rec.FailedFieldCount() > 0 {
			failures++
		}
	}

	exporter := export.NewService(cfg.Paths.OutputFolder, logger)
	var outPath string
	switch *format {
	case "xlsx":
		outPath, err = exporter.ExportXLSX(records, *out)
	default:
		outPath, err = exporter.ExportCSV(records, *out)
	}
	if err != nil {
		logger.Error("failed to export results", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"run_id", processor.RunID,
		"files_processed", len(records),
		"failures", failures,
		"output_file", outPath,
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Papers processed: %d\n", len(records))
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", outPath)
}
