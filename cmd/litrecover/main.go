// litrecover re-processes documents whose journal rows show a failed or
// degraded result, then re-exports the full result set. Documents are
// identified by the source path stored at processing time; titles are never
// matched back to filenames.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"litcoder/internal/common"
	"litcoder/internal/export"
	"litcoder/internal/extract"
	"litcoder/internal/journal"
	"litcoder/internal/llm"
	"litcoder/internal/parse"
	"litcoder/internal/pipeline"
	"litcoder/internal/schema"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		journalPath = flag.String("journal", "", "journal database path (required)")
		out         = flag.String("out", "", "output filename (optional, timestamped default)")
		format      = flag.String("format", "csv", "output format: csv or xlsx")
		promptPath  = flag.String("prompt", "", "prompt template file (overrides PROMPT_FILE)")
	)
	flag.Parse()

	if *journalPath == "" {
		printError("Error: --journal is required\n")
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
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	template, err := llm.LoadTemplate(cfg.Paths.PromptFile)
	if err != nil {
		logger.Error("failed to load prompt template", "error", err)
		os.Exit(1)
	}

	jnl, err := journal.Open(*journalPath, logger)
	if err != nil {
		logger.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := jnl.Close(); err != nil {
			logger.Warn("journal close error", "error", err)
		}
	}()

	// Corrupt rows (hand-edited files, partial writes) count as failed too.
	recordSchema := schema.BuildRecordSchema()
	entries, err := jnl.All(ctx)
	if err != nil {
		logger.Error("failed to read journal", "error", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("Journal is empty; nothing to recover.")
		return
	}

	failed, err := jnl.FailedDocs(ctx)
	if err != nil {
		logger.Error("failed to identify failed documents", "error", err)
		os.Exit(1)
	}
	failedPaths := make(map[string]bool, len(failed))
	for _, e := range failed {
		failedPaths[e.Path] = true
	}
	for _, e := range entries {
		if failedPaths[e.Path] {
			continue
		}
		if verr := schema.ValidateRecordJSON(recordSchema, e.RecordRaw); verr != nil {
			logger.Warn("journal row failed validation, scheduling recovery",
				"path", e.Path, "error", verr)
			failedPaths[e.Path] = true
		}
	}

	if len(failedPaths) == 0 {
		logger.Info("no failed documents found", "rows", len(entries))
		fmt.Println("All journaled documents processed successfully; nothing to recover.")
		return
	}

	var paths []string
	for _, e := range entries { // keep journal order
		if failedPaths[e.Path] {
			paths = append(paths, e.Path)
		}
	}
	logger.Info("recovering failed documents", "count", len(paths))

	processor := pipeline.NewProcessor(
		logger,
		extract.NewPDFExtractor(logger),
		llm.NewClient(cfg.LLM, logger),
		parse.NewParser(logger),
		template,
		cfg.Processing.MaxContextTokens,
		cfg.Processing.MaxTextLength,
	)
	processor.Journal = jnl
	processor.RunID = uuid.New().String()

	processor.Run(ctx, paths)

	// Re-export everything in original journal order with the refreshed rows.
	entries, err = jnl.All(ctx)
	if err != nil {
		logger.Error("failed to re-read journal", "error", err)
		os.Exit(1)
	}
	records := make([]schema.Record, 0, len(entries))
	recovered := 0
	for _, e := range entries {
		records = append(records, e.Record)
		if failedPaths[e.Path] && e.Status == pipeline.StatusOK {
			recovered++
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

	fmt.Printf("Recovery complete!\n")
	fmt.Printf("- Documents reprocessed: %d\n", len(paths))
	fmt.Printf("- Recovered: %d\n", recovered)
	fmt.Printf("- Output: %s\n", outPath)
}
