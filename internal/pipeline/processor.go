// Package pipeline drives the batch: enumerate documents, extract text,
// fit it to the context budget, call the model, parse the response, and
// accumulate one record per document.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"litcoder/internal/extract"
	"litcoder/internal/llm"
	"litcoder/internal/parse"
	"litcoder/internal/schema"
)

// Document statuses stored in the journal.
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// Journal persists per-document results as they are produced, so an aborted
// batch loses at most the in-flight document.
type Journal interface {
	RecordResult(ctx context.Context, runID, path, title, status string, rec schema.Record) error
}

// Processor coordinates text extraction then LLM coding for each document.
// Documents are handled strictly one at a time; any per-document failure
// degrades to an empty row and the batch continues.
type Processor struct {
	Log              *slog.Logger
	Extractor        extract.TextExtractor
	LLM              llm.Completer
	Parser           *parse.Parser
	Template         string
	MaxContextTokens int
	MaxTextLength    int
	Journal          Journal
	RunID            string
}

func NewProcessor(log *slog.Logger, ex extract.TextExtractor, completer llm.Completer, parser *parse.Parser, template string, maxContextTokens, maxTextLength int) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		Log:              log,
		Extractor:        ex,
		LLM:              completer,
		Parser:           parser,
		Template:         template,
		MaxContextTokens: maxContextTokens,
		MaxTextLength:    maxTextLength,
	}
}

// Run processes each path in order and returns one record per path, in the
// same order.
func (p *Processor) Run(ctx context.Context, paths []string) []schema.Record {
	records := make([]schema.Record, 0, len(paths))
	for _, path := range paths {
		rec, ok := p.ProcessDocument(ctx, path)
		status := StatusOK
		if !ok {
			status = StatusFailed
		}
		p.journal(ctx, path, status, rec)
		records = append(records, rec)
	}
	return records
}

// ProcessDocument produces the record for a single document. The returned
// bool reports whether a real model response was parsed; false means the
// record is an empty row.
func (p *Processor) ProcessDocument(ctx context.Context, path string) (schema.Record, bool) {
	start := time.Now()
	title := extract.ResolveTitle(filepath.Base(path))

	res, err := p.Extractor.Extract(ctx, path)
	if err != nil {
		p.Log.Error("pipeline.extract.failed", "path", path, "error", err)
		return schema.EmptyRow(title), false
	}
	if res.Text == "" {
		p.Log.Warn("pipeline.extract.empty", "path", path, "method", res.Method)
		return schema.EmptyRow(title), false
	}
	p.Log.Info("pipeline.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
	)
	if p.MaxTextLength > 0 && len(res.Text) > p.MaxTextLength {
		p.Log.Warn("pipeline.large_document", "path", path, "chars", len(res.Text))
	}

	fitted := llm.FitToBudget(res.Text, p.MaxContextTokens, p.Log)
	prompt := llm.BuildUserPrompt(p.Template, fitted)

	response, err := p.LLM.Complete(ctx, prompt)
	if err != nil {
		p.Log.Error("pipeline.llm.failed", "path", path, "title", title, "error", err)
		return schema.EmptyRow(title), false
	}

	rec := p.Parser.Parse(response, title)
	p.Log.Info("pipeline.document.ok",
		"path", path,
		"title", title,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, true
}

func (p *Processor) journal(ctx context.Context, path, status string, rec schema.Record) {
	if p.Journal == nil {
		return
	}
	if err := p.Journal.RecordResult(ctx, p.RunID, path, rec[schema.ColTitle], status, rec); err != nil {
		p.Log.Error("pipeline.journal.failed", "path", path, "error", err)
	}
}
