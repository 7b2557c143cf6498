package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"litcoder/internal/extract"
	"litcoder/internal/parse"
	"litcoder/internal/schema"
)

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (extract.TextExtractionResult, error) {
	if err := f.errs[path]; err != nil {
		return extract.TextExtractionResult{}, err
	}
	return extract.TextExtractionResult{Text: f.texts[path], Method: "fake", Pages: 1}, nil
}

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(_ context.Context, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type journalCall struct {
	runID, path, title, status string
	rec                        schema.Record
}

type fakeJournal struct {
	calls []journalCall
}

func (f *fakeJournal) RecordResult(_ context.Context, runID, path, title, status string, rec schema.Record) error {
	f.calls = append(f.calls, journalCall{runID, path, title, status, rec})
	return nil
}

func newTestProcessor(ex *fakeExtractor, c *fakeCompleter) *Processor {
	return NewProcessor(nil, ex, c, parse.NewParser(nil), "Code this paper.", 1000, 200000)
}

func TestProcessDocument(t *testing.T) {
	ex := &fakeExtractor{texts: map[string]string{"/in/a_study_of_agency.pdf": "paper body text"}}
	c := &fakeCompleter{response: "**Include in Review**: Y\n\n**1. Primary Stakeholders**: Students\n**Source**: p. 3"}
	p := newTestProcessor(ex, c)

	rec, ok := p.ProcessDocument(context.Background(), "/in/a_study_of_agency.pdf")
	if !ok {
		t.Fatal("ok = false for a healthy document")
	}
	if rec[schema.ColTitle] != "A Study of Agency" {
		t.Errorf("Title = %q", rec[schema.ColTitle])
	}
	if rec[schema.ColIncludeInReview] != "Y" {
		t.Errorf("inclusion = %q", rec[schema.ColIncludeInReview])
	}
	if rec["1.1 Primary Stakeholders"] != "Students" {
		t.Errorf("stakeholders = %q", rec["1.1 Primary Stakeholders"])
	}
	if len(c.prompts) != 1 || !strings.Contains(c.prompts[0], "paper body text") {
		t.Errorf("prompt did not carry the document text: %v", c.prompts)
	}
	if !strings.HasPrefix(c.prompts[0], "Code this paper.") {
		t.Errorf("prompt did not lead with the template: %q", c.prompts[0])
	}
}

func TestProcessDocumentExtractionFailure(t *testing.T) {
	ex := &fakeExtractor{errs: map[string]error{"/in/broken.pdf": errors.New("damaged xref")}}
	p := newTestProcessor(ex, &fakeCompleter{})

	rec, ok := p.ProcessDocument(context.Background(), "/in/broken.pdf")
	if ok {
		t.Error("ok = true after extraction failure")
	}
	if rec[schema.ColExclusionReason] != schema.ProcessingFailed {
		t.Errorf("exclusion reason = %q", rec[schema.ColExclusionReason])
	}
	if rec[schema.ColTitle] != "Broken" {
		t.Errorf("Title = %q", rec[schema.ColTitle])
	}
}

func TestProcessDocumentEmptyText(t *testing.T) {
	ex := &fakeExtractor{texts: map[string]string{"/in/scanned.pdf": ""}}
	c := &fakeCompleter{}
	p := newTestProcessor(ex, c)

	rec, ok := p.ProcessDocument(context.Background(), "/in/scanned.pdf")
	if ok {
		t.Error("ok = true for a document with no extractable text")
	}
	if rec[schema.ColIncludeInReview] != "N" {
		t.Errorf("inclusion = %q, want N", rec[schema.ColIncludeInReview])
	}
	if len(c.prompts) != 0 {
		t.Error("model was called for an empty document")
	}
}

func TestProcessDocumentLLMFailure(t *testing.T) {
	ex := &fakeExtractor{texts: map[string]string{"/in/a.pdf": "text"}}
	c := &fakeCompleter{err: errors.New("429 too many requests")}
	p := newTestProcessor(ex, c)

	rec, ok := p.ProcessDocument(context.Background(), "/in/a.pdf")
	if ok {
		t.Error("ok = true after model failure")
	}
	if rec[schema.ColExclusionReason] != schema.ProcessingFailed {
		t.Errorf("exclusion reason = %q", rec[schema.ColExclusionReason])
	}
}

func TestRunContinuesPastFailures(t *testing.T) {
	paths := []string{"/in/a.pdf", "/in/b.pdf", "/in/c.pdf"}
	ex := &fakeExtractor{
		texts: map[string]string{"/in/a.pdf": "text a", "/in/c.pdf": "text c"},
		errs:  map[string]error{"/in/b.pdf": errors.New("unreadable")},
	}
	c := &fakeCompleter{response: "**Include in Review**: Y\n**1. Primary Stakeholders**: Students"}
	p := newTestProcessor(ex, c)
	jr := &fakeJournal{}
	p.Journal = jr
	p.RunID = "run-1"

	records := p.Run(context.Background(), paths)
	if len(records) != len(paths) {
		t.Fatalf("got %d records, want %d", len(records), len(paths))
	}
	if records[0][schema.ColTitle] != "A" || records[1][schema.ColTitle] != "B" || records[2][schema.ColTitle] != "C" {
		t.Errorf("record order: %q, %q, %q",
			records[0][schema.ColTitle], records[1][schema.ColTitle], records[2][schema.ColTitle])
	}
	if records[1][schema.ColExclusionReason] != schema.ProcessingFailed {
		t.Errorf("failed document row = %v", records[1][schema.ColExclusionReason])
	}
	if records[2][schema.ColIncludeInReview] != "Y" {
		t.Error("batch did not continue past the failed document")
	}

	if len(jr.calls) != 3 {
		t.Fatalf("got %d journal calls, want 3", len(jr.calls))
	}
	wantStatus := []string{StatusOK, StatusFailed, StatusOK}
	for i, call := range jr.calls {
		if call.path != paths[i] {
			t.Errorf("journal call %d path = %q, want %q", i, call.path, paths[i])
		}
		if call.status != wantStatus[i] {
			t.Errorf("journal call %d status = %q, want %q", i, call.status, wantStatus[i])
		}
		if call.runID != "run-1" {
			t.Errorf("journal call %d run id = %q", i, call.runID)
		}
	}
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("b.pdf")
	mustWrite("a.PDF")
	mustWrite("notes.txt")
	mustWrite(".hidden.pdf")
	mustWrite(".git/tracked.pdf")
	mustWrite("nested/c.pdf")

	paths, err := ListPDFs(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "nested", "c.pdf"),
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestListPDFsEmptyRoot(t *testing.T) {
	if _, err := ListPDFs("  "); err == nil {
		t.Error("blank root accepted")
	}
}
