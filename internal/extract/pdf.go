// Package extract turns source documents into plain text and display titles.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	pdflib "github.com/ledongthuc/pdf"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

// TextExtractionResult summarizes one extraction.
type TextExtractionResult struct {
	Text   string
	Method string
	Pages  int
}

// PDFExtractor extracts the text layer of a PDF, trying the whole-document
// reader first and falling back to page-by-page extraction. No OCR: research
// papers are born-digital, and a scan with no text layer yields empty text,
// which the pipeline treats as a local failure.
type PDFExtractor struct {
	log *slog.Logger
}

func NewPDFExtractor(log *slog.Logger) *PDFExtractor {
	if log == nil {
		log = slog.Default()
	}
	return &PDFExtractor{log: log}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return TextExtractionResult{}, err
	}

	f, r, err := pdflib.Open(path)
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.log.Warn("pdf close error", "path", path, "error", cerr)
		}
	}()

	pages := r.NumPage()

	if text, err := wholeDocText(r); err == nil && strings.TrimSpace(text) != "" {
		return TextExtractionResult{Text: normalizeText(text), Method: "plaintext", Pages: pages}, nil
	} else if err != nil {
		e.log.Warn("whole-document extraction failed, falling back to per-page",
			"path", path, "error", err)
	}

	text := e.perPageText(r, path, pages)
	return TextExtractionResult{Text: normalizeText(text), Method: "per-page", Pages: pages}, nil
}

func wholeDocText(r *pdflib.Reader) (string, error) {
	body, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (e *PDFExtractor) perPageText(r *pdflib.Reader, path string, pages int) string {
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Warn("page extraction failed", "path", path, "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// normalizeText scrubs control characters (except newline and tab) and
// collapses runs of spaces left behind by PDF text positioning.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsControl(r) || r == unicode.ReplacementChar:
			// drop
		case r == ' ':
			if !prevSpace {
				b.WriteRune(r)
			}
			prevSpace = true
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return b.String()
}
