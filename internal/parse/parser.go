// Package parse recovers a schema Record from one free-text LLM response.
//
// The response is untrusted: it may be empty, truncated, or formatted in any
// of the shapes the model happens to produce. Parsing is a single pass over
// the non-empty lines; at each line a fixed-priority list of independent
// matchers is tried and the first match wins. Fields are write-once: a later
// mention of the same question never overwrites an earlier extraction.
package parse

import (
	"log/slog"
	"strings"

	"litcoder/internal/schema"
)

// minResponseLen is the trimmed length below which a response is treated as
// empty and every field keeps its default.
const minResponseLen = 10

// sourceLookahead bounds how many lines past a matched question are scanned
// for Answer/Source continuation lines.
const sourceLookahead = 4

type Parser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{log: log}
}

// Parse converts responseText into a Record for the given pre-resolved
// title. It never fails past its own boundary: an internal fault is logged
// and whatever partial record has been assembled is returned.
func (p *Parser) Parse(responseText, title string) (rec schema.Record) {
	rec = schema.NewRecord(title)

	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("parse.recovered", "title", title, "panic", r)
		}
	}()

	if len(strings.TrimSpace(responseText)) < minResponseLen {
		p.log.Warn("parse.short_response", "title", title, "response", responseText)
		return rec
	}

	lines := splitLines(responseText)
	p.scanIdentity(lines, rec)

	for i, line := range lines {
		cand, ok := matchLine(line)
		if !ok {
			p.genericFallback(line, rec)
			continue
		}

		col := cand.question.Column
		if rec[col] != schema.NotSpecified {
			// first extraction for this field already won
			continue
		}

		answer := cand.answer
		lookaheadAnswer, source := p.lookahead(lines, i)
		if cand.rejected {
			// The matched line echoed the question; a following
			// "**Answer**:" line may still carry the real answer.
			answer = lookaheadAnswer
		}
		if answer == "" {
			continue
		}

		rec[col] = answer
		p.log.Info("parse.extracted", "column", col, "answer", clip(answer, 50))
		if source != "" {
			rec[col+schema.SourceSuffix] = source
		}
	}
	return rec
}

// matchLine tries each strategy in priority order, stopping at the first
// that matches.
func matchLine(line string) (candidate, bool) {
	for _, m := range matchers {
		if cand, ok := m(line); ok {
			return cand, true
		}
	}
	return candidate{}, false
}

// scanIdentity sets the inclusion decision and exclusion reason from their
// marker lines, independently of the question scan.
func (p *Parser) scanIdentity(lines []string, rec schema.Record) {
	for _, line := range lines {
		plain := stripEmphasis(line)
		lower := strings.ToLower(plain)
		idx := strings.Index(plain, ":")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(plain[idx+1:])
		if value == "" {
			continue
		}
		switch {
		case strings.HasPrefix(lower, "include in review") && rec[schema.ColIncludeInReview] == schema.NotSpecified:
			rec[schema.ColIncludeInReview] = normalizeDecision(value)
			p.log.Info("parse.inclusion", "decision", rec[schema.ColIncludeInReview])
		case strings.HasPrefix(lower, "reason if excluded") && rec[schema.ColExclusionReason] == schema.NotSpecified:
			rec[schema.ColExclusionReason] = value
		}
	}
}

// lookahead scans the next few lines after a matched question for an
// "**Answer**:" line (the model restating the question then answering) and a
// "**Source**:" citation line, stopping early at the next question marker.
func (p *Parser) lookahead(lines []string, i int) (answer, source string) {
	for j := i + 1; j < len(lines) && j <= i+sourceLookahead; j++ {
		next := lines[j]
		if isQuestionMarker(next) {
			break
		}
		plain := stripEmphasis(next)
		lower := strings.ToLower(plain)
		idx := strings.Index(plain, ":")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(plain[idx+1:])
		switch {
		case strings.HasPrefix(lower, "answer") && answer == "":
			if len(value) > 3 && !isInterrogative(value) {
				answer = value
			}
		case strings.HasPrefix(lower, "source") && source == "":
			if value != "" {
				source = value
			}
		}
		if source != "" && answer != "" {
			break
		}
	}
	return answer, source
}

// genericFallback fires only for lines no strategy claimed: exactly one
// colon, a question synonym somewhere in the lowered prefix, and the target
// field still at its default, so a low-confidence match never overwrites a
// higher-confidence one.
func (p *Parser) genericFallback(line string, rec schema.Record) {
	parts := strings.Split(line, ":")
	if len(parts) != 2 {
		return
	}
	prefix := strings.ToLower(strings.TrimSpace(parts[0]))
	answer := stripEmphasis(parts[1])
	if answer == "" || isInterrogative(answer) {
		return
	}
	for _, q := range schema.Questions {
		for _, syn := range q.Synonyms {
			if !strings.Contains(prefix, syn) {
				continue
			}
			if rec[q.Column] == schema.NotSpecified {
				rec[q.Column] = answer
				p.log.Info("parse.extracted", "column", q.Column, "answer", clip(answer, 50), "fallback", true)
			}
			return
		}
	}
}

func normalizeDecision(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "Y":
		return "Y"
	case "N":
		return "N"
	}
	return v
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
