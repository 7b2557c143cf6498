package parse

import (
	"strconv"
	"strings"

	"litcoder/internal/schema"
)

// candidate is one strategy's verdict on a line: which question it answers
// and the cleaned answer text. rejected marks lines that name a question but
// carry no usable answer (the model echoing the question back, or noise);
// such lines still anchor the source/answer lookahead window.
type candidate struct {
	question schema.Question
	answer   string
	rejected bool
}

// matcher inspects a single line. Matchers are independent and are tried in
// fixed priority order with first-success semantics.
type matcher func(line string) (candidate, bool)

// matchers in priority order. The record-aware generic fallback lives in
// parser.go since it must not overwrite already-filled fields.
var matchers = []matcher{
	matchBoldNumbered,
	matchOrdinalBoldField,
	matchPlainOrdinal,
	matchKeywordPrefix,
}

// interrogatives identify answers that are actually echoed questions.
var interrogatives = map[string]struct{}{
	"what": {}, "how": {}, "who": {}, "when": {}, "where": {}, "why": {},
	"does": {}, "do": {}, "is": {}, "are": {}, "can": {}, "will": {}, "should": {},
}

// matchBoldNumbered handles "**N. Label**: answer".
func matchBoldNumbered(line string) (candidate, bool) {
	for _, q := range schema.Questions {
		prefix := "**" + strconv.Itoa(q.Ordinal) + "."
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return candidate{}, false
		}
		return vet(q, line[idx+1:]), true
	}
	return candidate{}, false
}

// matchOrdinalBoldField handles "N. **Label**: answer".
func matchOrdinalBoldField(line string) (candidate, bool) {
	for _, q := range schema.Questions {
		prefix := strconv.Itoa(q.Ordinal) + "."
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := strings.TrimSpace(line[len(prefix):])
		if !strings.HasPrefix(rest, "**") {
			return candidate{}, false
		}
		idx := strings.Index(rest, "**:")
		if idx < 0 {
			return candidate{}, false
		}
		return vet(q, rest[idx+len("**:"):]), true
	}
	return candidate{}, false
}

// matchPlainOrdinal handles "N. Label: answer" with no emphasis markers.
func matchPlainOrdinal(line string) (candidate, bool) {
	for _, q := range schema.Questions {
		prefix := strconv.Itoa(q.Ordinal) + "."
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return candidate{}, false
		}
		return vet(q, line[idx+1:]), true
	}
	return candidate{}, false
}

// matchKeywordPrefix handles lines that lead with a question synonym instead
// of an ordinal, e.g. "Stakeholders: teachers and students".
func matchKeywordPrefix(line string) (candidate, bool) {
	lower := strings.ToLower(stripEmphasis(line))
	for _, q := range schema.Questions {
		for _, syn := range q.Synonyms {
			if !strings.HasPrefix(lower, syn) {
				continue
			}
			idx := strings.Index(line, ":")
			if idx < 0 {
				return candidate{}, false
			}
			return vet(q, line[idx+1:]), true
		}
	}
	return candidate{}, false
}

// vet cleans a raw answer and rejects question echoes and noise.
func vet(q schema.Question, raw string) candidate {
	answer := stripEmphasis(raw)
	if len(answer) <= 3 || isInterrogative(answer) {
		return candidate{question: q, rejected: true}
	}
	return candidate{question: q, answer: answer}
}

func isInterrogative(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	_, ok := interrogatives[strings.ToLower(fields[0])]
	return ok
}

// stripEmphasis removes markdown bold/italic decoration and trims the result.
func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	return strings.TrimSpace(s)
}

// isQuestionMarker reports whether the line opens a new question in any of
// the ordinal-prefixed shapes; the lookahead window stops there.
func isQuestionMarker(line string) bool {
	for _, q := range schema.Questions {
		n := strconv.Itoa(q.Ordinal)
		if strings.HasPrefix(line, "**"+n+".") || strings.HasPrefix(line, n+".") {
			return true
		}
	}
	return false
}
