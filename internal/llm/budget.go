package llm

import (
	"log/slog"
	"strings"
)

// TruncationMarker tags a section that was cut to fit the context budget.
const TruncationMarker = "[SECTION TRUNCATED]"

// budgetFill keeps 20% of the context budget free for the template and the
// completion.
const budgetFill = 0.8

// minTruncatedChars is the smallest section prefix worth sending.
const minTruncatedChars = 1000

// sectionMarkers are matched against short standalone lines to detect paper
// section headings.
var sectionMarkers = []string{
	"abstract", "introduction", "method", "result", "discussion", "conclusion", "reference",
}

// sectionPriority orders sections by coding value; references and
// conclusions are dropped first. "start" is the unlabeled leading text.
var sectionPriority = []string{
	"abstract", "introduction", "method", "result", "discussion", "start",
}

type section struct {
	header  string
	content string
}

// FitToBudget returns text sized for the model context. Token count is
// estimated as len/4. Text under budget passes through untouched; oversized
// text is partitioned into labeled sections and reassembled in priority
// order until the fill threshold, with at most one truncated section tagged
// by TruncationMarker. Text with no recognizable sections is hard-cut at the
// budget boundary.
func FitToBudget(text string, maxContextTokens int, log *slog.Logger) string {
	if log == nil {
		log = slog.Default()
	}
	estimatedTokens := len(text) / 4
	if estimatedTokens <= maxContextTokens {
		return text
	}

	log.Info("large text detected, using section extraction",
		"estimated_tokens", estimatedTokens,
		"max_context_tokens", maxContextTokens,
	)

	sections := splitSections(text)
	budgetChars := int(float64(maxContextTokens) * 4 * budgetFill)

	var selected strings.Builder
	for _, priority := range sectionPriority {
		for _, sec := range sections {
			if sec.header != priority {
				continue
			}
			candidate := "\n\n" + sec.content
			if selected.Len()+len(candidate) < budgetChars {
				selected.WriteString(candidate)
				continue
			}
			// This section overflows; send a prefix if a meaningful
			// amount of budget remains, then stop.
			remaining := budgetChars - selected.Len()
			if remaining > minTruncatedChars {
				cut := sec.content
				if remaining < len(cut) {
					cut = cut[:remaining]
				}
				selected.WriteString("\n\n")
				selected.WriteString(cut)
				selected.WriteString("\n")
				selected.WriteString(TruncationMarker)
			}
			log.Info("reached context budget",
				"selected_chars", selected.Len(),
			)
			if selected.Len() == 0 {
				return hardCut(text, maxContextTokens)
			}
			return selected.String()
		}
	}

	if selected.Len() == 0 {
		// Nothing fit the priority scheme: hard character cutoff.
		return hardCut(text, maxContextTokens)
	}
	return selected.String()
}

func hardCut(text string, maxContextTokens int) string {
	cut := maxContextTokens * 4
	if cut > len(text) {
		cut = len(text)
	}
	return text[:cut]
}

// splitSections groups lines under the most recent heading. A heading is a
// short line (<50 chars) containing one of the section markers; everything
// before the first heading belongs to "start".
func splitSections(text string) []section {
	lines := strings.Split(text, "\n")

	var sections []section
	var current []string
	currentHeader := "start"

	for _, line := range lines {
		lineLower := strings.ToLower(strings.TrimSpace(line))

		header := ""
		if len(lineLower) < 50 {
			for _, marker := range sectionMarkers {
				if strings.Contains(lineLower, marker) {
					header = marker
					break
				}
			}
		}

		if header != "" {
			if len(current) > 0 {
				sections = append(sections, section{currentHeader, strings.Join(current, "\n")})
			}
			current = []string{line}
			currentHeader = header
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, section{currentHeader, strings.Join(current, "\n")})
	}
	return sections
}
