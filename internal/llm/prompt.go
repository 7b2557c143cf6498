package llm

import (
	"fmt"
	"os"
	"strings"
)

// systemInstruction frames every request; the per-paper questions come from
// the user-supplied template file.
const systemInstruction = "You are an expert researcher specializing in educational technology " +
	"and learning sciences. Your task is to carefully analyze research papers and extract " +
	"specific coding information for a systematic literature review."

// LoadTemplate reads the prompt template once at startup. A missing or empty
// template is a configuration failure; the run must not start without it.
func LoadTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load prompt template %s: %w", path, err)
	}
	tpl := strings.TrimSpace(string(b))
	if tpl == "" {
		return "", fmt.Errorf("prompt template %s is empty", path)
	}
	return tpl, nil
}

// BuildUserPrompt concatenates the template with the (budget-fitted) paper
// text.
func BuildUserPrompt(template, paperText string) string {
	var b strings.Builder
	b.Grow(len(template) + len(paperText) + 32)
	b.WriteString(template)
	b.WriteString("\n\nRESEARCH PAPER:\n")
	b.WriteString(paperText)
	return b.String()
}
