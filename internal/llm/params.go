package llm

import (
	"strings"

	"litcoder/internal/common"
)

// completionParams builds the chat/completions request body, picking the
// parameter set the configured model family accepts: newer families take
// max_completion_tokens, older ones max_tokens, and the gpt-5-mini family
// rejects any temperature other than its default.
func completionParams(cfg common.LLMConfig, system, user string) map[string]any {
	body := map[string]any{
		"model": cfg.Model,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	if strings.Contains(cfg.Model, "gpt-5") || strings.Contains(cfg.Model, "gpt-4o") {
		body["max_completion_tokens"] = cfg.MaxTokens
	} else {
		body["max_tokens"] = cfg.MaxTokens
	}

	if !strings.Contains(cfg.Model, "gpt-5-mini") {
		body["temperature"] = cfg.Temperature
	}

	return body
}
