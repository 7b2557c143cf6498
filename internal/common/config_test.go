package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MAX_TOKENS",
		"OPENAI_TEMPERATURE", "OPENAI_TIMEOUT", "MAX_TEXT_LENGTH", "CHUNK_SIZE",
		"MAX_CONTEXT_TOKENS", "PROMPT_FILE", "OUTPUT_FOLDER", "JOURNAL_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("Temperature = %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout)
	}
	if cfg.Processing.MaxTextLength != 200000 || cfg.Processing.MaxContextTokens != 120000 {
		t.Errorf("Processing = %+v", cfg.Processing)
	}
	if cfg.Paths.PromptFile != "prompt_template.txt" || cfg.Paths.OutputFolder != "output" {
		t.Errorf("Paths = %+v", cfg.Paths)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-5-mini")
	t.Setenv("OPENAI_MAX_TOKENS", "4000")
	t.Setenv("OPENAI_TIMEOUT", "2m")
	t.Setenv("MAX_CONTEXT_TOKENS", "not-a-number")

	cfg := LoadConfig()
	if cfg.LLM.Model != "gpt-5-mini" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout)
	}
	// Unparseable values fall back to the default.
	if cfg.Processing.MaxContextTokens != 120000 {
		t.Errorf("MaxContextTokens = %d", cfg.Processing.MaxContextTokens)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := &Config{
		LLM:        LLMConfig{APIKey: "k", MaxTokens: 100},
		Processing: ProcessingConfig{MaxContextTokens: 1000},
		Paths:      PathsConfig{PromptFile: "tpl.txt"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.LLM.APIKey = "" }},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }},
		{"zero context tokens", func(c *Config) { c.Processing.MaxContextTokens = 0 }},
		{"missing prompt file", func(c *Config) { c.Paths.PromptFile = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}
