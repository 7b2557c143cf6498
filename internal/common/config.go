package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM        LLMConfig
	Processing ProcessingConfig
	Paths      PathsConfig
}

// LLMConfig holds OpenAI-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// ProcessingConfig holds text size-management configuration
type ProcessingConfig struct {
	MaxTextLength    int
	ChunkSize        int
	MaxContextTokens int
}

// PathsConfig holds file locations
type PathsConfig struct {
	PromptFile   string
	OutputFolder string
	JournalPath  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 2000),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.3),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 90*time.Second),
		},
		Processing: ProcessingConfig{
			MaxTextLength:    getEnvAsInt("MAX_TEXT_LENGTH", 200000),
			ChunkSize:        getEnvAsInt("CHUNK_SIZE", 100000),
			MaxContextTokens: getEnvAsInt("MAX_CONTEXT_TOKENS", 120000),
		},
		Paths: PathsConfig{
			PromptFile:   getEnv("PROMPT_FILE", "prompt_template.txt"),
			OutputFolder: getEnv("OUTPUT_FOLDER", "output"),
			JournalPath:  getEnv("JOURNAL_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. Failures here stop the run
// before any document is processed.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.MaxTokens <= 0 {
		return NewAppError("CONFIG_ERROR", "OPENAI_MAX_TOKENS must be positive", ErrInvalidInput)
	}
	if c.Processing.MaxContextTokens <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_CONTEXT_TOKENS must be positive", ErrInvalidInput)
	}
	if c.Paths.PromptFile == "" {
		return NewAppError("CONFIG_ERROR", "PROMPT_FILE is required", ErrInvalidInput)
	}
	return nil
}
