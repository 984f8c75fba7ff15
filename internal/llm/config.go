package llm

import (
	"os"
	"strconv"
)

// ProviderKind selects which generative-model backend to use.
type ProviderKind string

const (
	ProviderGemini    ProviderKind = "gemini"
	ProviderAnthropic ProviderKind = "anthropic"
)

// Config holds all configuration for the model subsystem.
type Config struct {
	Enabled     bool
	Provider    ProviderKind
	Endpoint    string
	Model       string
	APIKey      string
	TimeoutMs   int
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns a Config with sensible defaults. The model
// integration is disabled by default; the decision engine falls back to
// its rule table when disabled.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		Provider:    ProviderGemini,
		Endpoint:    "https://generativelanguage.googleapis.com",
		Model:       "gemini-1.5-flash",
		TimeoutMs:   10000,
		MaxRetries:  1,
		Temperature: 0.4,
		MaxTokens:   1024,
	}
}

// LoadConfig reads model configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ANCHOR_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ANCHOR_LLM_PROVIDER"); v != "" {
		cfg.Provider = ProviderKind(v)
	}
	if v := os.Getenv("ANCHOR_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("ANCHOR_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ANCHOR_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("ANCHOR_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("ANCHOR_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("ANCHOR_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("ANCHOR_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}

	return cfg
}
