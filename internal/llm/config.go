package llm

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `env:"GOAT_LLM_PROVIDER"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single LLM request including retries.
	Timeout time.Duration `env:"GOAT_LLM_TIMEOUT" envDefault:"60s"`
}

type AnthropicConfig struct {
	APIKey string `env:"ANTHROPIC_API_KEY"`
	Model  string `env:"GOAT_ANTHROPIC_MODEL" envDefault:"claude-sonnet"`
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	Model   string `env:"GOAT_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"GOAT_OPENAI_BASE_URL"`
}

type GeminiConfig struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"GOAT_GEMINI_MODEL" envDefault:"gemini-flash"`
}

type OpenRouterConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	Model   string `env:"GOAT_OPENROUTER_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	BaseURL string `env:"GOAT_OPENROUTER_BASE_URL"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `env:"GOAT_LLM_MAX_RETRIES" envDefault:"3"`
	InitialWait time.Duration `env:"GOAT_LLM_RETRY_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"GOAT_LLM_RETRY_MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"GOAT_LLM_RETRY_MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns a Config populated only from envDefault tags.
func DefaultConfig() Config {
	var cfg Config
	// Parsing an empty environment can only fail on malformed defaults.
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	return cfg
}

// ConfigFromEnv builds a Config from the process environment. When
// GOAT_LLM_PROVIDER is unset the provider is discovered from whichever API
// key is present, in the order Gemini, OpenAI, Anthropic, OpenRouter.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse LLM config: %w", err)
	}
	if cfg.Provider == "" {
		cfg.Provider = discoverProvider(cfg)
	}
	return cfg, nil
}

func discoverProvider(cfg Config) string {
	switch {
	case cfg.Gemini.APIKey != "":
		return "gemini"
	case cfg.OpenAI.APIKey != "":
		return "openai"
	case cfg.Anthropic.APIKey != "":
		return "anthropic"
	case cfg.OpenRouter.APIKey != "":
		return "openrouter"
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
	case "":
		return fmt.Errorf("no LLM provider configured: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
