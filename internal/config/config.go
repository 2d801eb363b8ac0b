// Package config loads the tutor's settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/goat/internal/game"
	"github.com/abhisek/goat/internal/session"
)

// Config holds everything outside the LLM provider settings, which live in
// llm.Config.
type Config struct {
	// DB overrides the SQLite path. Empty means the XDG default.
	DB string `env:"GOAT_DB"`

	RequestTimeout   time.Duration `env:"GOAT_REQUEST_TIMEOUT" envDefault:"90s"`
	CorrectDelay     time.Duration `env:"GOAT_CORRECT_DELAY" envDefault:"1s"`
	IncorrectDelay   time.Duration `env:"GOAT_INCORRECT_DELAY" envDefault:"500ms"`
	QuizFailureDelay time.Duration `env:"GOAT_QUIZ_FAILURE_DELAY" envDefault:"3s"`
	SettleDelay      time.Duration `env:"GOAT_SETTLE_DELAY" envDefault:"150ms"`

	Analytics AnalyticsConfig

	AdminAddr    string `env:"GOAT_ADMIN_ADDR" envDefault:":8080"`
	OTelEndpoint string `env:"GOAT_OTEL_ENDPOINT"`
	DebugLog     string `env:"GOAT_DEBUG_LOG"`
}

// AnalyticsConfig selects the remote analytics sinks. Events always go to
// the local store as well.
type AnalyticsConfig struct {
	URL   string `env:"GOAT_ANALYTICS_URL"`
	Redis RedisConfig
}

type RedisConfig struct {
	Addr     string `env:"GOAT_REDIS_ADDR"`
	Password string `env:"GOAT_REDIS_PASSWORD"`
	DB       int    `env:"GOAT_REDIS_DB" envDefault:"0"`
	Stream   string `env:"GOAT_REDIS_STREAM" envDefault:"goat:events"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative durations.
func (c Config) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"GOAT_REQUEST_TIMEOUT", c.RequestTimeout},
		{"GOAT_CORRECT_DELAY", c.CorrectDelay},
		{"GOAT_INCORRECT_DELAY", c.IncorrectDelay},
		{"GOAT_QUIZ_FAILURE_DELAY", c.QuizFailureDelay},
		{"GOAT_SETTLE_DELAY", c.SettleDelay},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", d.name, d.d)
		}
	}
	return nil
}

// Session returns the session timing.
func (c Config) Session() session.Config {
	return session.Config{
		RequestTimeout:   c.RequestTimeout,
		QuizFailureDelay: c.QuizFailureDelay,
		Game: game.Config{
			CorrectDelay:   c.CorrectDelay,
			IncorrectDelay: c.IncorrectDelay,
		},
	}
}
