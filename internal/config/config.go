// Package config loads runtime settings from COUNTUP_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/countup/internal/store"
)

// Config holds the CLI's runtime settings.
type Config struct {
	// DBPath overrides the default database location when set.
	DBPath string `env:"COUNTUP_DB"`

	LogLevel  string `env:"COUNTUP_LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
	LogFormat string `env:"COUNTUP_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`

	RetryAttempts    int           `env:"COUNTUP_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1,lte=10"`
	RetryInitialWait time.Duration `env:"COUNTUP_RETRY_INITIAL_WAIT" envDefault:"50ms" validate:"gt=0"`
	RetryMaxWait     time.Duration `env:"COUNTUP_RETRY_MAX_WAIT" envDefault:"1s" validate:"gtefield=RetryInitialWait"`

	// Review asks the parent interactively before approving a graduation
	// from the CLI.
	Review bool `env:"COUNTUP_REVIEW" envDefault:"true"`
}

var validate = validator.New()

// Load parses the environment and validates the result.
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

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Retry returns the store retry policy.
func (c Config) Retry() store.RetryConfig {
	r := store.DefaultRetryConfig()
	r.MaxAttempts = c.RetryAttempts
	r.InitialWait = c.RetryInitialWait
	r.MaxWait = c.RetryMaxWait
	return r
}
