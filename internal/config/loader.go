package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/the100/internal/reveal"
	"github.com/robalobadob/the100/internal/round"
)

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	} else {
		log.Info().Msg("loaded environment variables from .env file")
	}
	return Parse(env.Options{})
}

// Parse fills a Config from the process environment, or from opts.Environment when set.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %q", c.LogLevel)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("invalid MAX_ATTEMPTS: %d (must be >= 1)", c.MaxAttempts)
	}
	if c.RevealDelay <= 0 {
		return fmt.Errorf("invalid REVEAL_DELAY: %s (must be > 0)", c.RevealDelay)
	}
	if _, err := reveal.ParseOrder(c.RevealOrder); err != nil {
		return fmt.Errorf("invalid REVEAL_ORDER: %w", err)
	}
	if _, err := round.ParseWhitespacePolicy(c.NormalizeWhitespace); err != nil {
		return fmt.Errorf("invalid NORMALIZE_WHITESPACE: %w", err)
	}
	if c.JWTExpiresDays < 1 {
		return fmt.Errorf("invalid JWT_EXPIRES_DAYS: %d", c.JWTExpiresDays)
	}
	if c.Production() && (c.JWTSecret == "" || c.JWTSecret == "dev_secret_change_me") {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// LogLevelValue is the parsed LOG_LEVEL, info when unparseable.
func (c *Config) LogLevelValue() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// RoundConfig returns the evaluator settings.
func (c *Config) RoundConfig() round.Config {
	cfg := round.DefaultConfig()
	cfg.MaxAttempts = c.MaxAttempts
	if p, err := round.ParseWhitespacePolicy(c.NormalizeWhitespace); err == nil {
		cfg.Normalizer.Whitespace = p
	}
	return cfg
}

// Order returns the reveal order, descending when unparseable.
func (c *Config) Order() reveal.Order {
	o, err := reveal.ParseOrder(c.RevealOrder)
	if err != nil {
		return reveal.Descending
	}
	return o
}
