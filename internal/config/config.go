package config

import "time"

// Config holds all server configuration loaded from environment variables.
// Parsed with github.com/caarlos0/env; see Validate for the constraints.
type Config struct {
	// Server
	Port           int           `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"dev"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	PublicURL      string        `env:"PUBLIC_URL" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Persistence and accounts
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"./data/the100.db"`
	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"the100_token"`
	DailySalt      string `env:"DAILY_SALT" envDefault:"local_dev_salt"`

	// Rules
	MaxAttempts         int           `env:"MAX_ATTEMPTS" envDefault:"6"`
	RevealDelay         time.Duration `env:"REVEAL_DELAY" envDefault:"100ms"`
	RevealOrder         string        `env:"REVEAL_ORDER" envDefault:"descending"`
	NormalizeWhitespace string        `env:"NORMALIZE_WHITESPACE" envDefault:"collapse"`
	SessionIdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`

	// Topics
	TopicsFile      string        `env:"TOPICS_FILE"`
	TopicCacheTTL   time.Duration `env:"TOPIC_CACHE_TTL" envDefault:"6h"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	FetchMaxRetries uint64        `env:"FETCH_MAX_RETRIES" envDefault:"3"`

	// Redis (empty address keeps the topic cache in process)
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisMaxRetries uint64 `env:"REDIS_MAX_RETRIES" envDefault:"5"`
}

// Production reports whether cookies must be Secure.
func (c *Config) Production() bool { return c.Environment == "production" }
