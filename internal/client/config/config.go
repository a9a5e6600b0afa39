package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the taskmarket CLI.
//
// Units: RequestTimeout and SessionTTL are time.Duration; MinWithdrawal is in
// whole rupees.
type Config struct {
	APIBaseURL     string        `env:"API_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	SessionBackend string        `env:"SESSION_BACKEND"`
	SessionDBPath  string        `env:"SESSION_DB"`
	RedisURL       string        `env:"REDIS_URL"`
	RedisPrefix    string        `env:"REDIS_PREFIX"`
	SessionTTL     time.Duration `env:"SESSION_TTL"`

	MinWithdrawal            int64 `env:"MIN_WITHDRAWAL"`
	RequireEmailVerification bool  `env:"REQUIRE_EMAIL_VERIFICATION"`

	LogLevel   string `env:"LOG_LEVEL"`
	LogBackend string `env:"LOG_BACKEND"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.SessionBackend = BackendSQLite
	c.SessionDBPath = defaultDBPath()
	c.RedisPrefix = "taskmarket"
	c.SessionTTL = 0
	c.MinWithdrawal = 500
	c.RequireEmailVerification = true
	c.LogLevel = "warn"
	c.LogBackend = "slog"
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskmarket.db"
	}
	return filepath.Join(dir, "taskmarket", "session.db")
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api url is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	switch c.SessionBackend {
	case BackendSQLite:
		if c.SessionDBPath == "" {
			errs = append(errs, errors.New("session db path is required"))
		}
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis url is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.SessionBackend))
	}
	if c.MinWithdrawal < 0 {
		errs = append(errs, errors.New("minimum withdrawal cannot be negative"))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
