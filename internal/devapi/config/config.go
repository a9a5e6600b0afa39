// Package config handles configuration for the development backend,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the devapi server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP endpoint.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not reuse outside development.
//   - TokenValidityDuration: access token lifetime.
//   - OTPCode: the single code every OTP check accepts.
//   - MinWithdrawal / ReferralBonus: whole rupees.
type Config struct {
	ListenAddr               string        `env:"ADDR"`
	SecretKey                string        `env:"SECRET_KEY"`
	TokenValidityDuration    time.Duration `env:"TOKEN_TTL"`
	OTPCode                  string        `env:"OTP_CODE"`
	MinWithdrawal            int64         `env:"MIN_WITHDRAWAL"`
	ReferralBonus            int64         `env:"REFERRAL_BONUS"`
	RequireEmailVerification bool          `env:"REQUIRE_EMAIL_VERIFICATION"`
	LogLevel                 string        `env:"LOG_LEVEL"`
	LogBackend               string        `env:"LOG_BACKEND"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:8080"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.OTPCode = "123456"
	c.MinWithdrawal = 500
	c.ReferralBonus = 50
	c.RequireEmailVerification = true
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
