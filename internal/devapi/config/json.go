package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/taskmarket/internal/flagx"
	"github.com/dmitrijs2005/taskmarket/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys leave the
// current value alone.
type JsonConfig struct {
	ListenAddr               *string         `json:"listen_addr"`
	SecretKey                *string         `json:"secret_key"`
	TokenValidityDuration    *timex.Duration `json:"token_validity_duration"`
	OTPCode                  *string         `json:"otp_code"`
	MinWithdrawal            *int64          `json:"min_withdrawal"`
	ReferralBonus            *int64          `json:"referral_bonus"`
	RequireEmailVerification *bool           `json:"require_email_verification"`
	LogLevel                 *string         `json:"log_level"`
	LogBackend               *string         `json:"log_backend"`
}

// parseJson loads the file named by -c/-config, if any. A missing or
// malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.ListenAddr, c.ListenAddr)
	setIf(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	setIf(&config.OTPCode, c.OTPCode)
	setIf(&config.MinWithdrawal, c.MinWithdrawal)
	setIf(&config.ReferralBonus, c.ReferralBonus)
	setIf(&config.RequireEmailVerification, c.RequireEmailVerification)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogBackend, c.LogBackend)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
