package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/taskmarket/internal/flagx"
	"github.com/dmitrijs2005/taskmarket/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero so a file may set only what it needs.
type JsonConfig struct {
	APIBaseURL               *string         `json:"api_url"`
	RequestTimeout           *timex.Duration `json:"request_timeout"`
	SessionBackend           *string         `json:"session_backend"`
	SessionDBPath            *string         `json:"session_db"`
	RedisURL                 *string         `json:"redis_url"`
	RedisPrefix              *string         `json:"redis_prefix"`
	SessionTTL               *timex.Duration `json:"session_ttl"`
	MinWithdrawal            *int64          `json:"min_withdrawal"`
	RequireEmailVerification *bool           `json:"require_email_verification"`
	LogLevel                 *string         `json:"log_level"`
	LogBackend               *string         `json:"log_backend"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing happens. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.SessionBackend, jc.SessionBackend)
	setString(&cfg.SessionDBPath, jc.SessionDBPath)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	if jc.MinWithdrawal != nil {
		cfg.MinWithdrawal = *jc.MinWithdrawal
	}
	if jc.RequireEmailVerification != nil {
		cfg.RequireEmailVerification = *jc.RequireEmailVerification
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
