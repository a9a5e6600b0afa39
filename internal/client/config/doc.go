// Package config loads runtime configuration for the taskmarket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. A dotenv file (-env, or ./.env) and TASKMARKET_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-t int      request timeout (seconds)
//	-d string   session database path
//
// # JSON schema
//
// Durations accept strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.taskmarket.in",
//	  "request_timeout": "15s",
//	  "session_backend": "redis",
//	  "redis_url": "redis://localhost:6379/0",
//	  "min_withdrawal": 500,
//	  "require_email_verification": true,
//	  "log_level": "info",
//	  "log_backend": "zap"
//	}
//
// # Environment
//
//	TASKMARKET_API_URL, TASKMARKET_REQUEST_TIMEOUT, TASKMARKET_SESSION_BACKEND,
//	TASKMARKET_SESSION_DB, TASKMARKET_REDIS_URL, TASKMARKET_REDIS_PREFIX,
//	TASKMARKET_SESSION_TTL, TASKMARKET_MIN_WITHDRAWAL,
//	TASKMARKET_REQUIRE_EMAIL_VERIFICATION, TASKMARKET_LOG_LEVEL,
//	TASKMARKET_LOG_BACKEND
package config
