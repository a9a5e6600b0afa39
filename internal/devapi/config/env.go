package config

import "github.com/caarlos0/env/v6"

const envPrefix = "DEVAPI_"

// parseEnv overlays every DEVAPI_* variable that is set.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
