package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/taskmarket/internal/flagx"
)

const envPrefix = "TASKMARKET_"

// parseEnv loads a dotenv file into the process environment, then overlays
// every TASKMARKET_* variable that is set. The file is the one named by -env,
// or ./.env when it exists. Variables already in the environment win over
// the file.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
