package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	envPrefix  = "GOPHAUTH_"
	dotEnvFile = ".env"
)

// parseEnv overlays GOPHAUTH_* environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it. Unset variables leave the field
// untouched. Malformed values panic, like the other layers.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}
}
