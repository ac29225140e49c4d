package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration for the lifecycle engine.
type Config struct {
	DBPath             string
	TrashRetentionDays int
	LogOps             bool

	// Default caller identity for the CLI. Flags override these.
	DefaultOrg   string
	DefaultActor string
	DefaultRole  string
}

// Default returns a Config with sensible defaults. The DB path is left
// empty so the caller can resolve a per-user location.
func Default() Config {
	return Config{
		DBPath:             "",
		TrashRetentionDays: 30,
		LogOps:             false,
		DefaultRole:        "member",
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset values. A .env file in the working directory is
// loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("BARKA_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BARKA_TRASH_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TrashRetentionDays = n
		}
	}
	if v := os.Getenv("BARKA_LOG_OPS"); v != "" {
		cfg.LogOps, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("BARKA_ORG"); v != "" {
		cfg.DefaultOrg = v
	}
	if v := os.Getenv("BARKA_ACTOR"); v != "" {
		cfg.DefaultActor = v
	}
	if v := os.Getenv("BARKA_ROLE"); v != "" {
		cfg.DefaultRole = v
	}

	return cfg
}
