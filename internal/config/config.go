// Package config reads process settings from the environment, builds
// the logger the rest of the tool shares, and loads compile-settings
// presets from TOML files.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Environment string // dev, test, or prod
	// Logging
	LogLevel    string // debug, info, warn, or error
	LogFormat   string // text or json
	LogDir      string // when set, a timestamped log file is written there too
	LogMaxFiles int    // log files kept in LogDir before the oldest are removed
}

func Load() *Config {
	env := getEnv("INKWELL_ENV", "dev")

	return &Config{
		Environment: env,
		LogLevel:    getEnv("INKWELL_LOG_LEVEL", getDefaultLogLevel(env)),
		LogFormat:   getEnv("INKWELL_LOG_FORMAT", "text"),
		LogDir:      getEnv("INKWELL_LOG_DIR", ""),
		LogMaxFiles: getEnvInt("INKWELL_LOG_MAX_FILES", 10),
	}
}

// getDefaultLogLevel returns the default log level based on environment
func getDefaultLogLevel(env string) string {
	if env == "prod" {
		return "info"
	}
	return "debug" // verbose in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
