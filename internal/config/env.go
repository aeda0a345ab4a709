package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with values from a .env file (if present) and the
// process environment. Unset variables leave the current value untouched.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.ServerBaseURL = getEnv("FAREWATCH_SERVER_URL", cfg.ServerBaseURL)
	cfg.LocalStatePath = getEnv("FAREWATCH_STATE_PATH", cfg.LocalStatePath)
	cfg.HomeCountry = getEnv("FAREWATCH_HOME_COUNTRY", cfg.HomeCountry)
	cfg.AwayCountry = getEnv("FAREWATCH_AWAY_COUNTRY", cfg.AwayCountry)
	cfg.EnrichmentConcurrency = getEnvAsInt("FAREWATCH_ENRICHMENT_CONCURRENCY", cfg.EnrichmentConcurrency)
	cfg.Debug = getEnvAsBool("FAREWATCH_DEBUG", cfg.Debug)

	if seconds := getEnvAsInt("FAREWATCH_TIMEOUT_SECONDS", 0); seconds > 0 {
		cfg.RequestTimeout = time.Duration(seconds) * time.Second
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
