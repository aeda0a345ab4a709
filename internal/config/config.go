// Package config loads runtime settings for the farewatch CLI.
//
// Sources are overlaid in order: defaults, JSON file (-c/-config), .env and
// environment variables, command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the farewatch CLI.
//
// HomeCountry and AwayCountry are the two airport groups the search session
// builds routes between (the tracked corridor; defaults follow the backend's
// TN⇄DE deployment).
type Config struct {
	ServerBaseURL         string
	RequestTimeout        time.Duration
	LocalStatePath        string
	EnrichmentConcurrency int
	HomeCountry           string
	AwayCountry           string
	Debug                 bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.LocalStatePath = "farewatch.db"
	c.EnrichmentConcurrency = 8
	c.HomeCountry = "TN"
	c.AwayCountry = "DE"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
