package config

import (
	"encoding/json"
	"os"

	"github.com/farewatch/farewatch/internal/flagx"
	"github.com/farewatch/farewatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations can
// be given as strings like "15s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL         *string         `json:"server_base_url"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	LocalStatePath        *string         `json:"local_state_path"`
	EnrichmentConcurrency *int            `json:"enrichment_concurrency"`
	HomeCountry           *string         `json:"home_country"`
	AwayCountry           *string         `json:"away_country"`
	Debug                 *bool           `json:"debug"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Absent fields leave the current value untouched. Panics on read or
// unmarshal errors; intended usage is defaults -> parseJson -> parseEnv ->
// parseFlags.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LocalStatePath != nil {
		cfg.LocalStatePath = *jc.LocalStatePath
	}
	if jc.EnrichmentConcurrency != nil {
		cfg.EnrichmentConcurrency = *jc.EnrichmentConcurrency
	}
	if jc.HomeCountry != nil {
		cfg.HomeCountry = *jc.HomeCountry
	}
	if jc.AwayCountry != nil {
		cfg.AwayCountry = *jc.AwayCountry
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
