package config

import (
	"encoding/json"
	"os"
	"time"

	"taskpilot/internal/flagx"
	"taskpilot/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	DatabaseDSN          string         `json:"database_dsn"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	TokenMirrorMaxAge    timex.Duration `json:"token_mirror_max_age"`
	TokenExpiryThreshold timex.Duration `json:"token_expiry_threshold"`
}

// parseJson overlays Config with values loaded from a JSON file given via
// -c/-config. Missing flag means no JSON is loaded. Read or unmarshal errors
// panic; the caller may recover if desired.
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.TokenMirrorMaxAge.Duration != 0 {
		cfg.TokenMirrorMaxAge = time.Duration(jc.TokenMirrorMaxAge.Duration)
	}
	if jc.TokenExpiryThreshold.Duration != 0 {
		cfg.TokenExpiryThreshold = time.Duration(jc.TokenExpiryThreshold.Duration)
	}
}
