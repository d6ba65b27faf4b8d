package config

import "time"

// Config holds runtime settings for the taskpilot CLI.
//
// TokenExpiryThreshold mirrors the server's JWT_EXPIRY_THRESHOLD setting and
// is carried for parity only; the client does not enforce token expiry
// itself, it revalidates through the API. TokenMirrorMaxAge bounds how long
// the stored token mirror satisfies the edge gate.
type Config struct {
	APIBaseURL           string
	DatabaseDSN          string
	RequestTimeout       time.Duration
	TokenMirrorMaxAge    time.Duration
	TokenExpiryThreshold time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api/v1"
	c.DatabaseDSN = "taskpilot.db"
	c.RequestTimeout = 15 * time.Second
	c.TokenMirrorMaxAge = 30 * 24 * time.Hour
	c.TokenExpiryThreshold = 300 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
