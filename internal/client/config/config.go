package config

import "time"

// Config holds runtime settings for the recognize CLI.
//
// Fields:
//   - ServerURL: base URL of the backend REST API, including the /api prefix.
//   - PollInterval: how often the watcher re-fetches the session.
//   - RequestTimeout: per-request HTTP timeout.
//   - StorePath: SQLite file for the participant identity; empty keeps it in memory.
//   - LogLevel: debug, info, warn or error.
//   - VoteOrigin: public address of the vote page, used to build invitation links.
type Config struct {
	ServerURL      string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	StorePath      string
	LogLevel       string
	VoteOrigin     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api"
	c.PollInterval = 4 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.StorePath = "recognize.db"
	c.LogLevel = "info"
	c.VoteOrigin = "http://127.0.0.1:8080"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), JSON (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, dotEnvFile)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
