package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/recognize/internal/flagx"
	"github.com/dmitrijs2005/recognize/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "4s" or as integer nanoseconds. StorePath is a pointer so an
// explicit "" (in-memory store) differs from an absent key.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	PollInterval   timex.Duration `json:"poll_interval"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StorePath      *string        `json:"store_path"`
	LogLevel       string         `json:"log_level"`
	VoteOrigin     string         `json:"vote_origin"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c or -config. Keys missing from the file keep their current values.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.PollInterval.Duration > 0 {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StorePath != nil {
		cfg.StorePath = *jc.StorePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.VoteOrigin != "" {
		cfg.VoteOrigin = jc.VoteOrigin
	}
}
