package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

const (
	envServerURL      = "RECOGNIZE_SERVER_URL"
	envPollInterval   = "RECOGNIZE_POLL_INTERVAL"
	envRequestTimeout = "RECOGNIZE_REQUEST_TIMEOUT"
	envStorePath      = "RECOGNIZE_STORE_PATH"
	envLogLevel       = "RECOGNIZE_LOG_LEVEL"
	envVoteOrigin     = "RECOGNIZE_VOTE_ORIGIN"
)

// parseEnv overlays Config with RECOGNIZE_* environment variables. The file
// at envFile is loaded first; variables already set in the process win over
// the file. A missing file is not an error.
//
// Durations use time.ParseDuration syntax ("4s", "1m"). An empty
// RECOGNIZE_STORE_PATH selects the in-memory store.
//
// Panics on an unreadable file or an invalid or non-positive duration,
// like parseJson.
func parseEnv(cfg *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if v := os.Getenv(envServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(envPollInterval); v != "" {
		cfg.PollInterval = mustDuration(envPollInterval, v)
	}
	if v := os.Getenv(envRequestTimeout); v != "" {
		cfg.RequestTimeout = mustDuration(envRequestTimeout, v)
	}
	if v, ok := os.LookupEnv(envStorePath); ok {
		cfg.StorePath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envVoteOrigin); v != "" {
		cfg.VoteOrigin = v
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	if d <= 0 {
		panic(name + ": must be positive, got " + v)
	}
	return d
}
