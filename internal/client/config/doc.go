// Package config loads runtime configuration for the recognize CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. RECOGNIZE_* environment variables, with an optional .env file in the
//     working directory loaded through godotenv.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL (e.g. http://127.0.0.1:8080/api)
//	-i int      session poll interval (seconds)
//	-t int      request timeout (seconds)
//	-s string   identity store file; empty keeps identities in memory
//	-l string   log level
//	-o string   vote page origin used in invitation links
//
// Environment
//
//	RECOGNIZE_SERVER_URL, RECOGNIZE_POLL_INTERVAL ("4s"),
//	RECOGNIZE_REQUEST_TIMEOUT ("10s"), RECOGNIZE_STORE_PATH,
//	RECOGNIZE_LOG_LEVEL, RECOGNIZE_VOTE_ORIGIN
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "4s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080/api",
//	  "poll_interval": "4s",
//	  "request_timeout": "10s",
//	  "store_path": "recognize.db",
//	  "log_level": "info",
//	  "vote_origin": "http://127.0.0.1:8080"
//	}
package config
