package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/recognize/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-i int      session poll interval in seconds
//	-t int      request timeout in seconds
//	-s string   identity store file, "" for in-memory
//	-l string   log level
//	-o string   public vote page origin for invitation links
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so -c/-config never reach this FlagSet.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-s", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "backend API base URL")
	pollInterval := fs.Int("i", int(cfg.PollInterval.Seconds()), "session poll interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "identity store file, empty for in-memory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.VoteOrigin, "o", cfg.VoteOrigin, "vote page origin for invitation links")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Whole seconds only replace a duration when the flag was given, so
	// sub-second values from earlier sources survive. Zero would disable the
	// timeout or spin the watcher, so both must be positive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.PollInterval = mustPositiveSeconds("-i", *pollInterval)
		case "t":
			cfg.RequestTimeout = mustPositiveSeconds("-t", *requestTimeout)
		}
	})
}

func mustPositiveSeconds(name string, n int) time.Duration {
	if n <= 0 {
		panic(fmt.Sprintf("%s: must be a positive number of seconds, got %d", name, n))
	}
	return time.Duration(n) * time.Second
}
