package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskmarket/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend API base URL
//	-t int      request timeout in seconds
//	-d string   session database path
//
// os.Args is filtered first so that flags owned by other components do not
// break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagx.AllowedNames("a", "t", "d"))

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "session database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only counts when given; sub-second values from JSON or env survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
