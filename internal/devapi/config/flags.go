package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskmarket/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:8080")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-o string   accepted OTP code
//	-m int      minimum withdrawal, rupees
//
// Durations are taken as integer minutes and only applied when -t is given.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagx.AllowedNames("a", "s", "t", "o", "m"))

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")
	fs.StringVar(&config.OTPCode, "o", config.OTPCode, "OTP code accepted for every identifier")
	fs.Int64Var(&config.MinWithdrawal, "m", config.MinWithdrawal, "minimum withdrawal (in rupees)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}
