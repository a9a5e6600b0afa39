package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/taskmarket/internal/buildinfo"
	"github.com/dmitrijs2005/taskmarket/internal/client/cli"
	"github.com/dmitrijs2005/taskmarket/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configFlags take a value; they belong to the config loader, which reads
// them from os.Args itself.
var configFlags = map[string]bool{
	"-a": true, "-t": true, "-d": true, "-c": true, "-config": true, "-env": true,
	"--a": true, "--t": true, "--d": true, "--c": true, "--config": true, "--env": true,
}

// positional drops config flags (and their values) from args.
func positional(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			out = append(out, a)
			continue
		}
		if configFlags[a] && i+1 < len(args) {
			i++
		}
	}
	return out
}

func newApp(ctx context.Context) (*cli.App, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cli.NewApp(ctx, cfg)
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskmarket",
		Short: "Share-a-link task marketplace client",
		Long: `taskmarket is a terminal client for the task marketplace.

Without a subcommand it starts an interactive session. Configuration comes
from defaults, a JSON file (-c), TASKMARKET_* environment variables and
the flags -a (API URL), -t (timeout, seconds) and -d (session database).`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if a == "-h" || a == "--help" {
					return cmd.Help()
				}
			}
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			app.Run(cmd.Context())
			return nil
		},
	}

	cmd.AddCommand(
		oneShot("whoami", "Show the logged-in user"),
		oneShot("logout", "Forget the saved session"),
		oneShot("balance", "Show the wallet balance"),
		oneShot("ref <invite link or code>", "Save a referral code for the next signup"),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func oneShot(use, short string) *cobra.Command {
	name := strings.Fields(use)[0]
	return &cobra.Command{
		Use:                use,
		Short:              short,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Exec(cmd.Context(), name, positional(args))
		},
	}
}
