package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Set by the linker at release time.
var version = "dev"

const defaultEnvFile = ".env"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// The logger may not be initialized yet.
		os.Stderr.WriteString("picarena: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile  string
	envFile     string
	envRequired bool
	noColor     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "picarena",
		Short: "Rank a folder of pictures through pairwise Elo comparisons.",
		Long: `picarena shows two pictures at a time, asks which one is better and keeps
an Elo leaderboard of the whole folder. Without a subcommand it starts the
HTTP server.`,
		Version:            version,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// An explicitly named env file must exist.
			opts.envRequired = cmd.Flags().Changed("env-file")
			if opts.noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML config file (overrides PICARENA_CONFIG)")
	pf.StringVar(&opts.envFile, "env-file", defaultEnvFile, "dotenv file applied before PICARENA_* variables are read")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(opts),
		newPairCmd(opts),
		newRateCmd(opts),
		newLeaderboardCmd(opts),
		newStatsCmd(opts),
		newResetCmd(opts),
		newSimulateCmd(opts),
	)
	return root
}
