package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lectern-hq/polaris/pkg/config"
	"lectern-hq/polaris/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "polaris",
	Short: "Polaris - multi-vendor LLM credential pool",
	Long: `Polaris pools LLM API credentials across vendors so that concurrent
content-generation workers share them safely:

  - Per-credential token bucket rate limiting
  - Per-credential circuit breaking with permanent retirement on auth failures
  - Weighted rotation with transparent failover between credentials
  - Scheduled pool health reporting`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "polaris.yaml", "runtime config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadRuntime loads the runtime config and builds the logger the
// subcommands share.
func loadRuntime() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log := logging.New(level, cfg.Logging.Format)
	slog.SetDefault(log)

	return cfg, log, nil
}
