package commands

import (
	"bbm-backend/internal/telemetry"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool

	// config is loaded before any subcommand runs.
	config Config
)

var rootCmd = &cobra.Command{
	Use:   "bbm",
	Short: "bbm aggregates Indonesian fuel prices from every retailer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if *verbose {
			loaded.Verbose = true
		}
		config = loaded
		telemetry.InitSlog(config.Verbose)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file to read, a missing file uses the defaults.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
