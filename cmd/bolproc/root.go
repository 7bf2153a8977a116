package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bolproc",
	Short: "Reconstruct shipment line items from extracted BOL page text",
	Long: `bolproc turns already-extracted Bill of Lading page text into a
normalized table of line items, reconciles per-shipment totals, and merges
the result against a reference spreadsheet keyed by shipment identifier.`,
	SilenceUsage: true,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process-wide slog logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
