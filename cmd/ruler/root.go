package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ruler",
	Short: "Ruler - expense rule validation service",
	Long: `Ruler is an expense rule validation service.

It loads a YAML rulebook of expense clauses, validates submitted expense
claims against the clause rule trees, and resolves violations into
human-readable reasons through a standardized reason taxonomy:
  - Recursive rule tree evaluation (required fields, amount limits,
    date checks, formats, frequency limits)
  - Field-qualified reason codes with templated descriptions
  - Hot reload of the rulebook on file changes
  - SQLite or in-memory usage tracking for frequency limits`,
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
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
