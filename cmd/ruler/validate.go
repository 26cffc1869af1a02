package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"ruler-hq/ruler/pkg/cli"
	"ruler-hq/ruler/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a ruler configuration file.

The validate command loads the configuration file, applies defaults and
environment overrides, and reports every validation failure it finds:
  - Listen address syntax
  - Usage backend selection
  - Log level and format
  - Metrics path

Examples:
  # Validate the default config file
  ruler validate

  # Validate a specific file
  ruler validate --config /etc/ruler/config.yaml

  # JSON output for CI/CD
  ruler validate --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

type validateResult struct {
	ConfigFile string   `json:"config_file"`
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors,omitempty"`
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	result := validateResult{ConfigFile: cfgFile, Valid: true}

	if err := config.Validate(cfg); err != nil {
		result.Valid = false
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, verr := range verrs {
				result.Errors = append(result.Errors, verr.Error())
			}
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	if validateFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		if err := formatter.FormatTo(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", cfgFile)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s has %d error(s):\n", cfgFile, len(result.Errors))
			for _, msg := range result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", msg)
			}
		}
	}

	if !result.Valid {
		return fmt.Errorf("configuration is invalid")
	}
	return nil
}
