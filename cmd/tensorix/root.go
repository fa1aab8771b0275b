package main

import (
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/tensorix/pkg/cli"
	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/notation/parser"
	"mercator-hq/tensorix/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string

	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tensorix",
	Short: "Tensorix - index notation for tensors",
	Long: `Tensorix interprets index notation such as "^(ij)_k" or "i_i" on tensors.

A notation names the upper and lower indices of a tensor. Parentheses
symmetrize, square brackets antisymmetrize, a letter repeated upper and
lower is summed over, and "." marks an index that takes part in nothing.

Scenario suites (YAML) declare tensors and checks; "tensorix check" runs
them and "tensorix watch" re-runs them on change.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(cfgFile); err != nil {
			return cli.NewCommandError(cmd.Name(), err)
		}
		cfg := config.GetConfig()

		logCfg := logging.FromConfig(cfg.Telemetry.Logging, os.Stderr)
		if verbose {
			logCfg.Level = "debug"
		}
		if logFormat != "" {
			logCfg.Format = logFormat
		}
		l, err := logging.New(logCfg)
		if err != nil {
			return cli.NewConfigError("telemetry.logging", err.Error())
		}
		logger = l
		logger.SetDefault()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tensorix.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json, text, console")
}

// notationParser returns the parser configured by the notation section.
func notationParser(cfg *config.Config) *parser.Parser {
	return parser.NewParser().WithMaxLength(cfg.Notation.MaxLength)
}
