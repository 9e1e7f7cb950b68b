package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagJSON     bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "jokedex",
	Short:         "jokedex: search, rank and sample joke datasets",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `jokedex answers read-only queries over pre-loaded joke datasets.
Datasets come from the source configured in config/<ENV>.yaml
(a directory of JSON/JSONL/YAML files, Redis/Valkey, or SQLite).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Path to a config file (default: config/<ENV>.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"Log level for CLI commands: debug, info, warn, error (default warn)")
}

// Execute is called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
