package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/jokedex/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "jokedex %s\n", version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
