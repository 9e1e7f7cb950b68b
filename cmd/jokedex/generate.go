package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [generator]",
	Short: "Produce a joke with a registered generator",
	Long: `Produce a joke with one of the generators enabled in the config file.
Without an argument the registered generator names are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app, w io.Writer) error {
			if len(args) == 0 {
				names := a.generators.Names()
				if flagJSON {
					return writeJSON(w, names)
				}
				for _, name := range names {
					fmt.Fprintln(w, datasetStyle(name))
				}
				return nil
			}

			j, err := a.generators.Generate(ctx, args[0])
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSON(w, struct {
					Generator string     `json:"generator"`
					Joke      jokeOutput `json:"joke"`
				}{args[0], toOutput(&j)})
			}
			printJoke(w, &j)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
