package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	queryuc "github.com/kailas-cloud/jokedex/internal/usecase/query"
)

var (
	flagSearchDatasets []string
	flagMinScore       int
	flagTopN           int
	flagAscending      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Find jokes whose body contains a keyword",
	Long: `Search every dataset (or those given with --dataset) for jokes whose body
contains the keyword, ignoring case. With --min-score only jokes scoring at
least that value are returned; unscored matches make the query fail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app, w io.Writer) error {
			var datasets []string
			if cmd.Flags().Changed("dataset") {
				datasets = flagSearchDatasets
				if datasets == nil {
					datasets = []string{}
				}
			}

			var (
				res map[string][]joke.Joke
				err error
			)
			if cmd.Flags().Changed("min-score") {
				res, err = a.query.SearchWithMinScore(ctx, args[0], flagMinScore, datasets)
			} else {
				res, err = a.query.Search(ctx, args[0], datasets)
			}
			if err != nil {
				return err
			}
			if flagJSON {
				grouped := make(map[string][]jokeOutput, len(res))
				for name, jokes := range res {
					grouped[name] = toOutputs(jokes)
				}
				return writeJSON(w, grouped)
			}
			order := uniqueNames(datasets)
			if datasets == nil {
				order = a.store.Names()
			}
			printGrouped(w, order, res)
			return nil
		})
	},
}

// uniqueNames drops repeated dataset names, keeping first occurrences in order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

var topCmd = &cobra.Command{
	Use:   "top <dataset>",
	Short: "Show the highest scoring jokes of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app, w io.Writer) error {
			n := a.topN()
			if cmd.Flags().Changed("limit") {
				n = flagTopN
			}
			jokes, err := a.query.Top(ctx, args[0], n)
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSON(w, toOutputs(jokes))
			}
			printJokes(w, jokes)
			return nil
		})
	},
}

var randomCmd = &cobra.Command{
	Use:   "random <dataset>",
	Short: "Show a random joke from a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app, w io.Writer) error {
			j, err := a.query.Random(ctx, args[0])
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSON(w, toOutput(&j))
			}
			printJoke(w, &j)
			return nil
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count jokes per dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app, w io.Writer) error {
			counts := a.query.CountByDataset(ctx)
			if flagJSON {
				return writeJSON(w, counts)
			}
			printCounts(w, a.store.Names(), counts)
			return nil
		})
	},
}

var sortedCmd = &cobra.Command{
	Use:   "sorted",
	Short: "List every joke sorted by score",
	Long:  "List the jokes of all datasets sorted by score, highest first unless --asc is given.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app, w io.Writer) error {
			jokes, err := a.query.AllSortedByScore(ctx, !flagAscending)
			if err != nil {
				return err
			}
			if flagJSON {
				return writeJSON(w, toOutputs(jokes))
			}
			printJokes(w, jokes)
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().StringSliceVarP(&flagSearchDatasets, "dataset", "d", nil,
		"Restrict the search to these datasets (repeatable)")
	searchCmd.Flags().IntVar(&flagMinScore, "min-score", 0, "Only return jokes with at least this score")
	topCmd.Flags().IntVarP(&flagTopN, "limit", "n", queryuc.DefaultTopN, "Number of jokes to show")
	sortedCmd.Flags().BoolVar(&flagAscending, "asc", false, "Sort lowest score first")

	rootCmd.AddCommand(searchCmd, topCmd, randomCmd, countCmd, sortedCmd)
}
