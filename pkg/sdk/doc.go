// Package jokedex embeds the joke query service in a Go program.
//
// Datasets are loaded once from a directory of JSON, JSONL or YAML files,
// from Redis/Valkey lists, or from a SQLite table, and are read-only afterwards.
//
//	client, err := jokedex.New(ctx, jokedex.WithDirectory("data"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	hits, _ := client.Search(ctx, "chicken")
//	top, _ := client.Top(ctx, "reddit_jokes", 5)
//	j, _ := client.Random(ctx, "wocka")
//
// Searches cover every dataset unless restricted with [InDatasets].
// Operations that order or filter by score fail with [ErrMissingScore]
// when they meet an unscored joke.
package jokedex
