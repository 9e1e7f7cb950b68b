package query

import "github.com/kailas-cloud/jokedex/internal/domain/joke"

// DatasetReader is the read-only view of the loaded datasets.
type DatasetReader interface {
	Names() []string
	Jokes(name string) ([]joke.Joke, bool)
}
