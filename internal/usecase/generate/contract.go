package generate

import (
	"context"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// Generator produces a new joke on demand.
type Generator interface {
	Name() string
	Generate(ctx context.Context) (joke.Joke, error)
}

// HealthChecker is implemented by generators backed by a remote provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RandomPicker draws a joke from a named dataset.
type RandomPicker interface {
	Random(ctx context.Context, dataset string) (joke.Joke, error)
}
