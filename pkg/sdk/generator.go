package jokedex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// Generator produces jokes on demand. Register one with WithGenerator.
type Generator interface {
	Name() string
	Generate(ctx context.Context) (Joke, error)
}

// generatorAdapter wraps a public Generator to satisfy the internal generator contract.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Name() string { return a.inner.Name() }

func (a *generatorAdapter) Generate(ctx context.Context) (joke.Joke, error) {
	j, err := a.inner.Generate(ctx)
	if err != nil {
		return joke.Joke{}, fmt.Errorf("generate: %w", err)
	}
	return toInternalJoke(&j), nil
}
