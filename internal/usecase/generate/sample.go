package generate

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// SampleName is the registry name of the sample generator.
const SampleName = "sample"

// Sample "generates" a joke by drawing one at random from the loaded datasets.
type Sample struct {
	picker   RandomPicker
	datasets []string
	intn     func(n int) int
}

// NewSample creates a sample generator over the given datasets.
func NewSample(picker RandomPicker, datasets []string) (*Sample, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("%w: sample generator needs at least one dataset", domain.ErrInvalidArgument)
	}
	return &Sample{
		picker:   picker,
		datasets: append([]string(nil), datasets...),
		intn:     rand.IntN,
	}, nil
}

// WithRand replaces the random source used to pick a dataset.
func (s *Sample) WithRand(r *rand.Rand) *Sample {
	s.intn = r.IntN
	return s
}

// Name implements Generator.
func (s *Sample) Name() string { return SampleName }

// Generate picks a dataset, then a joke from it.
func (s *Sample) Generate(ctx context.Context) (joke.Joke, error) {
	name := s.datasets[s.intn(len(s.datasets))]
	j, err := s.picker.Random(ctx, name)
	if err != nil {
		return joke.Joke{}, fmt.Errorf("sample from %s: %w", name, err)
	}
	return j, nil
}
