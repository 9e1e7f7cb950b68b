// Package generate holds the explicitly registered joke generators.
package generate

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	"github.com/kailas-cloud/jokedex/internal/logger"
	"github.com/kailas-cloud/jokedex/internal/metrics"
)

// Registry maps generator names to generators. Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds g under g.Name().
func (r *Registry) Register(g Generator) error {
	name := g.Name()
	if name == "" {
		return fmt.Errorf("%w: generator name is required", domain.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.generators[name]; ok {
		return fmt.Errorf("generator %q: %w", name, domain.ErrAlreadyExists)
	}
	r.generators[name] = g
	return nil
}

// Names returns the registered generator names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the generator registered under name.
func (r *Registry) Get(name string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[name]
	return g, ok
}

// Generate runs the named generator.
func (r *Registry) Generate(ctx context.Context, name string) (joke.Joke, error) {
	g, ok := r.Get(name)
	if !ok {
		return joke.Joke{}, fmt.Errorf("generator %q: %w", name, domain.ErrNotFound)
	}

	j, err := g.Generate(ctx)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues(name, "error").Inc()
		logger.FromContext(ctx).Warn("joke generation failed",
			zap.String("generator", name), zap.Error(err))
		return joke.Joke{}, err
	}

	metrics.GenerationsTotal.WithLabelValues(name, "success").Inc()
	logger.FromContext(ctx).Debug("joke generated",
		zap.String("generator", name), zap.String("id", j.ID()))
	return j, nil
}

// HealthCheckers returns the registered generators that can report their health, keyed by name.
func (r *Registry) HealthCheckers() map[string]HealthChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]HealthChecker)
	for name, g := range r.generators {
		if hc, ok := g.(HealthChecker); ok {
			out[name] = hc
		}
	}
	return out
}
