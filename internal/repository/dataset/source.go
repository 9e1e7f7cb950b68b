// Package dataset loads joke datasets from their vendored locations into an
// immutable domain store.
package dataset

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domds "github.com/kailas-cloud/jokedex/internal/domain/dataset"
	"github.com/kailas-cloud/jokedex/internal/logger"
	"github.com/kailas-cloud/jokedex/internal/metrics"
)

// Source reads every dataset it holds, in a stable order.
type Source interface {
	Read(ctx context.Context) ([]domds.Dataset, error)
}

// Writer stores a dataset, replacing any previous copy of it.
type Writer interface {
	Write(ctx context.Context, d *domds.Dataset) error
}

// Copy writes every dataset of src to dst in source order and returns the number of jokes copied.
func Copy(ctx context.Context, src Source, dst Writer) (int, error) {
	sets, err := src.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("read datasets: %w", err)
	}

	log := logger.FromContext(ctx)
	total := 0
	for i := range sets {
		if err := dst.Write(ctx, &sets[i]); err != nil {
			return total, fmt.Errorf("copy dataset %s: %w", sets[i].Name(), err)
		}
		total += sets[i].Len()
		log.Info("Dataset copied",
			zap.String("dataset", sets[i].Name()),
			zap.Int("jokes", sets[i].Len()),
		)
	}
	return total, nil
}

// Load reads a source once and freezes the result into a store.
func Load(ctx context.Context, src Source) (*domds.Store, error) {
	sets, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read datasets: %w", err)
	}

	store, err := domds.NewStore(sets...)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}

	log := logger.FromContext(ctx)
	total := 0
	for i := range sets {
		total += sets[i].Len()
		metrics.DatasetJokes.WithLabelValues(sets[i].Name()).Set(float64(sets[i].Len()))
		log.Info("Dataset loaded",
			zap.String("dataset", sets[i].Name()),
			zap.Int("jokes", sets[i].Len()),
		)
	}
	log.Info("Datasets ready", zap.Int("datasets", store.Len()), zap.Int("jokes", total))

	return store, nil
}
