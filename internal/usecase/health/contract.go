package health

import (
	"context"

	"github.com/kailas-cloud/jokedex/internal/usecase/generate"
)

// DatasetCounter reports how many datasets are loaded.
type DatasetCounter interface {
	Len() int
}

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// GeneratorCheckers lists the generators that can report their health.
type GeneratorCheckers interface {
	HealthCheckers() map[string]generate.HealthChecker
}
