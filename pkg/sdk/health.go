package jokedex

import (
	"context"
	"sort"

	healthuc "github.com/kailas-cloud/jokedex/internal/usecase/health"
)

// HealthStatus is the aggregated health of the client's datasets, database and generators.
type HealthStatus struct {
	Status string            // "ok", "degraded" or "error"
	Checks map[string]string // "datasets", "database", "generator:<name>" → "ok"/"error"
}

// OK reports whether every check passed.
func (h HealthStatus) OK() bool {
	return h.Status == string(healthuc.Healthy)
}

// Failed returns the names of failing checks, sorted.
func (h HealthStatus) Failed() []string {
	var failed []string
	for name, result := range h.Checks {
		if result != string(healthuc.CheckOK) {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// Health runs every check once.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
