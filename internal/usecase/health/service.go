package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates no datasets are available to query.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckDatasets        = "datasets"
	CheckDatabase        = "database"
	checkGeneratorPrefix = "generator:"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	datasets   DatasetCounter
	db         DBPinger
	generators GeneratorCheckers
}

// New creates a Service. db and generators can be nil.
func New(datasets DatasetCounter, db DBPinger, generators GeneratorCheckers) *Service {
	return &Service{datasets: datasets, db: db, generators: generators}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[CheckDatasets] = result(nil)
	if s.datasets.Len() == 0 {
		checks[CheckDatasets] = CheckError
	}

	if s.db != nil {
		checks[CheckDatabase] = result(s.db.Ping(ctx))
	}

	if s.generators != nil {
		for name, g := range s.generators.HealthCheckers() {
			checks[checkGeneratorPrefix+name] = result(g.HealthCheck(ctx))
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[CheckDatasets] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
