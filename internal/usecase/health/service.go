// Package health aggregates component health checks. The store is the only
// component whose failure makes the service unhealthy; AI components only
// degrade it, since search and writes keep working without them.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates AI components are down but core operations work.
	Degraded Status = "degraded"
	// Unhealthy indicates the task store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
	assistant bool
}

// New creates a Service. embedding can be nil; assistantConfigured reports
// whether the chat assistant was wired at startup.
func New(store StorePinger, embedding EmbeddingChecker, assistantConfigured bool) *Service {
	return &Service{store: store, embedding: embedding, assistant: assistantConfigured}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		status = Unhealthy
	} else {
		checks["store"] = CheckOK
	}

	if s.embedding == nil {
		checks["embedding"] = CheckDisabled
	} else if err := s.embedding.HealthCheck(ctx); err != nil {
		checks["embedding"] = CheckError
		if status == Healthy {
			status = Degraded
		}
	} else {
		checks["embedding"] = CheckOK
	}

	if s.assistant {
		checks["assistant"] = CheckOK
	} else {
		checks["assistant"] = CheckDisabled
	}

	return Report{Status: status, Checks: checks}
}
