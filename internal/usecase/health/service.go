package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
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

// Component names in Report.Checks.
const (
	ComponentIndex   = "index"
	ComponentCatalog = "catalog"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 2 * time.Second

// Service probes the index store and the catalog.
type Service struct {
	components map[string]Pinger
	timeout    time.Duration
}

// New creates a Service. catalog can be nil (search-only deployments).
func New(index, catalog Pinger) *Service {
	s := &Service{
		components: map[string]Pinger{ComponentIndex: index},
		timeout:    DefaultCheckTimeout,
	}
	if catalog != nil {
		s.components[ComponentCatalog] = catalog
	}
	return s
}

// WithTimeout overrides the per-component probe timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check probes all components concurrently. The report is Unhealthy only
// when every component fails.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.components))
		failed int
	)
	for name, p := range s.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := s.probe(ctx, p)
			mu.Lock()
			checks[name] = res
			if res == CheckError {
				failed++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
