package nearby

import (
	"context"
	"sort"

	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
	"github.com/kailas-cloud/nearby/internal/version"
)

// HealthStatus is the aggregated state of the search index and the catalog.
type HealthStatus struct {
	Status  string            // "ok", "degraded" or "error"
	Version string            // build of the embedded library
	Checks  map[string]string // component ("index", "catalog") -> "ok" or "error"
}

// Healthy reports whether every component answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Failing lists the components whose check failed, sorted.
func (h HealthStatus) Failing() []string {
	var out []string
	for name, st := range h.Checks {
		if st != string(healthuc.CheckOK) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Health pings the projection store and the catalog.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	h := HealthStatus{
		Status:  string(report.Status),
		Version: version.Get().Short(),
		Checks:  make(map[string]string, len(report.Checks)),
	}
	for k, v := range report.Checks {
		h.Checks[k] = string(v)
	}
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
