package aggregate

import (
	"context"
	"net/http"

	"inventory-hub/internal/domain"
)

// ServicesStatus probes every upstream concurrently. It always returns one
// entry per upstream, however many are down.
func (a *Aggregator) ServicesStatus(ctx context.Context) domain.ServicesStatus {
	tasks := make([]task[domain.ServiceHealth], len(a.checkers))
	for i, c := range a.checkers {
		checker := c
		tasks[i] = task[domain.ServiceHealth]{
			source: domain.Source(checker.Name()),
			fetch: func(ctx context.Context) (*domain.ServiceHealth, error) {
				return probe(ctx, checker), nil
			},
		}
	}

	status := make(domain.ServicesStatus, len(a.checkers))
	for i, res := range gather(ctx, len(tasks), tasks) {
		status[a.checkers[i].Name()] = *res.Payload
	}
	return status
}

func probe(ctx context.Context, c domain.HealthChecker) *domain.ServiceHealth {
	code, err := c.CheckHealth(ctx)
	switch {
	case err == nil && code >= http.StatusOK && code < http.StatusMultipleChoices:
		return &domain.ServiceHealth{Status: domain.Healthy, Code: code}
	case err != nil:
		return &domain.ServiceHealth{Status: domain.Unhealthy, Code: code, Error: err.Error()}
	default:
		return &domain.ServiceHealth{Status: domain.Unhealthy, Code: code}
	}
}
