package aggregate

import (
	"context"
	"errors"

	"inventory-hub/internal/domain"
)

// DashboardSummary fetches the four headline counts concurrently. A count
// whose source fails is reported as zero and named in Degraded; the call
// itself never fails.
func (a *Aggregator) DashboardSummary(ctx context.Context) *domain.DashboardSummary {
	metrics := []string{
		domain.MetricProducts,
		domain.MetricOrders,
		domain.MetricSuppliers,
		domain.MetricCategories,
	}
	tasks := []task[int64]{
		{source: domain.SourceProducts, fetch: func(ctx context.Context) (*int64, error) {
			page, err := a.products.ListProducts(ctx, domain.PageRequest{Page: 1, Size: 1})
			if err != nil {
				return nil, err
			}
			return &page.Total, nil
		}},
		{source: domain.SourceOrders, fetch: func(ctx context.Context) (*int64, error) {
			page, err := a.orders.ListOrders(ctx, domain.PageRequest{Page: 0, Size: 1})
			if err != nil {
				return nil, err
			}
			return &page.Total, nil
		}},
		{source: domain.SourceSuppliers, fetch: func(ctx context.Context) (*int64, error) {
			page, err := a.suppliers.ListSuppliers(ctx, domain.PageRequest{Page: 1, Size: 1})
			if err != nil {
				return nil, err
			}
			return &page.Total, nil
		}},
		{source: domain.SourceProducts, fetch: func(ctx context.Context) (*int64, error) {
			cats, err := a.products.ListCategories(ctx)
			if err != nil {
				return nil, err
			}
			n := int64(len(cats))
			return &n, nil
		}},
	}

	results := gather(ctx, a.opts.Concurrency, tasks)
	values := make([]int64, len(results))
	summary := &domain.DashboardSummary{}
	for i, res := range results {
		if !res.OK() {
			err := res.Err
			if err == nil {
				err = errors.New("empty response")
			}
			a.notePartial(ctx, "dashboard_summary", res.Source, res.Status, err)
			summary.Degraded = append(summary.Degraded, metrics[i])
			continue
		}
		values[i] = *res.Payload
	}
	summary.TotalProducts = values[0]
	summary.TotalOrders = values[1]
	summary.TotalSuppliers = values[2]
	summary.TotalCategories = values[3]
	return summary
}
