package aggregate

import (
	"context"

	"inventory-hub/internal/domain"
)

// Recent order limits.
const (
	DefaultRecentOrders = 10
	MaxRecentOrders     = 100
)

// FullOrder fetches an order and attaches product details to each line. A
// line whose product lookup fails keeps a null producto_info.
func (a *Aggregator) FullOrder(ctx context.Context, orderID int64) (*domain.FullOrder, error) {
	if orderID <= 0 {
		return nil, domain.ErrValidation("order id must be positive, got %d", orderID)
	}
	order, err := a.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, primaryError(err, "order %d not found", orderID)
	}

	// slots[k] is the index of the line enriched by tasks[k].
	var slots []int
	var tasks []task[domain.Product]
	for i := range order.Lines {
		line := &order.Lines[i]
		line.ProductInfo = nil
		if line.ProductID <= 0 {
			continue
		}
		productID := line.ProductID
		slots = append(slots, i)
		tasks = append(tasks, task[domain.Product]{
			source: domain.SourceProducts,
			fetch: func(ctx context.Context) (*domain.Product, error) {
				return a.products.GetProduct(ctx, productID)
			},
		})
	}

	for k, res := range gather(ctx, a.opts.Concurrency, tasks) {
		if !res.OK() {
			a.notePartial(ctx, "full_order", res.Source, res.Status, res.Err)
			continue
		}
		order.Lines[slots[k]].ProductInfo = res.Payload.Info()
	}
	return &domain.FullOrder{Order: *order}, nil
}

// RecentOrders returns the newest orders. limit 0 means DefaultRecentOrders.
func (a *Aggregator) RecentOrders(ctx context.Context, limit int) (*domain.OrderPage, error) {
	if limit == 0 {
		limit = DefaultRecentOrders
	}
	if limit < 1 || limit > MaxRecentOrders {
		return nil, domain.ErrValidation("limit must be between 1 and %d, got %d", MaxRecentOrders, limit)
	}
	page, err := a.orders.ListOrders(ctx, domain.PageRequest{Page: 0, Size: limit})
	if err != nil {
		return nil, listError("list recent orders", err)
	}
	return &domain.OrderPage{
		Orders:      page.Items,
		CurrentPage: page.CurrentPage,
		TotalItems:  page.Total,
		TotalPages:  page.TotalPages,
	}, nil
}
