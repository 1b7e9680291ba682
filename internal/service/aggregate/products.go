package aggregate

import (
	"context"

	"inventory-hub/internal/domain"
)

// DefaultLowStockThreshold is used when no threshold is given.
const DefaultLowStockThreshold = 50

// FullProduct fetches a product and attaches the first supplier whose name
// matches its proveedor field, or null.
func (a *Aggregator) FullProduct(ctx context.Context, productID int64) (*domain.FullProduct, error) {
	if productID <= 0 {
		return nil, domain.ErrValidation("product id must be positive, got %d", productID)
	}
	product, err := a.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, primaryError(err, "product %d not found", productID)
	}

	out := &domain.FullProduct{Product: *product}
	if product.Supplier == "" {
		return out, nil
	}

	name := product.Supplier
	res := capture(ctx, task[domain.Supplier]{
		source: domain.SourceSuppliers,
		fetch: func(ctx context.Context) (*domain.Supplier, error) {
			hits, err := a.suppliers.SearchSuppliers(ctx, name)
			if err != nil || len(hits) == 0 {
				return nil, err
			}
			return &hits[0], nil
		},
	})
	switch {
	case res.OK():
		out.SupplierInfo = res.Payload
	case res.Err != nil:
		a.notePartial(ctx, "full_product", res.Source, res.Status, res.Err)
	}
	return out, nil
}

// LowStockProducts walks the product listing and keeps products with stock
// below threshold. The walk stops at the last reported page or after
// MaxListPages pages; a failure after the first page stops it early. Either
// bound marks the report truncated.
func (a *Aggregator) LowStockProducts(ctx context.Context, threshold int) (*domain.LowStockReport, error) {
	if threshold == 0 {
		threshold = DefaultLowStockThreshold
	}
	if threshold < 0 {
		return nil, domain.ErrValidation("threshold must be positive, got %d", threshold)
	}

	report := &domain.LowStockReport{Threshold: threshold, Products: []domain.Product{}}
	for pageNo := 1; ; pageNo++ {
		if pageNo > a.opts.MaxListPages {
			report.Truncated = true
			break
		}
		page, err := a.products.ListProducts(ctx, domain.PageRequest{Page: pageNo, Size: a.opts.ListPageSize})
		if err != nil {
			if pageNo == 1 {
				return nil, listError("list products", err)
			}
			a.logger.WarnContext(ctx, "low stock walk stopped early", "page", pageNo, "error", err)
			report.Truncated = true
			break
		}
		report.PagesFetched++
		for _, p := range page.Items {
			if p.Stock < threshold {
				report.Products = append(report.Products, p)
			}
		}
		if len(page.Items) == 0 || pageNo >= page.TotalPages {
			break
		}
	}
	report.Total = len(report.Products)
	return report, nil
}
