// Package aggregate builds consolidated views across the products, orders
// and suppliers services. A failed primary fetch fails the request; a failed
// enrichment call degrades only its own slot of the response.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/observability"
)

// Options bounds the work one aggregation may do.
type Options struct {
	Concurrency  int // max in-flight enrichment calls per request (default 8)
	MaxListPages int // hard bound on pages walked by a bulk fetch (default 10)
	ListPageSize int // page size for bulk fetches (default 100)
	Logger       *slog.Logger
}

// Aggregator composes the upstream sources. It keeps no per-request state
// and is safe for concurrent use.
type Aggregator struct {
	products  domain.ProductSource
	orders    domain.OrderSource
	suppliers domain.SupplierSource
	checkers  []domain.HealthChecker
	opts      Options
	logger    *slog.Logger
}

// New creates an Aggregator. checkers are probed by ServicesStatus.
func New(products domain.ProductSource, orders domain.OrderSource, suppliers domain.SupplierSource, checkers []domain.HealthChecker, opts Options) *Aggregator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.MaxListPages <= 0 {
		opts.MaxListPages = 10
	}
	if opts.ListPageSize <= 0 {
		opts.ListPageSize = 100
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		products:  products,
		orders:    orders,
		suppliers: suppliers,
		checkers:  checkers,
		opts:      opts,
		logger:    logger,
	}
}

// primaryError maps a failed primary fetch: an upstream that answered with a
// non-2xx status means the entity is not available (404); an upstream that
// never answered stays an *domain.UpstreamError.
func primaryError(err error, format string, args ...any) error {
	var up *domain.UpstreamError
	if errors.As(err, &up) && up.Responded() {
		return domain.ErrNotFound(format, args...)
	}
	return err
}

// listError wraps a failed list or count fetch.
func listError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func (a *Aggregator) notePartial(ctx context.Context, op string, source domain.Source, status domain.PartialStatus, err error) {
	observability.PartialFailuresTotal.WithLabelValues(op, string(source)).Inc()
	a.logger.WarnContext(ctx, "enrichment degraded",
		"operation", op,
		"source", string(source),
		"status", string(status),
		"error", err,
	)
}
