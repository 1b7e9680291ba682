package domain

import "context"

// ProductSource reads the products service.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, page PageRequest) (*Page[Product], error)
	ListCategories(ctx context.Context) ([]Category, error)
}

// OrderSource reads the orders service.
type OrderSource interface {
	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context, page PageRequest) (*Page[Order], error)
}

// SupplierSource reads the suppliers service.
type SupplierSource interface {
	SearchSuppliers(ctx context.Context, term string) ([]Supplier, error)
	ListSuppliers(ctx context.Context, page PageRequest) (*Page[Supplier], error)
	ListSuppliersByStatus(ctx context.Context, status string) ([]Supplier, error)
}

// HealthChecker probes one upstream's health endpoint and returns the HTTP
// status it answered with.
type HealthChecker interface {
	Name() string
	CheckHealth(ctx context.Context) (int, error)
}

// QueryEngine executes queries asynchronously. Results returns the header
// row as Rows[0].
type QueryEngine interface {
	Name() string
	// Ready returns an *EngineNotConfiguredError when the engine cannot
	// accept work.
	Ready() error
	Submit(ctx context.Context, req QueryRequest) (string, error)
	Status(ctx context.Context, jobID string) (EngineStatus, error)
	Results(ctx context.Context, jobID string) (*RawResult, error)
	Cancel(ctx context.Context, jobID string) error
}

// ResultPresigner turns a result location into a time-limited download URL.
type ResultPresigner interface {
	PresignResult(ctx context.Context, location string) (string, error)
}
