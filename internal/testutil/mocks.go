// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync/atomic"

	"inventory-hub/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.ProductSource   = (*MockProductSource)(nil)
	_ domain.OrderSource     = (*MockOrderSource)(nil)
	_ domain.SupplierSource  = (*MockSupplierSource)(nil)
	_ domain.HealthChecker   = (*MockHealthChecker)(nil)
	_ domain.QueryEngine     = (*MockQueryEngine)(nil)
	_ domain.ResultPresigner = (*MockPresigner)(nil)
)

// === Products ===

// MockProductSource implements domain.ProductSource for testing. The Fn
// fields may be called concurrently; the counters are safe to read after the
// call under test returns.
type MockProductSource struct {
	GetProductFn     func(ctx context.Context, id int64) (*domain.Product, error)
	ListProductsFn   func(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Product], error)
	ListCategoriesFn func(ctx context.Context) ([]domain.Category, error)

	GetProductCalls   atomic.Int64
	ListProductsCalls atomic.Int64
}

// GetProduct implements the interface method for testing.
func (m *MockProductSource) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.GetProductCalls.Add(1)
	if m.GetProductFn != nil {
		return m.GetProductFn(ctx, id)
	}
	panic("unexpected call to MockProductSource.GetProduct")
}

// ListProducts implements the interface method for testing.
func (m *MockProductSource) ListProducts(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Product], error) {
	m.ListProductsCalls.Add(1)
	if m.ListProductsFn != nil {
		return m.ListProductsFn(ctx, page)
	}
	panic("unexpected call to MockProductSource.ListProducts")
}

// ListCategories implements the interface method for testing.
func (m *MockProductSource) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx)
	}
	panic("unexpected call to MockProductSource.ListCategories")
}

// === Orders ===

// MockOrderSource implements domain.OrderSource for testing.
type MockOrderSource struct {
	GetOrderFn   func(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersFn func(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Order], error)
}

// GetOrder implements the interface method for testing.
func (m *MockOrderSource) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if m.GetOrderFn != nil {
		return m.GetOrderFn(ctx, id)
	}
	panic("unexpected call to MockOrderSource.GetOrder")
}

// ListOrders implements the interface method for testing.
func (m *MockOrderSource) ListOrders(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Order], error) {
	if m.ListOrdersFn != nil {
		return m.ListOrdersFn(ctx, page)
	}
	panic("unexpected call to MockOrderSource.ListOrders")
}

// === Suppliers ===

// MockSupplierSource implements domain.SupplierSource for testing.
type MockSupplierSource struct {
	SearchSuppliersFn       func(ctx context.Context, term string) ([]domain.Supplier, error)
	ListSuppliersFn         func(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Supplier], error)
	ListSuppliersByStatusFn func(ctx context.Context, status string) ([]domain.Supplier, error)

	SearchCalls atomic.Int64
}

// SearchSuppliers implements the interface method for testing.
func (m *MockSupplierSource) SearchSuppliers(ctx context.Context, term string) ([]domain.Supplier, error) {
	m.SearchCalls.Add(1)
	if m.SearchSuppliersFn != nil {
		return m.SearchSuppliersFn(ctx, term)
	}
	panic("unexpected call to MockSupplierSource.SearchSuppliers")
}

// ListSuppliers implements the interface method for testing.
func (m *MockSupplierSource) ListSuppliers(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Supplier], error) {
	if m.ListSuppliersFn != nil {
		return m.ListSuppliersFn(ctx, page)
	}
	panic("unexpected call to MockSupplierSource.ListSuppliers")
}

// ListSuppliersByStatus implements the interface method for testing.
func (m *MockSupplierSource) ListSuppliersByStatus(ctx context.Context, status string) ([]domain.Supplier, error) {
	if m.ListSuppliersByStatusFn != nil {
		return m.ListSuppliersByStatusFn(ctx, status)
	}
	panic("unexpected call to MockSupplierSource.ListSuppliersByStatus")
}

// === Health ===

// MockHealthChecker implements domain.HealthChecker for testing.
type MockHealthChecker struct {
	NameValue     string
	CheckHealthFn func(ctx context.Context) (int, error)
}

// Name implements the interface method for testing.
func (m *MockHealthChecker) Name() string { return m.NameValue }

// CheckHealth implements the interface method for testing.
func (m *MockHealthChecker) CheckHealth(ctx context.Context) (int, error) {
	if m.CheckHealthFn != nil {
		return m.CheckHealthFn(ctx)
	}
	panic("unexpected call to MockHealthChecker.CheckHealth")
}

// === Query Engine ===

// MockQueryEngine implements domain.QueryEngine for testing. A nil ReadyFn
// means the engine is ready.
type MockQueryEngine struct {
	NameValue string
	ReadyFn   func() error
	SubmitFn  func(ctx context.Context, req domain.QueryRequest) (string, error)
	StatusFn  func(ctx context.Context, jobID string) (domain.EngineStatus, error)
	ResultsFn func(ctx context.Context, jobID string) (*domain.RawResult, error)
	CancelFn  func(ctx context.Context, jobID string) error

	SubmitCalls atomic.Int64
	StatusCalls atomic.Int64
	CancelCalls atomic.Int64
}

// Name implements the interface method for testing.
func (m *MockQueryEngine) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Ready implements the interface method for testing.
func (m *MockQueryEngine) Ready() error {
	if m.ReadyFn != nil {
		return m.ReadyFn()
	}
	return nil
}

// Submit implements the interface method for testing.
func (m *MockQueryEngine) Submit(ctx context.Context, req domain.QueryRequest) (string, error) {
	m.SubmitCalls.Add(1)
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, req)
	}
	panic("unexpected call to MockQueryEngine.Submit")
}

// Status implements the interface method for testing.
func (m *MockQueryEngine) Status(ctx context.Context, jobID string) (domain.EngineStatus, error) {
	m.StatusCalls.Add(1)
	if m.StatusFn != nil {
		return m.StatusFn(ctx, jobID)
	}
	panic("unexpected call to MockQueryEngine.Status")
}

// Results implements the interface method for testing.
func (m *MockQueryEngine) Results(ctx context.Context, jobID string) (*domain.RawResult, error) {
	if m.ResultsFn != nil {
		return m.ResultsFn(ctx, jobID)
	}
	panic("unexpected call to MockQueryEngine.Results")
}

// Cancel implements the interface method for testing.
func (m *MockQueryEngine) Cancel(ctx context.Context, jobID string) error {
	m.CancelCalls.Add(1)
	if m.CancelFn != nil {
		return m.CancelFn(ctx, jobID)
	}
	return nil
}

// === Presigner ===

// MockPresigner implements domain.ResultPresigner for testing.
type MockPresigner struct {
	PresignResultFn func(ctx context.Context, location string) (string, error)
}

// PresignResult implements the interface method for testing.
func (m *MockPresigner) PresignResult(ctx context.Context, location string) (string, error) {
	if m.PresignResultFn != nil {
		return m.PresignResultFn(ctx, location)
	}
	panic("unexpected call to MockPresigner.PresignResult")
}

// === Fixtures ===

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Table builds a RawResult whose first row is the header.
func Table(columns []string, rows ...[]*string) *domain.RawResult {
	header := make([]*string, len(columns))
	for i := range columns {
		header[i] = Str(columns[i])
	}
	return &domain.RawResult{
		Columns: append([]string(nil), columns...),
		Rows:    append([][]*string{header}, rows...),
	}
}
