package api

import (
	"context"

	"inventory-hub/internal/domain"
)

type mockViews struct {
	servicesStatusFn   func(ctx context.Context) domain.ServicesStatus
	fullOrderFn        func(ctx context.Context, id int64) (*domain.FullOrder, error)
	recentOrdersFn     func(ctx context.Context, limit int) (*domain.OrderPage, error)
	fullProductFn      func(ctx context.Context, id int64) (*domain.FullProduct, error)
	lowStockFn         func(ctx context.Context, threshold int) (*domain.LowStockReport, error)
	activeSuppliersFn  func(ctx context.Context) ([]domain.Supplier, error)
	dashboardSummaryFn func(ctx context.Context) *domain.DashboardSummary
}

func (m *mockViews) ServicesStatus(ctx context.Context) domain.ServicesStatus {
	if m.servicesStatusFn == nil {
		panic("mockViews.ServicesStatus called but not configured")
	}
	return m.servicesStatusFn(ctx)
}

func (m *mockViews) FullOrder(ctx context.Context, id int64) (*domain.FullOrder, error) {
	if m.fullOrderFn == nil {
		panic("mockViews.FullOrder called but not configured")
	}
	return m.fullOrderFn(ctx, id)
}

func (m *mockViews) RecentOrders(ctx context.Context, limit int) (*domain.OrderPage, error) {
	if m.recentOrdersFn == nil {
		panic("mockViews.RecentOrders called but not configured")
	}
	return m.recentOrdersFn(ctx, limit)
}

func (m *mockViews) FullProduct(ctx context.Context, id int64) (*domain.FullProduct, error) {
	if m.fullProductFn == nil {
		panic("mockViews.FullProduct called but not configured")
	}
	return m.fullProductFn(ctx, id)
}

func (m *mockViews) LowStockProducts(ctx context.Context, threshold int) (*domain.LowStockReport, error) {
	if m.lowStockFn == nil {
		panic("mockViews.LowStockProducts called but not configured")
	}
	return m.lowStockFn(ctx, threshold)
}

func (m *mockViews) ActiveSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	if m.activeSuppliersFn == nil {
		panic("mockViews.ActiveSuppliers called but not configured")
	}
	return m.activeSuppliersFn(ctx)
}

func (m *mockViews) DashboardSummary(ctx context.Context) *domain.DashboardSummary {
	if m.dashboardSummaryFn == nil {
		panic("mockViews.DashboardSummary called but not configured")
	}
	return m.dashboardSummaryFn(ctx)
}

type mockReports struct {
	listFn   func() []domain.ReportInfo
	runFn    func(ctx context.Context, name string, params map[string]int) (*domain.Report, error)
	customFn func(ctx context.Context, req domain.QueryRequest) (*domain.ResultTable, error)
}

func (m *mockReports) List() []domain.ReportInfo {
	if m.listFn == nil {
		panic("mockReports.List called but not configured")
	}
	return m.listFn()
}

func (m *mockReports) Run(ctx context.Context, name string, params map[string]int) (*domain.Report, error) {
	if m.runFn == nil {
		panic("mockReports.Run called but not configured")
	}
	return m.runFn(ctx, name, params)
}

func (m *mockReports) Custom(ctx context.Context, req domain.QueryRequest) (*domain.ResultTable, error) {
	if m.customFn == nil {
		panic("mockReports.Custom called but not configured")
	}
	return m.customFn(ctx, req)
}

type fixedEngine struct {
	name       string
	configured bool
}

func (e fixedEngine) EngineName() string { return e.name }
func (e fixedEngine) Configured() bool   { return e.configured }
