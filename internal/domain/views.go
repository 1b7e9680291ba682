package domain

// FullOrder is an order whose lines carry product details where available.
type FullOrder struct {
	Order
}

// FullProduct is a product with the matching supplier record, or null.
type FullProduct struct {
	Product
	SupplierInfo *Supplier `json:"proveedor_info"`
}

// Dashboard metric names, also used in DashboardSummary.Degraded.
const (
	MetricProducts   = "total_productos"
	MetricOrders     = "total_ordenes"
	MetricSuppliers  = "total_proveedores"
	MetricCategories = "total_categorias"
)

// DashboardSummary holds headline counts. A metric whose source failed is
// reported as zero and listed in Degraded.
type DashboardSummary struct {
	TotalProducts   int64    `json:"total_productos"`
	TotalOrders     int64    `json:"total_ordenes"`
	TotalSuppliers  int64    `json:"total_proveedores"`
	TotalCategories int64    `json:"total_categorias"`
	Degraded        []string `json:"degraded,omitempty"`
}

// Health states.
const (
	Healthy   = "healthy"
	Unhealthy = "unhealthy"
)

// ServiceHealth is the result of one health probe.
type ServiceHealth struct {
	Status string `json:"status"`
	Code   int    `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ServicesStatus maps an upstream name to its probe result.
type ServicesStatus map[string]ServiceHealth

// Unhealthy returns the number of unhealthy entries.
func (s ServicesStatus) Unhealthy() int {
	n := 0
	for _, h := range s {
		if h.Status != Healthy {
			n++
		}
	}
	return n
}

// LowStockReport lists products whose stock is below a threshold.
type LowStockReport struct {
	Threshold    int       `json:"stock_minimo"`
	Total        int       `json:"total"`
	Products     []Product `json:"productos"`
	PagesFetched int       `json:"pages_fetched"`
	Truncated    bool      `json:"truncated"`
}

// OrderPage is a page of recent orders.
type OrderPage struct {
	Orders      []Order `json:"ordenes"`
	CurrentPage int     `json:"currentPage"`
	TotalItems  int64   `json:"totalItems"`
	TotalPages  int     `json:"totalPages"`
}

// Report is the output of a named analytic report.
type Report struct {
	Name        string         `json:"nombre"`
	Title       string         `json:"titulo"`
	Description string         `json:"descripcion,omitempty"`
	Parameters  map[string]int `json:"parametros,omitempty"`
	Degraded    bool           `json:"degraded,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	*ResultTable
}

// ReportInfo describes an available report.
type ReportInfo struct {
	Name        string         `json:"nombre"`
	Title       string         `json:"titulo"`
	Description string         `json:"descripcion,omitempty"`
	Parameters  map[string]int `json:"parametros,omitempty"`
}
