package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"inventory-hub/internal/domain"
)

// Parameter bounds for report templates.
const (
	MinReportParam = 1
	MaxReportParam = 1000
)

// Report names.
const (
	ReportStockRotation         = "stock-rotation"
	ReportTopProducts           = "top-products"
	ReportSalesByCategory       = "sales-by-category"
	ReportCriticalStock         = "critical-stock"
	ReportSupplierProfitability = "supplier-profitability"
	ReportMonthlyTrends         = "monthly-trends"
	ReportTopCustomers          = "top-customers"
	ReportKPIs                  = "kpis"
)

type reportDef struct {
	name        string
	description string
	defaults    map[string]int
	title       func(p map[string]int) string
	sql         func(p map[string]int) string
}

func fixedTitle(s string) func(map[string]int) string {
	return func(map[string]int) string { return s }
}

func fixedSQL(s string) func(map[string]int) string {
	return func(map[string]int) string { return s }
}

var reportDefs = []reportDef{
	{
		name:        ReportStockRotation,
		description: "Productos ordenados por índice de rotación (ventas/stock promedio)",
		title:       fixedTitle("Rotación de Stock - Top 20 Productos"),
		sql: fixedSQL(`SELECT
    p.nombre AS producto,
    p.categoria,
    SUM(d.cantidad) AS total_vendido,
    AVG(p.stock) AS stock_promedio,
    CASE WHEN AVG(p.stock) > 0 THEN SUM(d.cantidad) / AVG(p.stock) ELSE 0 END AS rotacion
FROM productos p
LEFT JOIN detalles_orden d ON p.id = d.producto_id
GROUP BY p.nombre, p.categoria
HAVING SUM(d.cantidad) > 0
ORDER BY rotacion DESC
LIMIT 20`),
	},
	{
		name:     ReportTopProducts,
		defaults: map[string]int{"limit": 20},
		title:    func(p map[string]int) string { return fmt.Sprintf("Top %d Productos Más Vendidos", p["limit"]) },
		sql: func(p map[string]int) string {
			return fmt.Sprintf(`SELECT
    p.nombre AS producto,
    p.categoria,
    p.proveedor,
    SUM(d.cantidad) AS cantidad_vendida,
    SUM(d.subtotal) AS ingresos_totales,
    COUNT(DISTINCT d.orden_id) AS num_ordenes
FROM productos p
INNER JOIN detalles_orden d ON p.id = d.producto_id
GROUP BY p.nombre, p.categoria, p.proveedor
ORDER BY cantidad_vendida DESC
LIMIT %d`, p["limit"])
		},
	},
	{
		name:        ReportSalesByCategory,
		description: "Análisis agregado de ventas agrupadas por categoría de producto",
		title:       fixedTitle("Ventas por Categoría"),
		sql: fixedSQL(`SELECT
    p.categoria,
    COUNT(DISTINCT p.id) AS num_productos,
    SUM(d.cantidad) AS unidades_vendidas,
    SUM(d.subtotal) AS ingresos_totales,
    AVG(d.precio_unitario) AS precio_promedio
FROM productos p
INNER JOIN detalles_orden d ON p.id = d.producto_id
GROUP BY p.categoria
ORDER BY ingresos_totales DESC`),
	},
	{
		name:     ReportCriticalStock,
		defaults: map[string]int{"threshold": 50},
		title: func(p map[string]int) string {
			return fmt.Sprintf("Productos con Stock Crítico (< %d unidades)", p["threshold"])
		},
		sql: func(p map[string]int) string {
			return fmt.Sprintf(`SELECT
    p.nombre,
    p.categoria,
    p.stock,
    p.proveedor,
    p.precio,
    COALESCE(SUM(d.cantidad), 0) AS ventas_totales
FROM productos p
LEFT JOIN detalles_orden d ON p.id = d.producto_id
WHERE p.stock < %d
GROUP BY p.nombre, p.categoria, p.stock, p.proveedor, p.precio
ORDER BY p.stock ASC
LIMIT 50`, p["threshold"])
		},
	},
	{
		name:        ReportSupplierProfitability,
		description: "Proveedores ordenados por ingresos totales generados",
		title:       fixedTitle("Rentabilidad por Proveedor - Top 30"),
		sql: fixedSQL(`SELECT
    p.proveedor,
    COUNT(DISTINCT p.id) AS productos_ofrecidos,
    SUM(d.cantidad) AS unidades_vendidas,
    SUM(d.subtotal) AS ingresos_totales,
    AVG(d.precio_unitario) AS precio_promedio,
    COUNT(DISTINCT d.orden_id) AS ordenes_totales
FROM productos p
INNER JOIN detalles_orden d ON p.id = d.producto_id
WHERE p.proveedor IS NOT NULL
GROUP BY p.proveedor
ORDER BY ingresos_totales DESC
LIMIT 30`),
	},
	{
		name:  ReportMonthlyTrends,
		title: fixedTitle("Tendencias Temporales - Últimos 12 Meses"),
		sql: fixedSQL(`SELECT
    date_format(o.fecha_orden, '%Y-%m') AS mes,
    COUNT(DISTINCT o.id) AS num_ordenes,
    SUM(o.total) AS ingresos_totales,
    AVG(o.total) AS ticket_promedio,
    COUNT(DISTINCT o.cliente_id) AS clientes_unicos
FROM ordenes o
GROUP BY date_format(o.fecha_orden, '%Y-%m')
ORDER BY mes DESC
LIMIT 12`),
	},
	{
		name:     ReportTopCustomers,
		defaults: map[string]int{"limit": 20},
		title:    func(p map[string]int) string { return fmt.Sprintf("Top %d Mejores Clientes", p["limit"]) },
		sql: func(p map[string]int) string {
			return fmt.Sprintf(`SELECT
    c.nombre AS cliente,
    c.email,
    c.ciudad,
    COUNT(o.id) AS num_ordenes,
    SUM(o.total) AS gasto_total,
    AVG(o.total) AS ticket_promedio,
    MAX(o.fecha_orden) AS ultima_compra
FROM clientes c
INNER JOIN ordenes o ON c.id = o.cliente_id
GROUP BY c.nombre, c.email, c.ciudad
ORDER BY gasto_total DESC
LIMIT %d`, p["limit"])
		},
	},
	{
		name:        ReportKPIs,
		description: "Indicadores principales para el dashboard",
		title:       fixedTitle("KPIs del Dashboard"),
		sql: fixedSQL(`SELECT
    (SELECT SUM(total) FROM ordenes) AS total_ventas,
    (SELECT COUNT(*) FROM ordenes) AS total_ordenes,
    (SELECT AVG(total) FROM ordenes) AS ticket_promedio,
    (SELECT COUNT(*) FROM productos) AS productos_activos,
    (SELECT COUNT(DISTINCT cliente_id) FROM ordenes) AS clientes_activos,
    (SELECT SUM(stock) FROM productos) AS stock_total`),
	},
}

// Executor runs one query to completion. *Runner implements it.
type Executor interface {
	Execute(ctx context.Context, req domain.QueryRequest) (*domain.ResultTable, error)
}

var _ Executor = (*Runner)(nil)

// Reports serves the named analytic reports.
type Reports struct {
	exec Executor
	defs map[string]reportDef
}

// NewReports creates the report catalogue on exec.
func NewReports(exec Executor) *Reports {
	defs := make(map[string]reportDef, len(reportDefs))
	for _, d := range reportDefs {
		defs[d.name] = d
	}
	return &Reports{exec: exec, defs: defs}
}

// List describes every report, sorted by name.
func (r *Reports) List() []domain.ReportInfo {
	out := make([]domain.ReportInfo, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, domain.ReportInfo{
			Name:        d.name,
			Title:       d.title(d.defaults),
			Description: d.description,
			Parameters:  copyParams(d.defaults),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run executes the named report. params overrides the report's defaults;
// unknown parameter names and out-of-range values are validation errors.
func (r *Reports) Run(ctx context.Context, name string, params map[string]int) (*domain.Report, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, domain.ErrNotFound("report %q not found", name)
	}
	resolved, err := resolveParams(def, params)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		Name:        def.name,
		Title:       def.title(resolved),
		Description: def.description,
		Parameters:  resolved,
	}

	table, err := r.exec.Execute(ctx, domain.QueryRequest{Query: def.sql(resolved)})
	if err != nil {
		var nc *domain.EngineNotConfiguredError
		if def.name == ReportKPIs && errors.As(err, &nc) {
			report.Degraded = true
			report.Reason = nc.Error()
			return report, nil
		}
		return nil, fmt.Errorf("report %s: %w", name, err)
	}
	report.ResultTable = table
	return report, nil
}

// Custom runs caller-supplied SQL.
func (r *Reports) Custom(ctx context.Context, req domain.QueryRequest) (*domain.ResultTable, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrValidation("query is required")
	}
	return r.exec.Execute(ctx, req)
}

func resolveParams(def reportDef, params map[string]int) (map[string]int, error) {
	resolved := copyParams(def.defaults)
	for k, v := range params {
		if _, ok := def.defaults[k]; !ok {
			return nil, domain.ErrValidation("report %s does not take parameter %q", def.name, k)
		}
		if v < MinReportParam || v > MaxReportParam {
			return nil, domain.ErrValidation("parameter %s must be between %d and %d, got %d", k, MinReportParam, MaxReportParam, v)
		}
		resolved[k] = v
	}
	return resolved, nil
}

func copyParams(in map[string]int) map[string]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
