// Package api exposes the hub's consolidated views and reports over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/middleware"
)

// Views is the aggregation surface the handlers serve.
type Views interface {
	ServicesStatus(ctx context.Context) domain.ServicesStatus
	FullOrder(ctx context.Context, orderID int64) (*domain.FullOrder, error)
	RecentOrders(ctx context.Context, limit int) (*domain.OrderPage, error)
	FullProduct(ctx context.Context, productID int64) (*domain.FullProduct, error)
	LowStockProducts(ctx context.Context, threshold int) (*domain.LowStockReport, error)
	ActiveSuppliers(ctx context.Context) ([]domain.Supplier, error)
	DashboardSummary(ctx context.Context) *domain.DashboardSummary
}

// Reports is the report and ad-hoc query surface.
type Reports interface {
	List() []domain.ReportInfo
	Run(ctx context.Context, name string, params map[string]int) (*domain.Report, error)
	Custom(ctx context.Context, req domain.QueryRequest) (*domain.ResultTable, error)
}

// EngineInfo describes the configured query engine for /health.
type EngineInfo interface {
	EngineName() string
	Configured() bool
}

// APIHandler serves the HTTP API.
type APIHandler struct {
	views   Views
	reports Reports
	engine  EngineInfo
	version string
	logger  *slog.Logger
}

// NewHandler creates a new APIHandler.
func NewHandler(views Views, reports Reports, engine EngineInfo, version string, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{
		views:   views,
		reports: reports,
		engine:  engine,
		version: version,
		logger:  logger.With("component", "api"),
	}
}

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	// RateLimiter is applied to /api routes when non-nil.
	RateLimiter *middleware.RateLimiter
	// RequestTimeout bounds each /api request (default 60s).
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Router builds the chi router with the full middleware stack.
func (h *APIHandler) Router(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = h.logger
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Handler)
		}
		r.Use(withTimeout(timeout))

		r.Get("/services-status", h.ServicesStatus)
		r.Get("/orders/recent", h.RecentOrders)
		r.Get("/orders/{id}/full", h.FullOrder)
		r.Get("/products/low-stock", h.LowStockProducts)
		r.Get("/products/{id}/full", h.FullProduct)
		r.Get("/suppliers/active", h.ActiveSuppliers)
		r.Get("/dashboard/summary", h.DashboardSummary)
		r.Get("/reports", h.ListReports)
		r.Get("/reports/{name}", h.RunReport)
		r.Post("/queries", h.ExecuteQuery)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, domain.ErrNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

type healthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version,omitempty"`
	Engine           string `json:"engine"`
	EngineConfigured bool   `json:"engine_configured"`
}

// Health is the liveness probe. It never calls an upstream.
func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		Version:          h.version,
		Engine:           h.engine.EngineName(),
		EngineConfigured: h.engine.Configured(),
	})
}

// withTimeout bounds the request context. Handlers map the resulting
// deadline error like any other.
func withTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
