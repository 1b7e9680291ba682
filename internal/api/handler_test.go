package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/middleware"
)

func newTestServer(t *testing.T, views *mockViews, reports *mockReports) *httptest.Server {
	t.Helper()
	if views == nil {
		views = &mockViews{}
	}
	if reports == nil {
		reports = &mockReports{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(views, reports, fixedEngine{name: "athena", configured: true}, "test", logger)
	srv := httptest.NewServer(h.Router(RouterOptions{AllowedOrigins: []string{"*"}}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	resp, body := get(t, srv, "/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	var h healthResponse
	require.NoError(t, json.Unmarshal(body, &h))
	assert.Equal(t, healthResponse{Status: "ok", Version: "test", Engine: "athena", EngineConfigured: true}, h)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	get(t, srv, "/health")
	resp, body := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "inventory_hub_http_requests_total")
}

func TestFullOrder_Handler(t *testing.T) {
	views := &mockViews{
		fullOrderFn: func(_ context.Context, id int64) (*domain.FullOrder, error) {
			switch id {
			case 1:
				return &domain.FullOrder{Order: domain.Order{ID: 1, Lines: []domain.OrderLine{{ID: 1, ProductID: 3}}}}, nil
			case 404:
				return nil, domain.ErrNotFound("order %d not found", id)
			default:
				return nil, &domain.UpstreamError{Source: domain.SourceOrders, Err: errors.New("connection refused")}
			}
		},
	}
	srv := newTestServer(t, views, nil)

	t.Run("ok", func(t *testing.T) {
		resp, body := get(t, srv, "/api/orders/1/full")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"producto_info":null`)
	})

	t.Run("not_found", func(t *testing.T) {
		resp, body := get(t, srv, "/api/orders/404/full")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		e := decodeError(t, body)
		assert.Equal(t, 404, e.Code)
		assert.Equal(t, domain.KindNotFound, e.Kind)
	})

	t.Run("upstream_down", func(t *testing.T) {
		resp, body := get(t, srv, "/api/orders/7/full")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, domain.KindUpstreamUnavailable, decodeError(t, body).Kind)
	})

	t.Run("bad_id", func(t *testing.T) {
		resp, body := get(t, srv, "/api/orders/abc/full")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, domain.KindValidation, decodeError(t, body).Kind)
	})
}

func TestRecentOrders_Handler(t *testing.T) {
	var gotLimit int
	views := &mockViews{
		recentOrdersFn: func(_ context.Context, limit int) (*domain.OrderPage, error) {
			gotLimit = limit
			return &domain.OrderPage{Orders: []domain.Order{}}, nil
		},
	}
	srv := newTestServer(t, views, nil)

	resp, _ := get(t, srv, "/api/orders/recent?limit=25")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 25, gotLimit)

	resp, _ = get(t, srv, "/api/orders/recent")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, gotLimit)

	resp, _ = get(t, srv, "/api/orders/recent?limit=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServicesStatus_AlwaysOK(t *testing.T) {
	views := &mockViews{
		servicesStatusFn: func(context.Context) domain.ServicesStatus {
			return domain.ServicesStatus{
				"products":  {Status: domain.Healthy, Code: 200},
				"orders":    {Status: domain.Unhealthy, Error: "timeout"},
				"suppliers": {Status: domain.Unhealthy, Code: 503},
			}
		},
	}
	srv := newTestServer(t, views, nil)

	resp, body := get(t, srv, "/api/services-status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var status domain.ServicesStatus
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Len(t, status, 3)
}

func TestDashboardSummary_Degraded(t *testing.T) {
	views := &mockViews{
		dashboardSummaryFn: func(context.Context) *domain.DashboardSummary {
			return &domain.DashboardSummary{TotalProducts: 5, Degraded: []string{domain.MetricOrders}}
		},
	}
	srv := newTestServer(t, views, nil)

	resp, body := get(t, srv, "/api/dashboard/summary")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_productos":5,"total_ordenes":0,"total_proveedores":0,"total_categorias":0,"degraded":["total_ordenes"]}`, string(body))
}

func TestActiveSuppliers_Handler(t *testing.T) {
	views := &mockViews{
		activeSuppliersFn: func(context.Context) ([]domain.Supplier, error) {
			return []domain.Supplier{{ID: "a1"}, {ID: "a2"}}, nil
		},
	}
	srv := newTestServer(t, views, nil)

	resp, body := get(t, srv, "/api/suppliers/active")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out activeSuppliersResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 2, out.Total)
}

func TestRunReport_Handler(t *testing.T) {
	var gotParams map[string]int
	reports := &mockReports{
		runFn: func(_ context.Context, name string, params map[string]int) (*domain.Report, error) {
			gotParams = params
			if name == "nope" {
				return nil, domain.ErrNotFound("report %q not found", name)
			}
			return &domain.Report{Name: name, ResultTable: &domain.ResultTable{Columns: []string{"a"}, Rows: []domain.Record{}}}, nil
		},
	}
	srv := newTestServer(t, nil, reports)

	resp, body := get(t, srv, "/api/reports/top-products?limit=5&other=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"limit": 5}, gotParams)
	assert.Contains(t, string(body), `"data":[]`)

	resp, _ = get(t, srv, "/api/reports/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, srv, "/api/reports/top-products?limit=ten")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecuteQuery_Handler(t *testing.T) {
	reports := &mockReports{
		customFn: func(_ context.Context, req domain.QueryRequest) (*domain.ResultTable, error) {
			switch req.Query {
			case "SELECT 1":
				return &domain.ResultTable{Columns: []string{"_col0"}, Rows: []domain.Record{}}, nil
			case "slow":
				return nil, &domain.QueryTimedOutError{JobID: "q1", Attempts: 30}
			case "unconfigured":
				return nil, domain.ErrEngineNotConfigured("no credentials")
			default:
				return nil, &domain.QueryFailedError{JobID: "q2", State: domain.QueryJobFailed, Reason: "SYNTAX_ERROR"}
			}
		},
	}
	srv := newTestServer(t, nil, reports)

	post := func(body string) (*http.Response, []byte) {
		resp, err := http.Post(srv.URL+"/api/queries", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, b
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
	}{
		{"ok", `{"query":"SELECT 1"}`, http.StatusOK, ""},
		{"timed_out", `{"query":"slow"}`, http.StatusGatewayTimeout, domain.KindQueryTimedOut},
		{"not_configured", `{"query":"unconfigured"}`, http.StatusServiceUnavailable, domain.KindEngineNotConfigured},
		{"failed_reason_verbatim", `{"query":"bad"}`, http.StatusBadGateway, domain.KindQueryFailed},
		{"malformed_body", `{"query":`, http.StatusBadRequest, domain.KindValidation},
		{"unknown_field", `{"sql":"SELECT 1"}`, http.StatusBadRequest, domain.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := post(tc.body)
			assert.Equal(t, tc.wantCode, resp.StatusCode)
			if tc.wantKind != "" {
				e := decodeError(t, body)
				assert.Equal(t, tc.wantKind, e.Kind)
				if tc.wantKind == domain.KindQueryFailed {
					assert.Contains(t, e.Message, "SYNTAX_ERROR")
				}
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	resp, body := get(t, srv, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, domain.KindNotFound, decodeError(t, body).Kind)
}

func TestHTTPStatusFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not_found", domain.ErrNotFound("x"), http.StatusNotFound},
		{"validation", domain.ErrValidation("x"), http.StatusBadRequest},
		{"upstream", &domain.UpstreamError{Source: domain.SourceProducts}, http.StatusBadGateway},
		{"engine_unavailable", &domain.EngineUnavailableError{Op: "submit", Err: errors.New("x")}, http.StatusBadGateway},
		{"cancelled", &domain.QueryFailedError{State: domain.QueryJobCancelled}, http.StatusBadGateway},
		{"timed_out", &domain.QueryTimedOutError{}, http.StatusGatewayTimeout},
		{"not_configured", domain.ErrEngineNotConfigured("x"), http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpStatusFromDomainError(tc.err))
		})
	}
}

func TestInternalErrorHidesMessage(t *testing.T) {
	views := &mockViews{
		fullProductFn: func(context.Context, int64) (*domain.FullProduct, error) {
			return nil, errors.New("secret detail")
		},
	}
	srv := newTestServer(t, views, nil)
	resp, body := get(t, srv, "/api/products/1/full")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", decodeError(t, body).Message)
}
