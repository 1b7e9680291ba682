package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inventory-hub/internal/domain"
)

// ServicesStatus reports the health of every upstream. It always answers 200.
func (h *APIHandler) ServicesStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.views.ServicesStatus(r.Context()))
}

// FullOrder serves an order with product details on each line.
func (h *APIHandler) FullOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.views.FullOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// RecentOrders serves the newest orders.
func (h *APIHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := h.views.RecentOrders(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// FullProduct serves a product with its supplier record.
func (h *APIHandler) FullProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	product, err := h.views.FullProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// LowStockProducts serves products below a stock threshold.
func (h *APIHandler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryInt(r, "threshold")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report, err := h.views.LowStockProducts(r.Context(), threshold)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type activeSuppliersResponse struct {
	Total     int               `json:"total"`
	Suppliers []domain.Supplier `json:"proveedores"`
}

// ActiveSuppliers serves suppliers in ACTIVO status.
func (h *APIHandler) ActiveSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.views.ActiveSuppliers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activeSuppliersResponse{Total: len(suppliers), Suppliers: suppliers})
}

// DashboardSummary serves the headline counts. Degraded metrics are listed in
// the body; the status is always 200.
func (h *APIHandler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.views.DashboardSummary(r.Context()))
}
