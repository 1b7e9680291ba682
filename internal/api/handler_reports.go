package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inventory-hub/internal/domain"
)

// reportParams are the query parameters forwarded to report templates.
var reportParams = []string{"limit", "threshold"}

// maxQueryBody bounds POST /api/queries.
const maxQueryBody = 1 << 20

type reportListResponse struct {
	Reports []domain.ReportInfo `json:"reportes"`
}

// ListReports describes the available reports.
func (h *APIHandler) ListReports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, reportListResponse{Reports: h.reports.List()})
}

// RunReport executes a named report.
func (h *APIHandler) RunReport(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]int)
	for _, name := range reportParams {
		if !r.URL.Query().Has(name) {
			continue
		}
		v, err := queryInt(r, name)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		params[name] = v
	}
	report, err := h.reports.Run(r.Context(), chi.URLParam(r, "name"), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ExecuteQuery runs caller-supplied SQL.
func (h *APIHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req domain.QueryRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxQueryBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	table, err := h.reports.Custom(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}
