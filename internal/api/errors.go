package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"inventory-hub/internal/domain"
	"inventory-hub/internal/middleware"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	switch domain.ErrorKind(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUpstreamUnavailable,
		domain.KindEngineUnavailable,
		domain.KindQueryFailed,
		domain.KindQueryCancelled:
		return http.StatusBadGateway
	case domain.KindQueryTimedOut:
		return http.StatusGatewayTimeout
	case domain.KindEngineNotConfigured:
		return http.StatusServiceUnavailable
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusInternalServerError
	}
}

// writeError renders err. Internal errors are logged with the request id and
// answered with a generic message.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := httpStatusFromDomainError(err)
	kind := domain.ErrorKind(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		msg = "internal error"
	} else {
		h.logger.Log(r.Context(), levelFor(code), "request error",
			"path", r.URL.Path, "kind", kind, "error", err)
	}
	writeJSON(w, code, errorBody{Code: code, Kind: kind, Message: msg})
}

func levelFor(code int) slog.Level {
	if code >= http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}
