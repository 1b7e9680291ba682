package api

import (
	"net/http"
	"strconv"

	"inventory-hub/internal/domain"
)

// pathID parses a positive integer path segment.
func pathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation("id must be a positive integer, got %q", raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrValidation("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}
