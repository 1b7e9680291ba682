package domain

// PageRequest selects one page of a paginated upstream listing. Page numbers
// follow the convention of the upstream being called (1-based for products
// and suppliers, 0-based for orders).
type PageRequest struct {
	Page int
	Size int
}

// Page is a normalised list envelope.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
}
