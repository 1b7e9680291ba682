package upstream

import (
	"context"
	"net/url"
	"strconv"

	"inventory-hub/internal/domain"
)

// SuppliersClient reads the suppliers service.
type SuppliersClient struct {
	*Client
}

var _ domain.SupplierSource = (*SuppliersClient)(nil)

// NewSuppliersClient creates a suppliers service client.
func NewSuppliersClient(baseURL string, opts Options) *SuppliersClient {
	return &SuppliersClient{Client: NewClient(domain.SourceSuppliers, baseURL, "/health", opts)}
}

type supplierList struct {
	Suppliers   []domain.Supplier `json:"proveedores"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	TotalItems  int64             `json:"totalItems"`
}

// SearchSuppliers returns suppliers whose name matches term.
func (c *SuppliersClient) SearchSuppliers(ctx context.Context, term string) ([]domain.Supplier, error) {
	return c.list(ctx, "/api/proveedores/buscar/"+url.PathEscape(term))
}

// ListSuppliersByStatus returns suppliers with the given estado, e.g. ACTIVO.
func (c *SuppliersClient) ListSuppliersByStatus(ctx context.Context, status string) ([]domain.Supplier, error) {
	return c.list(ctx, "/api/proveedores/estado/"+url.PathEscape(status))
}

// ListSuppliers fetches one 1-based page of suppliers.
func (c *SuppliersClient) ListSuppliers(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Supplier], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page.Page, 1)))
	if page.Size > 0 {
		q.Set("limit", strconv.Itoa(page.Size))
	}
	var body supplierList
	if err := c.getJSON(ctx, "/api/proveedores", q, &body); err != nil {
		return nil, err
	}
	items := applyDefaults(body.Suppliers)
	return &domain.Page[domain.Supplier]{
		Items:       items,
		Total:       body.TotalItems,
		TotalPages:  body.TotalPages,
		CurrentPage: body.CurrentPage,
	}, nil
}

func (c *SuppliersClient) list(ctx context.Context, path string) ([]domain.Supplier, error) {
	var out []domain.Supplier
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return applyDefaults(out), nil
}

func applyDefaults(in []domain.Supplier) []domain.Supplier {
	if in == nil {
		return []domain.Supplier{}
	}
	for i := range in {
		in[i].ApplyDefaults()
	}
	return in
}
