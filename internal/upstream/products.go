package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"inventory-hub/internal/domain"
)

// ProductsClient reads the products service.
type ProductsClient struct {
	*Client
}

var _ domain.ProductSource = (*ProductsClient)(nil)

// NewProductsClient creates a products service client.
func NewProductsClient(baseURL string, opts Options) *ProductsClient {
	return &ProductsClient{Client: NewClient(domain.SourceProducts, baseURL, "/health", opts)}
}

type productList struct {
	Products    []domain.Product `json:"productos"`
	Total       int64            `json:"total"`
	Pages       int              `json:"pages"`
	CurrentPage int              `json:"current_page"`
}

// GetProduct fetches one product by ID.
func (c *ProductsClient) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/api/productos/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts fetches one 1-based page of products.
func (c *ProductsClient) ListProducts(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Product], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page.Page, 1)))
	if page.Size > 0 {
		q.Set("per_page", strconv.Itoa(page.Size))
	}
	var body productList
	if err := c.getJSON(ctx, "/api/productos", q, &body); err != nil {
		return nil, err
	}
	items := body.Products
	if items == nil {
		items = []domain.Product{}
	}
	return &domain.Page[domain.Product]{
		Items:       items,
		Total:       body.Total,
		TotalPages:  body.Pages,
		CurrentPage: body.CurrentPage,
	}, nil
}

// ListCategories fetches every product category.
func (c *ProductsClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := c.getJSON(ctx, "/api/categorias", nil, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return cats, nil
}
