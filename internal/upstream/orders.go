package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"inventory-hub/internal/domain"
)

// OrdersClient reads the orders service.
type OrdersClient struct {
	*Client
}

var _ domain.OrderSource = (*OrdersClient)(nil)

// NewOrdersClient creates an orders service client.
func NewOrdersClient(baseURL string, opts Options) *OrdersClient {
	return &OrdersClient{Client: NewClient(domain.SourceOrders, baseURL, "/api/health", opts)}
}

type orderList struct {
	Orders      []domain.Order `json:"ordenes"`
	CurrentPage int            `json:"currentPage"`
	TotalItems  int64          `json:"totalItems"`
	TotalPages  int            `json:"totalPages"`
}

// GetOrder fetches one order with its lines.
func (c *OrdersClient) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := c.getJSON(ctx, fmt.Sprintf("/api/ordenes/%d", id), nil, &o); err != nil {
		return nil, err
	}
	if o.Lines == nil {
		o.Lines = []domain.OrderLine{}
	}
	return &o, nil
}

// ListOrders fetches one 0-based page of orders, newest first.
func (c *OrdersClient) ListOrders(ctx context.Context, page domain.PageRequest) (*domain.Page[domain.Order], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page.Page, 0)))
	if page.Size > 0 {
		q.Set("size", strconv.Itoa(page.Size))
	}
	var body orderList
	if err := c.getJSON(ctx, "/api/ordenes", q, &body); err != nil {
		return nil, err
	}
	items := body.Orders
	if items == nil {
		items = []domain.Order{}
	}
	return &domain.Page[domain.Order]{
		Items:       items,
		Total:       body.TotalItems,
		TotalPages:  body.TotalPages,
		CurrentPage: body.CurrentPage,
	}, nil
}
