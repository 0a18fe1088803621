package backend

import (
	"context"
	"net/http"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

const (
	ordersPath     = "/api/orders"
	ordersListPath = "/api/orderslist"
)

// ListOrders returns the full order list, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return list[domain.Order](ctx, c, ordersListPath)
}

// ListRecentOrders returns the short list the backend shows on its dashboard.
func (c *Client) ListRecentOrders(ctx context.Context) ([]domain.Order, error) {
	return list[domain.Order](ctx, c, ordersPath)
}

// CreateOrder places an order and returns it as stored by the backend.
func (c *Client) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	return call[domain.Order](ctx, c, http.MethodPost, ordersPath, draft)
}
