package ports

import (
	"context"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

// OrderSource is the remote system of record for orders.
type OrderSource interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
}
