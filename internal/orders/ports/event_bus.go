package ports

import (
	"context"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

// EventBus publishes order lifecycle notifications.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, order domain.Order) error
	PublishSnapshotRefreshed(ctx context.Context, count int) error
}
