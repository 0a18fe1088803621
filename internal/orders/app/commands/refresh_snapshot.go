package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

// RefreshSnapshotCommand replaces the snapshot with the backend's current
// order list, stamped with At.
type RefreshSnapshotCommand struct {
	At time.Time
}

type RefreshHandler interface {
	Handle(ctx context.Context, cmd RefreshSnapshotCommand) (int, error)
}

type RefreshSnapshotCommandHandler struct {
	source ports.OrderSource
	store  ports.SnapshotStore
	events ports.EventBus
}

func NewRefreshSnapshotCommandHandler(
	source ports.OrderSource,
	store ports.SnapshotStore,
	events ports.EventBus,
) *RefreshSnapshotCommandHandler {
	return &RefreshSnapshotCommandHandler{
		source: source,
		store:  store,
		events: events,
	}
}

// Handle returns the number of orders in the new snapshot. On a failed
// fetch the previous snapshot stays in place.
func (h *RefreshSnapshotCommandHandler) Handle(ctx context.Context, cmd RefreshSnapshotCommand) (int, error) {
	orders, err := h.source.ListOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch orders: %w", err)
	}

	if err := h.store.Replace(ctx, orders, cmd.At); err != nil {
		return 0, fmt.Errorf("store snapshot: %w", err)
	}

	if err := h.events.PublishSnapshotRefreshed(ctx, len(orders)); err != nil {
		return len(orders), fmt.Errorf("snapshot stored but failed to publish event: %w", err)
	}

	return len(orders), nil
}
