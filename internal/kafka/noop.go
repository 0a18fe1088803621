package kafka

import (
	"context"
	"log/slog"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

// NoopEventBus logs events at debug level instead of publishing them. It is
// used when no brokers are configured.
type NoopEventBus struct {
	logger *slog.Logger
}

func NewNoopEventBus(logger *slog.Logger) *NoopEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopEventBus{logger: logger}
}

func (n *NoopEventBus) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	n.logger.DebugContext(ctx, "event::"+EventOrderCreated, "order_code", order.Code)
	return nil
}

func (n *NoopEventBus) PublishSnapshotRefreshed(ctx context.Context, count int) error {
	n.logger.DebugContext(ctx, "event::"+EventOrdersRefreshed, "count", count)
	return nil
}

func (n *NoopEventBus) Close() error { return nil }
