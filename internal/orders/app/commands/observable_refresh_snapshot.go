package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/restoadmin/internal/orders/metrics"
	"github.com/dejobratic/restoadmin/internal/telemetry"
)

type ObservableRefreshHandler struct {
	handler RefreshHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableRefreshHandler(handler RefreshHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableRefreshHandler {
	return &ObservableRefreshHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableRefreshHandler) Handle(ctx context.Context, cmd RefreshSnapshotCommand) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "RefreshSnapshotCommand.Handle")
	defer span.End()

	start := time.Now()
	count, err := o.handler.Handle(ctx, cmd)
	stored := err == nil || count > 0
	o.metrics.RecordRefresh(ctx, time.Since(start).Seconds(), count, stored)

	telemetry.AddSpanAttributes(span, attribute.Int("orders.count", count))

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "order snapshot refresh failed",
			"error", err,
			"count", count,
		)
		return count, err
	}

	o.logger.DebugContext(ctx, "order snapshot refreshed", "count", count)
	telemetry.SetSpanSuccess(span)

	return count, nil
}
