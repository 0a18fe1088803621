package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/metrics"
	"github.com/dejobratic/restoadmin/internal/telemetry"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle",
		attribute.String("order.username", cmd.Username),
		attribute.Int("order.lines", len(cmd.Items)),
	)
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordOrderCreationDuration(ctx, time.Since(start).Seconds())
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	o.logger.InfoContext(ctx, "creating order",
		"username", cmd.Username,
		"filial", cmd.Filial,
		"lines", len(cmd.Items),
	)

	order, err := o.handler.Handle(ctx, cmd)

	if err != nil && order == nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create order",
			"error", err,
			"username", cmd.Username,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.code", order.Code),
		attribute.String("order.status", string(order.Status)),
		attribute.Float64("order.total", order.Total),
	)

	// The backend accepted the order; a failed follow-up is only a warning.
	success = true
	if err != nil {
		telemetry.AddSpanEvent(span, "order.followup_failed", attribute.String("error", err.Error()))
		o.logger.WarnContext(ctx, "order created with follow-up failure",
			"order_code", order.Code,
			"error", err,
		)
		return order, err
	}

	o.logger.InfoContext(ctx, "order created successfully",
		"order_code", order.Code,
		"username", order.Username,
	)
	telemetry.SetSpanSuccess(span)

	return order, nil
}
