package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/restoadmin/internal/kafka"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
	"github.com/dejobratic/restoadmin/internal/telemetry"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{bus: bus, metrics: metrics}
}

func (e *ObservableEventBus) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderCreated",
		attribute.String("order.code", order.Code),
		attribute.String("event.type", kafka.EventOrderCreated),
	)

	start := time.Now()
	err := e.bus.PublishOrderCreated(ctx, order)
	e.metrics.RecordPublish(ctx, kafka.EventOrderCreated, time.Since(start).Seconds(), err)

	telemetry.FinishSpan(span, err)
	return err
}

func (e *ObservableEventBus) PublishSnapshotRefreshed(ctx context.Context, count int) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishSnapshotRefreshed",
		attribute.Int("snapshot.size", count),
		attribute.String("event.type", kafka.EventOrdersRefreshed),
	)

	start := time.Now()
	err := e.bus.PublishSnapshotRefreshed(ctx, count)
	e.metrics.RecordPublish(ctx, kafka.EventOrdersRefreshed, time.Since(start).Seconds(), err)

	telemetry.FinishSpan(span, err)
	return err
}
