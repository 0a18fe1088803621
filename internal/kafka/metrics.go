package kafka

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	publishLatency metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	h, err := meter.Float64Histogram(
		"kafka_producer_latency_seconds",
		metric.WithDescription("Latency of publishing order events"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka_producer_latency histogram: %w", err)
	}
	return &Metrics{publishLatency: h}, nil
}

func (m *Metrics) RecordPublish(ctx context.Context, eventType string, durationSeconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.publishLatency.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("outcome", outcome),
	))
}
