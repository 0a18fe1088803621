package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the order use-case instruments.
type Metrics struct {
	ordersCreatedTotal    metric.Int64Counter
	orderCreationDuration metric.Float64Histogram
	refreshTotal          metric.Int64Counter
	refreshDuration       metric.Float64Histogram
	snapshotSize          metric.Int64Gauge
	filterEvaluations     metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.ordersCreatedTotal, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Orders placed through the admin service"),
		metric.WithUnit("{order}"),
	); err != nil {
		return nil, fmt.Errorf("create orders_created_total counter: %w", err)
	}

	if m.orderCreationDuration, err = meter.Float64Histogram(
		"order_creation_duration_seconds",
		metric.WithDescription("Duration of order placement including the backend call"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create order_creation_duration histogram: %w", err)
	}

	if m.refreshTotal, err = meter.Int64Counter(
		"orders_snapshot_refresh_total",
		metric.WithDescription("Order snapshot refresh attempts"),
		metric.WithUnit("{refresh}"),
	); err != nil {
		return nil, fmt.Errorf("create orders_snapshot_refresh_total counter: %w", err)
	}

	if m.refreshDuration, err = meter.Float64Histogram(
		"orders_snapshot_refresh_duration_seconds",
		metric.WithDescription("Duration of order snapshot refreshes"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create orders_snapshot_refresh_duration histogram: %w", err)
	}

	if m.snapshotSize, err = meter.Int64Gauge(
		"orders_snapshot_size",
		metric.WithDescription("Orders held in the latest snapshot"),
		metric.WithUnit("{order}"),
	); err != nil {
		return nil, fmt.Errorf("create orders_snapshot_size gauge: %w", err)
	}

	if m.filterEvaluations, err = meter.Int64Counter(
		"orders_filter_evaluations_total",
		metric.WithDescription("Filtered order views served, by date filter"),
		metric.WithUnit("{evaluation}"),
	); err != nil {
		return nil, fmt.Errorf("create orders_filter_evaluations_total counter: %w", err)
	}

	return m, nil
}

func outcome(success bool) attribute.KeyValue {
	if success {
		return attribute.String("status", "success")
	}
	return attribute.String("status", "error")
}

func (m *Metrics) RecordOrderCreated(ctx context.Context, success bool) {
	m.ordersCreatedTotal.Add(ctx, 1, metric.WithAttributes(outcome(success)))
}

func (m *Metrics) RecordOrderCreationDuration(ctx context.Context, durationSeconds float64) {
	m.orderCreationDuration.Record(ctx, durationSeconds)
}

// RecordRefresh records one refresh attempt. size is ignored on failure.
func (m *Metrics) RecordRefresh(ctx context.Context, durationSeconds float64, size int, success bool) {
	m.refreshTotal.Add(ctx, 1, metric.WithAttributes(outcome(success)))
	m.refreshDuration.Record(ctx, durationSeconds, metric.WithAttributes(outcome(success)))
	if success {
		m.snapshotSize.Record(ctx, int64(size))
	}
}

func (m *Metrics) RecordFilterEvaluation(ctx context.Context, dateFilter string) {
	m.filterEvaluations.Add(ctx, 1, metric.WithAttributes(attribute.String("date", dateFilter)))
}
