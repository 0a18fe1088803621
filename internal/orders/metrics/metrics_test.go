package metrics

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m, reader
}

func collected(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestRecordOrderCreated(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOrderCreated(ctx, true)
	m.RecordOrderCreated(ctx, true)
	m.RecordOrderCreated(ctx, false)
	m.RecordOrderCreationDuration(ctx, 0.25)

	data := collected(t, reader)

	sum, ok := data["orders_created_total"].(metricdata.Sum[int64])
	if !ok {
		t.Fatal("orders_created_total missing")
	}
	byStatus := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value("status")
		byStatus[v.AsString()] = dp.Value
	}
	if byStatus["success"] != 2 || byStatus["error"] != 1 {
		t.Errorf("unexpected counts %v", byStatus)
	}

	hist, ok := data["order_creation_duration_seconds"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("unexpected creation histogram %+v", data["order_creation_duration_seconds"])
	}
}

func TestRecordRefresh(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRefresh(ctx, 0.1, 12, true)
	m.RecordRefresh(ctx, 0.4, 99, false)

	data := collected(t, reader)

	gauge, ok := data["orders_snapshot_size"].(metricdata.Gauge[int64])
	if !ok || len(gauge.DataPoints) != 1 {
		t.Fatalf("unexpected gauge %+v", data["orders_snapshot_size"])
	}
	if gauge.DataPoints[0].Value != 12 {
		t.Errorf("snapshot size = %d, want 12 (failed refresh must not overwrite)", gauge.DataPoints[0].Value)
	}

	sum, ok := data["orders_snapshot_refresh_total"].(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 2 {
		t.Errorf("unexpected refresh counter %+v", data["orders_snapshot_refresh_total"])
	}
}

func TestRecordFilterEvaluation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordFilterEvaluation(ctx, "week")
	m.RecordFilterEvaluation(ctx, "week")
	m.RecordFilterEvaluation(ctx, "all")

	sum, ok := collected(t, reader)["orders_filter_evaluations_total"].(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 2 {
		t.Fatalf("unexpected filter counter %+v", sum)
	}
}
