package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

type recordingWriter struct {
	msgs     []kafka.Message
	err      error
	deadline bool
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

var fixedNow = time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

func TestPublishOrderCreated(t *testing.T) {
	w := &recordingWriter{}
	bus := newEventBus(w, func() time.Time { return fixedNow })

	order := domain.Order{ID: 7, Code: "25-03-07-007", Status: domain.StatusSentToPrinter, Total: 42000}
	if err := bus.PublishOrderCreated(context.Background(), order); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "25-03-07-007" {
		t.Errorf("key = %q, want order code", msg.Key)
	}
	if !w.deadline {
		t.Error("publish should bound the write with a deadline")
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != EventOrderCreated {
		t.Errorf("headers = %v", msg.Headers)
	}

	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != EventOrderCreated || !ev.OccurredAt.Equal(fixedNow) {
		t.Errorf("event = %+v", ev)
	}
	if ev.Order == nil || ev.Order.Code != order.Code || ev.Count != nil {
		t.Errorf("event payload = %+v", ev)
	}
}

func TestPublishSnapshotRefreshed(t *testing.T) {
	w := &recordingWriter{}
	bus := newEventBus(w, func() time.Time { return fixedNow })

	if err := bus.PublishSnapshotRefreshed(context.Background(), 12); err != nil {
		t.Fatalf("publish: %v", err)
	}

	var ev Event
	if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != EventOrdersRefreshed || ev.Count == nil || *ev.Count != 12 || ev.Order != nil {
		t.Errorf("event = %+v", ev)
	}
}

func TestPublishWrapsWriterError(t *testing.T) {
	cause := errors.New("broker down")
	bus := newEventBus(&recordingWriter{err: cause}, time.Now)

	err := bus.PublishSnapshotRefreshed(context.Background(), 1)
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want wrapped %v", err, cause)
	}
	if !strings.Contains(err.Error(), EventOrdersRefreshed) {
		t.Errorf("error %q should name the event", err)
	}
}

func TestCloseClosesWriter(t *testing.T) {
	w := &recordingWriter{}
	if err := newEventBus(w, time.Now).Close(); err != nil || !w.closed {
		t.Errorf("Close() = %v, closed = %v", err, w.closed)
	}
}

func TestNoopEventBusLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	bus := NewNoopEventBus(logger)

	if err := bus.PublishOrderCreated(context.Background(), domain.Order{Code: "25-03-07-1"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.PublishSnapshotRefreshed(context.Background(), 3); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "event::order.created") || !strings.Contains(out, "25-03-07-1") {
		t.Errorf("missing order.created log: %s", out)
	}
	if !strings.Contains(out, "event::orders.refreshed") {
		t.Errorf("missing orders.refreshed log: %s", out)
	}
}

func TestRecordPublish(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	ctx := context.Background()
	m.RecordPublish(ctx, EventOrderCreated, 0.2, nil)
	m.RecordPublish(ctx, EventOrdersRefreshed, 0.3, errors.New("timeout"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	hist, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("expected Histogram[float64]")
	}
	if len(hist.DataPoints) != 2 {
		t.Errorf("expected 2 data points, got %d", len(hist.DataPoints))
	}
}
