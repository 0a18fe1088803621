package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dejobratic/restoadmin/internal/database"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
	"github.com/dejobratic/restoadmin/internal/telemetry"
)

// ObservableSnapshotStore traces and times every call to the wrapped store.
type ObservableSnapshotStore struct {
	store   ports.SnapshotStore
	backend string
	metrics *database.Metrics
}

func NewObservableSnapshotStore(store ports.SnapshotStore, backend string, metrics *database.Metrics) *ObservableSnapshotStore {
	return &ObservableSnapshotStore{store: store, backend: backend, metrics: metrics}
}

func (s *ObservableSnapshotStore) observe(ctx context.Context, operation string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	attrs = append(attrs,
		attribute.String("db.backend", s.backend),
		attribute.String("operation", operation),
	)
	ctx, span := telemetry.StartSpan(ctx, "SnapshotStore."+operation, attrs...)

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordQuery(ctx, s.backend, operation, time.Since(start).Seconds(), err)

	telemetry.FinishSpan(span, err)
	return err
}

func (s *ObservableSnapshotStore) Replace(ctx context.Context, orders []domain.Order, at time.Time) error {
	return s.observe(ctx, "replace",
		[]attribute.KeyValue{attribute.Int("snapshot.size", len(orders))},
		func(ctx context.Context) error { return s.store.Replace(ctx, orders, at) },
	)
}

func (s *ObservableSnapshotStore) Prepend(ctx context.Context, order domain.Order) error {
	return s.observe(ctx, "prepend",
		[]attribute.KeyValue{attribute.String("order.code", order.Code)},
		func(ctx context.Context) error { return s.store.Prepend(ctx, order) },
	)
}

func (s *ObservableSnapshotStore) Load(ctx context.Context) (ports.Snapshot, error) {
	var snap ports.Snapshot
	err := s.observe(ctx, "load", nil, func(ctx context.Context) error {
		var err error
		snap, err = s.store.Load(ctx)
		return err
	})
	return snap, err
}

// Ping forwards to the wrapped store when it supports health checks.
func (s *ObservableSnapshotStore) Ping(ctx context.Context) error {
	if p, ok := s.store.(database.Pinger); ok {
		return database.CheckHealth(ctx, p)
	}
	return nil
}
