package database

import (
	"context"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	ctx := context.Background()
	m.RecordQuery(ctx, "postgres", "replace", 0.1, nil)
	m.RecordQuery(ctx, "postgres", "load", 0.05, nil)
	m.RecordQuery(ctx, "sqlite", "load", 0.02, errors.New("locked"))

	got := collect(t, reader)

	hist, ok := got["db_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("db_query_duration_seconds missing or not a float64 histogram")
	}
	if len(hist.DataPoints) != 3 {
		t.Errorf("expected 3 data points, got %d", len(hist.DataPoints))
	}

	sum, ok := got["db_query_errors_total"].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("db_query_errors_total missing or not an int64 sum")
	}
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
		t.Errorf("unexpected error points: %+v", sum.DataPoints)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckHealthAppliesDeadline(t *testing.T) {
	err := CheckHealth(context.Background(), pingFunc(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("CheckHealth() = %v", err)
	}

	want := errors.New("down")
	if err := CheckHealth(context.Background(), pingFunc(func(context.Context) error { return want })); !errors.Is(err, want) {
		t.Errorf("CheckHealth() = %v, want %v", err, want)
	}
}

func TestDialectDriverName(t *testing.T) {
	if Postgres.DriverName() != "pgx" || SQLite.DriverName() != "sqlite" {
		t.Errorf("unexpected driver names %q %q", Postgres.DriverName(), SQLite.DriverName())
	}
}

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := Open(SQLite, "file:"+t.TempDir()+"/migrate.db")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db, SQLite); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(db, SQLite); err != nil {
		t.Fatalf("second run should be a no-op: %v", err)
	}

	for _, table := range []string{"order_snapshots", "snapshot_meta", "idempotency_keys"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
