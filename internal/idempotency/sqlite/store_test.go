package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dejobratic/restoadmin/internal/database"
	"github.com/dejobratic/restoadmin/internal/idempotency/sqlite"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

func TestStore(t *testing.T) {
	db, err := database.Open(database.SQLite, filepath.Join(t.TempDir(), "idem.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.RunMigrations(db, database.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := sqlite.NewStore(db)
	ctx := context.Background()

	if got, err := store.Get(ctx, "nope"); err != nil || got != nil {
		t.Fatalf("Get(unknown) = %+v, %v; want nil, nil", got, err)
	}

	first := ports.StoredResponse{StatusCode: 201, Body: []byte(`{"order":{}}`), OrderCode: "25-03-07-004"}
	if err := store.Save(ctx, "key-1", first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, "key-1", ports.StoredResponse{StatusCode: 400, Body: []byte(`{}`)}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(&first, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}
