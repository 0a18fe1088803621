//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dejobratic/restoadmin/internal/database/dbtest"
	"github.com/dejobratic/restoadmin/internal/idempotency/postgres"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

func TestStore(t *testing.T) {
	store := postgres.NewStore(dbtest.Postgres(t))
	ctx := context.Background()

	t.Run("unknown key", func(t *testing.T) {
		got, err := store.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("expected nil response, got %+v", got)
		}
	})

	t.Run("first response wins", func(t *testing.T) {
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
	})
}
