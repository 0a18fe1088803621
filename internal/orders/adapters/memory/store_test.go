package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dejobratic/restoadmin/internal/orders/adapters/memory"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

func TestSnapshotStoreReplaceAndLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()

	empty, err := store.Load(ctx)
	if err != nil || len(empty.Orders) != 0 || !empty.RefreshedAt.IsZero() {
		t.Fatalf("fresh store = %+v, %v", empty, err)
	}

	at := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	orders := []domain.Order{{Code: "25-03-07-2"}, {Code: "25-03-07-1"}}
	if err := store.Replace(ctx, orders, at); err != nil {
		t.Fatal(err)
	}

	orders[0].Code = "mutated"

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]domain.Order{{Code: "25-03-07-2"}, {Code: "25-03-07-1"}}, snap.Orders); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if !snap.RefreshedAt.Equal(at) {
		t.Errorf("RefreshedAt = %v, want %v", snap.RefreshedAt, at)
	}

	snap.Orders[1].Code = "mutated"
	again, _ := store.Load(ctx)
	if again.Orders[1].Code != "25-03-07-1" {
		t.Error("Load must return a copy")
	}
}

func TestSnapshotStorePrepend(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()

	_ = store.Replace(ctx, []domain.Order{{Code: "b"}, {Code: "c"}}, time.Now())
	if err := store.Prepend(ctx, domain.Order{Code: "a"}); err != nil {
		t.Fatal(err)
	}

	snap, _ := store.Load(ctx)
	var got []string
	for _, o := range snap.Orders {
		got = append(got, o.Code)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSnapshotStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Prepend(ctx, domain.Order{Code: "x"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Load(ctx)
		}()
	}
	wg.Wait()

	snap, _ := store.Load(ctx)
	if len(snap.Orders) != 20 {
		t.Errorf("expected 20 orders, got %d", len(snap.Orders))
	}
}
