package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dejobratic/restoadmin/internal/orders/adapters/memory"
	"github.com/dejobratic/restoadmin/internal/orders/app/queries"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

var (
	loc        = time.FixedZone("UZT", 5*60*60)
	now        = time.Date(2025, 3, 7, 15, 0, 0, 0, loc)
	refreshed  = time.Date(2025, 3, 7, 14, 59, 50, 0, loc)
	snapOrders = []domain.Order{
		{Code: "25-03-07-3", Status: domain.StatusSentToPrinter, Created: "2025-03-07T14:00:00", Total: 27000},
		{Code: "25-03-07-2", Status: domain.StatusCompleted, Created: "2025-03-07T10:00:00", Total: 1250000},
		{Code: "25-03-01-1", Status: domain.StatusCompleted, Created: "2025-03-01T10:00:00"},
		{Code: "25-01-15-1", Status: domain.StatusCancelled, Created: "2025-01-15T10:00:00"},
	}
)

func seededStore(t *testing.T) *memory.SnapshotStore {
	t.Helper()
	store := memory.NewSnapshotStore()
	if err := store.Replace(context.Background(), snapOrders, refreshed); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return store
}

type failingStore struct{ ports.SnapshotStore }

func (failingStore) Load(context.Context) (ports.Snapshot, error) {
	return ports.Snapshot{}, errors.New("disk on fire")
}

func codes(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Code)
	}
	return out
}

func TestParseSelection(t *testing.T) {
	sel, err := queries.ParseSelection("", "")
	if err != nil {
		t.Fatalf("ParseSelection() error = %v", err)
	}
	if sel != domain.Everything() {
		t.Errorf("ParseSelection(empty) = %+v, want everything", sel)
	}

	sel, err = queries.ParseSelection("completed", "week")
	if err != nil {
		t.Fatalf("ParseSelection() error = %v", err)
	}
	want := domain.Selection{Status: "completed", Date: domain.DateWeek}
	if sel != want {
		t.Errorf("ParseSelection() = %+v, want %+v", sel, want)
	}

	if _, err := queries.ParseSelection("", "yesterday"); !errors.Is(err, domain.ErrInvalidDateFilter) {
		t.Errorf("ParseSelection(bad date) error = %v, want ErrInvalidDateFilter", err)
	}
}

func TestVisibleOrders(t *testing.T) {
	tests := []struct {
		name string
		sel  domain.Selection
		want []string
	}{
		{"zero selection keeps everything", domain.Selection{}, []string{"25-03-07-3", "25-03-07-2", "25-03-01-1", "25-01-15-1"}},
		{"today", domain.Selection{Date: domain.DateToday}, []string{"25-03-07-3", "25-03-07-2"}},
		{"completed this week", domain.Selection{Status: "completed", Date: domain.DateWeek}, []string{"25-03-07-2", "25-03-01-1"}},
		{"cancelled this month", domain.Selection{Status: "cancelled", Date: domain.DateMonth}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := queries.NewVisibleOrdersQueryHandler(seededStore(t), nil)

			got, err := handler.Handle(context.Background(), queries.VisibleOrdersQuery{Selection: tt.sel, Now: now})
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, codes(got.Orders)); diff != "" {
				t.Errorf("orders mismatch (-want +got):\n%s", diff)
			}
			if got.Total != len(tt.want) {
				t.Errorf("Total = %d, want %d", got.Total, len(tt.want))
			}
			if !got.RefreshedAt.Equal(refreshed) {
				t.Errorf("RefreshedAt = %v, want %v", got.RefreshedAt, refreshed)
			}
			if got.Selection.Status == "" || got.Selection.Date == "" {
				t.Errorf("Selection = %+v, want normalised values", got.Selection)
			}
		})
	}
}

func TestVisibleOrdersLeavesSnapshotUntouched(t *testing.T) {
	store := seededStore(t)
	handler := queries.NewVisibleOrdersQueryHandler(store, nil)

	if _, err := handler.Handle(context.Background(), queries.VisibleOrdersQuery{
		Selection: domain.Selection{Status: "completed"},
		Now:       now,
	}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	snap, _ := store.Load(context.Background())
	if diff := cmp.Diff(snapOrders, snap.Orders); diff != "" {
		t.Errorf("snapshot changed (-want +got):\n%s", diff)
	}
}

func TestVisibleOrdersStoreError(t *testing.T) {
	handler := queries.NewVisibleOrdersQueryHandler(failingStore{}, nil)
	if _, err := handler.Handle(context.Background(), queries.VisibleOrdersQuery{Now: now}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSummary(t *testing.T) {
	handler := queries.NewSummaryQueryHandler(seededStore(t))

	got, err := handler.Handle(context.Background(), queries.SummaryQuery{Now: now, Recent: 3})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got.Total != 4 || got.Today != 2 {
		t.Errorf("Total/Today = %d/%d, want 4/2", got.Total, got.Today)
	}
	if got.Active != 1 || got.Revenue != 1277000 {
		t.Errorf("Active/Revenue = %d/%v, want 1/1277000", got.Active, got.Revenue)
	}
	if got.RevenueText != "1 277 000 so'm" {
		t.Errorf("RevenueText = %q", got.RevenueText)
	}
	if diff := cmp.Diff([]string{"25-03-07-3", "25-03-07-2", "25-03-01-1"}, codes(got.Recent)); diff != "" {
		t.Errorf("Recent mismatch (-want +got):\n%s", diff)
	}
	if !got.RefreshedAt.Equal(refreshed) {
		t.Errorf("RefreshedAt = %v", got.RefreshedAt)
	}

	if _, err := queries.NewSummaryQueryHandler(failingStore{}).Handle(context.Background(), queries.SummaryQuery{Now: now}); err == nil {
		t.Error("expected an error from a failing store")
	}
}
