package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/metrics"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

// ParseSelection turns raw status and date parameters into a Selection.
func ParseSelection(status, date string) (domain.Selection, error) {
	d, err := domain.ParseDateFilter(date)
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Selection{Status: domain.ParseStatusFilter(status), Date: d}, nil
}

// VisibleOrdersQuery asks for the snapshot orders matching Selection as of Now.
type VisibleOrdersQuery struct {
	Selection domain.Selection
	Now       time.Time
}

// VisibleOrders is the filtered view of the snapshot.
type VisibleOrders struct {
	Orders      []domain.Order   `json:"orders"`
	Total       int              `json:"total"`
	Selection   domain.Selection `json:"selection"`
	RefreshedAt time.Time        `json:"refreshed_at"`
}

type VisibleOrdersQueryHandler struct {
	store   ports.SnapshotStore
	metrics *metrics.Metrics
}

// NewVisibleOrdersQueryHandler constructs the handler. m may be nil.
func NewVisibleOrdersQueryHandler(store ports.SnapshotStore, m *metrics.Metrics) *VisibleOrdersQueryHandler {
	return &VisibleOrdersQueryHandler{store: store, metrics: m}
}

func (h *VisibleOrdersQueryHandler) Handle(ctx context.Context, query VisibleOrdersQuery) (*VisibleOrders, error) {
	snap, err := h.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	sel := query.Selection
	if sel.Status == "" {
		sel.Status = domain.StatusAll
	}
	if sel.Date == "" {
		sel.Date = domain.DateAll
	}

	orders := domain.Filter(snap.Orders, sel, query.Now)
	if h.metrics != nil {
		h.metrics.RecordFilterEvaluation(ctx, string(sel.Date))
	}

	return &VisibleOrders{
		Orders:      orders,
		Total:       len(orders),
		Selection:   sel,
		RefreshedAt: snap.RefreshedAt,
	}, nil
}
