package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

type SummaryQuery struct {
	Now    time.Time
	Recent int
}

// Dashboard is the summary shown on the admin landing page.
type Dashboard struct {
	domain.Summary
	RevenueText string    `json:"revenue_text"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

type SummaryQueryHandler struct {
	store ports.SnapshotStore
}

func NewSummaryQueryHandler(store ports.SnapshotStore) *SummaryQueryHandler {
	return &SummaryQueryHandler{store: store}
}

func (h *SummaryQueryHandler) Handle(ctx context.Context, query SummaryQuery) (*Dashboard, error) {
	snap, err := h.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	summary := domain.Summarize(snap.Orders, query.Now, query.Recent)
	return &Dashboard{
		Summary:     summary,
		RevenueText: domain.FormatSum(summary.Revenue),
		RefreshedAt: snap.RefreshedAt,
	}, nil
}
