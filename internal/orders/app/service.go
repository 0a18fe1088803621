package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/restoadmin/internal/orders/app/commands"
	"github.com/dejobratic/restoadmin/internal/orders/app/queries"
	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/metrics"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

// Service bundles the order use cases behind the API and the board.
type Service struct {
	idemStore ports.IdempotencyStore

	createOrderHandler commands.CommandHandler
	refreshHandler     commands.RefreshHandler
	visibleHandler     *queries.VisibleOrdersQueryHandler
	summaryHandler     *queries.SummaryQueryHandler

	updates *broadcaster
	clock   func() time.Time
	loc     *time.Location
	recent  int
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLocation sets the zone in which order dates and "today" are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithRecentCount(n int) Option {
	return func(s *Service) { s.recent = n }
}

// NewService wires required dependencies.
func NewService(
	source ports.OrderSource,
	store ports.SnapshotStore,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	opts ...Option,
) *Service {
	createHandler := commands.NewObservableCommandHandler(
		commands.NewCreateOrderCommandHandler(source, store, events), logger, metrics)
	refreshHandler := commands.NewObservableRefreshHandler(
		commands.NewRefreshSnapshotCommandHandler(source, store, events), logger, metrics)

	s := &Service{
		idemStore:          idem,
		createOrderHandler: createHandler,
		refreshHandler:     refreshHandler,
		visibleHandler:     queries.NewVisibleOrdersQueryHandler(store, metrics),
		summaryHandler:     queries.NewSummaryQueryHandler(store),
		updates:            newBroadcaster(),
		clock:              time.Now,
		loc:                time.Local,
		recent:             domain.DefaultRecentOrders,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the service clock in the configured location.
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

// Refresh pulls the backend's order list into the snapshot and notifies
// subscribers when the snapshot changed.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	count, err := s.refreshHandler.Handle(ctx, commands.RefreshSnapshotCommand{At: s.Now()})
	if err == nil || count > 0 {
		s.updates.notify()
	}
	return count, err
}

// Visible returns the snapshot orders matching sel as of now.
func (s *Service) Visible(ctx context.Context, sel domain.Selection, now time.Time) (*queries.VisibleOrders, error) {
	return s.visibleHandler.Handle(ctx, queries.VisibleOrdersQuery{Selection: sel, Now: now})
}

func (s *Service) Summary(ctx context.Context, now time.Time) (*queries.Dashboard, error) {
	return s.summaryHandler.Handle(ctx, queries.SummaryQuery{Now: now, Recent: s.recent})
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	Username string             `json:"username"`
	Filial   string             `json:"filial"`
	Items    []domain.DraftItem `json:"items"`
}

// CreateOrder places the order. A non-nil order with a non-nil error means
// the backend accepted it but a local follow-up failed.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	order, err := s.createOrderHandler.Handle(ctx, commands.CreateOrderCommand{
		Username: input.Username,
		Filial:   input.Filial,
		Items:    input.Items,
	})
	if order != nil {
		s.updates.notify()
	}
	return order, err
}

// Subscribe returns a channel that receives a value after every snapshot
// change. Call cancel to stop receiving.
func (s *Service) Subscribe() (updates <-chan struct{}, cancel func()) {
	return s.updates.subscribe()
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
