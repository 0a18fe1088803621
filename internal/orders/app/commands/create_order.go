package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
	"github.com/dejobratic/restoadmin/internal/orders/ports"
)

type CreateOrderCommand struct {
	Username string
	Filial   string
	Items    []domain.DraftItem
}

// Draft validates the command and returns the payload for the backend.
func (c CreateOrderCommand) Draft() (domain.OrderDraft, error) {
	return domain.OrderDraft{
		Username: strings.TrimSpace(c.Username),
		Filial:   strings.TrimSpace(c.Filial),
		Items:    c.Items,
	}.Validate()
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

// CreateOrderCommandHandler places the order with the backend and patches
// the local snapshot so the new order shows up before the next refresh.
type CreateOrderCommandHandler struct {
	source ports.OrderSource
	store  ports.SnapshotStore
	events ports.EventBus
}

func NewCreateOrderCommandHandler(
	source ports.OrderSource,
	store ports.SnapshotStore,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		source: source,
		store:  store,
		events: events,
	}
}

// Handle returns the created order together with an error when the order
// was placed but a follow-up step failed.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	draft, err := cmd.Draft()
	if err != nil {
		return nil, err
	}

	order, err := h.source.CreateOrder(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := h.store.Prepend(ctx, *order); err != nil {
		return order, fmt.Errorf("order created but snapshot not updated: %w", err)
	}

	if err := h.events.PublishOrderCreated(ctx, *order); err != nil {
		return order, fmt.Errorf("order created but failed to publish event: %w", err)
	}

	return order, nil
}
