package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dejobratic/restoadmin/internal/orders/domain"
)

const (
	EventOrderCreated     = "order.created"
	EventOrdersRefreshed  = "orders.refreshed"
	DefaultTopic          = "restoadmin.orders"
	defaultBatchTimeout   = 50 * time.Millisecond
	defaultPublishTimeout = 5 * time.Second
)

// Event is the JSON envelope written to the orders topic.
type Event struct {
	Type       string        `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Order      *domain.Order `json:"order,omitempty"`
	Count      *int          `json:"count,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type WriterConfig struct {
	Brokers []string
	Topic   string
}

// EventBus publishes order events to Kafka.
type EventBus struct {
	writer messageWriter
	now    func() time.Time
}

// NewEventBus creates a bus backed by a kafka-go writer. Topics are created
// on first write when the broker allows it.
func NewEventBus(cfg WriterConfig) *EventBus {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           defaultBatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newEventBus(w, time.Now)
}

func newEventBus(w messageWriter, now func() time.Time) *EventBus {
	return &EventBus{writer: w, now: now}
}

func (b *EventBus) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	return b.publish(ctx, order.Code, Event{Type: EventOrderCreated, Order: &order})
}

func (b *EventBus) PublishSnapshotRefreshed(ctx context.Context, count int) error {
	return b.publish(ctx, EventOrdersRefreshed, Event{Type: EventOrdersRefreshed, Count: &count})
}

func (b *EventBus) publish(ctx context.Context, key string, ev Event) error {
	ev.OccurredAt = b.now().UTC()

	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()
	}

	err = b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s event: %w", ev.Type, err)
	}
	return nil
}

// Close flushes pending messages.
func (b *EventBus) Close() error {
	return b.writer.Close()
}
