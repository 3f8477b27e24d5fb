// Package events streams order lifecycle events to Kafka for the external
// moderation pipeline. The stream is best-effort: publish failures are
// logged and never fail the originating operation.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/nordbyte/orderbot/internal/order"
)

const publishTimeout = 3 * time.Second

// Event is the wire shape of one lifecycle record.
type Event struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	Action        string    `json:"action,omitempty"`
	GameName      string    `json:"game_name"`
	RawPrice      string    `json:"raw_price"`
	PaymentMethod string    `json:"payment_method"`
	RequesterID   int64     `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher writes order events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

var _ order.EventSink = (*Publisher)(nil)

// NewPublisher builds a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Publisher{
		writer: writer,
		log:    log,
	}
}

// OrderCreated publishes an order_created event.
func (p *Publisher) OrderCreated(ctx context.Context, o *order.Order) {
	p.publish(ctx, eventFromOrder("order_created", o, ""))
}

// OrderTransitioned publishes an order_transitioned event.
func (p *Publisher) OrderTransitioned(ctx context.Context, o *order.Order, action order.Action) {
	p.publish(ctx, eventFromOrder("order_transitioned", o, action))
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}

	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, ev Event) {
	if p == nil || p.writer == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("failed to encode order event", slog.String("order_id", ev.OrderID), slog.Any("error", err))
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
	}

	if err := p.writer.WriteMessages(publishCtx, msg); err != nil {
		p.log.Warn("failed to publish order event",
			slog.String("type", ev.Type),
			slog.String("order_id", ev.OrderID),
			slog.Any("error", err),
		)
	}
}

func eventFromOrder(eventType string, o *order.Order, action order.Action) Event {
	ev := Event{
		Type:       eventType,
		Action:     string(action),
		OccurredAt: time.Now().UTC(),
	}

	if o != nil {
		ev.OrderID = o.ID
		ev.Status = string(o.Status)
		ev.GameName = o.GameName
		ev.RawPrice = o.RawPrice
		ev.PaymentMethod = string(o.PaymentMethod)
		ev.RequesterID = o.RequesterID
		ev.RequesterName = o.RequesterName
	}

	return ev
}
