// Package notify dispatches the order-confirmation side effect. The contract
// is best-effort: callers never wait for delivery and never see a failure.
package notify

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ordertrackhq/order-tracker/internal/kafka"
	"github.com/ordertrackhq/order-tracker/internal/orders"
)

// Confirmation is what the mailer needs to send one confirmation email.
type Confirmation struct {
	OrderID string
	Email   string
	Name    string
	Product string
}

// Notifier is invoked after a record has been persisted. Implementations must
// not block on broker or network I/O and must swallow their own failures.
type Notifier interface {
	OrderCreated(ctx context.Context, c Confirmation)
}

// Publisher is the slice of the async producer the notifier needs.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// KafkaNotifier publishes OrderConfirmation events for the mailer worker.
// Publish only enqueues; write errors are logged in the producer loop.
type KafkaNotifier struct {
	Producer Publisher
	Service  string
}

func (n *KafkaNotifier) OrderCreated(ctx context.Context, c Confirmation) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderConfirmation,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.Service,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: c.OrderID,
		Payload: kafkax.MustMarshal(orders.ConfirmationPayload{
			OrderID: c.OrderID,
			Email:   c.Email,
			Name:    c.Name,
			Product: c.Product,
		}),
	}
	n.Producer.Publish(orders.PartitionKey(c.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderConfirmation)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// Nop drops confirmations, for tests and local runs without a broker.
type Nop struct{}

func (Nop) OrderCreated(context.Context, Confirmation) {}
