// Package mailer consumes order-confirmation events and sends the
// confirmation email. Delivery is attempted once per event: the event is
// marked processed before sending, and a failed send is logged, not retried.
package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ordertrackhq/order-tracker/internal/kafka"
	"github.com/ordertrackhq/order-tracker/internal/orders"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Deduper remembers event ids that were already handled, so redeliveries
// after a consumer restart do not mail twice.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

type Service struct {
	Dedup  Deduper
	Sender Sender
}

// HandleConfirmation is wired as the consumer handler for the confirmation
// topic. Malformed events are logged and skipped so a poison message never
// wedges the partition.
func (s *Service) HandleConfirmation(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		slog.Warn("skipping malformed event", "offset", m.Offset, "err", err)
		return nil
	}
	if env.EventType != orders.EventOrderConfirmation {
		return nil
	}

	if seen, err := s.Dedup.Seen(ctx, env.EventID); err != nil {
		return err // dedup store unavailable, retry the message
	} else if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.ConfirmationPayload](env.Payload)
	if err != nil {
		slog.Warn("skipping event with bad payload", "event_id", env.EventID, "err", err)
		return nil
	}

	if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
		return err
	}

	if p.Email == "" {
		slog.Info("order has no email, skipping confirmation", "order_id", p.OrderID)
		return nil
	}

	subject, body := render(p)
	if err := s.Sender.Send(ctx, p.Email, subject, body); err != nil {
		slog.Error("confirmation send failed", "order_id", p.OrderID, "err", err)
	}
	return nil
}

func render(p orders.ConfirmationPayload) (subject, body string) {
	name := p.Name
	if name == "" {
		name = "customer"
	}
	subject = fmt.Sprintf("Order confirmation %s", p.OrderID)
	body = fmt.Sprintf("Hi %s,\r\n\r\nWe received your order %s", name, p.OrderID)
	if p.Product != "" {
		body += fmt.Sprintf(" for %s", p.Product)
	}
	body += ".\r\n\r\nThank you!\r\n"
	return subject, body
}
