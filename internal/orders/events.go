package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderConfirmation = "OrderConfirmation"

	TopicOrderConfirmation = "order.confirmation"
)

// Envelope wraps every event on the wire with routing/debugging metadata.
type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // EventOrderConfirmation
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "order-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// ConfirmationPayload carries what the mailer needs to send a confirmation.
type ConfirmationPayload struct {
	OrderID string `json:"order_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Product string `json:"product"`
}

// Partition key = order id, so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
