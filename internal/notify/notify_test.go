package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	kafkax "github.com/ordertrackhq/order-tracker/internal/kafka"
	"github.com/ordertrackhq/order-tracker/internal/orders"
)

type capturePublisher struct {
	key     []byte
	value   []byte
	headers []kafkago.Header
	calls   int
}

func (p *capturePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	p.key, p.value, p.headers = key, value, headers
	p.calls++
}

func TestKafkaNotifierOrderCreated(t *testing.T) {
	pub := &capturePublisher{}
	n := &KafkaNotifier{Producer: pub, Service: "order-api"}

	n.OrderCreated(context.Background(), Confirmation{
		OrderID: "o-1", Email: "c@example.com", Name: "Ada", Product: "widget",
	})

	require.Equal(t, 1, pub.calls)
	require.Equal(t, []byte("o-1"), pub.key, "partitioned by order id")

	var env orders.Envelope
	require.NoError(t, json.Unmarshal(pub.value, &env))
	require.NotEmpty(t, env.EventID)
	require.Equal(t, orders.EventOrderConfirmation, env.EventType)
	require.Equal(t, 1, env.EventVersion)
	require.WithinDuration(t, time.Now(), env.OccurredAt, time.Minute)
	require.Equal(t, "order-api", env.Producer)
	require.Equal(t, "o-1", env.CorrelationID)

	p, err := kafkax.UnwrapPayload[orders.ConfirmationPayload](env.Payload)
	require.NoError(t, err)
	require.Equal(t, orders.ConfirmationPayload{
		OrderID: "o-1", Email: "c@example.com", Name: "Ada", Product: "widget",
	}, p)

	require.Len(t, pub.headers, 2)
	require.Equal(t, "x-event-type", pub.headers[0].Key)
	require.Equal(t, []byte(orders.EventOrderConfirmation), pub.headers[0].Value)
}

func TestKafkaNotifierUniqueEventIDs(t *testing.T) {
	pub := &capturePublisher{}
	n := &KafkaNotifier{Producer: pub, Service: "order-api"}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		n.OrderCreated(context.Background(), Confirmation{OrderID: "o-1"})
		var env orders.Envelope
		require.NoError(t, json.Unmarshal(pub.value, &env))
		require.False(t, seen[env.EventID])
		seen[env.EventID] = true
	}
}
