package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), domain.OrderPlaced{OrderID: "o1"}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_PublishOrderPlaced(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})
	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)

	p := NewKafkaPublisher(brokers...)
	defer p.Close()

	placed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	event := domain.OrderPlaced{OrderID: "order-1", UserID: "user-1", TotalAmount: 20, PlacedAt: placed}
	require.Eventually(t, func() bool {
		return p.PublishOrderPlaced(ctx, event) == nil
	}, 30*time.Second, time.Second)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: brokers,
		Topic:   domain.OrderEventsTopic,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, eventTypeOrderPlaced, string(msg.Headers[0].Value))

	var got domain.OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, placed.Equal(got.PlacedAt))
}
