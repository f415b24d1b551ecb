package kafka_test

import (
	"context"
	"testing"

	"parking/config"
	"parking/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{Key: "booking-1", Value: payload{ID: "booking-1", Status: "pending"}}

	msg, err := message.ToKafkaMessage("booking-events")
	require.NoError(t, err)

	assert.Equal(t, "booking-events", msg.Topic)
	assert.Equal(t, []byte("booking-1"), msg.Key)
	assert.JSONEq(t, `{"id":"booking-1","status":"pending"}`, string(msg.Value))

	key, decoded, err := kafka.DecodeKafkaMessage[payload](msg)
	require.NoError(t, err)
	assert.Equal(t, "booking-1", key)
	assert.Equal(t, "pending", decoded.Status)
}

func TestMessage_UnsupportedValue(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage("topic")
	assert.Error(t, err)
}

func TestNew_DisabledIsNoop(t *testing.T) {
	cfg := &config.Config{}

	client := kafka.New(cfg)

	assert.NoError(t, client.SendMessages(context.Background(), "booking-events", kafka.Message{Key: "k", Value: "v"}))
	assert.NoError(t, client.Close())
}
