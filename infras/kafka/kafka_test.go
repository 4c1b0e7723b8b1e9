package kafka_test

import (
	"context"
	"encoding/json"
	"hms/config"
	"hms/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomEvent struct {
	Room   int    `json:"room"`
	Status string `json:"status"`
}

func TestMessageRoundTrip(t *testing.T) {
	message := kafka.Message{Key: "K9Z2Q", Value: roomEvent{Room: 12, Status: "checkedin"}}

	encoded, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("K9Z2Q"), encoded.Key)
	assert.JSONEq(t, `{"room":12,"status":"checkedin"}`, string(encoded.Value))

	var decoded roomEvent

	require.NoError(t, json.Unmarshal(encoded.Value, &decoded))
	assert.Equal(t, roomEvent{Room: 12, Status: "checkedin"}, decoded)
}

func TestToKafkaMessageUnsupportedValue(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage()
	assert.Error(t, err)
}

func TestNewDisabled(t *testing.T) {
	cfg := &config.Config{}

	client := kafka.New(cfg)

	assert.NoError(t, client.SendMessages(context.Background(), "hms.booking.events", kafka.Message{Key: "k", Value: 1}))
	assert.NoError(t, client.Close())
}
