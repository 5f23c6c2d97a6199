package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReaderConfig(t *testing.T) {
	reader := NewReader([]string{"kafka-1:9092", "kafka-2:9092"}, "walletledger", "booking.created")
	require.NotNil(t, reader)
	defer reader.Close()

	cfg := reader.Config()
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "walletledger", cfg.GroupID)
	assert.Equal(t, "booking.created", cfg.Topic)
}

func TestNewWriterConfig(t *testing.T) {
	writer := NewWriter([]string{"kafka-1:9092"}, "booking.created.dlq")
	require.NotNil(t, writer)
	defer writer.Close()

	assert.Equal(t, "booking.created.dlq", writer.Topic)
	assert.Equal(t, kafkago.RequireOne, writer.RequiredAcks)
	assert.False(t, writer.Async)
}
