package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/roamstay/walletledger/internal/domain"
)

// MessageWriter is the subset of kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaDeadLetterPublisher publishes rejected booking events to the
// dead-letter topic so the booking flow can compensate.
type KafkaDeadLetterPublisher struct {
	writer MessageWriter
	logger zerolog.Logger
}

// NewKafkaDeadLetterPublisher creates a new KafkaDeadLetterPublisher.
func NewKafkaDeadLetterPublisher(writer MessageWriter, logger zerolog.Logger) *KafkaDeadLetterPublisher {
	return &KafkaDeadLetterPublisher{writer: writer, logger: logger}
}

// Publish writes the dead-letter event keyed by booking ID.
func (p *KafkaDeadLetterPublisher) Publish(ctx context.Context, event *domain.DeadLetterEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dead-letter event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.BookingID),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write dead-letter event: %w", err)
	}

	p.logger.Info().
		Str("booking_id", event.BookingID).
		Str("reason", event.Reason).
		Msg("dead-letter event published")

	return nil
}
