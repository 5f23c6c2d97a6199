package consumer

//go:generate mockgen -source=consumer.go -destination=mocks/mock_consumer.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/roamstay/walletledger/internal/domain"
	"github.com/roamstay/walletledger/internal/infrastructure/metrics"
	"github.com/roamstay/walletledger/internal/usecase"
)

// PaymentProcessor applies a booking payment to the owning wallet.
type PaymentProcessor interface {
	ProcessBookingPayment(ctx context.Context, payment domain.BookingPayment) (*domain.Transaction, error)
}

// MessageReader is the subset of kafka.Reader the consumer uses.
// Offsets are committed explicitly, after the event is either applied
// or dead-lettered.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BookingConsumer reads booking-created events and charges wallets.
type BookingConsumer struct {
	reader      MessageReader
	processor   PaymentProcessor
	deadLetters usecase.DeadLetterPublisher
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewBookingConsumer creates a new BookingConsumer. metrics may be nil.
func NewBookingConsumer(
	reader MessageReader,
	processor PaymentProcessor,
	deadLetters usecase.DeadLetterPublisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *BookingConsumer {
	return &BookingConsumer{
		reader:      reader,
		processor:   processor,
		deadLetters: deadLetters,
		metrics:     m,
		logger:      logger,
	}
}

// Close closes the underlying reader.
func (c *BookingConsumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Run consumes booking events until the context is cancelled or an
// infrastructure failure leaves an event neither applied nor
// dead-lettered. The uncommitted offset makes the broker redeliver
// that event; the replay guard in the processor absorbs any duplicate
// delivery of events that did get applied.
func (c *BookingConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.handle(ctx, msg); err != nil {
			c.logger.Error().Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("booking event not handled, leaving offset uncommitted")
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// handle applies one booking event. A nil return means the offset may
// be committed: the debit was applied, the event was a replay, or the
// event was rejected permanently and dead-lettered.
func (c *BookingConsumer) handle(ctx context.Context, msg kafka.Message) error {
	var event domain.BookingCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Warn().Err(err).
			Int64("offset", msg.Offset).
			Msg("undecodable booking event")
		return c.deadLetter(ctx, event, domain.DeadLetterReasonInvalidPayload, err)
	}

	if event.EventType != "" && event.EventType != domain.EventTypeBookingCreated {
		c.logger.Debug().
			Str("event_type", event.EventType).
			Msg("ignoring event of foreign type")
		c.countOutcome("skipped")
		return nil
	}

	payment, err := paymentFromEvent(event, msg.Time)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("booking_id", event.BookingID).
			Msg("invalid booking payload")
		return c.deadLetter(ctx, event, domain.DeadLetterReasonInvalidPayload, err)
	}

	start := time.Now()
	txn, err := c.processor.ProcessBookingPayment(ctx, payment)
	if err != nil {
		return c.handleProcessError(ctx, event, err)
	}

	c.logger.Info().
		Str("booking_id", txn.BookingID).
		Str("account_id", txn.AccountID).
		Str("transaction_id", txn.ID).
		Str("amount", txn.Amount.String()).
		Msg("booking payment applied")

	if c.metrics != nil {
		c.metrics.DebitsProcessed.Inc()
		c.metrics.DebitDuration.Observe(time.Since(start).Seconds())
		amount, _ := txn.Amount.Float64()
		c.metrics.DebitAmount.Observe(amount)
	}
	c.countOutcome("applied")

	return nil
}

// handleProcessError splits processor failures into permanent
// rejections, which are dead-lettered and committed, and transient
// ones, which are surfaced so the event is redelivered.
func (c *BookingConsumer) handleProcessError(ctx context.Context, event domain.BookingCreatedEvent, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return c.deadLetter(ctx, event, domain.DeadLetterReasonInvalidPayload, err)
	case errors.Is(err, domain.ErrAccountNotFound):
		return c.deadLetter(ctx, event, domain.DeadLetterReasonAccountNotFound, err)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return c.deadLetter(ctx, event, domain.DeadLetterReasonInsufficientFunds, err)
	default:
		// Includes ambiguous ledger writes and infrastructure
		// failures. Redelivery plus the replay guard sorts these out.
		c.countOutcome("retried")
		return err
	}
}

func (c *BookingConsumer) deadLetter(ctx context.Context, event domain.BookingCreatedEvent, reason string, cause error) error {
	dl := &domain.DeadLetterEvent{
		BookingID: event.BookingID,
		AccountID: event.AccountID,
		Amount:    event.Amount,
		Reason:    reason,
	}
	if cause != nil {
		dl.Error = cause.Error()
	}

	if err := c.deadLetters.Publish(ctx, dl); err != nil {
		return err
	}

	c.logger.Warn().
		Str("booking_id", event.BookingID).
		Str("reason", reason).
		Msg("booking event dead-lettered")

	if c.metrics != nil {
		c.metrics.EventsDeadLettered.WithLabelValues(reason).Inc()
		c.metrics.DebitsFailed.WithLabelValues(reason).Inc()
	}
	c.countOutcome("dead_lettered")

	return nil
}

func (c *BookingConsumer) countOutcome(outcome string) {
	if c.metrics != nil {
		c.metrics.EventsConsumed.WithLabelValues(outcome).Inc()
	}
}

func paymentFromEvent(event domain.BookingCreatedEvent, fallback time.Time) (domain.BookingPayment, error) {
	amount, err := decimal.NewFromString(event.Amount)
	if err != nil {
		return domain.BookingPayment{}, domain.ErrInvalidPayload
	}

	occurredAt := fallback
	if event.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, event.CreatedAt); err == nil {
			occurredAt = ts
		}
	}

	payment := domain.BookingPayment{
		BookingID:  event.BookingID,
		AccountID:  event.AccountID,
		Amount:     amount,
		OccurredAt: occurredAt,
	}

	if err := payment.Validate(); err != nil {
		return domain.BookingPayment{}, err
	}

	return payment, nil
}
