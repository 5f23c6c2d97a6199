package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/roamstay/walletledger/internal/adapter/consumer/mocks"
	"github.com/roamstay/walletledger/internal/domain"
	ucmocks "github.com/roamstay/walletledger/internal/usecase/mocks"
)

func bookingMessage(value string) kafka.Message {
	return kafka.Message{
		Topic:  "booking.created",
		Offset: 42,
		Key:    []byte("bk-1"),
		Value:  []byte(value),
		Time:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

const validEvent = `{"event_type":"booking.created","booking_id":"bk-1","account_id":"acc-1","amount":"2500"}`

func TestBookingConsumer_AppliesDebitAndCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockMessageReader(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)
	deadLetters := ucmocks.NewMockDeadLetterPublisher()

	msg := bookingMessage(validEvent)

	var seen domain.BookingPayment
	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		processor.EXPECT().ProcessBookingPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, payment domain.BookingPayment) (*domain.Transaction, error) {
				seen = payment
				return &domain.Transaction{
					ID:        "txn-1",
					AccountID: payment.AccountID,
					BookingID: payment.BookingID,
					Amount:    payment.Amount,
					Kind:      domain.KindBookingPayment,
				}, nil
			}),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, context.Canceled),
	)

	c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

	if err := c.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if seen.BookingID != "bk-1" || seen.AccountID != "acc-1" {
		t.Fatalf("unexpected payment identifiers: %+v", seen)
	}
	if !seen.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected amount 2500, got %s", seen.Amount)
	}
	if !seen.OccurredAt.Equal(msg.Time) {
		t.Fatalf("expected message time as fallback occurred-at, got %s", seen.OccurredAt)
	}
	if len(deadLetters.Events()) != 0 {
		t.Fatalf("expected no dead letters, got %d", len(deadLetters.Events()))
	}
}

func TestBookingConsumer_DeadLettersPermanentRejections(t *testing.T) {
	tests := []struct {
		name       string
		processErr error
		reason     string
	}{
		{"account missing", domain.ErrAccountNotFound, domain.DeadLetterReasonAccountNotFound},
		{"insufficient funds", domain.ErrInsufficientFunds, domain.DeadLetterReasonInsufficientFunds},
		{"invalid payload", domain.ErrInvalidPayload, domain.DeadLetterReasonInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reader := mocks.NewMockMessageReader(ctrl)
			processor := mocks.NewMockPaymentProcessor(ctrl)
			deadLetters := ucmocks.NewMockDeadLetterPublisher()

			msg := bookingMessage(validEvent)

			gomock.InOrder(
				reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
				processor.EXPECT().ProcessBookingPayment(gomock.Any(), gomock.Any()).Return(nil, tt.processErr),
				reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
				reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, context.Canceled),
			)

			c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

			if err := c.Run(context.Background()); !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}

			events := deadLetters.Events()
			if len(events) != 1 {
				t.Fatalf("expected one dead letter, got %d", len(events))
			}
			if events[0].Reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, events[0].Reason)
			}
			if events[0].BookingID != "bk-1" || events[0].Amount != "2500" {
				t.Fatalf("unexpected dead letter payload: %+v", events[0])
			}
		})
	}
}

func TestBookingConsumer_TransientFailureLeavesOffsetUncommitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockMessageReader(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)
	deadLetters := ucmocks.NewMockDeadLetterPublisher()

	ambiguous := errors.New("connection reset during commit")
	wrapped := errors.Join(domain.ErrLedgerWriteIncomplete, ambiguous)

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(bookingMessage(validEvent), nil),
		processor.EXPECT().ProcessBookingPayment(gomock.Any(), gomock.Any()).Return(nil, wrapped),
	)

	c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

	if err := c.Run(context.Background()); !errors.Is(err, domain.ErrLedgerWriteIncomplete) {
		t.Fatalf("expected ledger write error to surface, got %v", err)
	}

	if len(deadLetters.Events()) != 0 {
		t.Fatalf("ambiguous failures must not be dead-lettered, got %d events", len(deadLetters.Events()))
	}
}

func TestBookingConsumer_UndecodableEventIsDeadLettered(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockMessageReader(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)
	deadLetters := ucmocks.NewMockDeadLetterPublisher()

	msg := bookingMessage(`{not json`)

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, context.Canceled),
	)

	c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

	if err := c.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	events := deadLetters.Events()
	if len(events) != 1 || events[0].Reason != domain.DeadLetterReasonInvalidPayload {
		t.Fatalf("expected invalid payload dead letter, got %+v", events)
	}
}

func TestBookingConsumer_NonPositiveAmountIsDeadLettered(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockMessageReader(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)
	deadLetters := ucmocks.NewMockDeadLetterPublisher()

	msg := bookingMessage(`{"event_type":"booking.created","booking_id":"bk-1","account_id":"acc-1","amount":"-10"}`)

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, context.Canceled),
	)

	c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

	if err := c.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	events := deadLetters.Events()
	if len(events) != 1 || events[0].Reason != domain.DeadLetterReasonInvalidPayload {
		t.Fatalf("expected invalid payload dead letter, got %+v", events)
	}
}

func TestBookingConsumer_IgnoresForeignEventTypes(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockMessageReader(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)
	deadLetters := ucmocks.NewMockDeadLetterPublisher()

	msg := bookingMessage(`{"event_type":"booking.cancelled","booking_id":"bk-1"}`)

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, context.Canceled),
	)

	c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

	if err := c.Run(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(deadLetters.Events()) != 0 {
		t.Fatalf("foreign event types must not be dead-lettered")
	}
}

func TestBookingConsumer_DeadLetterPublishFailureBlocksCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockMessageReader(ctrl)
	processor := mocks.NewMockPaymentProcessor(ctrl)

	publishErr := errors.New("broker unavailable")
	deadLetters := ucmocks.NewMockDeadLetterPublisher()
	deadLetters.PublishFunc = func(context.Context, *domain.DeadLetterEvent) error {
		return publishErr
	}

	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(bookingMessage(validEvent), nil),
		processor.EXPECT().ProcessBookingPayment(gomock.Any(), gomock.Any()).Return(nil, domain.ErrInsufficientFunds),
	)

	c := NewBookingConsumer(reader, processor, deadLetters, nil, zerolog.Nop())

	if err := c.Run(context.Background()); !errors.Is(err, publishErr) {
		t.Fatalf("expected publish error to surface, got %v", err)
	}
}
