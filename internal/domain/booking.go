package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingPayment is the creation event that triggers a wallet debit.
// It is produced by the booking flow and consumed exactly once per
// booking; replays are absorbed by the idempotency guard.
type BookingPayment struct {
	BookingID  string
	AccountID  string
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// Validate rejects malformed payloads before any state is touched.
func (p *BookingPayment) Validate() error {
	if strings.TrimSpace(p.BookingID) == "" {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(p.AccountID) == "" {
		return ErrInvalidPayload
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPayload
	}
	return nil
}
