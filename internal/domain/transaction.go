package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies ledger transactions.
type TransactionKind string

const (
	// KindBookingPayment is a debit charged for a newly created booking.
	KindBookingPayment TransactionKind = "BOOKING_PAYMENT"
	// KindWalletTopUp is a credit applied when a wallet is funded.
	KindWalletTopUp TransactionKind = "WALLET_TOPUP"
)

// Transaction is an immutable audit entry for a balance mutation.
// Once written it is never updated or deleted. Amount is always
// positive; Kind determines the direction of the mutation.
type Transaction struct {
	ID              string
	AccountID       string
	BookingID       string // empty for non-booking kinds
	Amount          decimal.Decimal
	Kind            TransactionKind
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
	CreatedAt       time.Time
}

// SignedAmount returns the amount with the sign of its effect on the
// balance: negative for debits, positive for credits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindBookingPayment {
		return t.Amount.Neg()
	}
	return t.Amount
}
