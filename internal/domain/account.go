package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a user's spendable wallet balance.
type Account struct {
	ID       string
	Name     string
	Currency string
	Balance  decimal.Decimal
	// OpeningBalance is the balance the account was provisioned with.
	// Reconciliation recomputes Balance as OpeningBalance plus the sum
	// of all recorded transactions.
	OpeningBalance decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks if the account can be debited by amount.
// The balance must never go negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateCredit checks if the account can be credited by amount.
func (a *Account) ValidateCredit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// ApplyDebit returns the new balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the new balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
