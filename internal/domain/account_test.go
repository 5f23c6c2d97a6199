package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		debitAmount decimal.Decimal
		wantErr     error
	}{
		{
			name:        "debit less than balance",
			balance:     decimal.NewFromInt(10000),
			debitAmount: decimal.NewFromInt(2500),
			wantErr:     nil,
		},
		{
			name:        "debit exact balance",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(100),
			wantErr:     nil,
		},
		{
			name:        "debit more than balance",
			balance:     decimal.NewFromInt(1000),
			debitAmount: decimal.NewFromInt(2500),
			wantErr:     ErrInsufficientFunds,
		},
		{
			name:        "zero amount",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.Zero,
			wantErr:     ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			balance:     decimal.NewFromInt(100),
			debitAmount: decimal.NewFromInt(-5),
			wantErr:     ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			err := acc.ValidateDebit(tt.debitAmount)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccount_ApplyDebit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(10000)}

	newBalance := acc.ApplyDebit(decimal.NewFromInt(2500))

	if !newBalance.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("expected 7500, got %s", newBalance)
	}

	// ApplyDebit must not mutate the account
	if !acc.Balance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("account balance mutated to %s", acc.Balance)
	}
}

func TestAccount_ApplyCredit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(5000)}

	newBalance := acc.ApplyCredit(decimal.NewFromInt(3000))

	if !newBalance.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("expected 8000, got %s", newBalance)
	}
}

func TestAccount_ValidateCredit(t *testing.T) {
	acc := &Account{Balance: decimal.Zero}

	if err := acc.ValidateCredit(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := acc.ValidateCredit(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}
