package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		kind   TransactionKind
		amount decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "booking payment debits",
			kind:   KindBookingPayment,
			amount: decimal.NewFromInt(2500),
			want:   decimal.NewFromInt(-2500),
		},
		{
			name:   "top-up credits",
			kind:   KindWalletTopUp,
			amount: decimal.NewFromInt(500),
			want:   decimal.NewFromInt(500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &Transaction{Kind: tt.kind, Amount: tt.amount}
			if got := txn.SignedAmount(); !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
