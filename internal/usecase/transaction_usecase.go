package usecase

import (
	"context"

	"github.com/roamstay/walletledger/internal/domain"
)

// TransactionUseCase handles reads of the transaction log.
type TransactionUseCase struct {
	transactionRepo TransactionRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(transactionRepo TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{transactionRepo: transactionRepo}
}

// ListByAccountInput represents input for listing transactions.
type ListByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListByAccount lists transactions for an account, newest first.
func (uc *TransactionUseCase) ListByAccount(ctx context.Context, input ListByAccountInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.transactionRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// GetByBookingID retrieves the transaction recorded for a booking.
func (uc *TransactionUseCase) GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByBookingID(ctx, bookingID)
}
