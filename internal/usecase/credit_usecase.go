package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roamstay/walletledger/internal/domain"
)

// CreditUseCase funds a wallet. It follows the same atomic
// read-modify-write discipline as the debit path.
type CreditUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	retrier         Retrier
	idGen           IDGenerator
}

// NewCreditUseCase creates a new CreditUseCase.
func NewCreditUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	retrier Retrier,
	idGen IDGenerator,
) *CreditUseCase {
	return &CreditUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		retrier:         retrier,
		idGen:           idGen,
	}
}

// TopUpInput represents input for funding a wallet.
type TopUpInput struct {
	AccountID string
	Amount    decimal.Decimal
}

// TopUp credits the account and records a WALLET_TOPUP transaction.
func (uc *CreditUseCase) TopUp(ctx context.Context, input TopUpInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var txn *domain.Transaction

	attempt := func() error {
		var err error
		txn, err = uc.creditOnce(ctx, input)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func (uc *CreditUseCase) creditOnce(ctx context.Context, input TopUpInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateCredit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyCredit(input.Amount)

	err = uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version, now)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		AccountID:       account.ID,
		Amount:          input.Amount,
		Kind:            domain.KindWalletTopUp,
		PreviousBalance: account.Balance,
		CurrentBalance:  newBalance,
		CreatedAt:       now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLedgerWriteIncomplete, err)
	}

	return txn, nil
}
