package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roamstay/walletledger/internal/domain"
)

// DebitUseCase applies the booking-payment debit: it verifies the
// account balance, decrements it, and appends an immutable transaction
// record, all within a single database transaction.
type DebitUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	bookingGuard    IdempotencyStore
	retrier         Retrier
	idGen           IDGenerator
}

// NewDebitUseCase creates a new DebitUseCase. bookingGuard may be nil;
// the transactions table unique constraint is the authoritative
// duplicate guard either way.
func NewDebitUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	bookingGuard IdempotencyStore,
	retrier Retrier,
	idGen IDGenerator,
) *DebitUseCase {
	return &DebitUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		bookingGuard:    bookingGuard,
		retrier:         retrier,
		idGen:           idGen,
	}
}

// ProcessBookingPayment charges the owning account for a newly created
// booking. Replays of an already processed booking return the original
// transaction without mutating anything.
func (uc *DebitUseCase) ProcessBookingPayment(ctx context.Context, payment domain.BookingPayment) (*domain.Transaction, error) {
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(payment.Amount); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}

	// Fast path: the guard caches the recorded transaction once a
	// booking is finalized, so replays are served without touching the
	// database. A hit on the in-flight placeholder (or guard failure)
	// falls through to the authoritative checks below; the unique
	// constraint on booking IDs is what ultimately guarantees
	// at-most-one debit per booking.
	if uc.bookingGuard != nil {
		exists, marker, err := uc.bookingGuard.CheckAndSet(ctx, bookingKey(payment.BookingID), nil, BookingKeyTTL)
		if err == nil && exists {
			if cached := transactionFromMarker(marker); cached != nil {
				return cached, nil
			}
		}
	}

	if existing, err := uc.transactionRepo.GetByBookingID(ctx, payment.BookingID); err == nil {
		uc.markProcessed(ctx, existing)
		return existing, nil
	}

	var txn *domain.Transaction

	attempt := func() error {
		var err error
		txn, err = uc.debitOnce(ctx, payment)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, attempt)
	} else {
		err = attempt()
	}

	if errors.Is(err, domain.ErrDuplicateBooking) {
		// Lost the insert race to a concurrent delivery of the same
		// event: the debit was applied exactly once, by the winner.
		existing, getErr := uc.transactionRepo.GetByBookingID(ctx, payment.BookingID)
		if getErr != nil {
			return nil, err
		}
		uc.markProcessed(ctx, existing)
		return existing, nil
	}

	if err != nil {
		return nil, err
	}

	uc.markProcessed(ctx, txn)

	return txn, nil
}

// debitOnce performs one atomic read-modify-write cycle. It returns
// domain.ErrConcurrencyConflict when the version-guarded update lost to
// a concurrent writer; the retrier re-executes the whole cycle.
func (uc *DebitUseCase) debitOnce(ctx context.Context, payment domain.BookingPayment) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, payment.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(payment.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newBalance := account.ApplyDebit(payment.Amount)

	err = uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, account.Version, now)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		AccountID:       account.ID,
		BookingID:       payment.BookingID,
		Amount:          payment.Amount,
		Kind:            domain.KindBookingPayment,
		PreviousBalance: account.Balance,
		CurrentBalance:  newBalance,
		CreatedAt:       now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		// The commit outcome is unknown: the debit may or may not have
		// landed. Surface it as incomplete so reconciliation picks the
		// account up, rather than retrying into a double debit.
		return nil, fmt.Errorf("%w: %w", domain.ErrLedgerWriteIncomplete, err)
	}

	return txn, nil
}

// markProcessed caches the recorded transaction in the fast-path
// guard. Best effort: the database constraint covers a lost marker.
func (uc *DebitUseCase) markProcessed(ctx context.Context, txn *domain.Transaction) {
	if uc.bookingGuard == nil || txn.BookingID == "" {
		return
	}
	marker, err := json.Marshal(txn)
	if err != nil {
		return
	}
	_ = uc.bookingGuard.Update(ctx, bookingKey(txn.BookingID), marker, BookingKeyTTL)
}

// transactionFromMarker decodes a finalized guard marker. It returns
// nil for the in-flight placeholder and anything else that is not a
// complete cached transaction.
func transactionFromMarker(marker []byte) *domain.Transaction {
	var txn domain.Transaction
	if err := json.Unmarshal(marker, &txn); err != nil || txn.ID == "" {
		return nil
	}
	return &txn
}

func bookingKey(bookingID string) string {
	return "booking:" + bookingID
}
