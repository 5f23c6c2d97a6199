package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/roamstay/walletledger/internal/domain"
	"github.com/roamstay/walletledger/internal/usecase"
)

// pgErrUniqueViolation is the PostgreSQL error code raised when the
// transactions booking-ID unique constraint rejects an insert.
const pgErrUniqueViolation = "23505"

const transactionColumns = `id, account_id, booking_id, amount, kind, previous_balance, current_balance, created_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a transaction record within the given transaction.
// A duplicate booking ID maps to domain.ErrDuplicateBooking.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	var bookingID *string
	if txn.BookingID != "" {
		bookingID = &txn.BookingID
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (id, account_id, booking_id, amount, kind, previous_balance, current_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID,
		txn.AccountID,
		bookingID,
		decimalToNumeric(txn.Amount),
		string(txn.Kind),
		decimalToNumeric(txn.PreviousBalance),
		decimalToNumeric(txn.CurrentBalance),
		timeToPgTimestamptz(txn.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateBooking
		}
		return err
	}

	return nil
}

// GetByBookingID retrieves the transaction recorded for a booking.
func (r *TransactionRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE booking_id = $1`, bookingID)
	return scanTransaction(row)
}

// ListByAccount lists transactions for an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

// SumByAccount returns the signed sum of all recorded amounts for an
// account. Amounts are stored positive; kind decides the sign.
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN kind = 'BOOKING_PAYMENT' THEN -amount ELSE amount END), 0)
		FROM transactions WHERE account_id = $1`,
		accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		id, accountID      string
		bookingID          *string
		amount, prev, curr pgtype.Numeric
		kind               string
		createdAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&id,
		&accountID,
		&bookingID,
		&amount,
		&kind,
		&prev,
		&curr,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	result := &domain.Transaction{
		ID:              id,
		AccountID:       accountID,
		Amount:          numericToDecimal(amount),
		Kind:            domain.TransactionKind(kind),
		PreviousBalance: numericToDecimal(prev),
		CurrentBalance:  numericToDecimal(curr),
		CreatedAt:       createdAt.Time,
	}
	if bookingID != nil {
		result.BookingID = *bookingID
	}

	return result, nil
}
