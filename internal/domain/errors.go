package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Booking payment errors
	ErrInvalidPayload   = errors.New("invalid booking payment payload")
	ErrDuplicateBooking = errors.New("booking already processed")

	// Ledger errors
	ErrConcurrencyConflict = errors.New("account was modified concurrently")
	// ErrLedgerWriteIncomplete signals that the balance may have been
	// debited without the commit outcome being known. The affected
	// account needs manual reconciliation.
	ErrLedgerWriteIncomplete = errors.New("ledger write incomplete: debit outcome unknown")

	ErrTransactionNotFound = errors.New("transaction not found")
)
