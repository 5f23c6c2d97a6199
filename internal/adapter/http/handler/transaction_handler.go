package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roamstay/walletledger/internal/adapter/http/dto"
	"github.com/roamstay/walletledger/internal/domain"
	"github.com/roamstay/walletledger/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	ListByAccount(ctx context.Context, input usecase.ListByAccountInput) ([]*domain.Transaction, error)
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Transaction, error)
}

// TransactionHandler handles transaction-log HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// ListByAccount lists an account's transactions, newest first.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	transactions, err := h.transactionUC.ListByAccount(r.Context(), usecase.ListByAccountInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
		Total:        int64(len(transactions)),
	})
}

// GetByBooking retrieves the transaction recorded for a booking.
func (h *TransactionHandler) GetByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	if bookingID == "" {
		writeError(w, http.StatusBadRequest, "missing booking ID", "")
		return
	}

	txn, err := h.transactionUC.GetByBookingID(r.Context(), bookingID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}
