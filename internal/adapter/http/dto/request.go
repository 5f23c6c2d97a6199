package dto

import (
	"github.com/shopspring/decimal"

	"github.com/roamstay/walletledger/internal/usecase"
)

// CreateAccountRequest represents a request to create a wallet account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		Currency:       r.Currency,
		OpeningBalance: r.OpeningBalance,
	}
}

// TopUpRequest represents a request to credit a wallet.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *TopUpRequest) ToUseCaseInput(accountID string) usecase.TopUpInput {
	return usecase.TopUpInput{
		AccountID: accountID,
		Amount:    r.Amount,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
