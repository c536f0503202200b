package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	Number         string `json:"number" validate:"required,numeric,min=6,max=20"`
	Kind           string `json:"kind" validate:"max=32"`
	OpeningBalance string `json:"opening_balance" validate:"required,nonnegative_amount"`
	CustomerID     string `json:"customer_id" validate:"required,max=64"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	balance, err := domain.ParseAmount(r.OpeningBalance)
	if err != nil {
		return usecase.OpenAccountInput{}, fmt.Errorf("invalid opening_balance: %w", err)
	}

	return usecase.OpenAccountInput{
		Number:         r.Number,
		Kind:           domain.AccountKind(r.Kind),
		OpeningBalance: balance,
		CustomerID:     r.CustomerID,
	}, nil
}

// UpdateAccountRequest represents an admin edit of an account.
type UpdateAccountRequest struct {
	Kind           string `json:"kind" validate:"max=32"`
	OpeningBalance string `json:"opening_balance" validate:"required,nonnegative_amount"`
	CustomerID     string `json:"customer_id" validate:"required,max=64"`
}

// ToUseCaseInput converts to use case input for the account id.
func (r *UpdateAccountRequest) ToUseCaseInput(id string) (usecase.UpdateAccountInput, error) {
	balance, err := domain.ParseAmount(r.OpeningBalance)
	if err != nil {
		return usecase.UpdateAccountInput{}, fmt.Errorf("invalid opening_balance: %w", err)
	}

	return usecase.UpdateAccountInput{
		ID:             id,
		Kind:           domain.AccountKind(r.Kind),
		OpeningBalance: balance,
		CustomerID:     r.CustomerID,
	}, nil
}

// OpeningCheckRequest asks whether an account could be opened with a balance.
type OpeningCheckRequest struct {
	Kind           string `json:"kind" validate:"max=32"`
	OpeningBalance string `json:"opening_balance" validate:"required,nonnegative_amount"`
}

// Parse returns the kind and balance to validate.
func (r *OpeningCheckRequest) Parse() (domain.AccountKind, decimal.Decimal, error) {
	balance, err := domain.ParseAmount(r.OpeningBalance)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("invalid opening_balance: %w", err)
	}

	return domain.AccountKind(r.Kind), balance, nil
}

// RecordMovementRequest represents a deposit, withdrawal or transfer request.
type RecordMovementRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Kind      string `json:"kind" validate:"required"`
	Amount    string `json:"amount" validate:"required,positive_amount"`
}

// ToDomain converts to a movement request. The kind is checked by the engine.
func (r *RecordMovementRequest) ToDomain() (domain.MovementRequest, error) {
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return domain.MovementRequest{}, fmt.Errorf("invalid amount: %w", err)
	}

	return domain.MovementRequest{
		AccountID: r.AccountID,
		Kind:      domain.MovementKind(r.Kind),
		Amount:    amount,
	}, nil
}
