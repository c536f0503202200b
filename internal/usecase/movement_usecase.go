package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// ErrInvalidDateRange is returned when a statement window ends before it starts.
var ErrInvalidDateRange = errors.New("invalid date range")

// MovementUseCase serves read-side movement queries.
type MovementUseCase struct {
	accountRepo  AccountRepository
	movementRepo MovementRepository
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(accountRepo AccountRepository, movementRepo MovementRepository) *MovementUseCase {
	return &MovementUseCase{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

// GetMovement retrieves an active movement by ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListAccountMovements lists an account's active movements, most recent first.
func (uc *MovementUseCase) ListAccountMovements(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.movementRepo.ListByAccount(ctx, accountID, limit, offset)
}

// CustomerStatement returns the active movements of every active account of
// the customer recorded within [from, to], most recent first.
func (uc *MovementUseCase) CustomerStatement(ctx context.Context, customerID string, from, to time.Time) ([]*domain.StatementLine, error) {
	if err := domain.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}

	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, to.Format(time.RFC3339), from.Format(time.RFC3339))
	}

	return uc.movementRepo.ListByCustomerBetween(ctx, customerID, from, to)
}
