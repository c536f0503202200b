package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	queries *generated.Queries
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return newMovementRepository(pool)
}

func newMovementRepository(db generated.DBTX) *MovementRepository {
	return &MovementRepository{queries: generated.New(db)}
}

// Create inserts a movement and stores the assigned sequence on it.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	seq, err := queriesFor(tx).CreateMovement(ctx, generated.CreateMovementParams{
		ID:        movement.ID,
		AccountID: movement.AccountID,
		Kind:      string(movement.Kind),
		Value:     decimalToNumeric(movement.Value),
		Balance:   decimalToNumeric(movement.Balance),
		Active:    movement.Active,
		CreatedAt: timeToPgTimestamptz(movement.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(movement.UpdatedAt),
	})
	if err != nil {
		return err
	}

	movement.Sequence = seq

	return nil
}

// ListActiveByAccount returns the newest active movements of an account
// inside the caller's transaction.
func (r *MovementRepository) ListActiveByAccount(ctx context.Context, tx usecase.Transaction, accountID string, limit int) ([]*domain.Movement, error) {
	rows, err := queriesFor(tx).ListActiveMovementsByAccount(ctx, generated.ListActiveMovementsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToMovements(rows), nil
}

// GetByID retrieves an active movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	row, err := r.queries.GetActiveMovementByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return rowToMovement(row), nil
}

// GetByIDForUpdate retrieves an active movement by ID with a FOR UPDATE lock.
func (r *MovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	row, err := queriesFor(tx).GetActiveMovementByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return rowToMovement(row), nil
}

// Deactivate soft-deletes an active movement. Snapshots of later movements
// are left untouched.
func (r *MovementRepository) Deactivate(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	affected, err := queriesFor(tx).DeactivateMovement(ctx, generated.DeactivateMovementParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrMovementNotFound
	}

	return nil
}

// ListByAccount pages through an account's active movements, newest first.
func (r *MovementRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.queries.ListActiveMovementsByAccount(ctx, generated.ListActiveMovementsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToMovements(rows), nil
}

// ListChronological returns every active movement of the account, oldest first.
func (r *MovementRepository) ListChronological(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	rows, err := r.queries.ListActiveMovementsChronological(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return rowsToMovements(rows), nil
}

// ListByCustomerBetween returns the active movements of a customer's active
// accounts created inside [from, to], newest first.
func (r *MovementRepository) ListByCustomerBetween(ctx context.Context, customerID string, from, to time.Time) ([]*domain.StatementLine, error) {
	rows, err := r.queries.ListCustomerMovementsBetween(ctx, generated.ListCustomerMovementsBetweenParams{
		CustomerID: customerID,
		From:       timeToPgTimestamptz(from),
		To:         timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.StatementLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, &domain.StatementLine{
			AccountNumber:  row.AccountNumber,
			AccountKind:    domain.AccountKind(row.AccountKind),
			OpeningBalance: numericToDecimal(row.OpeningBalance),
			Movement: rowToMovement(generated.Movement{
				ID:        row.ID,
				Seq:       row.Seq,
				AccountID: row.AccountID,
				Kind:      row.Kind,
				Value:     row.Value,
				Balance:   row.Balance,
				Active:    row.Active,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			}),
		})
	}

	return lines, nil
}

func rowsToMovements(rows []generated.Movement) []*domain.Movement {
	movements := make([]*domain.Movement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, rowToMovement(row))
	}

	return movements
}

func rowToMovement(row generated.Movement) *domain.Movement {
	return &domain.Movement{
		ID:        row.ID,
		AccountID: row.AccountID,
		Kind:      domain.MovementKind(row.Kind),
		Value:     numericToDecimal(row.Value),
		Balance:   numericToDecimal(row.Balance),
		Active:    row.Active,
		Sequence:  row.Seq,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
