package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/postgres/generated"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		Number:         account.Number,
		Kind:           string(account.Kind),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		Active:         account.Active,
		CustomerID:     account.CustomerID,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAccountNumber, account.Number)
	}

	return err
}

// GetByID retrieves an active account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetActiveAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an active account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := queriesFor(tx).GetActiveAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByNumber retrieves an active account by its number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row, err := r.queries.GetActiveAccountByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// ListByCustomer retrieves the active accounts of a customer, oldest first.
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListActiveAccountsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// Update stores the editable fields of an active account.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	affected, err := queriesFor(tx).UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:             account.ID,
		Kind:           string(account.Kind),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		CustomerID:     account.CustomerID,
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// HasMovements reports whether any movement, active or not, references the account.
func (r *AccountRepository) HasMovements(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	return queriesFor(tx).AccountHasMovements(ctx, id)
}

// ExistsByNumber reports whether an active account already uses the number.
func (r *AccountRepository) ExistsByNumber(ctx context.Context, tx usecase.Transaction, number string) (bool, error) {
	return queriesFor(tx).ActiveAccountNumberExists(ctx, number)
}

// Deactivate closes an active account.
func (r *AccountRepository) Deactivate(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	affected, err := queriesFor(tx).DeactivateAccount(ctx, generated.DeactivateAccountParams{
		ID:        id,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List retrieves active accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListActiveAccounts(ctx, generated.ListActiveAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		Number:         row.Number,
		Kind:           domain.AccountKind(row.Kind),
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		Active:         row.Active,
		CustomerID:     row.CustomerID,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
