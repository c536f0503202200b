package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

var accountColumns = []string{"id", "number", "kind", "opening_balance", "active", "customer_id", "created_at", "updated_at"}

func beginTx(t *testing.T, mockPool pgxmock.PgxPoolIface) *Tx {
	t.Helper()
	mockPool.ExpectBegin()
	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx.(*Tx)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mockPool.ExpectQuery("name: GetActiveAccountByID :one").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			"acc-1", "12345678", "Checking", decimalToNumeric(decimal.RequireFromString("600.50")),
			true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now),
		))

	repo := newAccountRepository(mockPool)
	account, err := repo.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Kind != domain.AccountKindChecking || account.Number != "12345678" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if !account.OpeningBalance.Equal(decimal.RequireFromString("600.50")) {
		t.Fatalf("expected opening balance 600.50, got %s", account.OpeningBalance)
	}
	if !account.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, account.CreatedAt)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("name: GetActiveAccountByID :one").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := newAccountRepository(mockPool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryCreateDuplicateNumber(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("name: CreateAccount :exec").
		WithArgs("acc-1", "12345678", "Savings", pgxmock.AnyArg(), true, "cust-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	repo := newAccountRepository(mockPool)
	err := repo.Create(context.Background(), tx, &domain.Account{
		ID:             "acc-1",
		Number:         "12345678",
		Kind:           domain.AccountKindSavings,
		OpeningBalance: decimal.NewFromInt(150),
		Active:         true,
		CustomerID:     "cust-1",
	})
	if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
		t.Fatalf("expected ErrDuplicateAccountNumber, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByIDForUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)
	now := time.Now().UTC()

	mockPool.ExpectQuery("name: GetActiveAccountByIDForUpdate :one").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			"acc-1", "12345678", "Savings", decimalToNumeric(decimal.NewFromInt(100)),
			true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now),
		))

	repo := newAccountRepository(mockPool)
	account, err := repo.GetByIDForUpdate(context.Background(), tx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Kind != domain.AccountKindSavings {
		t.Fatalf("expected Savings, got %s", account.Kind)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryExistsByNumber(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectQuery("name: ActiveAccountNumberExists :one").
		WithArgs("12345678").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := newAccountRepository(mockPool)
	exists, err := repo.ExistsByNumber(context.Background(), tx, "12345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected number to exist")
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryDeactivateMissing(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("name: DeactivateAccount :execrows").
		WithArgs("acc-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newAccountRepository(mockPool)
	err := repo.Deactivate(context.Background(), tx, "acc-1", time.Now())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryList(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("name: ListActiveAccounts :many").
		WithArgs(int32(2), int32(4)).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "111111", "Savings", decimalToNumeric(decimal.NewFromInt(100)), true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now)).
			AddRow("acc-2", "222222", "Checking", decimalToNumeric(decimal.NewFromInt(500)), true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now)))

	repo := newAccountRepository(mockPool)
	accounts, err := repo.List(context.Background(), 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[1].ID != "acc-2" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByNumber(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("name: GetActiveAccountByNumber :one").
		WithArgs("12345678").
		WillReturnRows(pgxmock.NewRows(accountColumns).AddRow(
			"acc-1", "12345678", "Savings", decimalToNumeric(decimal.NewFromInt(150)),
			true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now),
		))

	repo := newAccountRepository(mockPool)
	account, err := repo.GetByNumber(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "acc-1" || account.Kind != domain.AccountKindSavings {
		t.Fatalf("unexpected account: %+v", account)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryGetByNumberNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("name: GetActiveAccountByNumber :one").
		WithArgs("99999999").
		WillReturnError(pgx.ErrNoRows)

	repo := newAccountRepository(mockPool)
	_, err := repo.GetByNumber(context.Background(), "99999999")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryListByCustomer(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("name: ListActiveAccountsByCustomer :many").
		WithArgs("cust-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acc-1", "111111", "Savings", decimalToNumeric(decimal.NewFromInt(100)), true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now)).
			AddRow("acc-2", "222222", "Checking", decimalToNumeric(decimal.NewFromInt(500)), true, "cust-1", timeToPgTimestamptz(now), timeToPgTimestamptz(now)))

	repo := newAccountRepository(mockPool)
	accounts, err := repo.ListByCustomer(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[0].ID != "acc-1" || accounts[1].CustomerID != "cust-1" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryUpdate(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)
	now := time.Now().UTC()

	mockPool.ExpectExec("name: UpdateAccount :execrows").
		WithArgs("acc-1", "Checking", pgxmock.AnyArg(), "cust-2", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := newAccountRepository(mockPool)
	err := repo.Update(context.Background(), tx, &domain.Account{
		ID:             "acc-1",
		Kind:           domain.AccountKindChecking,
		OpeningBalance: decimal.NewFromInt(700),
		CustomerID:     "cust-2",
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryUpdateMissing(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectExec("name: UpdateAccount :execrows").
		WithArgs("acc-1", "Savings", pgxmock.AnyArg(), "cust-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := newAccountRepository(mockPool)
	err := repo.Update(context.Background(), tx, &domain.Account{
		ID:             "acc-1",
		Kind:           domain.AccountKindSavings,
		OpeningBalance: decimal.NewFromInt(100),
		CustomerID:     "cust-1",
		UpdatedAt:      time.Now(),
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestAccountRepositoryHasMovements(t *testing.T) {
	mockPool := newMockPool(t)
	tx := beginTx(t, mockPool)

	mockPool.ExpectQuery("name: AccountHasMovements :one").
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := newAccountRepository(mockPool)
	has, err := repo.HasMovements(context.Background(), tx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !has {
		t.Fatalf("expected account to have movements")
	}

	assertExpectations(t, mockPool)
}
