package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const activeAccountNumberExists = `-- name: ActiveAccountNumberExists :one
SELECT EXISTS (SELECT 1 FROM accounts WHERE number = $1 AND active)
`

func (q *Queries) ActiveAccountNumberExists(ctx context.Context, number string) (bool, error) {
	row := q.db.QueryRow(ctx, activeAccountNumberExists, number)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, number, kind, opening_balance, active, customer_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateAccountParams struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	Kind           string             `json:"kind"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	Active         bool               `json:"active"`
	CustomerID     string             `json:"customer_id"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.Number,
		arg.Kind,
		arg.OpeningBalance,
		arg.Active,
		arg.CustomerID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deactivateAccount = `-- name: DeactivateAccount :execrows
UPDATE accounts SET active = FALSE, updated_at = $2 WHERE id = $1 AND active
`

type DeactivateAccountParams struct {
	ID        string             `json:"id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) DeactivateAccount(ctx context.Context, arg DeactivateAccountParams) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateAccount, arg.ID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getActiveAccountByID = `-- name: GetActiveAccountByID :one
SELECT id, number, kind, opening_balance, active, customer_id, created_at, updated_at FROM accounts WHERE id = $1 AND active
`

func (q *Queries) GetActiveAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getActiveAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Kind,
		&i.OpeningBalance,
		&i.Active,
		&i.CustomerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getActiveAccountByIDForUpdate = `-- name: GetActiveAccountByIDForUpdate :one
SELECT id, number, kind, opening_balance, active, customer_id, created_at, updated_at FROM accounts WHERE id = $1 AND active FOR UPDATE
`

func (q *Queries) GetActiveAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getActiveAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Kind,
		&i.OpeningBalance,
		&i.Active,
		&i.CustomerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveAccounts = `-- name: ListActiveAccounts :many
SELECT id, number, kind, opening_balance, active, customer_id, created_at, updated_at FROM accounts
WHERE active
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

type ListActiveAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListActiveAccounts(ctx context.Context, arg ListActiveAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listActiveAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.Kind,
			&i.OpeningBalance,
			&i.Active,
			&i.CustomerID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const accountHasMovements = `-- name: AccountHasMovements :one
SELECT EXISTS (SELECT 1 FROM movements WHERE account_id = $1)
`

func (q *Queries) AccountHasMovements(ctx context.Context, accountID string) (bool, error) {
	row := q.db.QueryRow(ctx, accountHasMovements, accountID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getActiveAccountByNumber = `-- name: GetActiveAccountByNumber :one
SELECT id, number, kind, opening_balance, active, customer_id, created_at, updated_at FROM accounts WHERE number = $1 AND active
`

func (q *Queries) GetActiveAccountByNumber(ctx context.Context, number string) (Account, error) {
	row := q.db.QueryRow(ctx, getActiveAccountByNumber, number)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.Kind,
		&i.OpeningBalance,
		&i.Active,
		&i.CustomerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveAccountsByCustomer = `-- name: ListActiveAccountsByCustomer :many
SELECT id, number, kind, opening_balance, active, customer_id, created_at, updated_at FROM accounts
WHERE customer_id = $1 AND active
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListActiveAccountsByCustomer(ctx context.Context, customerID string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listActiveAccountsByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Number,
			&i.Kind,
			&i.OpeningBalance,
			&i.Active,
			&i.CustomerID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateAccount = `-- name: UpdateAccount :execrows
UPDATE accounts
SET kind = $2, opening_balance = $3, customer_id = $4, updated_at = $5
WHERE id = $1 AND active
`

type UpdateAccountParams struct {
	ID             string             `json:"id"`
	Kind           string             `json:"kind"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	CustomerID     string             `json:"customer_id"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccount(ctx context.Context, arg UpdateAccountParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccount,
		arg.ID,
		arg.Kind,
		arg.OpeningBalance,
		arg.CustomerID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
