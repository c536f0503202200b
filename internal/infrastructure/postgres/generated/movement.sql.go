package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createMovement = `-- name: CreateMovement :one
INSERT INTO movements (id, account_id, kind, value, balance, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING seq
`

type CreateMovementParams struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	Kind      string             `json:"kind"`
	Value     pgtype.Numeric     `json:"value"`
	Balance   pgtype.Numeric     `json:"balance"`
	Active    bool               `json:"active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateMovement(ctx context.Context, arg CreateMovementParams) (int64, error) {
	row := q.db.QueryRow(ctx, createMovement,
		arg.ID,
		arg.AccountID,
		arg.Kind,
		arg.Value,
		arg.Balance,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var seq int64
	err := row.Scan(&seq)
	return seq, err
}

const deactivateMovement = `-- name: DeactivateMovement :execrows
UPDATE movements SET active = FALSE, updated_at = $2 WHERE id = $1 AND active
`

type DeactivateMovementParams struct {
	ID        string             `json:"id"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) DeactivateMovement(ctx context.Context, arg DeactivateMovementParams) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateMovement, arg.ID, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getActiveMovementByID = `-- name: GetActiveMovementByID :one
SELECT id, seq, account_id, kind, value, balance, active, created_at, updated_at FROM movements WHERE id = $1 AND active
`

func (q *Queries) GetActiveMovementByID(ctx context.Context, id string) (Movement, error) {
	row := q.db.QueryRow(ctx, getActiveMovementByID, id)
	var i Movement
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.AccountID,
		&i.Kind,
		&i.Value,
		&i.Balance,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getActiveMovementByIDForUpdate = `-- name: GetActiveMovementByIDForUpdate :one
SELECT id, seq, account_id, kind, value, balance, active, created_at, updated_at FROM movements WHERE id = $1 AND active FOR UPDATE
`

func (q *Queries) GetActiveMovementByIDForUpdate(ctx context.Context, id string) (Movement, error) {
	row := q.db.QueryRow(ctx, getActiveMovementByIDForUpdate, id)
	var i Movement
	err := row.Scan(
		&i.ID,
		&i.Seq,
		&i.AccountID,
		&i.Kind,
		&i.Value,
		&i.Balance,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveMovementsByAccount = `-- name: ListActiveMovementsByAccount :many
SELECT id, seq, account_id, kind, value, balance, active, created_at, updated_at FROM movements
WHERE account_id = $1 AND active
ORDER BY created_at DESC, seq DESC
LIMIT $2 OFFSET $3
`

type ListActiveMovementsByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListActiveMovementsByAccount(ctx context.Context, arg ListActiveMovementsByAccountParams) ([]Movement, error) {
	rows, err := q.db.Query(ctx, listActiveMovementsByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Movement
	for rows.Next() {
		var i Movement
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.AccountID,
			&i.Kind,
			&i.Value,
			&i.Balance,
			&i.Active,
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

const listActiveMovementsChronological = `-- name: ListActiveMovementsChronological :many
SELECT id, seq, account_id, kind, value, balance, active, created_at, updated_at FROM movements
WHERE account_id = $1 AND active
ORDER BY created_at ASC, seq ASC
`

func (q *Queries) ListActiveMovementsChronological(ctx context.Context, accountID string) ([]Movement, error) {
	rows, err := q.db.Query(ctx, listActiveMovementsChronological, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Movement
	for rows.Next() {
		var i Movement
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.AccountID,
			&i.Kind,
			&i.Value,
			&i.Balance,
			&i.Active,
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

const listCustomerMovementsBetween = `-- name: ListCustomerMovementsBetween :many
SELECT m.id, m.seq, m.account_id, m.kind, m.value, m.balance, m.active, m.created_at, m.updated_at,
       a.number AS account_number, a.kind AS account_kind, a.opening_balance
FROM movements m
JOIN accounts a ON a.id = m.account_id
WHERE a.customer_id = $1 AND a.active AND m.active
  AND m.created_at >= $2 AND m.created_at <= $3
ORDER BY m.created_at DESC, m.seq DESC
`

type ListCustomerMovementsBetweenParams struct {
	CustomerID string             `json:"customer_id"`
	From       pgtype.Timestamptz `json:"from"`
	To         pgtype.Timestamptz `json:"to"`
}

type ListCustomerMovementsBetweenRow struct {
	ID             string             `json:"id"`
	Seq            int64              `json:"seq"`
	AccountID      string             `json:"account_id"`
	Kind           string             `json:"kind"`
	Value          pgtype.Numeric     `json:"value"`
	Balance        pgtype.Numeric     `json:"balance"`
	Active         bool               `json:"active"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
	AccountNumber  string             `json:"account_number"`
	AccountKind    string             `json:"account_kind"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
}

func (q *Queries) ListCustomerMovementsBetween(ctx context.Context, arg ListCustomerMovementsBetweenParams) ([]ListCustomerMovementsBetweenRow, error) {
	rows, err := q.db.Query(ctx, listCustomerMovementsBetween, arg.CustomerID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCustomerMovementsBetweenRow
	for rows.Next() {
		var i ListCustomerMovementsBetweenRow
		if err := rows.Scan(
			&i.ID,
			&i.Seq,
			&i.AccountID,
			&i.Kind,
			&i.Value,
			&i.Balance,
			&i.Active,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.AccountNumber,
			&i.AccountKind,
			&i.OpeningBalance,
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
