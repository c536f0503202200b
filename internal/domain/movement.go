package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind is the type of a requested movement.
type MovementKind string

const (
	MovementKindDeposit    MovementKind = "Deposit"
	MovementKindWithdrawal MovementKind = "Withdrawal"
	// MovementKindTransfer debits the account like a withdrawal. No counter-account
	// is credited.
	MovementKindTransfer MovementKind = "Transfer"
)

// ParseMovementKind converts a raw kind into a MovementKind.
func ParseMovementKind(raw string) (MovementKind, error) {
	switch k := MovementKind(raw); k {
	case MovementKindDeposit, MovementKindWithdrawal, MovementKindTransfer:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMovementKind, raw)
	}
}

// IsDebit reports whether the movement takes money out of the account.
func (k MovementKind) IsDebit() bool {
	return k == MovementKindWithdrawal || k == MovementKindTransfer
}

// MovementRequest is a caller's request to move money on an account.
type MovementRequest struct {
	AccountID string
	Kind      MovementKind
	Amount    decimal.Decimal
}

// Movement is one recorded ledger entry. Balance is the snapshot taken at
// recording time and is never recomputed.
type Movement struct {
	ID        string
	AccountID string
	Kind      MovementKind
	Value     decimal.Decimal
	Balance   decimal.Decimal
	Active    bool
	Sequence  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedValue computes the signed amount a movement applies to the balance
// under the given policy.
func SignedValue(kind MovementKind, amount decimal.Decimal, policy AccountPolicy) decimal.Decimal {
	if kind.IsDebit() {
		return policy.ApplyWithdrawalFee(amount.Abs()).Neg()
	}
	return amount
}

// StatementLine is one row of a customer statement: an active movement
// together with the account it belongs to.
type StatementLine struct {
	AccountNumber  string
	AccountKind    AccountKind
	OpeningBalance decimal.Decimal
	Movement       *Movement
}
