package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind identifies the product an account belongs to.
type AccountKind string

const (
	AccountKindSavings  AccountKind = "Savings"
	AccountKindChecking AccountKind = "Checking"
)

// Account represents a customer's monetary holding.
type Account struct {
	ID             string
	Number         string
	Kind           AccountKind
	OpeningBalance decimal.Decimal
	Active         bool
	CustomerID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CurrentBalance returns the balance the account holds given its most recent
// active movement. A nil movement means no history, so the opening balance applies.
func (a *Account) CurrentBalance(latest *Movement) decimal.Decimal {
	if latest == nil {
		return a.OpeningBalance
	}
	return latest.Balance
}
