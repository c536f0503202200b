package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:             "acc-1",
		Number:         "12345678",
		Kind:           domain.AccountKindSavings,
		OpeningBalance: decimal.RequireFromString("123.45"),
		Active:         true,
		CustomerID:     "cust-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.OpeningBalance != "123.45" || resp.Kind != "Savings" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestMovementFromDomain(t *testing.T) {
	movement := &domain.Movement{
		ID:        "mov-1",
		AccountID: "acc-1",
		Kind:      domain.MovementKindWithdrawal,
		Value:     decimal.RequireFromString("-102"),
		Balance:   decimal.RequireFromString("498"),
		Active:    true,
		Sequence:  7,
	}

	resp := MovementFromDomain(movement)
	if resp.Value != "-102" || resp.Balance != "498" || resp.Sequence != 7 {
		t.Fatalf("unexpected movement response: %+v", resp)
	}
}

func TestStatementFromDomain(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	lines := []*domain.StatementLine{{
		AccountNumber:  "12345678",
		AccountKind:    domain.AccountKindChecking,
		OpeningBalance: decimal.NewFromInt(600),
		Movement:       &domain.Movement{ID: "mov-1", Value: decimal.NewFromInt(5), Balance: decimal.NewFromInt(605)},
	}}

	resp := StatementFromDomain("cust-1", from, to, lines)
	if resp.CustomerID != "cust-1" || len(resp.Lines) != 1 {
		t.Fatalf("unexpected statement: %+v", resp)
	}
	if resp.Lines[0].OpeningBalance != "600" || resp.Lines[0].Movement.Balance != "605" {
		t.Fatalf("unexpected statement line: %+v", resp.Lines[0])
	}
}

func TestReportFromDomain(t *testing.T) {
	report := &usecase.ReconciliationReport{
		TotalAccounts:      2,
		ReconciledAccounts: 1,
		Discrepancies: []*usecase.ReconciliationResult{{
			AccountID:       "acc-2",
			RecordedBalance: decimal.NewFromInt(90),
			ReplayedBalance: decimal.NewFromInt(100),
			Difference:      decimal.NewFromInt(-10),
			BrokenLinks:     1,
		}},
	}

	resp := ReportFromDomain(report)
	if resp.TotalAccounts != 2 || len(resp.Discrepancies) != 1 {
		t.Fatalf("unexpected report: %+v", resp)
	}
	if resp.Discrepancies[0].Difference != "-10" || resp.Discrepancies[0].IsReconciled {
		t.Fatalf("unexpected discrepancy: %+v", resp.Discrepancies[0])
	}
}
