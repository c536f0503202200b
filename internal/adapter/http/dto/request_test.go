package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

func TestOpenAccountRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		request     *OpenAccountRequest
		wantBalance decimal.Decimal
		expectError bool
	}{
		{
			name: "valid balance",
			request: &OpenAccountRequest{
				Number:         "12345678",
				Kind:           "Checking",
				OpeningBalance: "600.50",
				CustomerID:     "cust-1",
			},
			wantBalance: decimal.RequireFromString("600.50"),
		},
		{
			name:        "invalid balance",
			request:     &OpenAccountRequest{OpeningBalance: "bad"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()

			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != domain.AccountKindChecking || got.Number != "12345678" || got.CustomerID != "cust-1" {
				t.Fatalf("unexpected input: %+v", got)
			}
			if !got.OpeningBalance.Equal(tt.wantBalance) {
				t.Fatalf("opening balance = %s, want %s", got.OpeningBalance, tt.wantBalance)
			}
		})
	}
}

func TestUpdateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &UpdateAccountRequest{Kind: "Savings", OpeningBalance: "250.10", CustomerID: "cust-3"}

	got, err := req.ToUseCaseInput("acc-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "acc-9" || got.Kind != domain.AccountKindSavings || got.CustomerID != "cust-3" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.OpeningBalance.Equal(decimal.RequireFromString("250.10")) {
		t.Fatalf("opening balance = %s, want 250.10", got.OpeningBalance)
	}

	req.OpeningBalance = "1e5000000"
	if _, err := req.ToUseCaseInput("acc-9"); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecordMovementRequest_ToDomain(t *testing.T) {
	req := &RecordMovementRequest{AccountID: "acc-1", Kind: "Withdrawal", Amount: "12.34"}

	got, err := req.ToDomain()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccountID != "acc-1" || got.Kind != domain.MovementKindWithdrawal || !got.Amount.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("unexpected movement request: %+v", got)
	}

	if _, err := (&RecordMovementRequest{Amount: "1e"}).ToDomain(); err == nil {
		t.Fatalf("expected error for malformed amount")
	}
}

func TestOpeningCheckRequest_Parse(t *testing.T) {
	kind, balance, err := (&OpeningCheckRequest{Kind: "Savings", OpeningBalance: "99.99"}).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != domain.AccountKindSavings || !balance.Equal(decimal.RequireFromString("99.99")) {
		t.Fatalf("unexpected parse result: %s %s", kind, balance)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		wantMsg string
	}{
		{
			name:    "valid movement",
			payload: &RecordMovementRequest{AccountID: "acc-1", Kind: "Deposit", Amount: "10"},
		},
		{
			name:    "missing account",
			payload: &RecordMovementRequest{Kind: "Deposit", Amount: "10"},
			wantMsg: "account_id is required",
		},
		{
			name:    "zero amount",
			payload: &RecordMovementRequest{AccountID: "acc-1", Kind: "Deposit", Amount: "0"},
			wantMsg: "amount must be a positive decimal",
		},
		{
			name:    "negative opening balance",
			payload: &OpenAccountRequest{Number: "123456", OpeningBalance: "-1", CustomerID: "c"},
			wantMsg: "opening_balance must be a non-negative decimal",
		},
		{
			name:    "short account number",
			payload: &OpenAccountRequest{Number: "123", OpeningBalance: "100", CustomerID: "c"},
			wantMsg: "number must have at least 6 characters",
		},
		{
			name:    "exponent notation amount",
			payload: &RecordMovementRequest{AccountID: "acc-1", Kind: "Deposit", Amount: "1e5000000"},
			wantMsg: "amount must be a positive decimal",
		},
		{
			name:    "exponent notation opening balance",
			payload: &OpenAccountRequest{Number: "123456", OpeningBalance: "1e999999999", CustomerID: "c"},
			wantMsg: "opening_balance must be a non-negative decimal",
		},
		{
			name:    "too many fractional digits",
			payload: &RecordMovementRequest{AccountID: "acc-1", Kind: "Deposit", Amount: "0.000000001"},
			wantMsg: "amount must be a positive decimal",
		},
		{
			name:    "zero opening balance allowed by shape",
			payload: &OpeningCheckRequest{Kind: "Savings", OpeningBalance: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.payload)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestJSONName(t *testing.T) {
	cases := map[string]string{
		"OpeningBalance": "opening_balance",
		"AccountID":      "account_id",
		"Number":         "number",
	}
	for in, want := range cases {
		if got := jsonName(in); got != want {
			t.Fatalf("jsonName(%q) = %q, want %q", in, got, want)
		}
	}
}
