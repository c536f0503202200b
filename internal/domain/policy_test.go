package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultPolicies(t *testing.T) {
	t.Parallel()

	registry := DefaultPolicyRegistry()

	savings, err := registry.Resolve(AccountKindSavings)
	if err != nil {
		t.Fatalf("resolve savings: %v", err)
	}
	if !savings.MinimumOpeningBalance().Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("savings minimum = %s", savings.MinimumOpeningBalance())
	}
	if got := savings.ApplyWithdrawalFee(decimal.NewFromInt(40)); !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("savings fee applied: %s", got)
	}

	checking, err := registry.Resolve(AccountKindChecking)
	if err != nil {
		t.Fatalf("resolve checking: %v", err)
	}
	if !checking.MinimumOpeningBalance().Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("checking minimum = %s", checking.MinimumOpeningBalance())
	}
	if got := checking.ApplyWithdrawalFee(decimal.NewFromInt(40)); !got.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("checking fee = %s, want 42", got)
	}
	if got := checking.ApplyWithdrawalFee(decimal.Zero); !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("checking fee on zero = %s, want 2", got)
	}
}

func TestPolicyRegistry_ResolveUnknown(t *testing.T) {
	t.Parallel()

	registry := DefaultPolicyRegistry()

	for _, kind := range []AccountKind{"", "Brokerage", "savings"} {
		if _, err := registry.Resolve(kind); !errors.Is(err, ErrUnsupportedAccountKind) {
			t.Fatalf("Resolve(%q) expected ErrUnsupportedAccountKind, got %v", kind, err)
		}
	}
}

func TestPolicyRegistry_DuplicateRejected(t *testing.T) {
	t.Parallel()

	_, err := NewPolicyRegistry(NewSavingsPolicy(), NewFlatFeePolicy(AccountKindSavings, decimal.Zero, decimal.Zero))
	if !errors.Is(err, ErrDuplicatePolicy) {
		t.Fatalf("expected ErrDuplicatePolicy, got %v", err)
	}
}

func TestPolicyRegistry_Extensible(t *testing.T) {
	t.Parallel()

	payroll := AccountKind("Payroll")
	registry, err := NewPolicyRegistry(
		NewSavingsPolicy(),
		NewCheckingPolicy(),
		NewFlatFeePolicy(payroll, decimal.Zero, decimal.RequireFromString("0.50")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := registry.Kinds()
	if len(kinds) != 3 || kinds[0] != AccountKindChecking || kinds[1] != payroll || kinds[2] != AccountKindSavings {
		t.Fatalf("unexpected kinds: %v", kinds)
	}

	p, err := registry.Resolve(payroll)
	if err != nil {
		t.Fatalf("resolve payroll: %v", err)
	}
	if got := p.ApplyWithdrawalFee(decimal.NewFromInt(10)); !got.Equal(decimal.RequireFromString("10.50")) {
		t.Fatalf("payroll fee = %s", got)
	}
}
