package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// AccountPolicy holds the rules that depend on the account kind.
type AccountPolicy interface {
	Kind() AccountKind
	MinimumOpeningBalance() decimal.Decimal
	// ApplyWithdrawalFee returns the amount to debit for a withdrawal of amount,
	// fee included. amount is expected to be non-negative.
	ApplyWithdrawalFee(amount decimal.Decimal) decimal.Decimal
}

var (
	savingsMinimum  = decimal.RequireFromString("100.00")
	checkingMinimum = decimal.RequireFromString("500.00")
	checkingFee     = decimal.RequireFromString("2.00")
)

type flatFeePolicy struct {
	kind          AccountKind
	minimum       decimal.Decimal
	withdrawalFee decimal.Decimal
}

// NewFlatFeePolicy returns a policy charging a fixed fee on every withdrawal.
func NewFlatFeePolicy(kind AccountKind, minimum, withdrawalFee decimal.Decimal) AccountPolicy {
	return flatFeePolicy{kind: kind, minimum: minimum, withdrawalFee: withdrawalFee}
}

// NewSavingsPolicy returns the savings policy: 100.00 minimum, no withdrawal fee.
func NewSavingsPolicy() AccountPolicy {
	return NewFlatFeePolicy(AccountKindSavings, savingsMinimum, decimal.Zero)
}

// NewCheckingPolicy returns the checking policy: 500.00 minimum, 2.00 per withdrawal.
func NewCheckingPolicy() AccountPolicy {
	return NewFlatFeePolicy(AccountKindChecking, checkingMinimum, checkingFee)
}

func (p flatFeePolicy) Kind() AccountKind { return p.kind }

func (p flatFeePolicy) MinimumOpeningBalance() decimal.Decimal { return p.minimum }

func (p flatFeePolicy) ApplyWithdrawalFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(p.withdrawalFee)
}

// PolicyRegistry maps account kinds to their policy. It is immutable once built.
type PolicyRegistry struct {
	policies map[AccountKind]AccountPolicy
}

// NewPolicyRegistry builds a registry keyed by each policy's own kind.
func NewPolicyRegistry(policies ...AccountPolicy) (*PolicyRegistry, error) {
	m := make(map[AccountKind]AccountPolicy, len(policies))
	for _, p := range policies {
		if _, exists := m[p.Kind()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePolicy, p.Kind())
		}
		m[p.Kind()] = p
	}

	return &PolicyRegistry{policies: m}, nil
}

// DefaultPolicyRegistry returns the registry with the savings and checking policies.
func DefaultPolicyRegistry() *PolicyRegistry {
	r, err := NewPolicyRegistry(NewSavingsPolicy(), NewCheckingPolicy())
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the policy for kind.
func (r *PolicyRegistry) Resolve(kind AccountKind) (AccountPolicy, error) {
	p, ok := r.policies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAccountKind, kind)
	}
	return p, nil
}

// Kinds lists the registered kinds in lexical order.
func (r *PolicyRegistry) Kinds() []AccountKind {
	kinds := make([]AccountKind, 0, len(r.policies))
	for k := range r.policies {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
