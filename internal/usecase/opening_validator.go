package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountOpeningValidator checks an opening balance against the policy of
// the requested account kind. It holds no mutable state.
type AccountOpeningValidator struct {
	registry *domain.PolicyRegistry
}

// NewAccountOpeningValidator creates a new AccountOpeningValidator.
func NewAccountOpeningValidator(registry *domain.PolicyRegistry) *AccountOpeningValidator {
	return &AccountOpeningValidator{registry: registry}
}

// Validate fails with domain.ErrUnsupportedAccountKind or
// domain.ErrBelowMinimumBalance.
func (v *AccountOpeningValidator) Validate(kind domain.AccountKind, openingBalance decimal.Decimal) error {
	policy, err := v.registry.Resolve(kind)
	if err != nil {
		return err
	}

	minimum := policy.MinimumOpeningBalance()
	if openingBalance.LessThan(minimum) {
		return fmt.Errorf("%w: %s requires at least %s, got %s",
			domain.ErrBelowMinimumBalance, kind, minimum.StringFixed(2), openingBalance.String())
	}

	return nil
}
