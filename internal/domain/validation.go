package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidCustomer      = errors.New("invalid customer reference")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall       = errors.New("amount below minimum allowed")
	ErrNegativeBalance      = errors.New("opening balance cannot be negative")
)

// Validation constants
const (
	MaxMovementAmount = "1000000000000" // 1 trillion
	MinMovementAmount = "0.01"
	MaxCustomerIDLen  = 64

	// Accepted decimal exponent window. Comparing decimals rescales them to a
	// common exponent, so anything outside this window is rejected first.
	MinAmountExponent = -8
	MaxAmountExponent = 12
)

var (
	accountNumberRegex = regexp.MustCompile(`^[0-9]{6,20}$`)
	amountRegex        = regexp.MustCompile(`^[+-]?[0-9]{1,15}(\.[0-9]{1,8})?$`)

	minMovementAmount = decimal.RequireFromString(MinMovementAmount)
	maxMovementAmount = decimal.RequireFromString(MaxMovementAmount)
)

// ValidateAccountNumber validates the account number format (6 to 20 digits).
func ValidateAccountNumber(number string) error {
	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: must contain 6 to 20 digits", ErrInvalidAccountNumber)
	}
	return nil
}

// ValidateCustomerID validates the owner reference of an account.
func ValidateCustomerID(id string) error {
	id = strings.TrimSpace(id)

	if id == "" {
		return fmt.Errorf("%w: customer id cannot be empty", ErrInvalidCustomer)
	}

	if len(id) > MaxCustomerIDLen {
		return fmt.Errorf("%w: customer id exceeds %d characters", ErrInvalidCustomer, MaxCustomerIDLen)
	}

	return nil
}

// ParseAmount parses a plain decimal string such as "1250.75". Exponent
// notation and more than 8 fractional digits are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a plain decimal", ErrInvalidAmount, s)
	}
	return decimal.NewFromString(s)
}

func validateScale(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp < MinAmountExponent || exp > MaxAmountExponent {
		return fmt.Errorf("%w: precision out of range", ErrInvalidAmount)
	}
	return nil
}

// ValidateAmount validates a movement amount
func ValidateAmount(amount decimal.Decimal) error {
	if err := validateScale(amount); err != nil {
		return err
	}

	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	if amount.LessThan(minMovementAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinMovementAmount)
	}

	if amount.GreaterThan(maxMovementAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}

	return nil
}

// ValidateOpeningBalance rejects negative opening balances.
func ValidateOpeningBalance(balance decimal.Decimal) error {
	if err := validateScale(balance); err != nil {
		return err
	}
	if balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
