package dto

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iho/bankledger/internal/domain"
)

// ErrValidationFailed is returned when a request body breaks a field rule.
var ErrValidationFailed = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	if err := vld.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := domain.ParseAmount(fl.Field().String())
		return err == nil && d.IsPositive()
	}); err != nil {
		return nil, fmt.Errorf("register positive_amount: %w", err)
	}

	if err := vld.RegisterValidation("nonnegative_amount", func(fl validator.FieldLevel) bool {
		d, err := domain.ParseAmount(fl.Field().String())
		return err == nil && !d.IsNegative()
	}); err != nil {
		return nil, fmt.Errorf("register nonnegative_amount: %w", err)
	}

	return vld, nil
}

// Validate checks a request struct against its validate tags and reports the
// first broken rule.
func Validate(payload any) error {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	if errValidate != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, errValidate)
	}

	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return fmt.Errorf("%w: %s", ErrValidationFailed, describe(fe))
	}

	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}

func describe(fe validator.FieldError) string {
	field := jsonName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "positive_amount":
		return fmt.Sprintf("%s must be a positive decimal", field)
	case "nonnegative_amount":
		return fmt.Sprintf("%s must be a non-negative decimal", field)
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// jsonName turns a Go field name such as OpeningBalance into opening_balance.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(field[i-1])
			if prev < 'A' || prev > 'Z' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
