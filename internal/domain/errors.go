package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound        = errors.New("account not found")
	ErrUnsupportedAccountKind = errors.New("unsupported account kind")
	ErrBelowMinimumBalance    = errors.New("opening balance below account minimum")
	ErrDuplicateAccountNumber = errors.New("account number already in use")
	ErrOpeningBalanceLocked   = errors.New("opening balance is fixed once the account has movements")

	// Movement errors
	ErrMovementNotFound    = errors.New("movement not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidMovementKind = errors.New("invalid movement kind")

	// Policy errors
	ErrDuplicatePolicy = errors.New("duplicate account policy")
)
