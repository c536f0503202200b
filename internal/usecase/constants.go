package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyInFlightMarker is stored under an idempotency key while the
	// first request carrying it is still being served
	IdempotencyInFlightMarker = "processing"

	// DefaultAccountCacheTTL is how long an account read stays cached
	DefaultAccountCacheTTL = 5 * time.Minute

	// latestMovementWindow is how many active movements the engine reads to
	// derive the current balance. Only the first row is used.
	latestMovementWindow = 1

	accountLockPrefix = "account:"
)
