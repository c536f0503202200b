package usecase

import (
	"context"
	"time"

	"github.com/iho/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts. Every read filters on
// active accounts; an inactive account is reported as domain.ErrAccountNotFound.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	ExistsByNumber(ctx context.Context, tx Transaction, number string) (bool, error)
	// Update stores kind, opening balance, customer and updated_at.
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	// HasMovements counts inactive movements too.
	HasMovements(ctx context.Context, tx Transaction, id string) (bool, error)
	Deactivate(ctx context.Context, tx Transaction, id string, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error)
}

// MovementRepository defines data access for movements. Every read filters on
// active movements.
type MovementRepository interface {
	// Create persists the movement and assigns its Sequence.
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	// ListActiveByAccount returns the most recent active movements first,
	// ordered by created_at then sequence.
	ListActiveByAccount(ctx context.Context, tx Transaction, accountID string, limit int) ([]*domain.Movement, error)
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Movement, error)
	Deactivate(ctx context.Context, tx Transaction, id string, updatedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error)
	// ListChronological returns every active movement of the account, oldest first.
	ListChronological(ctx context.Context, accountID string) ([]*domain.Movement, error)
	ListByCustomerBetween(ctx context.Context, customerID string, from, to time.Time) ([]*domain.StatementLine, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// AccountLocker serializes work on a single key. Lock blocks until the key is
// free or ctx is done; the returned func releases it.
type AccountLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// MetricsRecorder receives ledger-level measurements.
type MetricsRecorder interface {
	RecordMovement(kind string, duration time.Duration)
	RecordMovementRejected(reason string)
	RecordMovementDeactivated()
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
