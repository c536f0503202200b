package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LockerConfig tunes the distributed account lock.
type LockerConfig struct {
	Expiry     time.Duration
	Tries      int
	RetryDelay time.Duration
}

// DefaultLockerConfig returns defaults sized for a single movement transaction.
func DefaultLockerConfig() LockerConfig {
	return LockerConfig{
		Expiry:     10 * time.Second,
		Tries:      32,
		RetryDelay: 50 * time.Millisecond,
	}
}

// AccountLocker implements usecase.AccountLocker with redsync so several
// server instances serialize on the same account.
type AccountLocker struct {
	rs     *redsync.Redsync
	cfg    LockerConfig
	prefix string
	logger zerolog.Logger
}

// NewAccountLocker creates a new AccountLocker.
func NewAccountLocker(client *redis.Client, cfg LockerConfig, logger zerolog.Logger) *AccountLocker {
	return &AccountLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		cfg:    cfg,
		prefix: "lock:",
		logger: logger,
	}
}

// Lock acquires the distributed lock for key.
func (l *AccountLocker) Lock(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(
		l.prefix+key,
		redsync.WithExpiry(l.cfg.Expiry),
		redsync.WithTries(l.cfg.Tries),
		redsync.WithRetryDelay(l.cfg.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	return func() {
		// ctx may already be cancelled here; the lock must still be released.
		if ok, err := mutex.UnlockContext(context.Background()); !ok || err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to release lock")
		}
	}, nil
}
