package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bankledger/internal/domain"
)

// LedgerEngine records movements against accounts. Recording on one account
// is serialized by the AccountLocker and by the row lock taken in the
// transaction; different accounts never wait on each other.
type LedgerEngine struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	registry     *domain.PolicyRegistry
	idGen        IDGenerator

	outboxRepo OutboxRepository
	locker     AccountLocker
	retrier    Retrier
	metrics    MetricsRecorder
	clock      func() time.Time
	logger     zerolog.Logger
}

// EngineOption configures optional LedgerEngine collaborators.
type EngineOption func(*LedgerEngine)

// WithOutbox writes an outbox event in the same transaction as each change.
func WithOutbox(repo OutboxRepository) EngineOption {
	return func(e *LedgerEngine) { e.outboxRepo = repo }
}

// WithLocker sets the per-account lock held around each recording.
func WithLocker(locker AccountLocker) EngineOption {
	return func(e *LedgerEngine) { e.locker = locker }
}

// WithRetrier retries the whole transaction on transient storage errors.
func WithRetrier(retrier Retrier) EngineOption {
	return func(e *LedgerEngine) { e.retrier = retrier }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m MetricsRecorder) EngineOption {
	return func(e *LedgerEngine) { e.metrics = m }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *LedgerEngine) { e.clock = clock }
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *LedgerEngine) { e.logger = logger }
}

// NewLedgerEngine creates a new LedgerEngine.
func NewLedgerEngine(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	registry *domain.PolicyRegistry,
	idGen IDGenerator,
	opts ...EngineOption,
) *LedgerEngine {
	e := &LedgerEngine{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		registry:     registry,
		idGen:        idGen,
		clock:        func() time.Time { return time.Now().UTC() },
		logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RecordMovement applies req to its account and persists the resulting
// movement. It fails with domain.ErrAccountNotFound,
// domain.ErrUnsupportedAccountKind or domain.ErrInsufficientFunds; nothing is
// persisted on failure.
func (e *LedgerEngine) RecordMovement(ctx context.Context, req domain.MovementRequest) (*domain.Movement, error) {
	start := time.Now()

	if _, err := domain.ParseMovementKind(string(req.Kind)); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	unlock, err := e.lock(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var movement *domain.Movement
	err = e.retry(ctx, func() error {
		var recErr error
		movement, recErr = e.record(ctx, req)
		return recErr
	})
	if err != nil {
		e.rejected(err)
		e.logger.Debug().Err(err).
			Str("account_id", req.AccountID).
			Str("kind", string(req.Kind)).
			Str("amount", req.Amount.String()).
			Msg("movement rejected")
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordMovement(string(movement.Kind), time.Since(start))
	}

	e.logger.Info().
		Str("movement_id", movement.ID).
		Str("account_id", movement.AccountID).
		Str("kind", string(movement.Kind)).
		Str("value", movement.Value.String()).
		Str("balance", movement.Balance.String()).
		Msg("movement recorded")

	return movement, nil
}

func (e *LedgerEngine) record(ctx context.Context, req domain.MovementRequest) (*domain.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := e.accountRepo.GetByIDForUpdate(ctx, tx, req.AccountID)
	if err != nil {
		return nil, err
	}

	history, err := e.movementRepo.ListActiveByAccount(ctx, tx, account.ID, latestMovementWindow)
	if err != nil {
		return nil, err
	}

	var latest *domain.Movement
	if len(history) > 0 {
		latest = history[0]
	}
	current := account.CurrentBalance(latest)

	policy, err := e.registry.Resolve(account.Kind)
	if err != nil {
		return nil, err
	}

	value := domain.SignedValue(req.Kind, req.Amount, policy)
	balance := current.Add(value)
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance %s cannot cover %s", domain.ErrInsufficientFunds, current.String(), value.Neg().String())
	}

	now := e.clock()
	if latest != nil && now.Before(latest.CreatedAt) {
		now = latest.CreatedAt
	}

	movement := &domain.Movement{
		ID:        e.idGen.Generate(),
		AccountID: account.ID,
		Kind:      req.Kind,
		Value:     value,
		Balance:   balance,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	if e.outboxRepo != nil {
		if err := e.outboxRepo.Create(ctx, tx, domain.NewMovementRecordedEvent(e.idGen.Generate(), movement)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return movement, nil
}

// DeactivateMovement soft-deletes a movement. Balances stored on later
// movements are left as recorded.
func (e *LedgerEngine) DeactivateMovement(ctx context.Context, movementID string) error {
	target, err := e.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return err
	}

	unlock, err := e.lock(ctx, target.AccountID)
	if err != nil {
		return err
	}
	defer unlock()

	var deactivated *domain.Movement
	err = e.retry(ctx, func() error {
		var deErr error
		deactivated, deErr = e.deactivate(ctx, movementID)
		return deErr
	})
	if err != nil {
		return err
	}

	if e.metrics != nil {
		e.metrics.RecordMovementDeactivated()
	}

	e.logger.Info().
		Str("movement_id", deactivated.ID).
		Str("account_id", deactivated.AccountID).
		Msg("movement deactivated")

	return nil
}

func (e *LedgerEngine) deactivate(ctx context.Context, movementID string) (*domain.Movement, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	movement, err := e.movementRepo.GetByIDForUpdate(ctx, tx, movementID)
	if err != nil {
		return nil, err
	}

	now := e.clock()
	if err := e.movementRepo.Deactivate(ctx, tx, movement.ID, now); err != nil {
		return nil, err
	}
	movement.Active = false
	movement.UpdatedAt = now

	if e.outboxRepo != nil {
		if err := e.outboxRepo.Create(ctx, tx, domain.NewMovementDeactivatedEvent(e.idGen.Generate(), movement)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return movement, nil
}

func (e *LedgerEngine) lock(ctx context.Context, accountID string) (func(), error) {
	if e.locker == nil {
		return func() {}, nil
	}
	return e.locker.Lock(ctx, accountLockPrefix+accountID)
}

func (e *LedgerEngine) retry(ctx context.Context, op func() error) error {
	if e.retrier == nil {
		return op()
	}
	return e.retrier.Retry(ctx, op)
}

func (e *LedgerEngine) rejected(err error) {
	if e.metrics == nil {
		return
	}

	reason := "error"
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		reason = "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		reason = "account_not_found"
	case errors.Is(err, domain.ErrUnsupportedAccountKind):
		reason = "unsupported_kind"
	}
	e.metrics.RecordMovementRejected(reason)
}
