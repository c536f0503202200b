package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// AccountUseCase handles the account lifecycle.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	validator   *AccountOpeningValidator
	idGen       IDGenerator

	locker   AccountLocker
	cache    Cache
	cacheTTL time.Duration
	clock    func() time.Time
	logger   zerolog.Logger
}

// AccountOption configures optional AccountUseCase collaborators.
type AccountOption func(*AccountUseCase)

// WithAccountCache caches account reads for ttl.
func WithAccountCache(cache Cache, ttl time.Duration) AccountOption {
	return func(uc *AccountUseCase) {
		uc.cache = cache
		uc.cacheTTL = ttl
	}
}

// WithAccountLocker sets the lock shared with the LedgerEngine so closing an
// account waits for in-flight movements.
func WithAccountLocker(locker AccountLocker) AccountOption {
	return func(uc *AccountUseCase) { uc.locker = locker }
}

// WithAccountClock overrides the time source.
func WithAccountClock(clock func() time.Time) AccountOption {
	return func(uc *AccountUseCase) { uc.clock = clock }
}

// WithAccountLogger sets the logger.
func WithAccountLogger(logger zerolog.Logger) AccountOption {
	return func(uc *AccountUseCase) { uc.logger = logger }
}

// NewAccountUseCase creates a new AccountUseCase. outboxRepo may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	validator *AccountOpeningValidator,
	idGen IDGenerator,
	opts ...AccountOption,
) *AccountUseCase {
	uc := &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		validator:   validator,
		idGen:       idGen,
		cacheTTL:    DefaultAccountCacheTTL,
		clock:       func() time.Time { return time.Now().UTC() },
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	Number         string
	Kind           domain.AccountKind
	OpeningBalance decimal.Decimal
	CustomerID     string
}

// OpenAccount validates and persists a new active account.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(input.Number); err != nil {
		return nil, err
	}

	if err := domain.ValidateCustomerID(input.CustomerID); err != nil {
		return nil, err
	}

	if err := domain.ValidateOpeningBalance(input.OpeningBalance); err != nil {
		return nil, err
	}

	if err := uc.validator.Validate(input.Kind, input.OpeningBalance); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	exists, err := uc.accountRepo.ExistsByNumber(ctx, tx, input.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateAccountNumber
	}

	now := uc.clock()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Number:         input.Number,
		Kind:           input.Kind,
		OpeningBalance: input.OpeningBalance,
		Active:         true,
		CustomerID:     input.CustomerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(ctx, tx, domain.NewAccountOpenedEvent(uc.idGen.Generate(), account)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("kind", string(account.Kind)).
		Msg("account opened")

	return account, nil
}

// GetAccount retrieves an active account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if cached := uc.cachedAccount(ctx, id); cached != nil {
		return cached, nil
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.storeAccount(ctx, account)

	return account, nil
}

// GetAccountByNumber retrieves an active account by its number.
func (uc *AccountUseCase) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(number); err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByNumber(ctx, number)
}

// ListCustomerAccounts lists the active accounts of a customer, oldest first.
func (uc *AccountUseCase) ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	if err := domain.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	return uc.accountRepo.ListByCustomer(ctx, customerID)
}

// UpdateAccountInput represents an admin edit. The account number is not editable.
type UpdateAccountInput struct {
	ID             string
	Kind           domain.AccountKind
	OpeningBalance decimal.Decimal
	CustomerID     string
}

// UpdateAccount applies an admin edit to an active account. The opening
// balance may only change while the account has no movements; the kind and
// opening balance must satisfy the kind's policy.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateCustomerID(input.CustomerID); err != nil {
		return nil, err
	}

	if err := domain.ValidateOpeningBalance(input.OpeningBalance); err != nil {
		return nil, err
	}

	if err := uc.validator.Validate(input.Kind, input.OpeningBalance); err != nil {
		return nil, err
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, accountLockPrefix+input.ID)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.ID)
	if err != nil {
		return nil, err
	}

	if !account.OpeningBalance.Equal(input.OpeningBalance) {
		hasMovements, err := uc.accountRepo.HasMovements(ctx, tx, account.ID)
		if err != nil {
			return nil, err
		}
		if hasMovements {
			return nil, domain.ErrOpeningBalanceLocked
		}
	}

	account.Kind = input.Kind
	account.OpeningBalance = input.OpeningBalance
	account.CustomerID = input.CustomerID
	account.UpdatedAt = uc.clock()

	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(ctx, tx, domain.NewAccountUpdatedEvent(uc.idGen.Generate(), account)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.evictAccount(ctx, account.ID)

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("kind", string(account.Kind)).
		Msg("account updated")

	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists active accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.accountRepo.List(ctx, limit, offset)
}

// CloseAccount soft-deletes an account. Its movements are kept.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, id string) error {
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, accountLockPrefix+id)
		if err != nil {
			return err
		}
		defer unlock()
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	now := uc.clock()
	if err := uc.accountRepo.Deactivate(ctx, tx, account.ID, now); err != nil {
		return err
	}
	account.Active = false
	account.UpdatedAt = now

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(ctx, tx, domain.NewAccountClosedEvent(uc.idGen.Generate(), account)); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.evictAccount(ctx, id)

	uc.logger.Info().Str("account_id", id).Msg("account closed")

	return nil
}

func (uc *AccountUseCase) cachedAccount(ctx context.Context, id string) *domain.Account {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, accountCacheKey(id))
	if err != nil {
		uc.logger.Warn().Err(err).Str("account_id", id).Msg("account cache read failed")
		return nil
	}
	if raw == nil {
		return nil
	}

	var account domain.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil
	}

	return &account
}

func (uc *AccountUseCase) storeAccount(ctx context.Context, account *domain.Account) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(account)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, accountCacheKey(account.ID), raw, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", account.ID).Msg("account cache write failed")
	}
}

func (uc *AccountUseCase) evictAccount(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, accountCacheKey(id)); err != nil {
		uc.logger.Warn().Err(err).Str("account_id", id).Msg("failed to evict account from cache")
	}
}

func accountCacheKey(id string) string {
	return "account:" + id
}
