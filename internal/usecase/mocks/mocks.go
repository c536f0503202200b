package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// stage defers fn until tx commits when tx is a *MockTransaction.
func stage(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.onCommit(fn)
		return
	}
	fn()
}

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	// set by NewMockMovementRepository; backs HasMovements
	movements *MockMovementRepository

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByNumberFunc      func(ctx context.Context, number string) (*domain.Account, error)
	ExistsByNumberFunc   func(ctx context.Context, tx usecase.Transaction, number string) (bool, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	HasMovementsFunc     func(ctx context.Context, tx usecase.Transaction, id string) (bool, error)
	DeactivateFunc       func(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListByCustomerFunc   func(ctx context.Context, customerID string) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores accounts directly, bypassing transactions.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	stored := *account
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.accounts[stored.ID] = &stored
	})
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.Active {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Active && acc.Number == number {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.RLock()
	acc, ok := m.accounts[account.ID]
	m.mu.RUnlock()
	if !ok || !acc.Active {
		return domain.ErrAccountNotFound
	}
	stored := *account
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if acc, ok := m.accounts[stored.ID]; ok {
			acc.Kind = stored.Kind
			acc.OpeningBalance = stored.OpeningBalance
			acc.CustomerID = stored.CustomerID
			acc.UpdatedAt = stored.UpdatedAt
		}
	})
	return nil
}

func (m *MockAccountRepository) HasMovements(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	if m.HasMovementsFunc != nil {
		return m.HasMovementsFunc(ctx, tx, id)
	}
	if m.movements == nil {
		return false, nil
	}
	m.movements.mu.RLock()
	defer m.movements.mu.RUnlock()
	for _, mv := range m.movements.movements {
		if mv.AccountID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) ExistsByNumber(ctx context.Context, tx usecase.Transaction, number string) (bool, error) {
	if m.ExistsByNumberFunc != nil {
		return m.ExistsByNumberFunc(ctx, tx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Active && acc.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) Deactivate(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, tx, id, updatedAt)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if acc, ok := m.accounts[id]; ok {
			acc.Active = false
			acc.UpdatedAt = updatedAt
		}
	})
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.Active {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return page(accounts, limit, offset), nil
}

func (m *MockAccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Account, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := []*domain.Account{}
	for _, acc := range m.accounts {
		if acc.Active && acc.CustomerID == customerID {
			cp := *acc
			accounts = append(accounts, &cp)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

// MockMovementRepository is an in-memory implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement
	seq       int64
	accounts  *MockAccountRepository

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	ListActiveByAccountFunc func(ctx context.Context, tx usecase.Transaction, accountID string, limit int) ([]*domain.Movement, error)
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Movement, error)
	DeactivateFunc          func(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error
}

// NewMockMovementRepository creates a movement store. accounts is used by the
// customer statement query and may be nil; when set, its HasMovements reads
// this store.
func NewMockMovementRepository(accounts *MockAccountRepository) *MockMovementRepository {
	m := &MockMovementRepository{
		movements: make(map[string]*domain.Movement),
		accounts:  accounts,
	}
	if accounts != nil {
		accounts.movements = m
	}
	return m
}

// Seed stores movements directly, assigning sequences in argument order.
func (m *MockMovementRepository) Seed(movements ...*domain.Movement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mv := range movements {
		m.seq++
		mv.Sequence = m.seq
		m.movements[mv.ID] = mv
	}
}

// All returns every stored movement, active or not, in sequence order.
func (m *MockMovementRepository) All() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Movement, 0, len(m.movements))
	for _, mv := range m.movements {
		cp := *mv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	m.seq++
	movement.Sequence = m.seq
	m.mu.Unlock()

	stored := *movement
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.movements[stored.ID] = &stored
	})
	return nil
}

func (m *MockMovementRepository) ListActiveByAccount(ctx context.Context, tx usecase.Transaction, accountID string, limit int) ([]*domain.Movement, error) {
	if m.ListActiveByAccountFunc != nil {
		return m.ListActiveByAccountFunc(ctx, tx, accountID, limit)
	}
	return page(m.activeFor(accountID, true), limit, 0), nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[id]; ok && mv.Active {
		cp := *mv
		return &cp, nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	return m.GetByID(ctx, id)
}

func (m *MockMovementRepository) Deactivate(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, tx, id, updatedAt)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if mv, ok := m.movements[id]; ok {
			mv.Active = false
			mv.UpdatedAt = updatedAt
		}
	})
	return nil
}

func (m *MockMovementRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error) {
	return page(m.activeFor(accountID, true), limit, offset), nil
}

func (m *MockMovementRepository) ListChronological(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	return m.activeFor(accountID, false), nil
}

func (m *MockMovementRepository) ListByCustomerBetween(ctx context.Context, customerID string, from, to time.Time) ([]*domain.StatementLine, error) {
	if m.accounts == nil {
		return nil, nil
	}
	accounts, _ := m.accounts.List(ctx, 0, 0)

	var lines []*domain.StatementLine
	for _, acc := range accounts {
		if acc.CustomerID != customerID {
			continue
		}
		for _, mv := range m.activeFor(acc.ID, true) {
			if mv.CreatedAt.Before(from) || mv.CreatedAt.After(to) {
				continue
			}
			lines = append(lines, &domain.StatementLine{
				AccountNumber:  acc.Number,
				AccountKind:    acc.Kind,
				OpeningBalance: acc.OpeningBalance,
				Movement:       mv,
			})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return newerFirst(lines[i].Movement, lines[j].Movement)
	})
	return lines, nil
}

func (m *MockMovementRepository) activeFor(accountID string, desc bool) []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if mv.AccountID == accountID && mv.Active {
			cp := *mv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return newerFirst(out[i], out[j])
		}
		return newerFirst(out[j], out[i])
	})
	return out
}

func newerFirst(a, b *domain.Movement) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Sequence > b.Sequence
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// MockOutboxRepository records outbox events in memory.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	stage(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.events = append(m.events, event)
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
	}
	return page(out, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			t := publishedAt
			e.PublishedAt = &t
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns the committed events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction. Writes staged by
// the in-memory repositories apply on Commit and are dropped on Rollback.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu      sync.Mutex
	pending []func()
	done    bool
}

func (m *MockTransaction) onCommit(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	for _, fn := range m.pending {
		fn()
	}
	m.pending = nil
	m.done = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.mu.Lock()
	m.pending = nil
	m.done = true
	m.mu.Unlock()
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockCache is an in-memory implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyInFlightMarker)
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockMetrics counts ledger measurements.
type MockMetrics struct {
	mu          sync.Mutex
	Recorded    map[string]int
	Rejected    map[string]int
	Deactivated int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Recorded: map[string]int{}, Rejected: map[string]int{}}
}

func (m *MockMetrics) RecordMovement(kind string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recorded[kind]++
}

func (m *MockMetrics) RecordMovementRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[reason]++
}

func (m *MockMetrics) RecordMovementDeactivated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deactivated++
}
