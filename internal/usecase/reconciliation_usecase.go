package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/domain"
)

// ReconciliationUseCase compares stored balance snapshots with a replay of
// the active history. It never rewrites snapshots.
type ReconciliationUseCase struct {
	accountRepo  AccountRepository
	movementRepo MovementRepository
	clock        func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(accountRepo AccountRepository, movementRepo MovementRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		clock:        func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID       string
	OpeningBalance  decimal.Decimal
	RecordedBalance decimal.Decimal
	ReplayedBalance decimal.Decimal
	Difference      decimal.Decimal
	Movements       int
	BrokenLinks     int
	IsReconciled    bool
	LastChecked     time.Time
}

// ReconcileAccount replays the account's active movements oldest first.
// A broken link is a movement whose snapshot differs from the previous
// snapshot plus its value, which is what a soft-deleted predecessor leaves.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListChronological(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return replay(account, movements, uc.clock()), nil
}

func replay(account *domain.Account, movements []*domain.Movement, now time.Time) *ReconciliationResult {
	replayed := account.OpeningBalance
	previous := account.OpeningBalance
	broken := 0

	var latest *domain.Movement
	for _, m := range movements {
		if !m.Balance.Equal(previous.Add(m.Value)) {
			broken++
		}
		replayed = replayed.Add(m.Value)
		previous = m.Balance
		latest = m
	}

	recorded := account.CurrentBalance(latest)
	diff := recorded.Sub(replayed)

	return &ReconciliationResult{
		AccountID:       account.ID,
		OpeningBalance:  account.OpeningBalance,
		RecordedBalance: recorded,
		ReplayedBalance: replayed,
		Difference:      diff,
		Movements:       len(movements),
		BrokenLinks:     broken,
		IsReconciled:    broken == 0 && diff.IsZero(),
		LastChecked:     now,
	}
}

// ReconcileAllAccounts reconciles every active account, page by page.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	const pageSize = 1000

	var results []*ReconciliationResult
	for offset := 0; ; offset += pageSize {
		accounts, err := uc.accountRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < pageSize {
			return results, nil
		}
	}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.clock(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
