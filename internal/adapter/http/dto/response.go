package dto

import (
	"time"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	Number         string    `json:"number"`
	Kind           string    `json:"kind"`
	OpeningBalance string    `json:"opening_balance"`
	Active         bool      `json:"active"`
	CustomerID     string    `json:"customer_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Number:         a.Number,
		Kind:           string(a.Kind),
		OpeningBalance: a.OpeningBalance.String(),
		Active:         a.Active,
		CustomerID:     a.CustomerID,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// OpeningCheckResponse reports that an opening request would be accepted.
type OpeningCheckResponse struct {
	Kind           string `json:"kind"`
	OpeningBalance string `json:"opening_balance"`
	Valid          bool   `json:"valid"`
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Kind      string    `json:"kind"`
	Value     string    `json:"value"`
	Balance   string    `json:"balance"`
	Active    bool      `json:"active"`
	Sequence  int64     `json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:        m.ID,
		AccountID: m.AccountID,
		Kind:      string(m.Kind),
		Value:     m.Value.String(),
		Balance:   m.Balance.String(),
		Active:    m.Active,
		Sequence:  m.Sequence,
		CreatedAt: m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ListMovementsResponse represents a page of an account's movements.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
}

// StatementLineResponse is one statement row.
type StatementLineResponse struct {
	AccountNumber  string            `json:"account_number"`
	AccountKind    string            `json:"account_kind"`
	OpeningBalance string            `json:"opening_balance"`
	Movement       *MovementResponse `json:"movement"`
}

// StatementResponse is the data behind a customer statement.
type StatementResponse struct {
	CustomerID string                   `json:"customer_id"`
	From       time.Time                `json:"from"`
	To         time.Time                `json:"to"`
	Lines      []*StatementLineResponse `json:"lines"`
}

// StatementFromDomain converts statement lines to a response.
func StatementFromDomain(customerID string, from, to time.Time, lines []*domain.StatementLine) *StatementResponse {
	resp := &StatementResponse{
		CustomerID: customerID,
		From:       from,
		To:         to,
		Lines:      make([]*StatementLineResponse, len(lines)),
	}
	for i, l := range lines {
		resp.Lines[i] = &StatementLineResponse{
			AccountNumber:  l.AccountNumber,
			AccountKind:    string(l.AccountKind),
			OpeningBalance: l.OpeningBalance.String(),
			Movement:       MovementFromDomain(l.Movement),
		}
	}
	return resp
}

// ReconciliationResponse represents a reconciliation result.
type ReconciliationResponse struct {
	AccountID       string    `json:"account_id"`
	OpeningBalance  string    `json:"opening_balance"`
	RecordedBalance string    `json:"recorded_balance"`
	ReplayedBalance string    `json:"replayed_balance"`
	Difference      string    `json:"difference"`
	Movements       int       `json:"movements"`
	BrokenLinks     int       `json:"broken_links"`
	IsReconciled    bool      `json:"is_reconciled"`
	LastChecked     time.Time `json:"last_checked"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:       r.AccountID,
		OpeningBalance:  r.OpeningBalance.String(),
		RecordedBalance: r.RecordedBalance.String(),
		ReplayedBalance: r.ReplayedBalance.String(),
		Difference:      r.Difference.String(),
		Movements:       r.Movements,
		BrokenLinks:     r.BrokenLinks,
		IsReconciled:    r.IsReconciled,
		LastChecked:     r.LastChecked,
	}
}

// ReconciliationReportResponse represents a full reconciliation report.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReportFromDomain converts a reconciliation report to response.
func ReportFromDomain(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = ReconciliationFromResult(d)
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
