package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

type accountServiceStub struct {
	openFn       func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	getFn        func(ctx context.Context, id string) (*domain.Account, error)
	getByNumFn   func(ctx context.Context, number string) (*domain.Account, error)
	listFn       func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	listByCustFn func(ctx context.Context, customerID string) ([]*domain.Account, error)
	updateFn     func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	closeFn      func(ctx context.Context, id string) error
}

func (s *accountServiceStub) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	return s.openFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return s.listFn(ctx, input)
}

func (s *accountServiceStub) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	return s.getByNumFn(ctx, number)
}

func (s *accountServiceStub) ListCustomerAccounts(ctx context.Context, customerID string) ([]*domain.Account, error) {
	return s.listByCustFn(ctx, customerID)
}

func (s *accountServiceStub) UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, input)
}

func (s *accountServiceStub) CloseAccount(ctx context.Context, id string) error {
	return s.closeFn(ctx, id)
}

func newTestAccountHandler(stub *accountServiceStub) *AccountHandler {
	return NewAccountHandler(stub, usecase.NewAccountOpeningValidator(domain.DefaultPolicyRegistry()))
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.OpenAccountInput
	handler := newTestAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{
				ID:             "acc-1",
				Number:         input.Number,
				Kind:           input.Kind,
				OpeningBalance: input.OpeningBalance,
				Active:         true,
				CustomerID:     input.CustomerID,
			}, nil
		},
	})

	body, _ := json.Marshal(dto.OpenAccountRequest{
		Number:         "12345678",
		Kind:           "Checking",
		OpeningBalance: "600.00",
		CustomerID:     "cust-1",
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Kind != domain.AccountKindChecking || !captured.OpeningBalance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.OpeningBalance != "600" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := newTestAccountHandler(&accountServiceStub{
		openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
			t.Fatal("OpenAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_MapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"below minimum", domain.ErrBelowMinimumBalance, http.StatusUnprocessableEntity},
		{"duplicate number", domain.ErrDuplicateAccountNumber, http.StatusConflict},
		{"database", errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAccountHandler(&accountServiceStub{
				openFn: func(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.OpenAccountRequest{Number: "123456", Kind: "Savings", OpeningBalance: "100", CustomerID: "c"})
			req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestAccountHandler_CheckOpening(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		balance string
		status  int
	}{
		{"savings at minimum", "Savings", "100.00", http.StatusOK},
		{"savings below minimum", "Savings", "99.99", http.StatusUnprocessableEntity},
		{"checking at minimum", "Checking", "500.00", http.StatusOK},
		{"checking below minimum", "Checking", "499.99", http.StatusUnprocessableEntity},
		{"unknown kind", "Brokerage", "1000", http.StatusUnprocessableEntity},
		{"negative balance", "Savings", "-1", http.StatusBadRequest},
	}

	handler := newTestAccountHandler(&accountServiceStub{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(dto.OpeningCheckRequest{Kind: tt.kind, OpeningBalance: tt.balance})
			req := httptest.NewRequest(http.MethodPost, "/accounts/opening-check", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CheckOpening(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := newTestAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_MissingID(t *testing.T) {
	handler := newTestAccountHandler(&accountServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/accounts/", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	var captured usecase.ListAccountsInput
	handler := newTestAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
			captured = input
			return []*domain.Account{{ID: "a"}, {ID: "b"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=2&offset=4", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Limit != 2 || captured.Offset != 4 {
		t.Fatalf("unexpected pagination %+v", captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp.Accounts))
	}
}

func TestAccountHandler_Close(t *testing.T) {
	var closed string
	handler := newTestAccountHandler(&accountServiceStub{
		closeFn: func(ctx context.Context, id string) error {
			closed = id
			return nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/accounts/acc-1", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Close(rec, req)

	if rec.Code != http.StatusNoContent || closed != "acc-1" {
		t.Fatalf("expected 204 closing acc-1, got %d closing %q", rec.Code, closed)
	}
}

func TestAccountHandler_GetByNumber(t *testing.T) {
	handler := newTestAccountHandler(&accountServiceStub{
		getByNumFn: func(ctx context.Context, number string) (*domain.Account, error) {
			if number != "478758" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: "acc-1", Number: number, Active: true}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/by-number/478758", nil), "number", "478758")
	rec := httptest.NewRecorder()

	handler.GetByNumber(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" {
		t.Fatalf("expected acc-1, got %q", resp.ID)
	}

	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/accounts/by-number/111111", nil), "number", "111111")
	rec = httptest.NewRecorder()

	handler.GetByNumber(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_ListByCustomer(t *testing.T) {
	var captured string
	handler := newTestAccountHandler(&accountServiceStub{
		listByCustFn: func(ctx context.Context, customerID string) ([]*domain.Account, error) {
			captured = customerID
			return []*domain.Account{{ID: "a"}}, nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/customers/cust-1/accounts", nil), "id", "cust-1")
	rec := httptest.NewRecorder()

	handler.ListByCustomer(rec, req)

	if rec.Code != http.StatusOK || captured != "cust-1" {
		t.Fatalf("expected 200 for cust-1, got %d for %q", rec.Code, captured)
	}

	var resp dto.ListAccountsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 account, got %d", resp.Total)
	}
}

func TestAccountHandler_Update(t *testing.T) {
	var captured usecase.UpdateAccountInput
	handler := newTestAccountHandler(&accountServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{
				ID:             input.ID,
				Number:         "478758",
				Kind:           input.Kind,
				OpeningBalance: input.OpeningBalance,
				Active:         true,
				CustomerID:     input.CustomerID,
			}, nil
		},
	})

	body := []byte(`{"kind":"Checking","opening_balance":"750.00","customer_id":"cust-2"}`)
	req := setChiURLParam(httptest.NewRequest(http.MethodPut, "/accounts/acc-1", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ID != "acc-1" || captured.Kind != domain.AccountKindChecking || captured.CustomerID != "cust-2" {
		t.Fatalf("unexpected input %+v", captured)
	}
	if !captured.OpeningBalance.Equal(decimal.RequireFromString("750")) {
		t.Fatalf("expected opening balance 750, got %s", captured.OpeningBalance)
	}
}

func TestAccountHandler_Update_MapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"opening balance locked", `{"kind":"Savings","opening_balance":"300","customer_id":"cust-1"}`, domain.ErrOpeningBalanceLocked, http.StatusConflict},
		{"not found", `{"kind":"Savings","opening_balance":"300","customer_id":"cust-1"}`, domain.ErrAccountNotFound, http.StatusNotFound},
		{"below minimum", `{"kind":"Checking","opening_balance":"300","customer_id":"cust-1"}`, domain.ErrBelowMinimumBalance, http.StatusUnprocessableEntity},
		{"exponent balance", `{"kind":"Savings","opening_balance":"1e5000000","customer_id":"cust-1"}`, nil, http.StatusBadRequest},
		{"missing customer", `{"kind":"Savings","opening_balance":"300"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAccountHandler(&accountServiceStub{
				updateFn: func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
					if tt.err == nil {
						t.Fatalf("service must not be called")
					}
					return nil, tt.err
				},
			})

			req := setChiURLParam(httptest.NewRequest(http.MethodPut, "/accounts/acc-1", bytes.NewReader([]byte(tt.body))), "id", "acc-1")
			rec := httptest.NewRecorder()

			handler.Update(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
