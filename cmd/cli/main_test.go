package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

// fakeAPI serves a canned status/body and records the request.
func fakeAPI(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		captured.header = r.Header.Clone()
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &captured.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestAccountsOpen(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusCreated, `{"id":"acc-1","number":"123456"}`)

	out, err := runCLI(t, "--url", srv.URL, "accounts", "open",
		"--number", "123456", "--kind", "Checking", "--opening-balance", "600", "--customer", "cust-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/api/v1/accounts", req.path)
	assert.Equal(t, "Checking", req.body["kind"])
	assert.Equal(t, "600", req.body["opening_balance"])
	assert.Equal(t, "cust-1", req.body["customer_id"])
	assert.Equal(t, "{\n  \"id\": \"acc-1\",\n  \"number\": \"123456\"\n}\n", out)
}

func TestAccountsOpenRequiresFlags(t *testing.T) {
	_, err := runCLI(t, "accounts", "open", "--number", "123456")
	assert.Error(t, err)
}

func TestAccountsList(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"accounts":[]}`)

	_, err := runCLI(t, "--url", srv.URL+"/", "accounts", "list", "--limit", "5")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/accounts", req.path)
	assert.Equal(t, "limit=5&offset=0", req.query)
}

func TestAccountsClose(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusNoContent, "")

	out, err := runCLI(t, "--url", srv.URL, "accounts", "close", "acc-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/api/v1/accounts/acc-1", req.path)
	assert.Contains(t, out, "account acc-1 closed")
}

func TestAccountsFind(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"id":"acc-1","number":"123456"}`)

	_, err := runCLI(t, "--url", srv.URL, "accounts", "find", "123456")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.method)
	assert.Equal(t, "/api/v1/accounts/by-number/123456", req.path)
}

func TestAccountsOwnedBy(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"accounts":[],"total":0}`)

	_, err := runCLI(t, "--url", srv.URL, "accounts", "owned-by", "cust-1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/customers/cust-1/accounts", req.path)
}

func TestAccountsUpdate(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"id":"acc-1"}`)

	_, err := runCLI(t, "--url", srv.URL, "accounts", "update", "acc-1",
		"--kind", "Checking", "--opening-balance", "700", "--customer", "cust-2")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/api/v1/accounts/acc-1", req.path)
	assert.Equal(t, "Checking", req.body["kind"])
	assert.Equal(t, "700", req.body["opening_balance"])
	assert.Equal(t, "cust-2", req.body["customer_id"])
}

func TestAccountsUpdateConflictIsReported(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusConflict, `{"error":"failed to update account","details":"opening balance is fixed once the account has movements"}`)

	_, err := runCLI(t, "--url", srv.URL, "accounts", "update", "acc-1", "--opening-balance", "700", "--customer", "cust-2")

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestMovementsRecordSendsIdempotencyKey(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusCreated, `{"id":"mov-1","balance":"498"}`)

	_, err := runCLI(t, "--url", srv.URL, "movements", "record",
		"--account", "acc-1", "--kind", "Withdrawal", "--amount", "100", "--idempotency-key", "k-1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/movements", req.path)
	assert.Equal(t, "k-1", req.header.Get("Idempotency-Key"))
	assert.Equal(t, "Withdrawal", req.body["kind"])
	assert.Equal(t, "100", req.body["amount"])
}

func TestMovementsRecordWithoutKeyOmitsHeader(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusCreated, `{}`)

	_, err := runCLI(t, "--url", srv.URL, "movements", "record",
		"--account", "acc-1", "--kind", "Deposit", "--amount", "1")
	require.NoError(t, err)

	_, present := req.header["Idempotency-Key"]
	assert.False(t, present)
}

func TestMovementsStatement(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"lines":[]}`)

	_, err := runCLI(t, "--url", srv.URL, "movements", "statement", "cust-1",
		"--from", "2024-01-01T00:00:00Z", "--to", "2024-02-01T00:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/customers/cust-1/movements", req.path)
	assert.True(t, strings.Contains(req.query, "from=2024-01-01T00%3A00%3A00Z"), req.query)
}

func TestMovementsStatementRejectsBadTime(t *testing.T) {
	_, err := runCLI(t, "movements", "statement", "cust-1", "--from", "yesterday", "--to", "today")
	assert.ErrorContains(t, err, "invalid time")
}

func TestAPIErrorIsReported(t *testing.T) {
	srv, _ := fakeAPI(t, http.StatusUnprocessableEntity, `{"error":"insufficient_funds","message":"insufficient funds"}`)

	_, err := runCLI(t, "--url", srv.URL, "movements", "record",
		"--account", "acc-1", "--kind", "Withdrawal", "--amount", "1000")

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "insufficient_funds", apiErr.Code)
}

func TestReconcileAccount(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"account_id":"acc-1","is_reconciled":true}`)

	_, err := runCLI(t, "--url", srv.URL, "reconcile", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/accounts/acc-1/reconciliation", req.path)

	srv, _ = fakeAPI(t, http.StatusOK, `{"account_id":"acc-1","is_reconciled":false}`)
	_, err = runCLI(t, "--url", srv.URL, "reconcile", "acc-1")
	assert.ErrorIs(t, err, errNotReconciled)
}

func TestReconcileReport(t *testing.T) {
	srv, req := fakeAPI(t, http.StatusOK, `{"total_accounts":2,"reconciled_accounts":1,"discrepancies":[{"account_id":"acc-2"}]}`)

	_, err := runCLI(t, "--url", srv.URL, "reconcile")
	assert.ErrorIs(t, err, errNotReconciled)
	assert.Equal(t, "/api/v1/reconciliation", req.path)
}

func TestMigrateUpAndDown(t *testing.T) {
	origUp, origDown := migrateUp, migrateDown
	defer func() { migrateUp, migrateDown = origUp, origDown }()

	var calls []string
	migrateUp = func(url, path string, _ zerolog.Logger) error {
		calls = append(calls, "up "+url+" "+path)
		return nil
	}
	migrateDown = func(url, path string, _ zerolog.Logger) error {
		calls = append(calls, "down "+url+" "+path)
		return nil
	}

	_, err := runCLI(t, "migrate", "up", "--database-url", "postgres://x", "--path", "/m")
	require.NoError(t, err)
	_, err = runCLI(t, "migrate", "down", "--database-url", "postgres://x", "--path", "/m")
	require.NoError(t, err)

	assert.Equal(t, []string{"up postgres://x /m", "down postgres://x /m"}, calls)
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := runCLI(t, "migrate", "up")
	assert.ErrorContains(t, err, "--database-url is required")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, []byte(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, printJSON(&buf, nil))
	assert.Empty(t, buf.String())
}
