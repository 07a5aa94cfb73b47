package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline-backend/internal/api"
	"github.com/ledgerline/ledgerline-backend/internal/api/dto"
	"github.com/ledgerline/ledgerline-backend/internal/application/linking"
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/config"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

// =============================================================================
// API Integration Tests
// =============================================================================
// These tests use real SQLite databases to test the full stack:
// HTTP request → Router → Handlers → Storage → SQLite
//
// This catches issues that mock-based tests miss, like SQL NULL handling,
// JSON serialization through the full pipeline, and router configuration.

func createTestServer(t *testing.T) (*httptest.Server, *storage.Storage, func()) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "accounts.db")
	store, err := storage.NewStorage(dbPath)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	linkService := linking.NewService(store, config.MatchingConfig{}, nil, logger)
	server := api.NewServer(api.DefaultConfig(), store, linkService, logger)

	ts := httptest.NewServer(server.Router())

	cleanup := func() {
		ts.Close()
		store.Close()
	}

	return ts, store, cleanup
}

func TestAPI_Integration_HealthCheck(t *testing.T) {
	ts, _, cleanup := createTestServer(t)
	defer cleanup()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)

	assert.Equal(t, "ok", health.Status)
}

func TestAPI_Integration_ListAccounts_Empty(t *testing.T) {
	ts, _, cleanup := createTestServer(t)
	defer cleanup()

	resp, err := http.Get(ts.URL + "/api/accounts")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.AccountListResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalCount)
	assert.Empty(t, result.Accounts)
}

func TestAPI_Integration_AccountLifecycle(t *testing.T) {
	ts, _, cleanup := createTestServer(t)
	defer cleanup()

	var created dto.AccountResponse

	t.Run("create account", func(t *testing.T) {
		body := `{"name": "My Checking", "institution_name": "Chase Bank", "account_number_last4": "4321", "account_type": "checking", "balance": "2500.75"}`
		resp, err := http.Post(ts.URL+"/api/accounts", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		err = json.NewDecoder(resp.Body).Decode(&created)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "My Checking", created.Name)
		assert.Equal(t, "Chase Bank", created.InstitutionName)
		assert.Equal(t, "2500.75", created.Balance)
		assert.True(t, created.IsManual)
	})

	t.Run("get created account", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts/" + created.ID)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var account dto.AccountResponse
		err = json.NewDecoder(resp.Body).Decode(&account)
		require.NoError(t, err)
		assert.Equal(t, created.ID, account.ID)
		assert.Equal(t, "4321", account.AccountNumberLast4)
	})

	t.Run("list includes created account", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts?is_manual=true")
		require.NoError(t, err)
		defer resp.Body.Close()

		var result dto.AccountListResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalCount)
	})

	t.Run("delete account", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/accounts/"+created.ID, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("get after delete returns 404", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts/" + created.ID)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var apiErr dto.APIError
		err = json.NewDecoder(resp.Body).Decode(&apiErr)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeNotFound, apiErr.Code)
	})
}

func TestAPI_Integration_Matches(t *testing.T) {
	ts, store, cleanup := createTestServer(t)
	defer cleanup()

	manual := manualAccount("My Checking", "Chase Bank", "4321", accounts.TypeChecking)
	linked := linkedAccount("Chase Checking", "Chase", "4321", accounts.TypeChecking)
	noise := linkedAccount("Vanguard Brokerage", "Vanguard", "7700", accounts.TypeInvestment)

	require.NoError(t, store.SaveAccount(manual))
	require.NoError(t, store.SaveAccount(linked))
	require.NoError(t, store.SaveAccount(noise))

	t.Run("list matches", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/matches")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.MatchListResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)

		require.Equal(t, 1, result.Count)
		match := result.Matches[0]
		assert.Equal(t, manual.ID, match.ManualAccount.ID)
		assert.Equal(t, linked.ID, match.LinkedAccount.ID)
		assert.Equal(t, 100, match.Score)
		assert.Len(t, match.Reasons, 3)
	})

	t.Run("exclusions drop claimed linked accounts", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/matches?exclude=" + linked.ID)
		require.NoError(t, err)
		defer resp.Body.Close()

		var result dto.MatchListResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
	})

	t.Run("best match for manual account", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts/" + manual.ID + "/best-match")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.BestMatchResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		require.NotNil(t, result.Match)
		assert.Equal(t, linked.ID, result.Match.LinkedAccount.ID)
		assert.Equal(t, 100, result.Match.Score)
	})

	t.Run("best match is null when the only candidate is excluded", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts/" + manual.ID + "/best-match?exclude=" + linked.ID)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.BestMatchResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.Nil(t, result.Match)
	})

	t.Run("best match for unknown account returns 404", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts/unknown/best-match")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPI_Integration_Preview(t *testing.T) {
	ts, _, cleanup := createTestServer(t)
	defer cleanup()

	body := `{
		"manual_accounts": [{"name": "Emergency Fund", "institution_name": "Ally Bank", "account_type": "savings", "balance": 12000}],
		"linked_accounts": [{"name": "Online Savings", "institution_name": "Ally", "account_type": "savings", "balance": 12000}]
	}`
	resp, err := http.Post(ts.URL+"/api/matches/preview", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.MatchListResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	// Institution and type match, but no account numbers were given
	assert.Equal(t, 50, result.Matches[0].Score)
}

// TestAPI_Integration_NullHandling verifies that rows with NULL optional
// columns survive the full API stack. Rows written by older tools can
// carry NULL institution and last4 values.
func TestAPI_Integration_NullHandling(t *testing.T) {
	ts, store, cleanup := createTestServer(t)
	defer cleanup()

	_, err := store.DB().Exec(`
		INSERT INTO accounts (
			id, name, institution_name, account_number_last4, account_type,
			is_manual, balance, currency, created_at, updated_at
		) VALUES (
			'legacy-1', 'Old Savings', NULL, NULL, 'savings',
			1, '250.00', 'USD', datetime('now'), datetime('now')
		)
	`)
	require.NoError(t, err)

	t.Run("list accounts with NULL values works", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result dto.AccountListResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)

		require.Equal(t, 1, result.TotalCount)
		account := result.Accounts[0]
		assert.Equal(t, "legacy-1", account.ID)
		assert.Equal(t, "", account.InstitutionName)
		assert.Equal(t, "", account.AccountNumberLast4)
		assert.Equal(t, "250", account.Balance)
	})

	t.Run("get single account with NULL values works", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/accounts/legacy-1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var account dto.AccountResponse
		err = json.NewDecoder(resp.Body).Decode(&account)
		require.NoError(t, err)
		assert.Equal(t, "Old Savings", account.Name)
		assert.Equal(t, "", account.InstitutionName)
	})
}

func TestAPI_Integration_Suggest(t *testing.T) {
	ts, _, cleanup := createTestServer(t)
	defer cleanup()

	resp, err := http.Get(ts.URL + "/api/institutions/suggest?q=chase")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result dto.SuggestListResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)

	assert.Equal(t, "chase", result.Query)
	require.NotZero(t, result.Count)
	assert.Equal(t, "Chase", result.Suggestions[0].Name)
}

func TestAPI_Integration_Stats(t *testing.T) {
	ts, store, cleanup := createTestServer(t)
	defer cleanup()

	require.NoError(t, store.SaveAccount(manualAccount("My Checking", "Chase", "4321", accounts.TypeChecking)))
	require.NoError(t, store.SaveAccount(manualAccount("Emergency Fund", "Ally", "", accounts.TypeSavings)))
	require.NoError(t, store.SaveAccount(linkedAccount("Chase Checking", "Chase", "4321", accounts.TypeChecking)))

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats dto.StatsResponse
	err = json.NewDecoder(resp.Body).Decode(&stats)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalAccounts)
	assert.Equal(t, 2, stats.ManualAccounts)
	assert.Equal(t, 1, stats.LinkedAccounts)
}

func TestAPI_Integration_CORS(t *testing.T) {
	ts, _, cleanup := createTestServer(t)
	defer cleanup()

	// Test preflight request
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/accounts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
