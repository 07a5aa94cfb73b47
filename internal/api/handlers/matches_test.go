package handlers_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline-backend/internal/api/dto"
	"github.com/ledgerline/ledgerline-backend/internal/api/handlers"
	"github.com/ledgerline/ledgerline-backend/internal/application/linking"
	"github.com/ledgerline/ledgerline-backend/internal/domain/accounts"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/config"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

func newMatchesHandler(repo storage.Repository) *handlers.MatchesHandler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return handlers.NewMatchesHandler(repo, linking.NewService(repo, config.MatchingConfig{}, nil, logger))
}

func TestMatchesHandler_List(t *testing.T) {
	t.Run("returns proposed matches", func(t *testing.T) {
		manual := manualAccount("My Checking", "Chase Bank", "4421", accounts.TypeChecking)
		linked := linkedAccount("Chase Checking", "Chase", "4421", accounts.TypeChecking)
		handler := newMatchesHandler(seededRepo(manual, linked))

		req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		require.Equal(t, 1, response.Count)
		match := response.Matches[0]
		assert.Equal(t, manual.ID, match.ManualAccount.ID)
		assert.Equal(t, linked.ID, match.LinkedAccount.ID)
		assert.Equal(t, 100, match.Score)
		assert.Equal(t, []string{
			"Institution name matches",
			"Account number ending in 4421 matches",
			"Account type matches",
		}, match.Reasons)
	})

	t.Run("exclude param drops claimed linked accounts", func(t *testing.T) {
		manual := manualAccount("My Checking", "Chase Bank", "4421", accounts.TypeChecking)
		linked := linkedAccount("Chase Checking", "Chase", "4421", accounts.TypeChecking)
		handler := newMatchesHandler(seededRepo(manual, linked))

		req := httptest.NewRequest(http.MethodGet, "/api/matches?exclude="+linked.ID, nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 0, response.Count)
		assert.Empty(t, response.Matches)
	})

	t.Run("repository error returns 500", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.ListAccountsErr = assert.AnError
		handler := newMatchesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMatchesHandler_BestMatch(t *testing.T) {
	manual := manualAccount("My Checking", "Chase Bank", "4421", accounts.TypeChecking)
	exact := linkedAccount("Chase Checking", "Chase", "4421", accounts.TypeChecking)
	partial := linkedAccount("Chase Credit", "Chase", "", accounts.TypeChecking)

	t.Run("returns strongest candidate", func(t *testing.T) {
		handler := newMatchesHandler(seededRepo(manual, exact, partial))

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/"+manual.ID+"/best-match", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", manual.ID))
		rec := httptest.NewRecorder()

		handler.BestMatch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.BestMatchResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.NotNil(t, response.Match)
		assert.Equal(t, exact.ID, response.Match.LinkedAccount.ID)
		assert.Equal(t, 100, response.Match.Score)
	})

	t.Run("exclude param falls through to next candidate", func(t *testing.T) {
		handler := newMatchesHandler(seededRepo(manual, exact, partial))

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/"+manual.ID+"/best-match?exclude="+exact.ID, nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", manual.ID))
		rec := httptest.NewRecorder()

		handler.BestMatch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.BestMatchResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		require.NotNil(t, response.Match)
		assert.Equal(t, partial.ID, response.Match.LinkedAccount.ID)
		assert.Equal(t, 50, response.Match.Score)
	})

	t.Run("no qualifying candidate returns null match", func(t *testing.T) {
		lonely := manualAccount("Island", "Nowhere Bank", "", accounts.TypeLoan)
		handler := newMatchesHandler(seededRepo(lonely))

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/"+lonely.ID+"/best-match", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", lonely.ID))
		rec := httptest.NewRecorder()

		handler.BestMatch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.BestMatchResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Nil(t, response.Match)
	})

	t.Run("unknown account returns 404", func(t *testing.T) {
		handler := newMatchesHandler(seededRepo(manual, exact))

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/unknown/best-match", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "unknown"))
		rec := httptest.NewRecorder()

		handler.BestMatch(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})

	t.Run("repository error returns 500", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.GetAccountErr = assert.AnError
		handler := newMatchesHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/accounts/any/best-match", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "any"))
		rec := httptest.NewRecorder()

		handler.BestMatch(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMatchesHandler_Preview(t *testing.T) {
	t.Run("scores accounts from the request body", func(t *testing.T) {
		handler := newMatchesHandler(storage.NewMockRepository())

		body := `{
			"manual_accounts": [
				{"name": "My Checking", "institution_name": "Chase Bank", "account_number_last4": "4421", "account_type": "checking"}
			],
			"linked_accounts": [
				{"name": "Chase Checking", "institution_name": "Chase", "account_number_last4": "4421", "account_type": "checking"}
			]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/matches/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Preview(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		require.Equal(t, 1, response.Count)
		assert.Equal(t, 100, response.Matches[0].Score)
		assert.NotEmpty(t, response.Matches[0].ManualAccount.ID, "IDs are generated for the response")
	})

	t.Run("side flags are forced regardless of body", func(t *testing.T) {
		handler := newMatchesHandler(storage.NewMockRepository())

		// is_manual flags are deliberately wrong here
		body := `{
			"manual_accounts": [{"name": "A", "institution_name": "Ally", "account_type": "savings", "is_manual": false}],
			"linked_accounts": [{"name": "B", "institution_name": "Ally", "account_type": "savings", "is_manual": true}]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/matches/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Preview(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.MatchListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 1, response.Count)
	})

	t.Run("invalid JSON returns 400", func(t *testing.T) {
		handler := newMatchesHandler(storage.NewMockRepository())

		req := httptest.NewRequest(http.MethodPost, "/api/matches/preview", strings.NewReader(`{"manual_accounts": [`))
		rec := httptest.NewRecorder()

		handler.Preview(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("null entries are rejected", func(t *testing.T) {
		handler := newMatchesHandler(storage.NewMockRepository())

		req := httptest.NewRequest(http.MethodPost, "/api/matches/preview", strings.NewReader(`{"manual_accounts": [null]}`))
		rec := httptest.NewRecorder()

		handler.Preview(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
	})
}
