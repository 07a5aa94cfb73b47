package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline-backend/internal/api/dto"
	"github.com/ledgerline/ledgerline-backend/internal/application/linking"
	"github.com/ledgerline/ledgerline-backend/internal/domain/matcher"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

// MatchesHandler serves the match proposals computed by the linking
// service.
type MatchesHandler struct {
	*Base
	linking *linking.Service
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(repo storage.Repository, linkService *linking.Service) *MatchesHandler {
	return &MatchesHandler{
		Base:    NewBase(repo),
		linking: linkService,
	}
}

// List handles GET /api/matches - runs the matcher over stored accounts.
// Linked accounts named in ?exclude= (comma separated) are skipped.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.linking.Matches(r.Context(), linking.MatchOptions{
		ExcludeLinkedIDs: ParseListParam(r, "exclude"),
	})
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toMatchListResponse(matches))
}

// BestMatch handles GET /api/accounts/{id}/best-match - returns the
// strongest candidate for one manual account. Unknown accounts are 404;
// a known account with no qualifying candidate gets a null match.
func (h *MatchesHandler) BestMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("account ID is required"))
		return
	}

	account, err := h.repo.GetAccount(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if account == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("account"))
		return
	}

	best, err := h.linking.BestMatch(r.Context(), id, ParseListParam(r, "exclude"))
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	var response dto.BestMatchResponse
	if best != nil {
		match := toMatchResponse(*best)
		response.Match = &match
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// Preview handles POST /api/matches/preview - runs the matcher over
// accounts supplied in the request body without touching storage.
func (h *MatchesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewMatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body"))
		return
	}

	if err := req.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	req.Normalize()

	matches, err := h.linking.Preview(r.Context(), req.ManualAccounts, req.LinkedAccounts, req.ExcludeLinkedIDs)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toMatchListResponse(matches))
}

func toMatchResponse(match matcher.AccountMatch) dto.MatchResponse {
	return dto.MatchResponse{
		ManualAccount: toAccountResponse(match.Manual),
		LinkedAccount: toAccountResponse(match.Linked),
		Score:         match.Score,
		Reasons:       match.Reasons,
	}
}

func toMatchListResponse(matches []matcher.AccountMatch) dto.MatchListResponse {
	response := dto.MatchListResponse{
		Matches: make([]dto.MatchResponse, 0, len(matches)),
		Count:   len(matches),
	}
	for _, match := range matches {
		response.Matches = append(response.Matches, toMatchResponse(match))
	}
	return response
}
