package handlers

import (
	"net/http"

	"github.com/ledgerline/ledgerline-backend/internal/api/dto"
	"github.com/ledgerline/ledgerline-backend/internal/domain/institutions"
)

// InstitutionsHandler serves institution-name suggestions for account
// entry forms.
type InstitutionsHandler struct {
	*Base
	suggester *institutions.Suggester
}

// NewInstitutionsHandler creates a new institutions handler.
func NewInstitutionsHandler(suggester *institutions.Suggester) *InstitutionsHandler {
	return &InstitutionsHandler{
		Base:      NewBase(nil),
		suggester: suggester,
	}
}

// Suggest handles GET /api/institutions/suggest?q=chse - returns
// directory names similar to the query.
func (h *InstitutionsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("query parameter q is required"))
		return
	}

	limit := ParseIntParam(r, "limit", institutions.DefaultLimit)
	suggestions := h.suggester.Suggest(query, limit)

	response := dto.SuggestListResponse{
		Suggestions: make([]dto.SuggestionResponse, 0, len(suggestions)),
		Query:       query,
		Count:       len(suggestions),
	}
	for _, s := range suggestions {
		response.Suggestions = append(response.Suggestions, dto.SuggestionResponse{
			Name:  s.Name,
			Score: s.Score,
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}
