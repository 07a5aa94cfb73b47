package handlers

import (
	"net/http"
	"sort"

	"github.com/ledgerline/ledgerline-backend/internal/api/dto"
	"github.com/ledgerline/ledgerline-backend/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/stats - returns aggregate account statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	// Convert the type map to a sorted slice for stable JSON output
	byType := make([]dto.TypeCountResponse, 0, len(stats.ByType))
	for accountType, count := range stats.ByType {
		byType = append(byType, dto.TypeCountResponse{
			Type:  accountType,
			Count: count,
		})
	}
	sort.Slice(byType, func(i, j int) bool { return byType[i].Type < byType[j].Type })

	response := dto.StatsResponse{
		TotalAccounts:  stats.TotalAccounts,
		ManualAccounts: stats.ManualAccounts,
		LinkedAccounts: stats.LinkedAccounts,
		ByType:         byType,
	}

	h.WriteJSON(w, http.StatusOK, response)
}
