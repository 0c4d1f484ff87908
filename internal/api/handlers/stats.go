package handlers

import (
	"net/http"
	"sort"

	"github.com/rasgroup/appfolio-recon-backend/internal/api/dto"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/storage"
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

// Get handles GET /api/stats - returns aggregate statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	// Convert the status map to a sorted slice for stable frontend consumption
	statuses := make([]dto.StatusStatsResponse, 0, len(stats.StatusStats))
	for status, sStats := range stats.StatusStats {
		statuses = append(statuses, dto.StatusStatsResponse{
			Status:      status,
			Count:       sStats.Count,
			TotalAmount: sStats.TotalAmount,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Status < statuses[j].Status })

	response := dto.StatsResponse{
		TotalTransactions: stats.TotalTransactions,
		ExportedCount:     stats.ExportedCount,
		ExceptionCount:    stats.ExceptionCount,
		AlertCount:        stats.AlertCount,
		SkippedCount:      stats.SkippedCount,
		TotalAmount:       stats.TotalAmount,
		AverageAmount:     stats.AverageAmount,
		StatusStats:       statuses,
	}

	h.WriteJSON(w, http.StatusOK, response)
}
