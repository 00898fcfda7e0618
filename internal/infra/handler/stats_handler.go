package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	usecaseStats "carcare/internal/usecase/stats"
)

// StatsHandler serves per-user record statistics.
type StatsHandler struct {
	service *usecaseStats.Service
}

// NewStatsHandler builds a StatsHandler.
func NewStatsHandler(service *usecaseStats.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// RegisterRoutes adds stats routes.
func (h *StatsHandler) RegisterRoutes(r chiRouter) {
	r.Get("/stats", h.handleOverview)
}

func (h *StatsHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusInternalServerError, errServiceUnavailable)
		return
	}
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	overview, err := h.service.Overview(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Trips:        toKindStats(overview.Trips),
		Taxes:        toKindStats(overview.Taxes),
		Services:     toKindStats(overview.Services),
		TotalRecords: overview.TotalRecords,
		TotalCost:    overview.TotalCost,
	})
}

type kindStatsResponse struct {
	Count int64           `json:"count"`
	Cost  decimal.Decimal `json:"cost"`
}

func toKindStats(s usecaseStats.KindStats) kindStatsResponse {
	return kindStatsResponse{Count: s.Count, Cost: s.Cost}
}

type statsResponse struct {
	Trips        kindStatsResponse `json:"trips"`
	Taxes        kindStatsResponse `json:"taxes"`
	Services     kindStatsResponse `json:"services"`
	TotalRecords int64             `json:"total_records"`
	TotalCost    decimal.Decimal   `json:"total_cost"`
}
