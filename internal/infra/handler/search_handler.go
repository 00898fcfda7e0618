package handler

import (
	"net/http"
	"strings"

	"carcare/internal/domain/record"
	usecaseSearch "carcare/internal/usecase/search"
)

// SearchHandler serves the cross-kind record search endpoint.
type SearchHandler struct {
	service *usecaseSearch.Service
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(service *usecaseSearch.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// RegisterRoutes adds search routes.
func (h *SearchHandler) RegisterRoutes(r chiRouter) {
	r.Get("/records/search", h.handleSearch)
}

func (h *SearchHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusInternalServerError, errServiceUnavailable)
		return
	}
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	page, err := readQueryInt(r, "page", 1, 0, 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	query := record.SearchQuery{
		UserID:   userID,
		Category: record.Category(r.URL.Query().Get("category")),
		Term:     strings.TrimSpace(r.URL.Query().Get("term")),
		Sort:     record.SortOrder(r.URL.Query().Get("sort")),
		Page:     page,
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := searchResponse{
		TotalRecords: result.TotalRecords,
		Page:         page,
		PageSize:     record.RecordsPerPage,
		Trips:        make([]tripResponse, 0, len(result.Trips)),
		Taxes:        make([]taxResponse, 0, len(result.Taxes)),
		Services:     make([]serviceResponse, 0, len(result.Services)),
	}
	for _, t := range result.Trips {
		resp.Trips = append(resp.Trips, toTripResponse(t))
	}
	for _, t := range result.Taxes {
		resp.Taxes = append(resp.Taxes, toTaxResponse(t))
	}
	for _, s := range result.Services {
		resp.Services = append(resp.Services, toServiceResponse(s))
	}

	writeJSON(w, http.StatusOK, resp)
}

// searchResponse keeps the three kinds partitioned; clients render each
// collection under its own heading.
type searchResponse struct {
	TotalRecords int64             `json:"total_records"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	Trips        []tripResponse    `json:"trips"`
	Taxes        []taxResponse     `json:"taxes"`
	Services     []serviceResponse `json:"services"`
}
