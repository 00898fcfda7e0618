package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carcare/internal/domain/record"
	usecaseRecords "carcare/internal/usecase/records"
)

// TaxHandler exposes tax record endpoints.
type TaxHandler struct {
	service *usecaseRecords.Service
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(service *usecaseRecords.Service) *TaxHandler {
	return &TaxHandler{service: service}
}

// RegisterRoutes registers tax handlers on the router.
func (h *TaxHandler) RegisterRoutes(r chiRouter) {
	r.Post("/taxes", h.handleCreate)
	r.Get("/taxes/{id}", h.handleGet)
	r.Put("/taxes/{id}", h.handleUpdate)
	r.Delete("/taxes/{id}", h.handleDelete)
}

type taxRequest struct {
	VehicleID   uuid.UUID       `json:"vehicle_id"`
	Title       string          `json:"title"`
	ValidFrom   time.Time       `json:"valid_from"`
	ValidTo     time.Time       `json:"valid_to"`
	Description *string         `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

func (req taxRequest) toParams(ownerID uuid.UUID) record.TaxParams {
	return record.TaxParams{
		OwnerID:     ownerID,
		VehicleID:   req.VehicleID,
		Title:       req.Title,
		ValidFrom:   req.ValidFrom,
		ValidTo:     req.ValidTo,
		Description: req.Description,
		Cost:        req.Cost,
	}
}

func (h *TaxHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	var req taxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	tax, err := h.service.CreateTax(r.Context(), req.toParams(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaxResponse(tax))
}

func (h *TaxHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	id, err := readPathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tax, err := h.service.GetTax(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaxResponse(tax))
}

func (h *TaxHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	id, err := readPathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req taxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	tax, err := h.service.UpdateTax(r.Context(), id, req.toParams(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaxResponse(tax))
}

func (h *TaxHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	id, err := readPathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.DeleteTax(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
