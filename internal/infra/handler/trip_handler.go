package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carcare/internal/domain/record"
	usecaseRecords "carcare/internal/usecase/records"
)

// TripHandler exposes trip record endpoints.
type TripHandler struct {
	service *usecaseRecords.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(service *usecaseRecords.Service) *TripHandler {
	return &TripHandler{service: service}
}

// RegisterRoutes registers trip handlers on the router.
func (h *TripHandler) RegisterRoutes(r chiRouter) {
	r.Post("/trips", h.handleCreate)
	r.Get("/trips/{id}", h.handleGet)
	r.Put("/trips/{id}", h.handleUpdate)
	r.Delete("/trips/{id}", h.handleDelete)
}

type tripRequest struct {
	VehicleID        uuid.UUID        `json:"vehicle_id"`
	StartDestination string           `json:"start_destination"`
	EndDestination   string           `json:"end_destination"`
	MileageTravelled int64            `json:"mileage_travelled"`
	UsedFuel         *decimal.Decimal `json:"used_fuel"`
	FuelPrice        *decimal.Decimal `json:"fuel_price"`
}

func (req tripRequest) toParams(ownerID uuid.UUID) record.TripParams {
	return record.TripParams{
		OwnerID:          ownerID,
		VehicleID:        req.VehicleID,
		StartDestination: req.StartDestination,
		EndDestination:   req.EndDestination,
		MileageTravelled: req.MileageTravelled,
		UsedFuel:         req.UsedFuel,
		FuelPrice:        req.FuelPrice,
	}
}

func (h *TripHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	trip, err := h.service.CreateTrip(r.Context(), req.toParams(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(trip))
}

func (h *TripHandler) handleGet(w http.ResponseWriter, r *http.Request) {
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

	trip, err := h.service.GetTrip(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

func (h *TripHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
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
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	trip, err := h.service.UpdateTrip(r.Context(), id, req.toParams(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

func (h *TripHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteTrip(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
