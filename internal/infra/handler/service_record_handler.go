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

// ServiceRecordHandler exposes maintenance record endpoints.
type ServiceRecordHandler struct {
	service *usecaseRecords.Service
}

// NewServiceRecordHandler creates a new ServiceRecordHandler.
func NewServiceRecordHandler(service *usecaseRecords.Service) *ServiceRecordHandler {
	return &ServiceRecordHandler{service: service}
}

// RegisterRoutes registers service record handlers on the router.
func (h *ServiceRecordHandler) RegisterRoutes(r chiRouter) {
	r.Post("/services", h.handleCreate)
	r.Get("/services/{id}", h.handleGet)
	r.Put("/services/{id}", h.handleUpdate)
	r.Delete("/services/{id}", h.handleDelete)
}

type serviceRequest struct {
	VehicleID   uuid.UUID       `json:"vehicle_id"`
	Title       string          `json:"title"`
	PerformedOn time.Time       `json:"performed_on"`
	Mileage     int64           `json:"mileage"`
	Description *string         `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

func (req serviceRequest) toParams(ownerID uuid.UUID) record.ServiceParams {
	return record.ServiceParams{
		OwnerID:     ownerID,
		VehicleID:   req.VehicleID,
		Title:       req.Title,
		PerformedOn: req.PerformedOn,
		Mileage:     req.Mileage,
		Description: req.Description,
		Cost:        req.Cost,
	}
}

func (h *ServiceRecordHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	svc, err := h.service.CreateService(r.Context(), req.toParams(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toServiceResponse(svc))
}

func (h *ServiceRecordHandler) handleGet(w http.ResponseWriter, r *http.Request) {
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

	svc, err := h.service.GetService(r.Context(), id, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func (h *ServiceRecordHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
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
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	svc, err := h.service.UpdateService(r.Context(), id, req.toParams(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

func (h *ServiceRecordHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteService(r.Context(), id, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
