package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"carcare/internal/domain/vehicle"
	usecaseVehicles "carcare/internal/usecase/vehicles"
)

// VehicleHandler exposes vehicle endpoints.
type VehicleHandler struct {
	service *usecaseVehicles.Service
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *usecaseVehicles.Service) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// RegisterRoutes registers vehicle handlers on the router.
func (h *VehicleHandler) RegisterRoutes(r chiRouter) {
	r.Post("/vehicles", h.handleRegister)
	r.Get("/vehicles", h.handleList)
}

type vehicleRequest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

func (h *VehicleHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	v, err := h.service.Register(r.Context(), vehicle.Params{
		OwnerID: userID,
		Make:    req.Make,
		Model:   req.Model,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleResponse(v))
}

func (h *VehicleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := vehicleListResponse{Vehicles: make([]vehicleResponse, 0, len(items))}
	for _, v := range items {
		resp.Vehicles = append(resp.Vehicles, toVehicleResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

type vehicleListResponse struct {
	Vehicles []vehicleResponse `json:"vehicles"`
}
