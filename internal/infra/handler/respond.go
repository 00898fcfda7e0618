package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"carcare/internal/domain/record"
	"carcare/internal/domain/vehicle"
	"carcare/internal/usecase/records"
)

var errServiceUnavailable = errors.New("service unavailable")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	message := "internal error"
	if status < 500 && err != nil {
		message = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps usecase and domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, record.ErrInvalidRecord),
		errors.Is(err, record.ErrInvalidSearchQuery),
		errors.Is(err, vehicle.ErrInvalidVehicle):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, record.ErrNotFound),
		errors.Is(err, vehicle.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, records.ErrVehicleNotOwned):
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
