package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carcare/internal/domain/record"
	"carcare/internal/domain/vehicle"
)

// Response view models. Costs serialize as quoted decimal strings so clients
// never see binary floating point artifacts.

type tripResponse struct {
	ID               uuid.UUID        `json:"id"`
	VehicleID        uuid.UUID        `json:"vehicle_id"`
	StartDestination string           `json:"start_destination"`
	EndDestination   string           `json:"end_destination"`
	MileageTravelled int64            `json:"mileage_travelled"`
	UsedFuel         *decimal.Decimal `json:"used_fuel,omitempty"`
	FuelPrice        *decimal.Decimal `json:"fuel_price,omitempty"`
	Cost             *decimal.Decimal `json:"cost,omitempty"`
	VehicleMake      string           `json:"vehicle_make,omitempty"`
	VehicleModel     string           `json:"vehicle_model,omitempty"`
	CreatedOn        time.Time        `json:"created_on"`
}

func toTripResponse(t *record.TripRecord) tripResponse {
	return tripResponse{
		ID:               t.ID,
		VehicleID:        t.VehicleID,
		StartDestination: t.StartDestination,
		EndDestination:   t.EndDestination,
		MileageTravelled: t.MileageTravelled,
		UsedFuel:         t.UsedFuel,
		FuelPrice:        t.FuelPrice,
		Cost:             t.Cost,
		VehicleMake:      t.VehicleMake,
		VehicleModel:     t.VehicleModel,
		CreatedOn:        t.CreatedOn,
	}
}

type taxResponse struct {
	ID           uuid.UUID       `json:"id"`
	VehicleID    uuid.UUID       `json:"vehicle_id"`
	Title        string          `json:"title"`
	ValidFrom    time.Time       `json:"valid_from"`
	ValidTo      time.Time       `json:"valid_to"`
	Description  *string         `json:"description,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	VehicleMake  string          `json:"vehicle_make,omitempty"`
	VehicleModel string          `json:"vehicle_model,omitempty"`
	CreatedOn    time.Time       `json:"created_on"`
}

func toTaxResponse(t *record.TaxRecord) taxResponse {
	return taxResponse{
		ID:           t.ID,
		VehicleID:    t.VehicleID,
		Title:        t.Title,
		ValidFrom:    t.ValidFrom,
		ValidTo:      t.ValidTo,
		Description:  t.Description,
		Cost:         t.Cost,
		VehicleMake:  t.VehicleMake,
		VehicleModel: t.VehicleModel,
		CreatedOn:    t.CreatedOn,
	}
}

type serviceResponse struct {
	ID           uuid.UUID       `json:"id"`
	VehicleID    uuid.UUID       `json:"vehicle_id"`
	Title        string          `json:"title"`
	PerformedOn  time.Time       `json:"performed_on"`
	Mileage      int64           `json:"mileage"`
	Description  *string         `json:"description,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	VehicleMake  string          `json:"vehicle_make,omitempty"`
	VehicleModel string          `json:"vehicle_model,omitempty"`
	CreatedOn    time.Time       `json:"created_on"`
}

func toServiceResponse(s *record.ServiceRecord) serviceResponse {
	return serviceResponse{
		ID:           s.ID,
		VehicleID:    s.VehicleID,
		Title:        s.Title,
		PerformedOn:  s.PerformedOn,
		Mileage:      s.Mileage,
		Description:  s.Description,
		Cost:         s.Cost,
		VehicleMake:  s.VehicleMake,
		VehicleModel: s.VehicleModel,
		CreatedOn:    s.CreatedOn,
	}
}

type vehicleResponse struct {
	ID        uuid.UUID `json:"id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	CreatedOn time.Time `json:"created_on"`
}

func toVehicleResponse(v *vehicle.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:        v.ID,
		Make:      v.Make,
		Model:     v.Model,
		CreatedOn: v.CreatedOn,
	}
}
