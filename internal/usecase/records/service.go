// Package records owns the write side of the three record kinds: create,
// edit, and soft delete, with vehicle ownership re-validated on every
// mutation.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"carcare/internal/domain/record"
	"carcare/internal/domain/repository"
	"carcare/internal/domain/vehicle"
)

// ErrVehicleNotOwned signals that the referenced vehicle does not exist or
// belongs to another user.
var ErrVehicleNotOwned = errors.New("vehicle not owned by user")

// Service orchestrates record mutations across the three kinds.
type Service struct {
	trips    repository.TripRepository
	taxes    repository.TaxRepository
	services repository.ServiceRepository
	vehicles repository.VehicleRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService instantiates the service.
func NewService(
	trips repository.TripRepository,
	taxes repository.TaxRepository,
	services repository.ServiceRepository,
	vehicles repository.VehicleRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		trips:    trips,
		taxes:    taxes,
		services: services,
		vehicles: vehicles,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) requireOwnership(ctx context.Context, vehicleID vehicle.ID, ownerID uuid.UUID) error {
	owns, err := s.vehicles.Owns(ctx, vehicleID, ownerID)
	if err != nil {
		return fmt.Errorf("verify vehicle ownership: %w", err)
	}
	if !owns {
		return ErrVehicleNotOwned
	}
	return nil
}

// CreateTrip validates params, confirms vehicle ownership, and persists a
// new trip record.
func (s *Service) CreateTrip(ctx context.Context, params record.TripParams) (*record.TripRecord, error) {
	trip, err := record.NewTrip(params)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, params.VehicleID, params.OwnerID); err != nil {
		return nil, err
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return trip, nil
}

// GetTrip returns one of the caller's trip records.
func (s *Service) GetTrip(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TripRecord, error) {
	return s.trips.Get(ctx, id, ownerID)
}

// UpdateTrip re-validates input and ownership and overwrites the trip's
// mutable fields. CreatedOn never changes.
func (s *Service) UpdateTrip(ctx context.Context, id record.ID, params record.TripParams) (*record.TripRecord, error) {
	trip, err := s.trips.Get(ctx, id, params.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := trip.Update(params); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, trip.VehicleID, params.OwnerID); err != nil {
		return nil, err
	}
	if err := s.trips.Update(ctx, trip); err != nil {
		return nil, fmt.Errorf("update trip: %w", err)
	}
	return trip, nil
}

// DeleteTrip retires a trip record. The row stays in storage with the
// deleted flag set.
func (s *Service) DeleteTrip(ctx context.Context, id record.ID, ownerID uuid.UUID) error {
	if err := s.trips.SoftDelete(ctx, id, ownerID, s.now()); err != nil {
		return err
	}
	s.logInfo("trip record deleted", id, ownerID)
	return nil
}

// CreateTax validates params, confirms vehicle ownership, and persists a new
// tax record.
func (s *Service) CreateTax(ctx context.Context, params record.TaxParams) (*record.TaxRecord, error) {
	tax, err := record.NewTax(params)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, params.VehicleID, params.OwnerID); err != nil {
		return nil, err
	}
	if err := s.taxes.Create(ctx, tax); err != nil {
		return nil, fmt.Errorf("create tax: %w", err)
	}
	return tax, nil
}

// GetTax returns one of the caller's tax records.
func (s *Service) GetTax(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TaxRecord, error) {
	return s.taxes.Get(ctx, id, ownerID)
}

// UpdateTax re-validates input and ownership and overwrites the tax record's
// mutable fields.
func (s *Service) UpdateTax(ctx context.Context, id record.ID, params record.TaxParams) (*record.TaxRecord, error) {
	tax, err := s.taxes.Get(ctx, id, params.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := tax.Update(params); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, tax.VehicleID, params.OwnerID); err != nil {
		return nil, err
	}
	if err := s.taxes.Update(ctx, tax); err != nil {
		return nil, fmt.Errorf("update tax: %w", err)
	}
	return tax, nil
}

// DeleteTax retires a tax record.
func (s *Service) DeleteTax(ctx context.Context, id record.ID, ownerID uuid.UUID) error {
	if err := s.taxes.SoftDelete(ctx, id, ownerID, s.now()); err != nil {
		return err
	}
	s.logInfo("tax record deleted", id, ownerID)
	return nil
}

// CreateService validates params, confirms vehicle ownership, and persists a
// new service record.
func (s *Service) CreateService(ctx context.Context, params record.ServiceParams) (*record.ServiceRecord, error) {
	svc, err := record.NewService(params)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, params.VehicleID, params.OwnerID); err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service record: %w", err)
	}
	return svc, nil
}

// GetService returns one of the caller's service records.
func (s *Service) GetService(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.ServiceRecord, error) {
	return s.services.Get(ctx, id, ownerID)
}

// UpdateService re-validates input and ownership and overwrites the service
// record's mutable fields.
func (s *Service) UpdateService(ctx context.Context, id record.ID, params record.ServiceParams) (*record.ServiceRecord, error) {
	svc, err := s.services.Get(ctx, id, params.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := svc.Update(params); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, svc.VehicleID, params.OwnerID); err != nil {
		return nil, err
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("update service record: %w", err)
	}
	return svc, nil
}

// DeleteService retires a service record.
func (s *Service) DeleteService(ctx context.Context, id record.ID, ownerID uuid.UUID) error {
	if err := s.services.SoftDelete(ctx, id, ownerID, s.now()); err != nil {
		return err
	}
	s.logInfo("service record deleted", id, ownerID)
	return nil
}

func (s *Service) logInfo(msg string, id record.ID, ownerID uuid.UUID) {
	if s.logger != nil {
		s.logger.Info(msg, "id", id, "owner_id", ownerID)
	}
}
