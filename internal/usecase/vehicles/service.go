// Package vehicles registers and lists the vehicles records attach to.
package vehicles

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"carcare/internal/domain/repository"
	"carcare/internal/domain/vehicle"
)

// Service orchestrates vehicle use cases.
type Service struct {
	vehicles repository.VehicleRepository
}

// NewService instantiates the service.
func NewService(vehicles repository.VehicleRepository) *Service {
	return &Service{vehicles: vehicles}
}

// Register validates params and persists a new vehicle.
func (s *Service) Register(ctx context.Context, params vehicle.Params) (*vehicle.Vehicle, error) {
	v, err := vehicle.New(params)
	if err != nil {
		return nil, err
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

// List returns the caller's vehicles.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*vehicle.Vehicle, error) {
	items, err := s.vehicles.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return items, nil
}
