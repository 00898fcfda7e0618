package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carcare/internal/domain/record"
	"carcare/internal/domain/vehicle"
)

// TripRepository defines storage operations for trip records. Search and
// CountMatches see only non-deleted rows owned by the filter's owner.
type TripRepository interface {
	Create(ctx context.Context, trip *record.TripRecord) error
	Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TripRecord, error)
	Update(ctx context.Context, trip *record.TripRecord) error
	SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error
	Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TripRecord, error)
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
	SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}

// TaxRepository defines storage operations for tax records.
type TaxRepository interface {
	Create(ctx context.Context, tax *record.TaxRecord) error
	Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TaxRecord, error)
	Update(ctx context.Context, tax *record.TaxRecord) error
	SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error
	Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TaxRecord, error)
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
	SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}

// ServiceRepository defines storage operations for service records.
type ServiceRepository interface {
	Create(ctx context.Context, service *record.ServiceRecord) error
	Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.ServiceRecord, error)
	Update(ctx context.Context, service *record.ServiceRecord) error
	SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error
	Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.ServiceRecord, error)
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
	SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}

// VehicleRepository defines storage operations for vehicles.
type VehicleRepository interface {
	Create(ctx context.Context, v *vehicle.Vehicle) error
	Get(ctx context.Context, id vehicle.ID) (*vehicle.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*vehicle.Vehicle, error)
	// Owns reports whether the vehicle exists, is not deleted, and belongs
	// to the given owner.
	Owns(ctx context.Context, id vehicle.ID, ownerID uuid.UUID) (bool, error)
}
