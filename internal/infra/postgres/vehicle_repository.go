package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carcare/internal/domain/repository"
	"carcare/internal/domain/vehicle"
)

var _ repository.VehicleRepository = (*VehicleRepository)(nil)

// VehicleRepository implements repository.VehicleRepository backed by
// PostgreSQL.
type VehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository creates a new VehicleRepository.
func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

// Create inserts a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	if v == nil {
		return fmt.Errorf("vehicle is nil")
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	const query = `
INSERT INTO vehicles (id, owner_id, make, model)
VALUES ($1, $2, $3, $4)
RETURNING created_on`

	if err := r.pool.QueryRow(ctx, query, v.ID, v.OwnerID, v.Make, v.Model).Scan(&v.CreatedOn); err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// Get retrieves a single non-deleted vehicle by ID.
func (r *VehicleRepository) Get(ctx context.Context, id vehicle.ID) (*vehicle.Vehicle, error) {
	const query = `
SELECT id, owner_id, make, model, created_on
FROM vehicles
WHERE id = $1 AND NOT is_deleted`

	v := &vehicle.Vehicle{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.CreatedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vehicle.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// ListByOwner returns the owner's non-deleted vehicles, newest first.
func (r *VehicleRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*vehicle.Vehicle, error) {
	const query = `
SELECT id, owner_id, make, model, created_on
FROM vehicles
WHERE owner_id = $1 AND NOT is_deleted
ORDER BY created_on DESC, id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*vehicle.Vehicle
	for rows.Next() {
		v := &vehicle.Vehicle{}
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Owns reports whether the vehicle exists, is not deleted, and belongs to
// the given owner.
func (r *VehicleRepository) Owns(ctx context.Context, id vehicle.ID, ownerID uuid.UUID) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM vehicles
	WHERE id = $1 AND owner_id = $2 AND NOT is_deleted
)`

	var owns bool
	if err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&owns); err != nil {
		return false, fmt.Errorf("check vehicle ownership: %w", err)
	}
	return owns, nil
}
