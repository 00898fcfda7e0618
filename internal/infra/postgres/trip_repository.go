package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"carcare/internal/domain/record"
	"carcare/internal/domain/repository"
)

var _ repository.TripRepository = (*TripRepository)(nil)

// TripRepository implements repository.TripRepository backed by PostgreSQL.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

const tripColumns = `t.id, t.owner_id, t.vehicle_id, t.start_destination, t.end_destination,
t.mileage_travelled, t.used_fuel, t.fuel_price, t.cost, v.make, v.model, t.created_on`

// Create inserts a new trip record.
func (r *TripRepository) Create(ctx context.Context, trip *record.TripRecord) error {
	if trip == nil {
		return fmt.Errorf("trip is nil")
	}
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	const query = `
INSERT INTO trip_records (id, owner_id, vehicle_id, start_destination, end_destination, mileage_travelled, used_fuel, fuel_price, cost)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_on`

	err := r.pool.QueryRow(ctx, query,
		trip.ID,
		trip.OwnerID,
		trip.VehicleID,
		trip.StartDestination,
		trip.EndDestination,
		trip.MileageTravelled,
		trip.UsedFuel,
		trip.FuelPrice,
		trip.Cost,
	).Scan(&trip.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// Get retrieves a single non-deleted trip owned by ownerID.
func (r *TripRepository) Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TripRecord, error) {
	query := `
SELECT ` + tripColumns + `
FROM trip_records t
INNER JOIN vehicles v ON v.id = t.vehicle_id
WHERE t.id = $1 AND t.owner_id = $2 AND NOT t.is_deleted`

	trip, err := scanTrip(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return trip, nil
}

// Update overwrites the mutable fields of an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *record.TripRecord) error {
	if trip == nil {
		return fmt.Errorf("trip is nil")
	}

	const query = `
UPDATE trip_records
SET vehicle_id = $1,
	start_destination = $2,
	end_destination = $3,
	mileage_travelled = $4,
	used_fuel = $5,
	fuel_price = $6,
	cost = $7
WHERE id = $8 AND owner_id = $9 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, query,
		trip.VehicleID,
		trip.StartDestination,
		trip.EndDestination,
		trip.MileageTravelled,
		trip.UsedFuel,
		trip.FuelPrice,
		trip.Cost,
		trip.ID,
		trip.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// SoftDelete marks a trip deleted. The row is never removed.
func (r *TripRepository) SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error {
	const query = `
UPDATE trip_records
SET is_deleted = TRUE, deleted_on = $3
WHERE id = $1 AND owner_id = $2 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, query, id, ownerID, deletedOn)
	if err != nil {
		return fmt.Errorf("soft delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// Search returns one sorted window of the owner's matching trips.
func (r *TripRepository) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TripRecord, error) {
	sql, args := buildTripSearchSQL(filter, sort, &window)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search trips: %w", err)
	}
	defer rows.Close()

	var trips []*record.TripRecord
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// CountMatches returns the number of the owner's trips matching the filter.
func (r *TripRepository) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	sql, args := buildTripSearchSQL(filter, record.SortNewest, nil)
	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count trips: %w", err)
	}
	return count, nil
}

// SumCosts sums the owner's trip costs, skipping trips with no cost.
func (r *TripRepository) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	const query = `
SELECT COALESCE(SUM(cost), 0)
FROM trip_records
WHERE owner_id = $1 AND NOT is_deleted AND cost IS NOT NULL`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum trip costs: %w", err)
	}
	return sum, nil
}

// buildTripSearchSQL builds the filtered trip query. A nil window produces
// the COUNT variant. The term matches start/end destination and the joined
// vehicle's make and model, case-insensitively.
func buildTripSearchSQL(filter record.Filter, sort record.SortOrder, window *record.Window) (string, []any) {
	builder := strings.Builder{}
	builder.WriteString("SELECT ")
	if window == nil {
		builder.WriteString("COUNT(1)")
	} else {
		builder.WriteString(tripColumns)
	}
	builder.WriteString(" FROM trip_records t INNER JOIN vehicles v ON v.id = t.vehicle_id")
	builder.WriteString(" WHERE t.owner_id = $1 AND NOT t.is_deleted")
	args := []any{filter.OwnerID}

	if filter.Term != "" {
		pattern := "%" + filter.Term + "%"
		builder.WriteString(` AND (
	t.start_destination ILIKE $2 OR
	t.end_destination ILIKE $2 OR
	v.make ILIKE $2 OR
	v.model ILIKE $2
)`)
		args = append(args, pattern)
	}

	if window == nil {
		return builder.String(), args
	}

	// Trips have no event date of their own; date-based orders fall back to
	// newest. Unknown costs are not orderable against known ones, so null
	// costs sort last in both directions.
	switch sort {
	case record.SortOldest:
		builder.WriteString(" ORDER BY t.created_on ASC, t.id")
	case record.SortCostAsc:
		builder.WriteString(" ORDER BY t.cost ASC NULLS LAST, t.created_on DESC, t.id")
	case record.SortCostDesc:
		builder.WriteString(" ORDER BY t.cost DESC NULLS LAST, t.created_on DESC, t.id")
	default:
		builder.WriteString(" ORDER BY t.created_on DESC, t.id")
	}

	builder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, window.Limit, window.Offset)
	return builder.String(), args
}

func scanTrip(row pgx.Row) (*record.TripRecord, error) {
	trip := &record.TripRecord{}
	err := row.Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.VehicleID,
		&trip.StartDestination,
		&trip.EndDestination,
		&trip.MileageTravelled,
		&trip.UsedFuel,
		&trip.FuelPrice,
		&trip.Cost,
		&trip.VehicleMake,
		&trip.VehicleModel,
		&trip.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return trip, nil
}
