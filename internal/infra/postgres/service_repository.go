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

var _ repository.ServiceRepository = (*ServiceRepository)(nil)

// ServiceRepository implements repository.ServiceRepository backed by
// PostgreSQL.
type ServiceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository creates a new ServiceRepository.
func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

const serviceColumns = `s.id, s.owner_id, s.vehicle_id, s.title, s.performed_on, s.mileage,
s.description, s.cost, v.make, v.model, s.created_on`

// Create inserts a new service record.
func (r *ServiceRepository) Create(ctx context.Context, service *record.ServiceRecord) error {
	if service == nil {
		return fmt.Errorf("service record is nil")
	}
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}

	const query = `
INSERT INTO service_records (id, owner_id, vehicle_id, title, performed_on, mileage, description, cost)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_on`

	err := r.pool.QueryRow(ctx, query,
		service.ID,
		service.OwnerID,
		service.VehicleID,
		service.Title,
		service.PerformedOn,
		service.Mileage,
		service.Description,
		service.Cost,
	).Scan(&service.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert service record: %w", err)
	}
	return nil
}

// Get retrieves a single non-deleted service record owned by ownerID.
func (r *ServiceRepository) Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.ServiceRecord, error) {
	query := `
SELECT ` + serviceColumns + `
FROM service_records s
INNER JOIN vehicles v ON v.id = s.vehicle_id
WHERE s.id = $1 AND s.owner_id = $2 AND NOT s.is_deleted`

	service, err := scanService(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("get service record: %w", err)
	}
	return service, nil
}

// Update overwrites the mutable fields of an existing service record.
func (r *ServiceRepository) Update(ctx context.Context, service *record.ServiceRecord) error {
	if service == nil {
		return fmt.Errorf("service record is nil")
	}

	const query = `
UPDATE service_records
SET vehicle_id = $1,
	title = $2,
	performed_on = $3,
	mileage = $4,
	description = $5,
	cost = $6
WHERE id = $7 AND owner_id = $8 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, query,
		service.VehicleID,
		service.Title,
		service.PerformedOn,
		service.Mileage,
		service.Description,
		service.Cost,
		service.ID,
		service.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update service record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// SoftDelete marks a service record deleted.
func (r *ServiceRepository) SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error {
	const query = `
UPDATE service_records
SET is_deleted = TRUE, deleted_on = $3
WHERE id = $1 AND owner_id = $2 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, query, id, ownerID, deletedOn)
	if err != nil {
		return fmt.Errorf("soft delete service record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// Search returns one sorted window of the owner's matching service records.
func (r *ServiceRepository) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.ServiceRecord, error) {
	sql, args := buildServiceSearchSQL(filter, sort, &window)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search service records: %w", err)
	}
	defer rows.Close()

	var services []*record.ServiceRecord
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service record: %w", err)
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

// CountMatches returns the number of the owner's service records matching
// the filter.
func (r *ServiceRepository) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	sql, args := buildServiceSearchSQL(filter, record.SortNewest, nil)
	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count service records: %w", err)
	}
	return count, nil
}

// SumCosts sums the owner's service costs.
func (r *ServiceRepository) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	const query = `
SELECT COALESCE(SUM(cost), 0)
FROM service_records
WHERE owner_id = $1 AND NOT is_deleted`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum service costs: %w", err)
	}
	return sum, nil
}

// buildServiceSearchSQL builds the filtered service-record query. A nil
// window produces the COUNT variant. The term matches title, description,
// and the joined vehicle's make and model; a NULL description never matches.
func buildServiceSearchSQL(filter record.Filter, sort record.SortOrder, window *record.Window) (string, []any) {
	builder := strings.Builder{}
	builder.WriteString("SELECT ")
	if window == nil {
		builder.WriteString("COUNT(1)")
	} else {
		builder.WriteString(serviceColumns)
	}
	builder.WriteString(" FROM service_records s INNER JOIN vehicles v ON v.id = s.vehicle_id")
	builder.WriteString(" WHERE s.owner_id = $1 AND NOT s.is_deleted")
	args := []any{filter.OwnerID}

	if filter.Term != "" {
		pattern := "%" + filter.Term + "%"
		builder.WriteString(` AND (
	s.title ILIKE $2 OR
	s.description ILIKE $2 OR
	v.make ILIKE $2 OR
	v.model ILIKE $2
)`)
		args = append(args, pattern)
	}

	if window == nil {
		return builder.String(), args
	}

	// Service records' event date is the day the work was performed.
	switch sort {
	case record.SortOldest:
		builder.WriteString(" ORDER BY s.created_on ASC, s.id")
	case record.SortCostAsc:
		builder.WriteString(" ORDER BY s.cost ASC, s.created_on DESC, s.id")
	case record.SortCostDesc:
		builder.WriteString(" ORDER BY s.cost DESC, s.created_on DESC, s.id")
	case record.SortDateAsc:
		builder.WriteString(" ORDER BY s.performed_on ASC, s.created_on DESC, s.id")
	case record.SortDateDesc:
		builder.WriteString(" ORDER BY s.performed_on DESC, s.created_on DESC, s.id")
	default:
		builder.WriteString(" ORDER BY s.created_on DESC, s.id")
	}

	builder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, window.Limit, window.Offset)
	return builder.String(), args
}

func scanService(row pgx.Row) (*record.ServiceRecord, error) {
	service := &record.ServiceRecord{}
	err := row.Scan(
		&service.ID,
		&service.OwnerID,
		&service.VehicleID,
		&service.Title,
		&service.PerformedOn,
		&service.Mileage,
		&service.Description,
		&service.Cost,
		&service.VehicleMake,
		&service.VehicleModel,
		&service.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return service, nil
}
