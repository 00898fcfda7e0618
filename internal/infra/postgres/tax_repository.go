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

var _ repository.TaxRepository = (*TaxRepository)(nil)

// TaxRepository implements repository.TaxRepository backed by PostgreSQL.
type TaxRepository struct {
	pool *pgxpool.Pool
}

// NewTaxRepository creates a new TaxRepository.
func NewTaxRepository(pool *pgxpool.Pool) *TaxRepository {
	return &TaxRepository{pool: pool}
}

const taxColumns = `t.id, t.owner_id, t.vehicle_id, t.title, t.valid_from, t.valid_to,
t.description, t.cost, v.make, v.model, t.created_on`

// Create inserts a new tax record.
func (r *TaxRepository) Create(ctx context.Context, tax *record.TaxRecord) error {
	if tax == nil {
		return fmt.Errorf("tax is nil")
	}
	if tax.ID == uuid.Nil {
		tax.ID = uuid.New()
	}

	const query = `
INSERT INTO tax_records (id, owner_id, vehicle_id, title, valid_from, valid_to, description, cost)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_on`

	err := r.pool.QueryRow(ctx, query,
		tax.ID,
		tax.OwnerID,
		tax.VehicleID,
		tax.Title,
		tax.ValidFrom,
		tax.ValidTo,
		tax.Description,
		tax.Cost,
	).Scan(&tax.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert tax: %w", err)
	}
	return nil
}

// Get retrieves a single non-deleted tax record owned by ownerID.
func (r *TaxRepository) Get(ctx context.Context, id record.ID, ownerID uuid.UUID) (*record.TaxRecord, error) {
	query := `
SELECT ` + taxColumns + `
FROM tax_records t
INNER JOIN vehicles v ON v.id = t.vehicle_id
WHERE t.id = $1 AND t.owner_id = $2 AND NOT t.is_deleted`

	tax, err := scanTax(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("get tax: %w", err)
	}
	return tax, nil
}

// Update overwrites the mutable fields of an existing tax record.
func (r *TaxRepository) Update(ctx context.Context, tax *record.TaxRecord) error {
	if tax == nil {
		return fmt.Errorf("tax is nil")
	}

	const query = `
UPDATE tax_records
SET vehicle_id = $1,
	title = $2,
	valid_from = $3,
	valid_to = $4,
	description = $5,
	cost = $6
WHERE id = $7 AND owner_id = $8 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, query,
		tax.VehicleID,
		tax.Title,
		tax.ValidFrom,
		tax.ValidTo,
		tax.Description,
		tax.Cost,
		tax.ID,
		tax.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update tax: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// SoftDelete marks a tax record deleted.
func (r *TaxRepository) SoftDelete(ctx context.Context, id record.ID, ownerID uuid.UUID, deletedOn time.Time) error {
	const query = `
UPDATE tax_records
SET is_deleted = TRUE, deleted_on = $3
WHERE id = $1 AND owner_id = $2 AND NOT is_deleted`

	tag, err := r.pool.Exec(ctx, query, id, ownerID, deletedOn)
	if err != nil {
		return fmt.Errorf("soft delete tax: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// Search returns one sorted window of the owner's matching tax records.
func (r *TaxRepository) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TaxRecord, error) {
	sql, args := buildTaxSearchSQL(filter, sort, &window)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search taxes: %w", err)
	}
	defer rows.Close()

	var taxes []*record.TaxRecord
	for rows.Next() {
		tax, err := scanTax(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tax: %w", err)
		}
		taxes = append(taxes, tax)
	}
	return taxes, rows.Err()
}

// CountMatches returns the number of the owner's tax records matching the
// filter.
func (r *TaxRepository) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	sql, args := buildTaxSearchSQL(filter, record.SortNewest, nil)
	var count int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count taxes: %w", err)
	}
	return count, nil
}

// SumCosts sums the owner's tax costs.
func (r *TaxRepository) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	const query = `
SELECT COALESCE(SUM(cost), 0)
FROM tax_records
WHERE owner_id = $1 AND NOT is_deleted`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum tax costs: %w", err)
	}
	return sum, nil
}

// buildTaxSearchSQL builds the filtered tax query. A nil window produces the
// COUNT variant. The term matches title, description, and the joined
// vehicle's make and model; a NULL description never matches.
func buildTaxSearchSQL(filter record.Filter, sort record.SortOrder, window *record.Window) (string, []any) {
	builder := strings.Builder{}
	builder.WriteString("SELECT ")
	if window == nil {
		builder.WriteString("COUNT(1)")
	} else {
		builder.WriteString(taxColumns)
	}
	builder.WriteString(" FROM tax_records t INNER JOIN vehicles v ON v.id = t.vehicle_id")
	builder.WriteString(" WHERE t.owner_id = $1 AND NOT t.is_deleted")
	args := []any{filter.OwnerID}

	if filter.Term != "" {
		pattern := "%" + filter.Term + "%"
		builder.WriteString(` AND (
	t.title ILIKE $2 OR
	t.description ILIKE $2 OR
	v.make ILIKE $2 OR
	v.model ILIKE $2
)`)
		args = append(args, pattern)
	}

	if window == nil {
		return builder.String(), args
	}

	// Tax records' event date is the end of their validity window.
	switch sort {
	case record.SortOldest:
		builder.WriteString(" ORDER BY t.created_on ASC, t.id")
	case record.SortCostAsc:
		builder.WriteString(" ORDER BY t.cost ASC, t.created_on DESC, t.id")
	case record.SortCostDesc:
		builder.WriteString(" ORDER BY t.cost DESC, t.created_on DESC, t.id")
	case record.SortDateAsc:
		builder.WriteString(" ORDER BY t.valid_to ASC, t.created_on DESC, t.id")
	case record.SortDateDesc:
		builder.WriteString(" ORDER BY t.valid_to DESC, t.created_on DESC, t.id")
	default:
		builder.WriteString(" ORDER BY t.created_on DESC, t.id")
	}

	builder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, window.Limit, window.Offset)
	return builder.String(), args
}

func scanTax(row pgx.Row) (*record.TaxRecord, error) {
	tax := &record.TaxRecord{}
	err := row.Scan(
		&tax.ID,
		&tax.OwnerID,
		&tax.VehicleID,
		&tax.Title,
		&tax.ValidFrom,
		&tax.ValidTo,
		&tax.Description,
		&tax.Cost,
		&tax.VehicleMake,
		&tax.VehicleModel,
		&tax.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	return tax, nil
}
