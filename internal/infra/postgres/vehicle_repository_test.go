package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carcare/internal/domain/vehicle"
)

func TestVehicleRepositoryCreateAndGet(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	repo := NewVehicleRepository(pool)

	v, err := vehicle.New(vehicle.Params{OwnerID: owner, Make: "Skoda", Model: "Octavia"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, v))
	assert.False(t, v.CreatedOn.IsZero())

	got, err := repo.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "Skoda", got.Make)
	assert.Equal(t, "Octavia", got.Model)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, vehicle.ErrNotFound)
}

func TestVehicleRepositoryListByOwner(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	repo := NewVehicleRepository(pool)

	first := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	second := insertVehicle(t, pool, owner, "Toyota", "Corolla")
	insertVehicle(t, pool, uuid.New(), "Honda", "Civic")

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	setCreatedOn(t, pool, "vehicles", first.ID, base)
	setCreatedOn(t, pool, "vehicles", second.ID, base.Add(time.Hour))

	vehicles, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	// Newest first.
	assert.Equal(t, second.ID, vehicles[0].ID)
	assert.Equal(t, first.ID, vehicles[1].ID)

	none, err := repo.ListByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVehicleRepositoryOwns(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	repo := NewVehicleRepository(pool)
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")

	owns, err := repo.Owns(ctx, v.ID, owner)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = repo.Owns(ctx, v.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, owns)

	owns, err = repo.Owns(ctx, uuid.New(), owner)
	require.NoError(t, err)
	assert.False(t, owns)
}
