package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carcare/internal/domain/record"
)

func TestTaxRepositoryCreateAndGet(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	repo := NewTaxRepository(pool)

	description := "annual vignette"
	tax := testTax(owner, v.ID, "Vignette 2026", func(tr *record.TaxRecord) {
		tr.Description = &description
		tr.Cost = decimal.RequireFromString("43.87")
	})
	require.NoError(t, repo.Create(ctx, tax))
	assert.False(t, tax.CreatedOn.IsZero())

	got, err := repo.Get(ctx, tax.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Vignette 2026", got.Title)
	assert.WithinDuration(t, tax.ValidFrom, got.ValidFrom, time.Second)
	assert.WithinDuration(t, tax.ValidTo, got.ValidTo, time.Second)
	require.NotNil(t, got.Description)
	assert.Equal(t, description, *got.Description)
	assert.True(t, got.Cost.Equal(tax.Cost), "got cost %s", got.Cost)
	assert.Equal(t, "Skoda", got.VehicleMake)
}

func TestTaxRepositoryUpdate(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	repo := NewTaxRepository(pool)

	tax := testTax(owner, v.ID, "Vignette 2026")
	require.NoError(t, repo.Create(ctx, tax))

	tax.Title = "Road tax 2026"
	tax.Cost = decimal.RequireFromString("55.50")
	require.NoError(t, repo.Update(ctx, tax))

	got, err := repo.Get(ctx, tax.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Road tax 2026", got.Title)
	assert.True(t, got.Cost.Equal(tax.Cost))
	assert.Nil(t, got.Description)

	missing := testTax(owner, v.ID, "gone")
	assert.ErrorIs(t, repo.Update(ctx, missing), record.ErrNotFound)
}

func TestTaxRepositorySoftDelete(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	repo := NewTaxRepository(pool)

	tax := testTax(owner, v.ID, "Vignette 2026")
	require.NoError(t, repo.Create(ctx, tax))
	require.NoError(t, repo.SoftDelete(ctx, tax.ID, owner, time.Now().UTC()))

	_, err := repo.Get(ctx, tax.ID, owner)
	assert.ErrorIs(t, err, record.ErrNotFound)

	taxes, err := repo.Search(ctx, record.Filter{OwnerID: owner}, record.SortNewest, record.Window{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, taxes)
}

func TestTaxRepositorySearchTermMatching(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	repo := NewTaxRepository(pool)

	described := "paid at the municipality office"
	withDescription := testTax(owner, v.ID, "Road tax", func(tr *record.TaxRecord) {
		tr.Description = &described
	})
	require.NoError(t, repo.Create(ctx, withDescription))
	bare := testTax(owner, v.ID, "Vignette")
	require.NoError(t, repo.Create(ctx, bare))

	tests := []struct {
		name    string
		term    string
		wantIDs []record.ID
	}{
		{"matches title", "vignette", []record.ID{bare.ID}},
		{"matches description", "MUNICIPALITY", []record.ID{withDescription.ID}},
		{"null description does not match", "office", []record.ID{withDescription.ID}},
		{"matches vehicle make on both", "skoda", []record.ID{withDescription.ID, bare.ID}},
		{"no match", "insurance", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxes, err := repo.Search(ctx, record.Filter{OwnerID: owner, Term: tt.term}, record.SortNewest, record.Window{Limit: 10})
			require.NoError(t, err)

			var gotIDs []record.ID
			for _, tax := range taxes {
				gotIDs = append(gotIDs, tax.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestTaxRepositorySortByValidTo(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	repo := NewTaxRepository(pool)

	expiresSoon := testTax(owner, v.ID, "Q1", func(tr *record.TaxRecord) {
		tr.ValidTo = tr.ValidFrom.AddDate(0, 3, 0)
	})
	expiresLate := testTax(owner, v.ID, "Annual", func(tr *record.TaxRecord) {
		tr.ValidTo = tr.ValidFrom.AddDate(2, 0, 0)
	})
	for _, tax := range []*record.TaxRecord{expiresLate, expiresSoon} {
		require.NoError(t, repo.Create(ctx, tax))
	}

	filter := record.Filter{OwnerID: owner}
	window := record.Window{Limit: 10}

	asc, err := repo.Search(ctx, filter, record.SortDateAsc, window)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, expiresSoon.ID, asc[0].ID)
	assert.Equal(t, expiresLate.ID, asc[1].ID)

	desc, err := repo.Search(ctx, filter, record.SortDateDesc, window)
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, expiresLate.ID, desc[0].ID)
	assert.Equal(t, expiresSoon.ID, desc[1].ID)
}

func TestTaxRepositorySumCosts(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	owner := uuid.New()
	v := insertVehicle(t, pool, owner, "Skoda", "Octavia")
	repo := NewTaxRepository(pool)

	first := testTax(owner, v.ID, "Vignette", func(tr *record.TaxRecord) {
		tr.Cost = decimal.RequireFromString("43.87")
	})
	second := testTax(owner, v.ID, "Road tax", func(tr *record.TaxRecord) {
		tr.Cost = decimal.RequireFromString("56.13")
	})
	for _, tax := range []*record.TaxRecord{first, second} {
		require.NoError(t, repo.Create(ctx, tax))
	}

	sum, err := repo.SumCosts(ctx, owner)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("100.00")), "got sum %s", sum)
}
