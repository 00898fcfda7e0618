package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"carcare/internal/domain/record"
)

type fakeKind struct {
	count    int64
	cost     decimal.Decimal
	countErr error
	sumErr   error
}

func (f *fakeKind) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeKind) SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	return f.cost, f.sumErr
}

func TestOverviewAggregatesAllKinds(t *testing.T) {
	svc := NewService(
		&fakeKind{count: 3, cost: decimal.RequireFromString("27.30")},
		&fakeKind{count: 1, cost: decimal.RequireFromString("40")},
		&fakeKind{count: 2, cost: decimal.RequireFromString("150.50")},
	)

	overview, err := svc.Overview(context.Background(), uuid.New())
	require.NoError(t, err)

	require.EqualValues(t, 6, overview.TotalRecords)
	require.True(t, overview.TotalCost.Equal(decimal.RequireFromString("217.80")), "total = %s", overview.TotalCost)
	require.EqualValues(t, 3, overview.Trips.Count)
	require.EqualValues(t, 1, overview.Taxes.Count)
	require.EqualValues(t, 2, overview.Services.Count)
}

func TestOverviewRequiresUser(t *testing.T) {
	svc := NewService(&fakeKind{}, &fakeKind{}, &fakeKind{})

	_, err := svc.Overview(context.Background(), uuid.Nil)
	require.Error(t, err)
}

func TestOverviewAbortsOnKindError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(
		&fakeKind{count: 3},
		&fakeKind{sumErr: boom},
		&fakeKind{count: 2},
	)

	_, err := svc.Overview(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
}
