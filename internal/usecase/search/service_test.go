package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"carcare/internal/domain/record"
)

type fakeTripSource struct {
	total      int64
	countErr   error
	searchErr  error
	lastWindow record.Window
	lastFilter record.Filter
	calls      int
}

func (f *fakeTripSource) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TripRecord, error) {
	f.calls++
	f.lastFilter = filter
	f.lastWindow = window
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	rows := make([]*record.TripRecord, window.Limit)
	for i := range rows {
		rows[i] = &record.TripRecord{ID: uuid.New(), OwnerID: filter.OwnerID}
	}
	return rows, nil
}

func (f *fakeTripSource) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return f.total, f.countErr
}

type fakeTaxSource struct {
	total      int64
	lastWindow record.Window
	calls      int
}

func (f *fakeTaxSource) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TaxRecord, error) {
	f.calls++
	f.lastWindow = window
	rows := make([]*record.TaxRecord, window.Limit)
	for i := range rows {
		rows[i] = &record.TaxRecord{ID: uuid.New(), OwnerID: filter.OwnerID}
	}
	return rows, nil
}

func (f *fakeTaxSource) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return f.total, nil
}

type fakeServiceSource struct {
	total      int64
	lastWindow record.Window
	calls      int
}

func (f *fakeServiceSource) Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.ServiceRecord, error) {
	f.calls++
	f.lastWindow = window
	rows := make([]*record.ServiceRecord, window.Limit)
	for i := range rows {
		rows[i] = &record.ServiceRecord{ID: uuid.New(), OwnerID: filter.OwnerID}
	}
	return rows, nil
}

func (f *fakeServiceSource) CountMatches(ctx context.Context, filter record.Filter) (int64, error) {
	return f.total, nil
}

type fakeCache struct {
	stored map[string]Result
	getErr error
	sets   int
}

func (f *fakeCache) key(q record.SearchQuery) string {
	return q.UserID.String() + "|" + string(q.Category) + "|" + q.Term + "|" + string(q.Sort) + "|" + string(rune(q.Page))
}

func (f *fakeCache) Get(ctx context.Context, query record.SearchQuery, out any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	res, ok := f.stored[f.key(query)]
	if !ok {
		return false, nil
	}
	*(out.(*Result)) = res
	return true, nil
}

func (f *fakeCache) Set(ctx context.Context, query record.SearchQuery, value any) error {
	f.sets++
	if f.stored == nil {
		f.stored = map[string]Result{}
	}
	f.stored[f.key(query)] = value.(Result)
	return nil
}

func TestSearchFillsPageWhenKindRunsOut(t *testing.T) {
	trips := &fakeTripSource{total: 3}
	taxes := &fakeTaxSource{total: 0}
	services := &fakeServiceSource{total: 8}
	svc := NewService(trips, taxes, services, nil, nil)

	result, err := svc.Search(context.Background(), record.SearchQuery{
		UserID: uuid.New(),
		Page:   1,
	})
	require.NoError(t, err)

	require.EqualValues(t, 11, result.TotalRecords)
	require.Len(t, result.Trips, 3)
	require.Empty(t, result.Taxes)
	require.Len(t, result.Services, 7)

	require.Equal(t, record.Window{Offset: 0, Limit: 3}, trips.lastWindow)
	require.Equal(t, record.Window{Offset: 0, Limit: 7}, services.lastWindow)
	require.Zero(t, taxes.calls, "empty kind must not be fetched")
}

func TestSearchSecondPageSkipsFilledRows(t *testing.T) {
	trips := &fakeTripSource{total: 3}
	services := &fakeServiceSource{total: 8}
	svc := NewService(trips, &fakeTaxSource{}, services, nil, nil)

	result, err := svc.Search(context.Background(), record.SearchQuery{
		UserID: uuid.New(),
		Page:   2,
	})
	require.NoError(t, err)

	require.EqualValues(t, 11, result.TotalRecords)
	require.Empty(t, result.Trips)
	require.Len(t, result.Services, 1)
	require.Equal(t, record.Window{Offset: 7, Limit: 1}, services.lastWindow)
}

func TestSearchSingleCategoryUsesFullPage(t *testing.T) {
	trips := &fakeTripSource{total: 5}
	services := &fakeServiceSource{total: 25}
	svc := NewService(trips, &fakeTaxSource{total: 5}, services, nil, nil)

	result, err := svc.Search(context.Background(), record.SearchQuery{
		UserID:   uuid.New(),
		Category: record.CategoryServices,
		Page:     1,
	})
	require.NoError(t, err)

	require.EqualValues(t, 25, result.TotalRecords, "only the selected kind counts")
	require.Len(t, result.Services, record.RecordsPerPage)
	require.Zero(t, trips.calls, "excluded kinds must not be fetched")
}

func TestSearchPropagatesTermFilter(t *testing.T) {
	trips := &fakeTripSource{total: 1}
	svc := NewService(trips, &fakeTaxSource{}, &fakeServiceSource{}, nil, nil)

	userID := uuid.New()
	_, err := svc.Search(context.Background(), record.SearchQuery{
		UserID: userID,
		Term:   "  vignette  ",
		Page:   1,
	})
	require.NoError(t, err)
	require.Equal(t, record.Filter{OwnerID: userID, Term: "vignette"}, trips.lastFilter)
}

func TestSearchRejectsInvalidQuery(t *testing.T) {
	svc := NewService(&fakeTripSource{}, &fakeTaxSource{}, &fakeServiceSource{}, nil, nil)

	_, err := svc.Search(context.Background(), record.SearchQuery{Page: 1})
	require.ErrorIs(t, err, record.ErrInvalidSearchQuery)

	_, err = svc.Search(context.Background(), record.SearchQuery{
		UserID:   uuid.New(),
		Category: "fuel",
	})
	require.ErrorIs(t, err, record.ErrInvalidSearchQuery)
}

func TestSearchAbortsOnStorageError(t *testing.T) {
	boom := errors.New("boom")
	trips := &fakeTripSource{total: 3, countErr: boom}
	svc := NewService(trips, &fakeTaxSource{total: 3}, &fakeServiceSource{total: 3}, nil, nil)

	_, err := svc.Search(context.Background(), record.SearchQuery{UserID: uuid.New(), Page: 1})
	require.ErrorIs(t, err, boom)

	trips = &fakeTripSource{total: 3, searchErr: boom}
	svc = NewService(trips, &fakeTaxSource{total: 3}, &fakeServiceSource{total: 3}, nil, nil)

	_, err = svc.Search(context.Background(), record.SearchQuery{UserID: uuid.New(), Page: 1})
	require.ErrorIs(t, err, boom)
}

func TestSearchServesFromCache(t *testing.T) {
	trips := &fakeTripSource{total: 3}
	cache := &fakeCache{}
	svc := NewService(trips, &fakeTaxSource{}, &fakeServiceSource{total: 8}, cache, nil)

	query := record.SearchQuery{UserID: uuid.New(), Page: 1}

	first, fromCache, err := svc.SearchWithCacheStatus(context.Background(), query)
	require.NoError(t, err)
	require.False(t, fromCache)
	require.Equal(t, 1, cache.sets)

	callsBefore := trips.calls
	second, fromCache, err := svc.SearchWithCacheStatus(context.Background(), query)
	require.NoError(t, err)
	require.True(t, fromCache)
	require.Equal(t, callsBefore, trips.calls, "cache hit must not touch storage")
	require.Equal(t, first.TotalRecords, second.TotalRecords)
	require.Len(t, second.Trips, len(first.Trips))
}

func TestSearchSurvivesCacheFailure(t *testing.T) {
	cache := &fakeCache{getErr: errors.New("redis down")}
	svc := NewService(&fakeTripSource{total: 2}, &fakeTaxSource{}, &fakeServiceSource{}, cache, nil)

	result, err := svc.Search(context.Background(), record.SearchQuery{UserID: uuid.New(), Page: 1})
	require.NoError(t, err)
	require.Len(t, result.Trips, 2)
}

func TestSearchReturnsEmptyCollectionsNotNil(t *testing.T) {
	svc := NewService(&fakeTripSource{}, &fakeTaxSource{}, &fakeServiceSource{}, nil, nil)

	result, err := svc.Search(context.Background(), record.SearchQuery{UserID: uuid.New(), Page: 1})
	require.NoError(t, err)
	require.NotNil(t, result.Trips)
	require.NotNil(t, result.Taxes)
	require.NotNil(t, result.Services)
	require.Zero(t, result.TotalRecords)
}
