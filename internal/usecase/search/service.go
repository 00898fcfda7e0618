// Package search implements the cross-kind record search: per-kind filter
// and sort, one paginated window spanning trips, taxes, and services, and a
// fill pass that tops up a page when a kind runs out of rows.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"carcare/internal/domain/record"
)

// TripSource exposes the trip rows required for search.
type TripSource interface {
	Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TripRecord, error)
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
}

// TaxSource exposes the tax rows required for search.
type TaxSource interface {
	Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.TaxRecord, error)
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
}

// ServiceSource exposes the service rows required for search.
type ServiceSource interface {
	Search(ctx context.Context, filter record.Filter, sort record.SortOrder, window record.Window) ([]*record.ServiceRecord, error)
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
}

// ResultCache caches assembled search results for identical queries.
type ResultCache interface {
	Get(ctx context.Context, query record.SearchQuery, out any) (bool, error)
	Set(ctx context.Context, query record.SearchQuery, value any) error
}

// Result bundles one page of search results. The three collections stay
// partitioned by kind; they are not interleaved into one flat timeline.
type Result struct {
	TotalRecords int64
	Trips        []*record.TripRecord
	Taxes        []*record.TaxRecord
	Services     []*record.ServiceRecord
}

// Service runs search requests. It is stateless between calls; every entry
// point takes the caller's user id inside the query, never ambient state.
type Service struct {
	trips    TripSource
	taxes    TaxSource
	services ServiceSource
	cache    ResultCache
	logger   *slog.Logger
}

// NewService builds a search service. cache may be nil.
func NewService(trips TripSource, taxes TaxSource, services ServiceSource, cache ResultCache, logger *slog.Logger) *Service {
	return &Service{
		trips:    trips,
		taxes:    taxes,
		services: services,
		cache:    cache,
		logger:   logger,
	}
}

// Search returns one page of the caller's records across the participating
// kinds. Any storage error aborts the whole request; no partial result is
// ever returned.
func (s *Service) Search(ctx context.Context, query record.SearchQuery) (Result, error) {
	result, _, err := s.SearchWithCacheStatus(ctx, query)
	return result, err
}

// SearchWithCacheStatus executes a search and reports whether the result
// came from cache.
func (s *Service) SearchWithCacheStatus(ctx context.Context, query record.SearchQuery) (Result, bool, error) {
	if err := query.Normalize(); err != nil {
		return Result{}, false, err
	}

	if s.cache != nil {
		var cached Result
		ok, err := s.cache.Get(ctx, query, &cached)
		if err != nil {
			s.logDebug("search cache lookup failed", err)
		} else if ok {
			return normalized(cached), true, nil
		}
	}

	withTrips := query.Category == record.CategoryAll || query.Category == record.CategoryTrips
	withTaxes := query.Category == record.CategoryAll || query.Category == record.CategoryTaxes
	withServices := query.Category == record.CategoryAll || query.Category == record.CategoryServices
	filter := record.Filter{OwnerID: query.UserID, Term: query.Term}

	// Totals drive both the response count and the page plan, so they are
	// fetched before any row window. The three counts are independent.
	var tripTotal, taxTotal, serviceTotal int64
	g, gctx := errgroup.WithContext(ctx)
	if withTrips {
		g.Go(func() error {
			var err error
			if tripTotal, err = s.trips.CountMatches(gctx, filter); err != nil {
				return fmt.Errorf("count trips: %w", err)
			}
			return nil
		})
	}
	if withTaxes {
		g.Go(func() error {
			var err error
			if taxTotal, err = s.taxes.CountMatches(gctx, filter); err != nil {
				return fmt.Errorf("count taxes: %w", err)
			}
			return nil
		})
	}
	if withServices {
		g.Go(func() error {
			var err error
			if serviceTotal, err = s.services.CountMatches(gctx, filter); err != nil {
				return fmt.Errorf("count services: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, false, err
	}

	// Fill precedence: trips, then taxes, then services.
	totals := make([]int64, 0, 3)
	if withTrips {
		totals = append(totals, tripTotal)
	}
	if withTaxes {
		totals = append(totals, taxTotal)
	}
	if withServices {
		totals = append(totals, serviceTotal)
	}
	windows := planPage(totals, query.Page, record.RecordsPerPage)

	var tripWindow, taxWindow, serviceWindow record.Window
	next := 0
	if withTrips {
		tripWindow = windows[next]
		next++
	}
	if withTaxes {
		taxWindow = windows[next]
		next++
	}
	if withServices {
		serviceWindow = windows[next]
	}

	result := Result{
		TotalRecords: tripTotal + taxTotal + serviceTotal,
		Trips:        []*record.TripRecord{},
		Taxes:        []*record.TaxRecord{},
		Services:     []*record.ServiceRecord{},
	}

	g, gctx = errgroup.WithContext(ctx)
	if tripWindow.Limit > 0 {
		g.Go(func() error {
			rows, err := s.trips.Search(gctx, filter, query.Sort, tripWindow)
			if err != nil {
				return fmt.Errorf("search trips: %w", err)
			}
			result.Trips = append(result.Trips, rows...)
			return nil
		})
	}
	if taxWindow.Limit > 0 {
		g.Go(func() error {
			rows, err := s.taxes.Search(gctx, filter, query.Sort, taxWindow)
			if err != nil {
				return fmt.Errorf("search taxes: %w", err)
			}
			result.Taxes = append(result.Taxes, rows...)
			return nil
		})
	}
	if serviceWindow.Limit > 0 {
		g.Go(func() error {
			rows, err := s.services.Search(gctx, filter, query.Sort, serviceWindow)
			if err != nil {
				return fmt.Errorf("search services: %w", err)
			}
			result.Services = append(result.Services, rows...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, result); err != nil {
			s.logDebug("search cache store failed", err)
		}
	}

	return result, false, nil
}

// normalized guards against nil collections coming back from the cache.
func normalized(r Result) Result {
	if r.Trips == nil {
		r.Trips = []*record.TripRecord{}
	}
	if r.Taxes == nil {
		r.Taxes = []*record.TaxRecord{}
	}
	if r.Services == nil {
		r.Services = []*record.ServiceRecord{}
	}
	return r
}

func (s *Service) logDebug(msg string, err error) {
	if s.logger != nil && err != nil {
		s.logger.Debug(msg, "error", err)
	}
}
