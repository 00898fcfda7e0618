// Package stats aggregates per-user record counts and costs.
package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"carcare/internal/domain/record"
)

// KindSource exposes the aggregates one record kind contributes.
type KindSource interface {
	CountMatches(ctx context.Context, filter record.Filter) (int64, error)
	SumCosts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}

// KindStats holds one kind's aggregates.
type KindStats struct {
	Count int64
	Cost  decimal.Decimal
}

// Overview bundles the per-kind and overall aggregates for one user.
type Overview struct {
	Trips        KindStats
	Taxes        KindStats
	Services     KindStats
	TotalRecords int64
	TotalCost    decimal.Decimal
}

// Service computes user statistics.
type Service struct {
	trips    KindSource
	taxes    KindSource
	services KindSource
}

// NewService instantiates the service.
func NewService(trips, taxes, services KindSource) *Service {
	return &Service{trips: trips, taxes: taxes, services: services}
}

// Overview returns counts and summed costs per kind plus grand totals. Trip
// costs sum only trips that have one.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (Overview, error) {
	if userID == uuid.Nil {
		return Overview{}, fmt.Errorf("user is required")
	}
	filter := record.Filter{OwnerID: userID}

	var trips, taxes, services KindStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		trips, err = kindStats(gctx, s.trips, filter)
		return err
	})
	g.Go(func() (err error) {
		taxes, err = kindStats(gctx, s.taxes, filter)
		return err
	})
	g.Go(func() (err error) {
		services, err = kindStats(gctx, s.services, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	return Overview{
		Trips:        trips,
		Taxes:        taxes,
		Services:     services,
		TotalRecords: trips.Count + taxes.Count + services.Count,
		TotalCost:    trips.Cost.Add(taxes.Cost).Add(services.Cost),
	}, nil
}

func kindStats(ctx context.Context, source KindSource, filter record.Filter) (KindStats, error) {
	count, err := source.CountMatches(ctx, filter)
	if err != nil {
		return KindStats{}, fmt.Errorf("count records: %w", err)
	}
	cost, err := source.SumCosts(ctx, filter.OwnerID)
	if err != nil {
		return KindStats{}, fmt.Errorf("sum costs: %w", err)
	}
	return KindStats{Count: count, Cost: cost}, nil
}
