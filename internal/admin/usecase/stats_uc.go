package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CollectionCounter reports per-collection document totals.
type CollectionCounter interface {
	CollectionCounts(ctx context.Context) (map[string]int64, error)
}

// ListingAggregator exposes the dashboard's listing aggregations.
type ListingAggregator interface {
	StatusCounts(ctx context.Context) (map[string]int64, error)
	BreedCounts(ctx context.Context, limit int64) (map[string]int64, error)
}

// Stats is the admin dashboard payload.
type Stats struct {
	Collections      map[string]int64 `json:"collections"`
	ListingsByStatus map[string]int64 `json:"listings_by_status"`
	TopBreeds        map[string]int64 `json:"top_breeds"`
}

type StatsUsecase struct {
	counter    CollectionCounter
	aggregator ListingAggregator
	logger     *zap.Logger
}

func NewStatsUsecase(counter CollectionCounter, aggregator ListingAggregator, logger *zap.Logger) *StatsUsecase {
	return &StatsUsecase{
		counter:    counter,
		aggregator: aggregator,
		logger:     logger.Named("StatsUsecase"),
	}
}

// Dashboard collects every aggregation the admin landing page shows.
func (uc *StatsUsecase) Dashboard(ctx context.Context) (*Stats, error) {
	collections, err := uc.counter.CollectionCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("StatsUsecase.Dashboard: collection counts failed: %w", err)
	}
	byStatus, err := uc.aggregator.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("StatsUsecase.Dashboard: status counts failed: %w", err)
	}
	topBreeds, err := uc.aggregator.BreedCounts(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("StatsUsecase.Dashboard: breed counts failed: %w", err)
	}

	return &Stats{
		Collections:      collections,
		ListingsByStatus: byStatus,
		TopBreeds:        topBreeds,
	}, nil
}
