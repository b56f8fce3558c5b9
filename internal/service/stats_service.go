package service

import (
	"context"
	"fmt"

	"inventory-dashboard/internal/models"
	"inventory-dashboard/internal/util"
)

// StatisticsStore is the persistence surface the aggregation service needs
type StatisticsStore interface {
	StatusStatistics(ctx context.Context) ([]models.StatusStatistics, error)
	TotalStatistics(ctx context.Context) (models.Totals, error)
}

// StatsService derives statistics from product rows. Every call re-scans the
// table; nothing is cached.
type StatsService struct {
	store StatisticsStore
}

// NewStatsService creates a new statistics service
func NewStatsService(store StatisticsStore) *StatsService {
	return &StatsService{store: store}
}

// GetStatistics returns per-status counts and sums plus global totals
func (s *StatsService) GetStatistics(ctx context.Context) (*models.StatisticsSnapshot, error) {
	ctx, span := util.StartSpan(ctx, "StatsService.GetStatistics")
	defer span.End()

	byStatus, err := s.store.StatusStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}

	totals, err := s.store.TotalStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate totals: %w", err)
	}

	util.StatisticsRequestsTotal.Inc()
	return &models.StatisticsSnapshot{
		ByStatus: byStatus,
		Totals:   totals,
	}, nil
}
