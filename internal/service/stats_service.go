package service

import (
	"context"

	"eatprofile/internal/cache"
	"eatprofile/internal/model"
	"eatprofile/internal/repository"
)

// StatsService builds the anonymised admin overview
type StatsService struct {
	tally        cache.SubtypeTally
	deliveryRepo repository.DeliveryRepo
}

// NewStatsService creates a new stats service
func NewStatsService(tally cache.SubtypeTally, deliveryRepo repository.DeliveryRepo) *StatsService {
	return &StatsService{
		tally:        tally,
		deliveryRepo: deliveryRepo,
	}
}

// Summary returns classification and delivery totals
func (s *StatsService) Summary(ctx context.Context) (*model.StatsSummary, error) {
	total, probable, err := s.tally.Totals(ctx)
	if err != nil {
		return nil, err
	}
	subtypes, err := s.tally.Top(ctx, 20)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.deliveryRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &model.StatsSummary{
		TotalAssessments: total,
		ProbableDisorder: probable,
		Subtypes:         subtypes,
		Deliveries:       deliveries,
	}, nil
}
