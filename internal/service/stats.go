package service

import (
	"context"

	"fleetledger-backend/internal/domain"
	"fleetledger-backend/internal/repository"
	"fleetledger-backend/internal/stats"
)

type statsService struct {
	reportRepo repository.ReportRepository
	carRepo    repository.CarRepository
}

func NewStatsService(reportRepo repository.ReportRepository, carRepo repository.CarRepository) StatsService {
	return &statsService{reportRepo: reportRepo, carRepo: carRepo}
}

// Only approved reports feed the aggregator; drafts, submissions awaiting
// review and rejected reports are not committed figures.
func (s *statsService) DriverStats(ctx context.Context, driverID int32, window *stats.Window) (*stats.Stats, error) {
	reports, err := s.reportRepo.ListApproved(ctx, 0, driverID)
	if err != nil {
		return nil, err
	}
	result := stats.Aggregate(reports, window)
	return &result, nil
}

func (s *statsService) CarStats(ctx context.Context, ownerID, carID int32, window *stats.Window) (*stats.Stats, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}

	reports, err := s.reportRepo.ListApproved(ctx, carID, 0)
	if err != nil {
		return nil, err
	}
	result := stats.Aggregate(reports, window)
	return &result, nil
}
