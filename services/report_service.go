package services

import (
	"context"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/repository"
)

type ReportService struct {
	pickups repository.PickupRepositoryInterface
}

func NewReportService(pickups repository.PickupRepositoryInterface) *ReportService {
	return &ReportService{pickups: pickups}
}

// WasteLevels counts requests per type and per status, optionally bounded by scheduled date
func (s *ReportService) WasteLevels(ctx context.Context, from, to *time.Time) (*models.WasteLevelReport, error) {
	filter := &models.PickupFilter{}
	if from != nil {
		filter.FromDate = *from
	}
	if to != nil {
		filter.ToDate = *to
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, models.NewValidation("toDate", "toDate must not be before fromDate")
	}

	reqs, err := s.pickups.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &models.WasteLevelReport{
		FromDate:    from,
		ToDate:      to,
		ByType:      make(map[models.RequestType]int, len(models.RequestTypes)),
		ByStatus:    make(map[models.PickupStatus]int, len(models.PickupStatuses)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, t := range models.RequestTypes {
		report.ByType[t] = 0
	}
	for _, st := range models.PickupStatuses {
		report.ByStatus[st] = 0
	}
	for _, req := range reqs {
		report.Total++
		report.ByType[req.RequestType]++
		report.ByStatus[req.Status]++
	}
	return report, nil
}
