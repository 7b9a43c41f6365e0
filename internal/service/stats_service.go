package service

import (
	"time"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
)

// StatsService answers daily usage queries
type StatsService struct {
	dayRepo     *repository.StationDayRepository
	stationRepo *repository.StationRepository
	runRepo     *repository.RunRepository
}

// NewStatsService creates a new stats service
func NewStatsService(dayRepo *repository.StationDayRepository, stationRepo *repository.StationRepository, runRepo *repository.RunRepository) *StatsService {
	return &StatsService{
		dayRepo:     dayRepo,
		stationRepo: stationRepo,
		runRepo:     runRepo,
	}
}

// GetStationDays retrieves daily counters for one station by its external id
func (s *StatsService) GetStationDays(filter models.StationDayFilter) ([]models.StationDay, error) {
	if filter.StationID == "" {
		return nil, pipeline.Validationf("stationId is required")
	}
	if err := checkDate(filter.From); err != nil {
		return nil, err
	}
	if err := checkDate(filter.To); err != nil {
		return nil, err
	}

	station, err := s.stationRepo.GetByExternalID(filter.StationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, nil
	}

	return s.dayRepo.GetCounters(station.ID, filter)
}

// GetDailySummary retrieves network-wide totals per day
func (s *StatsService) GetDailySummary(from, to string, limit int) ([]models.DailySummary, error) {
	if err := checkDate(from); err != nil {
		return nil, err
	}
	if err := checkDate(to); err != nil {
		return nil, err
	}
	return s.dayRepo.DailySummary(from, to, limit)
}

// GetRuns retrieves recent import runs
func (s *StatsService) GetRuns(limit int) ([]models.ImportRun, error) {
	return s.runRepo.List(limit)
}

func checkDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return pipeline.Validationf("invalid date %q, want YYYY-MM-DD", value)
	}
	return nil
}
