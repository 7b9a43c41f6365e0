package service

import (
	"log"
	"time"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
)

// AggregateService folds raw trips into the daily per-station counters.
//
// Two modes, which must not be mixed against the same database:
//
//   - Aggregate: the default. A persisted watermark (highest folded raw-trip
//     id) bounds each pass to rows loaded since the last pass, so calling it
//     after every import, or repeatedly, never double-counts.
//   - AggregateWindow: folds rows in a caller-supplied date window and does
//     not touch the watermark. The caller owns scope discipline: a window
//     must never re-include rows a previous pass already folded.
type AggregateService struct {
	dayRepo  *repository.StationDayRepository
	tripRepo *repository.TripRepository
}

// NewAggregateService creates a new aggregate service
func NewAggregateService(dayRepo *repository.StationDayRepository, tripRepo *repository.TripRepository) *AggregateService {
	return &AggregateService{
		dayRepo:  dayRepo,
		tripRepo: tripRepo,
	}
}

// Aggregate folds all raw trips loaded since the last pass. The scope is
// fixed before merging: rows inserted while the pass runs wait for the next
// one. Both merge passes and the watermark advance commit atomically.
func (s *AggregateService) Aggregate() (models.AggregateResult, error) {
	watermark, err := s.dayRepo.Watermark()
	if err != nil {
		return models.AggregateResult{}, pipeline.Storagef(err, "read watermark")
	}

	maxID, err := s.tripRepo.MaxID()
	if err != nil {
		return models.AggregateResult{}, pipeline.Storagef(err, "capture scope bound")
	}

	if maxID <= watermark {
		return models.AggregateResult{Watermark: watermark}, nil
	}

	scope := repository.TripScope{FromID: watermark, ToID: maxID}
	folded, err := s.dayRepo.CountScoped(scope)
	if err != nil {
		return models.AggregateResult{}, pipeline.Storagef(err, "count scoped trips")
	}

	stationDays, err := s.merge(scope, maxID)
	if err != nil {
		return models.AggregateResult{}, err
	}

	log.Printf("aggregated %d trips into %d station-day rows (watermark %d -> %d)",
		folded, stationDays, watermark, maxID)
	return models.AggregateResult{
		TripsFolded: folded,
		StationDays: stationDays,
		Watermark:   maxID,
	}, nil
}

// AggregateWindow folds raw trips whose timestamps fall inside [from, to]
// (inclusive, YYYY-MM-DD). The watermark is left alone.
func (s *AggregateService) AggregateWindow(from, to string) (models.AggregateResult, error) {
	if err := validateDate(from); err != nil {
		return models.AggregateResult{}, err
	}
	if err := validateDate(to); err != nil {
		return models.AggregateResult{}, err
	}
	if from != "" && to != "" && from > to {
		return models.AggregateResult{}, pipeline.Validationf("window start %s is after end %s", from, to)
	}

	scope := repository.TripScope{StartDate: from, EndDate: to}
	stationDays, err := s.merge(scope, 0)
	if err != nil {
		return models.AggregateResult{}, err
	}

	watermark, err := s.dayRepo.Watermark()
	if err != nil {
		return models.AggregateResult{}, pipeline.Storagef(err, "read watermark")
	}
	return models.AggregateResult{StationDays: stationDays, Watermark: watermark}, nil
}

// merge runs both counter passes, and the watermark advance when newWatermark
// is set, in one transaction. The returned count sums both passes, so a
// (station, day) with departures and arrivals contributes twice.
func (s *AggregateService) merge(scope repository.TripScope, newWatermark int64) (int64, error) {
	tx, err := s.dayRepo.DB().Begin()
	if err != nil {
		return 0, pipeline.Storagef(err, "begin aggregation")
	}

	departures, err := s.dayRepo.MergeDepartures(tx, scope)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	arrivals, err := s.dayRepo.MergeArrivals(tx, scope)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if newWatermark > 0 {
		if err := s.dayRepo.AdvanceWatermark(tx, newWatermark); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, pipeline.Storagef(err, "commit aggregation")
	}
	return departures + arrivals, nil
}

func validateDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return pipeline.Validationf("invalid date %q, want YYYY-MM-DD", value)
	}
	return nil
}
