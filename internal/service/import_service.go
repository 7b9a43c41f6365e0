package service

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/citycycle/tripdata-backend-go/internal/ingest"
	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
	"github.com/citycycle/tripdata-backend-go/internal/schema"
)

// timestampLayouts covers the formats the feed has used over the years
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// canonicalTime is how timestamps are stored in trips_raw
const canonicalTime = "2006-01-02 15:04:05"

// ImportService loads normalized trip batches into the raw table in
// fixed-size chunks
type ImportService struct {
	stations  *StationService
	tripRepo  *repository.TripRepository
	runRepo   *repository.RunRepository
	chunkSize int
}

// NewImportService creates a new import service
func NewImportService(stations *StationService, tripRepo *repository.TripRepository, runRepo *repository.RunRepository, chunkSize int) *ImportService {
	if chunkSize <= 0 {
		chunkSize = 5000
	}
	return &ImportService{
		stations:  stations,
		tripRepo:  tripRepo,
		runRepo:   runRepo,
		chunkSize: chunkSize,
	}
}

// LoadBatch loads one batch of normalized records, chunked to bound memory.
// Rows with no ride id are rejected and counted. A chunk that fails on the
// store is logged and skipped; earlier chunks stay committed, and because
// inserts are conflict-ignore the same input can be replayed safely.
func (s *ImportService) LoadBatch(records []schema.Record) (models.LoadStats, error) {
	var stats models.LoadStats
	var lastErr error

	for start := 0; start < len(records); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(records) {
			end = len(records)
		}

		chunkStats, err := s.loadChunk(records[start:end])
		stats.Add(chunkStats)
		if err != nil {
			log.Printf("chunk %d-%d failed, continuing: %v", start, end, err)
			lastErr = err
		}
	}

	return stats, lastErr
}

// loadChunk upserts the chunk's stations, then inserts its trips. Station
// upserts run first so every trip row can resolve its station references.
func (s *ImportService) loadChunk(records []schema.Record) (models.LoadStats, error) {
	var stats models.LoadStats
	trips := make([]models.RawTrip, 0, len(records))
	seenStations := make(map[string]bool)

	for _, rec := range records {
		stats.Seen++
		if rec.RideID == "" {
			stats.Rejected++
			continue
		}

		startLat := parseCoord(rec.StartLat)
		startLng := parseCoord(rec.StartLng)
		endLat := parseCoord(rec.EndLat)
		endLng := parseCoord(rec.EndLng)

		// Stations before trips, deduplicated within the chunk
		if rec.StartStationID != "" && !seenStations[rec.StartStationID] {
			if _, err := s.stations.Upsert(rec.StartStationID, rec.StartStationName, startLat, startLng); err != nil {
				if pipeline.IsStorage(err) {
					return stats, err
				}
				log.Printf("skipping station %s: %v", rec.StartStationID, err)
			} else {
				seenStations[rec.StartStationID] = true
			}
		}
		if rec.EndStationID != "" && !seenStations[rec.EndStationID] {
			if _, err := s.stations.Upsert(rec.EndStationID, rec.EndStationName, endLat, endLng); err != nil {
				if pipeline.IsStorage(err) {
					return stats, err
				}
				log.Printf("skipping station %s: %v", rec.EndStationID, err)
			} else {
				seenStations[rec.EndStationID] = true
			}
		}

		trips = append(trips, models.RawTrip{
			RideID:           rec.RideID,
			BikeClass:        bikeClass(rec.RideableType),
			RideableType:     rec.RideableType,
			StartedAt:        parseTimestamp(rec.StartedAt),
			EndedAt:          parseTimestamp(rec.EndedAt),
			StartStationID:   nilIfEmpty(rec.StartStationID),
			StartStationName: nilIfEmpty(rec.StartStationName),
			EndStationID:     nilIfEmpty(rec.EndStationID),
			EndStationName:   nilIfEmpty(rec.EndStationName),
			StartLat:         startLat,
			StartLng:         startLng,
			EndLat:           endLat,
			EndLng:           endLng,
			MemberCasual:     nilIfEmpty(rec.MemberCasual),
		})
	}

	inserted, duplicate, err := s.tripRepo.InsertChunk(trips)
	stats.Inserted += inserted
	stats.Duplicate += duplicate
	return stats, err
}

// ImportFile streams one CSV file through the normalizer and loader,
// recording the run and its counts
func (s *ImportService) ImportFile(path string) (models.LoadStats, error) {
	runID := uuid.NewString()
	if err := s.runRepo.Create(runID, path); err != nil {
		return models.LoadStats{}, err
	}

	var stats models.LoadStats
	var lastErr error

	err := ingest.ReadChunks(path, s.chunkSize, func(header []string, rows [][]string) error {
		records := schema.Normalize(header, rows)
		chunkStats, err := s.LoadBatch(records)
		stats.Add(chunkStats)
		if err != nil {
			lastErr = err
		}
		return nil
	})
	if err != nil {
		lastErr = err
	}

	if finishErr := s.runRepo.Finish(runID, stats, lastErr); finishErr != nil {
		log.Printf("failed to record run %s: %v", runID, finishErr)
	}

	log.Printf("imported %s: seen=%d rejected=%d inserted=%d duplicate=%d",
		path, stats.Seen, stats.Rejected, stats.Inserted, stats.Duplicate)
	return stats, lastErr
}

// ImportDir imports every CSV file in a directory in filename order
func (s *ImportService) ImportDir(dir string) (models.LoadStats, error) {
	files, err := ingest.ListCSVFiles(dir)
	if err != nil {
		return models.LoadStats{}, err
	}
	if len(files) == 0 {
		return models.LoadStats{}, pipeline.Configurationf("no CSV files in %s", dir)
	}

	var stats models.LoadStats
	var lastErr error
	for _, file := range files {
		fileStats, err := s.ImportFile(file)
		stats.Add(fileStats)
		if err != nil {
			lastErr = err
		}
	}
	return stats, lastErr
}

// bikeClass maps the feed's rideable type to a class counter bucket.
// Legacy files carry a numeric fleet id in this column; those rows count
// as neither manual nor electric.
func bikeClass(rideableType string) string {
	switch rideableType {
	case "classic_bike", "docked_bike":
		return models.BikeClassic
	case "electric_bike":
		return models.BikeElectric
	default:
		return models.BikeUnknown
	}
}

func parseTimestamp(value string) *string {
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			formatted := t.Format(canonicalTime)
			return &formatted
		}
	}
	return nil
}

func parseCoord(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
