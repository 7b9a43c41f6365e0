// The importer runs the whole pipeline once: load every CSV in DATA_DIR,
// sweep unclassified stations, then fold new rows into the daily counters.
// It is driven entirely by the environment and is safe to re-run over the
// same files.
package main

import (
	"log"

	"github.com/citycycle/tripdata-backend-go/internal/config"
	"github.com/citycycle/tripdata-backend-go/internal/database"
	"github.com/citycycle/tripdata-backend-go/internal/region"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
	"github.com/citycycle/tripdata-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	boundaries, err := region.LoadFile(cfg.RegionsPath)
	if err != nil {
		log.Fatal("Failed to load regions:", err)
	}
	index, err := region.NewIndex(boundaries)
	if err != nil {
		log.Fatal("Failed to index regions:", err)
	}
	log.Printf("Loaded %d regions from %s", index.Len(), cfg.RegionsPath)

	stationRepo := repository.NewStationRepository(db)
	tripRepo := repository.NewTripRepository(db)
	dayRepo := repository.NewStationDayRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	runRepo := repository.NewRunRepository(db)

	if err := regionRepo.ReplaceAll(index.Regions()); err != nil {
		log.Fatal("Failed to persist regions:", err)
	}

	stationService := service.NewStationService(stationRepo, index)
	importService := service.NewImportService(stationService, tripRepo, runRepo, cfg.ChunkSize)
	regionService := service.NewRegionService(regionRepo, stationRepo, index)
	aggregateService := service.NewAggregateService(dayRepo, tripRepo)

	stats, err := importService.ImportDir(cfg.DataDir)
	if err != nil {
		// Committed chunks survive; the next run picks up where this one failed
		log.Printf("Import finished with errors: %v", err)
	}
	log.Printf("Import totals: seen=%d rejected=%d inserted=%d duplicate=%d",
		stats.Seen, stats.Rejected, stats.Inserted, stats.Duplicate)

	sweep, err := regionService.Sweep(0)
	if err != nil {
		log.Fatal("Region sweep failed:", err)
	}
	log.Printf("Region sweep: assigned=%d unmatched=%d remaining=%d",
		sweep.Assigned, sweep.Unmatched, sweep.Remaining)

	result, err := aggregateService.Aggregate()
	if err != nil {
		log.Fatal("Aggregation failed:", err)
	}
	log.Printf("Aggregation: folded=%d stationDays=%d watermark=%d",
		result.TripsFolded, result.StationDays, result.Watermark)
}
