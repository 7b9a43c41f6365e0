package main

import (
	"log"

	"github.com/citycycle/tripdata-backend-go/internal/api"
	"github.com/citycycle/tripdata-backend-go/internal/config"
	"github.com/citycycle/tripdata-backend-go/internal/database"
	"github.com/citycycle/tripdata-backend-go/internal/handler"
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

	// The full region set loads before anything classifies
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
	aggregateService := service.NewAggregateService(dayRepo, tripRepo)
	regionService := service.NewRegionService(regionRepo, stationRepo, index)
	statsService := service.NewStatsService(dayRepo, stationRepo, runRepo)

	router := api.SetupRouter(cfg, api.Handlers{
		Stations: handler.NewStationHandler(stationService),
		Regions:  handler.NewRegionHandler(regionService),
		Stats:    handler.NewStatsHandler(statsService),
		Admin: handler.NewAdminHandler(importService, aggregateService, regionService,
			cfg.JWTSecret, cfg.AdminKey),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
