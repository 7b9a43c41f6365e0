package service

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citycycle/tripdata-backend-go/internal/database"
	"github.com/citycycle/tripdata-backend-go/internal/region"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
)

// testBoundaries covers the test station coordinates: region 8 is a square
// over the city center, region 32 a disjoint square to its south.
const testBoundaries = `{
	"type": "FeatureCollection",
	"features": [
		{
			"properties": {"area_num_1": "8", "community": "NEAR NORTH SIDE"},
			"geometry": {"type": "Polygon", "coordinates": [[
				[-87.80, 41.85], [-87.50, 41.85], [-87.50, 42.00], [-87.80, 42.00], [-87.80, 41.85]
			]]}
		},
		{
			"properties": {"area_num_1": "32", "community": "LOOP"},
			"geometry": {"type": "Polygon", "coordinates": [[
				[-87.80, 41.70], [-87.50, 41.70], [-87.50, 41.84], [-87.80, 41.84], [-87.80, 41.70]
			]]}
		}
	]
}`

// testEnv wires the full pipeline against a throwaway database, the same way
// the binaries do.
type testEnv struct {
	db        *sql.DB
	stations  *StationService
	regions   *RegionService
	importer  *ImportService
	aggregate *AggregateService
	dayRepo   *repository.StationDayRepository
	tripRepo  *repository.TripRepository
}

func newTestEnv(t *testing.T, chunkSize int) *testEnv {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	boundaries, err := region.Parse(strings.NewReader(testBoundaries))
	require.NoError(t, err)
	index, err := region.NewIndex(boundaries)
	require.NoError(t, err)

	stationRepo := repository.NewStationRepository(db)
	tripRepo := repository.NewTripRepository(db)
	dayRepo := repository.NewStationDayRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	runRepo := repository.NewRunRepository(db)

	require.NoError(t, regionRepo.ReplaceAll(index.Regions()))

	stations := NewStationService(stationRepo, index)
	return &testEnv{
		db:        db,
		stations:  stations,
		regions:   NewRegionService(regionRepo, stationRepo, index),
		importer:  NewImportService(stations, tripRepo, runRepo, chunkSize),
		aggregate: NewAggregateService(dayRepo, tripRepo),
		dayRepo:   dayRepo,
		tripRepo:  tripRepo,
	}
}
