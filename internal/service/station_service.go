package service

import (
	"database/sql"
	"strings"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/region"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
	"github.com/citycycle/tripdata-backend-go/internal/spatial"
)

// StationService maintains the canonical station table and answers station
// queries
type StationService struct {
	stationRepo *repository.StationRepository
	index       *region.Index
}

// NewStationService creates a new station service. The region index must be
// fully loaded before the service classifies anything.
func NewStationService(stationRepo *repository.StationRepository, index *region.Index) *StationService {
	return &StationService{
		stationRepo: stationRepo,
		index:       index,
	}
}

// Upsert creates or refreshes a station and returns its internal id.
// A station picks up its region the first time it arrives with usable
// coordinates; afterwards the region never changes, even if later
// coordinates would classify differently.
func (s *StationService) Upsert(externalID, name string, lat, lon *float64) (int64, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return 0, pipeline.Validationf("station has no external id")
	}

	var regionID sql.NullInt64
	if lat != nil && lon != nil {
		if id, ok := s.index.Classify(*lat, *lon); ok {
			regionID = sql.NullInt64{Int64: id, Valid: true}
		}
	}

	id, err := s.stationRepo.Upsert(
		externalID,
		sql.NullString{String: name, Valid: name != ""},
		nullFloat(lat), nullFloat(lon),
		regionID,
	)
	if err != nil {
		return 0, pipeline.Storagef(err, "upsert station %s", externalID)
	}
	return id, nil
}

// Get retrieves a station by its external id
func (s *StationService) Get(externalID string) (*models.Station, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, pipeline.Validationf("station id is required")
	}
	return s.stationRepo.GetByExternalID(externalID)
}

// List retrieves stations with optional region and proximity filters.
// Proximity uses a degree-envelope SQL pre-filter and exact haversine
// distances on the candidates.
func (s *StationService) List(filter models.StationFilter) ([]models.Station, int64, error) {
	if filter.RadiusM > 0 {
		center := spatial.Point{Lat: filter.NearLat, Lon: filter.NearLon}
		minLat, maxLat, minLon, maxLon := spatial.BoundingBox(center, filter.RadiusM)

		candidates, err := s.stationRepo.ListInEnvelope(minLat, maxLat, minLon, maxLon)
		if err != nil {
			return nil, 0, err
		}

		var near []models.Station
		for _, st := range candidates {
			if st.Latitude == nil || st.Longitude == nil {
				continue
			}
			d := spatial.HaversineDistance(center.Lat, center.Lon, *st.Latitude, *st.Longitude)
			if d <= filter.RadiusM {
				near = append(near, st)
			}
		}
		return near, int64(len(near)), nil
	}

	return s.stationRepo.List(filter)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
