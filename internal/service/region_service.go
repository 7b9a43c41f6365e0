package service

import (
	"log"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/region"
	"github.com/citycycle/tripdata-backend-go/internal/repository"
	"github.com/citycycle/tripdata-backend-go/internal/spatial"
)

// SweepResult reports a classification sweep over unassigned stations
type SweepResult struct {
	Assigned   int64 `json:"assigned"`
	Unmatched  int64 `json:"unmatched"` // coordinates outside every region
	Remaining  int64 `json:"remaining"` // still unassigned (includes no-coordinate stations)
	TotalKnown int64 `json:"totalKnown"`
}

// RegionService answers region queries and re-classifies stations that
// missed their region at upsert time
type RegionService struct {
	regionRepo  *repository.RegionRepository
	stationRepo *repository.StationRepository
	index       *region.Index
}

// NewRegionService creates a new region service
func NewRegionService(regionRepo *repository.RegionRepository, stationRepo *repository.StationRepository, index *region.Index) *RegionService {
	return &RegionService{
		regionRepo:  regionRepo,
		stationRepo: stationRepo,
		index:       index,
	}
}

// List retrieves all regions with station counts
func (s *RegionService) List() ([]models.Region, error) {
	return s.regionRepo.List()
}

// Get retrieves one region with the centroid of its member stations, for
// map centering in the web app
func (s *RegionService) Get(id int64) (*models.Region, error) {
	reg, err := s.regionRepo.Get(id)
	if err != nil || reg == nil {
		return reg, err
	}

	stations, _, err := s.stationRepo.List(models.StationFilter{RegionID: id, PageSize: 1000})
	if err != nil {
		return nil, err
	}

	var points []spatial.Point
	for _, st := range stations {
		if st.Latitude == nil || st.Longitude == nil {
			continue
		}
		points = append(points, spatial.Point{Lat: *st.Latitude, Lon: *st.Longitude})
	}
	if len(points) > 0 {
		c := spatial.Centroid(points)
		reg.Centroid = &c
	}
	return reg, nil
}

// Classify returns the region containing a coordinate, or nil
func (s *RegionService) Classify(lat, lon float64) (*models.Region, error) {
	id, ok := s.index.Classify(lat, lon)
	if !ok {
		return nil, nil
	}
	return s.regionRepo.Get(id)
}

// Sweep classifies stations that have coordinates but no region yet.
// Stations whose coordinates fall outside every boundary stay unassigned
// and are reported, not failed.
func (s *RegionService) Sweep(batchSize int) (SweepResult, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	var result SweepResult
	var afterID int64
	for {
		stations, err := s.stationRepo.ListUnassignedWithCoords(afterID, batchSize)
		if err != nil {
			return result, err
		}
		if len(stations) == 0 {
			break
		}

		for _, st := range stations {
			afterID = st.ID
			regionID, ok := s.index.Classify(*st.Latitude, *st.Longitude)
			if !ok {
				result.Unmatched++
				continue
			}
			if err := s.stationRepo.AssignRegion(st.ID, regionID); err != nil {
				return result, err
			}
			result.Assigned++
		}
	}

	assigned, unassigned, err := s.stationRepo.CountByAssignment()
	if err != nil {
		return result, err
	}
	result.Remaining = unassigned
	result.TotalKnown = assigned + unassigned

	log.Printf("region sweep: assigned=%d unmatched=%d remaining=%d",
		result.Assigned, result.Unmatched, result.Remaining)
	return result, nil
}
