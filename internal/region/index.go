// Package region classifies coordinates into a fixed set of administrative
// area polygons.
package region

import (
	"math"
	"sort"

	"github.com/golang/geo/s2"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
)

// Index answers point-in-polygon queries against a loaded boundary set.
// It is immutable after construction and safe for concurrent use.
type Index struct {
	boundaries []Boundary // ascending by ID; iteration order fixes tie-breaks
}

// NewIndex builds an index over the full boundary collection. The collection
// must be complete and non-empty before any classification happens.
func NewIndex(boundaries []Boundary) (*Index, error) {
	if len(boundaries) == 0 {
		return nil, pipeline.Configurationf("empty region set")
	}

	sorted := make([]Boundary, len(boundaries))
	copy(sorted, boundaries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	seen := make(map[int64]bool, len(sorted))
	for _, b := range sorted {
		if b.polygon == nil {
			return nil, pipeline.Configurationf("region %d (%s) has no geometry", b.ID, b.Name)
		}
		if seen[b.ID] {
			return nil, pipeline.Configurationf("duplicate region id %d", b.ID)
		}
		seen[b.ID] = true
	}

	return &Index{boundaries: sorted}, nil
}

// Classify returns the id of the region containing (lat, lon). Regions are
// tried in ascending id order and the first containing polygon wins, so a
// point on a shared edge resolves the same way on every run. Coordinates that
// are NaN or outside the geographic envelope return ok=false.
func (idx *Index) Classify(lat, lon float64) (int64, bool) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, false
	}

	ll := s2.LatLngFromDegrees(lat, lon)
	point := s2.PointFromLatLng(ll)

	for _, b := range idx.boundaries {
		// Cheap rect rejection before the full polygon test
		if !b.bound.ContainsLatLng(ll) {
			continue
		}
		if b.polygon.ContainsPoint(point) {
			return b.ID, true
		}
	}
	return 0, false
}

// Regions returns the loaded region set in id order
func (idx *Index) Regions() []models.Region {
	regions := make([]models.Region, 0, len(idx.boundaries))
	for _, b := range idx.boundaries {
		regions = append(regions, models.Region{ID: b.ID, Name: b.Name})
	}
	return regions
}

// Len returns the number of loaded regions
func (idx *Index) Len() int {
	return len(idx.boundaries)
}
