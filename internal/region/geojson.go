package region

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang/geo/s2"

	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
)

// Boundary is one named administrative area with its polygon geometry
type Boundary struct {
	ID   int64
	Name string

	polygon *s2.Polygon
	bound   s2.Rect
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]interface{} `json:"properties"`
	Geometry   geometry               `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadFile parses a GeoJSON boundary file into a Boundary set
func LoadFile(path string) ([]Boundary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pipeline.Configurationf("open boundary file %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a GeoJSON FeatureCollection of Polygon / MultiPolygon features.
// Each feature needs an integer area number and a display name in its
// properties; the Chicago portal exports these as "area_num_1" (sometimes
// "area_numbe") and "community".
func Parse(r io.Reader) ([]Boundary, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, pipeline.Configurationf("decode boundary GeoJSON: %v", err)
	}

	var boundaries []Boundary
	for i, feat := range fc.Features {
		id, err := areaNumber(feat.Properties)
		if err != nil {
			return nil, pipeline.Configurationf("feature %d: %v", i, err)
		}
		name := areaName(feat.Properties)

		polygon, err := buildPolygon(feat.Geometry)
		if err != nil {
			return nil, pipeline.Configurationf("feature %d (%s): %v", i, name, err)
		}

		boundaries = append(boundaries, Boundary{
			ID:      id,
			Name:    name,
			polygon: polygon,
			bound:   polygon.RectBound(),
		})
	}

	return boundaries, nil
}

// areaNumber extracts the integer region identifier, tolerating the string
// encoding the data portal uses
func areaNumber(props map[string]interface{}) (int64, error) {
	for _, key := range []string{"area_num_1", "area_numbe", "id"} {
		v, ok := props[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int64(n), nil
		case string:
			parsed, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("unparseable area number %q", n)
			}
			return parsed, nil
		}
	}
	return 0, fmt.Errorf("no area number property")
}

func areaName(props map[string]interface{}) string {
	for _, key := range []string{"community", "name"} {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return "Unknown"
}

func buildPolygon(g geometry) (*s2.Polygon, error) {
	var rings [][][]float64

	switch g.Type {
	case "Polygon":
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon coordinates: %w", err)
		}
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		for _, poly := range multi {
			rings = append(rings, poly...)
		}
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}

	var loops []*s2.Loop
	for _, ring := range rings {
		loop, err := buildLoop(ring)
		if err != nil {
			return nil, err
		}
		loops = append(loops, loop)
	}
	if len(loops) == 0 {
		return nil, fmt.Errorf("geometry has no rings")
	}

	polygon := s2.PolygonFromLoops(loops)
	if err := polygon.Validate(); err != nil {
		return nil, fmt.Errorf("invalid polygon: %w", err)
	}
	return polygon, nil
}

// buildLoop converts one GeoJSON ring (lon, lat pairs, closed) into an
// s2 loop oriented to enclose the smaller area
func buildLoop(ring [][]float64) (*s2.Loop, error) {
	// GeoJSON rings repeat the first vertex at the end; s2 loops do not
	if len(ring) > 1 {
		first, last := ring[0], ring[len(ring)-1]
		if len(first) >= 2 && len(last) >= 2 && first[0] == last[0] && first[1] == last[1] {
			ring = ring[:len(ring)-1]
		}
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("ring has %d vertices, need at least 3", len(ring))
	}

	points := make([]s2.Point, 0, len(ring))
	for _, coord := range ring {
		if len(coord) < 2 {
			return nil, fmt.Errorf("ring vertex has %d coordinates", len(coord))
		}
		// GeoJSON order is (lon, lat)
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(coord[1], coord[0])))
	}

	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	if err := loop.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ring: %w", err)
	}
	return loop, nil
}
