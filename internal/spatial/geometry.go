package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// BoundingBox returns the degree envelope that covers a radius in meters
// around a point. Used as a coarse SQL pre-filter before exact distance
// checks; slightly oversized near the poles, never undersized.
func BoundingBox(center Point, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := latDelta * 2 // conservative; avoids cos(lat) underestimation
	return center.Lat - latDelta, center.Lat + latDelta, center.Lon - lonDelta, center.Lon + lonDelta
}
