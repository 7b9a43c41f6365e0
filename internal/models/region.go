package models

import "github.com/citycycle/tripdata-backend-go/internal/spatial"

// Region represents one administrative area polygon from the boundary file
type Region struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	StationCount int64          `json:"stationCount,omitempty" db:"station_count"`
	Centroid     *spatial.Point `json:"centroid,omitempty"` // mean of member station coordinates
}
