package models

// Station represents a dock station observed in trip data
type Station struct {
	ID         int64    `json:"id" db:"id"`
	StationID  string   `json:"stationId" db:"station_id"` // external business key from the feed
	Name       string   `json:"name" db:"name"`
	Latitude   *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude  *float64 `json:"longitude,omitempty" db:"longitude"`
	RegionID   *int64   `json:"regionId,omitempty" db:"region_id"`
	RegionName string   `json:"regionName,omitempty" db:"region_name"`
	CreatedAt  string   `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt  string   `json:"updatedAt,omitempty" db:"updated_at"`
}

// StationsResponse represents a paginated response of stations
type StationsResponse struct {
	Data       []Station `json:"data"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// StationFilter represents filter parameters for querying stations
type StationFilter struct {
	RegionID   int64   `form:"regionId"`
	Unassigned bool    `form:"unassigned"` // only stations without a region
	NearLat    float64 `form:"nearLat"`
	NearLon    float64 `form:"nearLon"`
	RadiusM    float64 `form:"radiusM"`
	Page       int     `form:"page"`
	PageSize   int     `form:"pageSize"`
}
