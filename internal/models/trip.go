package models

// Bike class values stored in trips_raw.bike_class
const (
	BikeClassic  = "classic"  // pedal bikes, including legacy docked_bike records
	BikeElectric = "electric" // electric-assist bikes
	BikeUnknown  = "unknown"  // pre-2020 feeds carry a fleet number instead of a class
)

// RawTrip represents one trip row as loaded from the feed.
// Rows are immutable once inserted; ride_id is the deduplication key.
type RawTrip struct {
	ID               int64    `json:"id" db:"id"`
	RideID           string   `json:"rideId" db:"ride_id"`
	BikeClass        string   `json:"bikeClass" db:"bike_class"`
	RideableType     string   `json:"rideableType,omitempty" db:"rideable_type"` // raw feed value
	StartedAt        *string  `json:"startedAt,omitempty" db:"started_at"`
	EndedAt          *string  `json:"endedAt,omitempty" db:"ended_at"`
	StartStationID   *string  `json:"startStationId,omitempty" db:"start_station_id"`
	StartStationName *string  `json:"startStationName,omitempty" db:"start_station_name"`
	EndStationID     *string  `json:"endStationId,omitempty" db:"end_station_id"`
	EndStationName   *string  `json:"endStationName,omitempty" db:"end_station_name"`
	StartLat         *float64 `json:"startLat,omitempty" db:"start_lat"`
	StartLng         *float64 `json:"startLng,omitempty" db:"start_lng"`
	EndLat           *float64 `json:"endLat,omitempty" db:"end_lat"`
	EndLng           *float64 `json:"endLng,omitempty" db:"end_lng"`
	MemberCasual     *string  `json:"memberCasual,omitempty" db:"member_casual"`
}

// LoadStats reports the outcome of one batch load
type LoadStats struct {
	Seen      int64 `json:"seen"`
	Rejected  int64 `json:"rejected"`  // rows with no ride id
	Inserted  int64 `json:"inserted"`  // rows newly inserted
	Duplicate int64 `json:"duplicate"` // rows already present (conflict-ignore)
}

// Add folds another batch outcome into s
func (s *LoadStats) Add(o LoadStats) {
	s.Seen += o.Seen
	s.Rejected += o.Rejected
	s.Inserted += o.Inserted
	s.Duplicate += o.Duplicate
}
