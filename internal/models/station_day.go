package models

// StationDay holds the per-station per-calendar-day usage counters.
// Counters are merged additively and never decrease.
type StationDay struct {
	StationID      int64 `json:"stationId" db:"station_id"`
	Year           int   `json:"year" db:"year"`
	Month          int   `json:"month" db:"month"`
	Day            int   `json:"day" db:"day"`
	AcousticDepart int64 `json:"acousticDepart" db:"acoustic_depart"`
	ElectricDepart int64 `json:"electricDepart" db:"electric_depart"`
	AcousticArrive int64 `json:"acousticArrive" db:"acoustic_arrive"`
	ElectricArrive int64 `json:"electricArrive" db:"electric_arrive"`
}

// DailySummary is one day of network-wide totals
type DailySummary struct {
	Year           int   `json:"year" db:"year"`
	Month          int   `json:"month" db:"month"`
	Day            int   `json:"day" db:"day"`
	AcousticDepart int64 `json:"acousticDepart" db:"acoustic_depart"`
	ElectricDepart int64 `json:"electricDepart" db:"electric_depart"`
	AcousticArrive int64 `json:"acousticArrive" db:"acoustic_arrive"`
	ElectricArrive int64 `json:"electricArrive" db:"electric_arrive"`
	Stations       int64 `json:"stations" db:"stations"`
}

// StationDayFilter represents filter parameters for querying daily counters
type StationDayFilter struct {
	StationID string `form:"stationId"` // external station id
	From      string `form:"from"`      // inclusive, YYYY-MM-DD
	To        string `form:"to"`        // inclusive, YYYY-MM-DD
	Limit     int    `form:"limit"`
}

// AggregateResult reports the outcome of one aggregation pass
type AggregateResult struct {
	TripsFolded int64 `json:"tripsFolded"` // raw rows examined by this pass
	// StationDays sums the upserts of the departure and arrival passes;
	// a (station, day) row touched by both counts twice.
	StationDays int64 `json:"stationDays"`
	Watermark   int64 `json:"watermark"` // raw-trip id the counters now cover
}
