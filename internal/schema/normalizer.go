// Package schema normalizes the column naming drift in trip-history feeds.
// The feed renamed most columns around 2020; earlier files use the legacy
// names on the left of legacyColumns. Normalization is a pure rename: it
// never validates values and cannot fail. Canonical fields missing from a
// file are simply left empty and downstream code tolerates that.
package schema

import "strings"

// Record is a trip row under canonical field names. An empty string means
// the source file did not carry that field; only RideID is required
// downstream.
type Record struct {
	RideID           string
	RideableType     string
	StartedAt        string
	EndedAt          string
	StartStationID   string
	StartStationName string
	EndStationID     string
	EndStationName   string
	StartLat         string
	StartLng         string
	EndLat           string
	EndLng           string
	MemberCasual     string
}

// legacyColumns maps historical column names to canonical ones
var legacyColumns = map[string]string{
	"trip_id":           "ride_id",
	"bikeid":            "rideable_type",
	"starttime":         "started_at",
	"start_time":        "started_at",
	"stoptime":          "ended_at",
	"end_time":          "ended_at",
	"from_station_name": "start_station_name",
	"from_station_id":   "start_station_id",
	"to_station_name":   "end_station_name",
	"to_station_id":     "end_station_id",
	"usertype":          "member_casual",
}

// canonicalColumns is the recognized field set after renaming
var canonicalColumns = map[string]bool{
	"ride_id":            true,
	"rideable_type":      true,
	"started_at":         true,
	"ended_at":           true,
	"start_station_id":   true,
	"start_station_name": true,
	"end_station_id":     true,
	"end_station_name":   true,
	"start_lat":          true,
	"start_lng":          true,
	"end_lat":            true,
	"end_lng":            true,
	"member_casual":      true,
}

// CanonicalColumn cleans a header name and resolves legacy variants.
// Returns "" for columns outside the canonical set; callers drop those.
func CanonicalColumn(name string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if mapped, ok := legacyColumns[cleaned]; ok {
		cleaned = mapped
	}
	if !canonicalColumns[cleaned] {
		return ""
	}
	return cleaned
}

// Normalize converts a raw header+rows batch into canonical records.
// Unknown columns are dropped; short rows contribute the fields they have.
func Normalize(header []string, rows [][]string) []Record {
	canonical := make([]string, len(header))
	for i, name := range header {
		canonical[i] = CanonicalColumn(name)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		var rec Record
		for i, field := range canonical {
			if field == "" || i >= len(row) {
				continue
			}
			assign(&rec, field, strings.TrimSpace(row[i]))
		}
		records = append(records, rec)
	}
	return records
}

func assign(rec *Record, field, value string) {
	switch field {
	case "ride_id":
		rec.RideID = value
	case "rideable_type":
		rec.RideableType = value
	case "started_at":
		rec.StartedAt = value
	case "ended_at":
		rec.EndedAt = value
	case "start_station_id":
		rec.StartStationID = value
	case "start_station_name":
		rec.StartStationName = value
	case "end_station_id":
		rec.EndStationID = value
	case "end_station_name":
		rec.EndStationName = value
	case "start_lat":
		rec.StartLat = value
	case "start_lng":
		rec.StartLng = value
	case "end_lat":
		rec.EndLat = value
	case "end_lng":
		rec.EndLng = value
	case "member_casual":
		rec.MemberCasual = value
	}
}
