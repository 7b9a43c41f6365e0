package repository

import (
	"database/sql"
	"fmt"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
)

// TripRepository handles database operations for raw trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// InsertChunk inserts one chunk of raw trips inside a single transaction.
// Inserts are conflict-ignore on ride_id, so re-loading the same rows is a
// no-op; the returned counts separate new rows from already-present ones.
// Any failure rolls the whole chunk back and is reported as a storage error.
func (r *TripRepository) InsertChunk(trips []models.RawTrip) (inserted, duplicate int64, err error) {
	if len(trips) == 0 {
		return 0, 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, 0, pipeline.Storagef(err, "begin trip chunk")
	}

	stmt, err := tx.Prepare(`INSERT INTO trips_raw (
			ride_id, bike_class, rideable_type, started_at, ended_at,
			start_station_id, start_station_name, end_station_id, end_station_name,
			start_lat, start_lng, end_lat, end_lng, member_casual
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ride_id) DO NOTHING`)
	if err != nil {
		tx.Rollback()
		return 0, 0, pipeline.Storagef(err, "prepare trip insert")
	}
	defer stmt.Close()

	for _, t := range trips {
		res, err := stmt.Exec(
			t.RideID, t.BikeClass, nullStr(t.RideableType), t.StartedAt, t.EndedAt,
			t.StartStationID, t.StartStationName, t.EndStationID, t.EndStationName,
			t.StartLat, t.StartLng, t.EndLat, t.EndLng, t.MemberCasual,
		)
		if err != nil {
			tx.Rollback()
			return 0, 0, pipeline.Storagef(err, "insert trip %s", t.RideID)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, 0, pipeline.Storagef(err, "rows affected for trip %s", t.RideID)
		}
		if affected > 0 {
			inserted++
		} else {
			duplicate++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, pipeline.Storagef(err, "commit trip chunk")
	}
	return inserted, duplicate, nil
}

// Count returns the number of raw trip rows
func (r *TripRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips_raw").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return n, nil
}

// MaxID returns the highest raw trip id, 0 when the table is empty
func (r *TripRepository) MaxID() (int64, error) {
	var max int64
	if err := r.db.QueryRow("SELECT COALESCE(MAX(id), 0) FROM trips_raw").Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max trip id: %w", err)
	}
	return max, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
