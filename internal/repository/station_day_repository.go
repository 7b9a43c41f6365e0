package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
)

// TripScope bounds the raw trip rows one aggregation pass considers.
// FromID/ToID is the watermark-driven id window (exclusive/inclusive);
// StartDate/EndDate optionally narrow by calendar date instead.
type TripScope struct {
	FromID    int64
	ToID      int64
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
}

func (s TripScope) conditions(timeColumn string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if s.ToID > 0 {
		conditions = append(conditions, "t.id > ? AND t.id <= ?")
		args = append(args, s.FromID, s.ToID)
	}
	if s.StartDate != "" {
		conditions = append(conditions, "date(t."+timeColumn+") >= ?")
		args = append(args, s.StartDate)
	}
	if s.EndDate != "" {
		conditions = append(conditions, "date(t."+timeColumn+") <= ?")
		args = append(args, s.EndDate)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(conditions, " AND "), args
}

// StationDayRepository handles the daily counter table and the aggregation
// watermark
type StationDayRepository struct {
	db *sql.DB
}

// NewStationDayRepository creates a new station day repository
func NewStationDayRepository(db *sql.DB) *StationDayRepository {
	return &StationDayRepository{db: db}
}

// DB exposes the handle so the aggregate service can run both merge passes
// and the watermark advance in one transaction
func (r *StationDayRepository) DB() *sql.DB {
	return r.db
}

// MergeDepartures folds scoped raw trips into the departure counters.
// The upsert is additive: existing counters keep their value and only
// grow by what this pass computed.
func (r *StationDayRepository) MergeDepartures(tx *sql.Tx, scope TripScope) (int64, error) {
	cond, args := scope.conditions("started_at")
	query := `INSERT INTO station_days (station_id, year, month, day, acoustic_depart, electric_depart)
		SELECT s.id,
			CAST(strftime('%Y', t.started_at) AS INTEGER),
			CAST(strftime('%m', t.started_at) AS INTEGER),
			CAST(strftime('%d', t.started_at) AS INTEGER),
			SUM(CASE WHEN t.bike_class = '` + models.BikeClassic + `' THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.bike_class = '` + models.BikeElectric + `' THEN 1 ELSE 0 END)
		FROM trips_raw t
		JOIN stations s ON t.start_station_id = s.station_id
		WHERE t.started_at IS NOT NULL AND t.start_station_id IS NOT NULL` + cond + `
		GROUP BY s.id,
			CAST(strftime('%Y', t.started_at) AS INTEGER),
			CAST(strftime('%m', t.started_at) AS INTEGER),
			CAST(strftime('%d', t.started_at) AS INTEGER)
		ON CONFLICT(station_id, year, month, day) DO UPDATE SET
			acoustic_depart = acoustic_depart + excluded.acoustic_depart,
			electric_depart = electric_depart + excluded.electric_depart`

	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, pipeline.Storagef(err, "merge departures")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, pipeline.Storagef(err, "merge departures rows affected")
	}
	return affected, nil
}

// MergeArrivals folds scoped raw trips into the arrival counters
func (r *StationDayRepository) MergeArrivals(tx *sql.Tx, scope TripScope) (int64, error) {
	cond, args := scope.conditions("ended_at")
	query := `INSERT INTO station_days (station_id, year, month, day, acoustic_arrive, electric_arrive)
		SELECT s.id,
			CAST(strftime('%Y', t.ended_at) AS INTEGER),
			CAST(strftime('%m', t.ended_at) AS INTEGER),
			CAST(strftime('%d', t.ended_at) AS INTEGER),
			SUM(CASE WHEN t.bike_class = '` + models.BikeClassic + `' THEN 1 ELSE 0 END),
			SUM(CASE WHEN t.bike_class = '` + models.BikeElectric + `' THEN 1 ELSE 0 END)
		FROM trips_raw t
		JOIN stations s ON t.end_station_id = s.station_id
		WHERE t.ended_at IS NOT NULL AND t.end_station_id IS NOT NULL` + cond + `
		GROUP BY s.id,
			CAST(strftime('%Y', t.ended_at) AS INTEGER),
			CAST(strftime('%m', t.ended_at) AS INTEGER),
			CAST(strftime('%d', t.ended_at) AS INTEGER)
		ON CONFLICT(station_id, year, month, day) DO UPDATE SET
			acoustic_arrive = acoustic_arrive + excluded.acoustic_arrive,
			electric_arrive = electric_arrive + excluded.electric_arrive`

	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, pipeline.Storagef(err, "merge arrivals")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, pipeline.Storagef(err, "merge arrivals rows affected")
	}
	return affected, nil
}

// CountScoped returns how many raw rows fall inside the scope's id window
func (r *StationDayRepository) CountScoped(scope TripScope) (int64, error) {
	query := "SELECT COUNT(*) FROM trips_raw t WHERE 1=1"
	cond, args := scope.conditions("started_at")
	query += cond

	var n int64
	if err := r.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count scoped trips: %w", err)
	}
	return n, nil
}

// Watermark returns the highest raw trip id already folded into counters
func (r *StationDayRepository) Watermark() (int64, error) {
	var id int64
	err := r.db.QueryRow("SELECT last_trip_id FROM aggregation_state WHERE id = 1").Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to read aggregation watermark: %w", err)
	}
	return id, nil
}

// AdvanceWatermark moves the fold cursor forward inside the merge transaction
func (r *StationDayRepository) AdvanceWatermark(tx *sql.Tx, id int64) error {
	query := `UPDATE aggregation_state SET last_trip_id = ?, updated_at = datetime('now')
		WHERE id = 1 AND last_trip_id < ?`
	if _, err := tx.Exec(query, id, id); err != nil {
		return pipeline.Storagef(err, "advance watermark to %d", id)
	}
	return nil
}

// GetCounters retrieves daily counters for one station over a date filter
func (r *StationDayRepository) GetCounters(stationPK int64, filter models.StationDayFilter) ([]models.StationDay, error) {
	query := `SELECT station_id, year, month, day,
		acoustic_depart, electric_depart, acoustic_arrive, electric_arrive
		FROM station_days
		WHERE station_id = ?`

	args := []interface{}{stationPK}

	if filter.From != "" {
		query += " AND printf('%04d-%02d-%02d', year, month, day) >= ?"
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += " AND printf('%04d-%02d-%02d', year, month, day) <= ?"
		args = append(args, filter.To)
	}

	limit := 1000
	if filter.Limit > 0 && filter.Limit <= 1000 {
		limit = filter.Limit
	}
	query += " ORDER BY year, month, day LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query station days: %w", err)
	}
	defer rows.Close()

	var days []models.StationDay
	for rows.Next() {
		var d models.StationDay
		err := rows.Scan(&d.StationID, &d.Year, &d.Month, &d.Day,
			&d.AcousticDepart, &d.ElectricDepart, &d.AcousticArrive, &d.ElectricArrive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan station day: %w", err)
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

// DailySummary retrieves network-wide totals per day
func (r *StationDayRepository) DailySummary(from, to string, limit int) ([]models.DailySummary, error) {
	query := `SELECT year, month, day,
		SUM(acoustic_depart), SUM(electric_depart), SUM(acoustic_arrive), SUM(electric_arrive),
		COUNT(DISTINCT station_id)
		FROM station_days
		WHERE 1=1`

	var args []interface{}
	if from != "" {
		query += " AND printf('%04d-%02d-%02d', year, month, day) >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND printf('%04d-%02d-%02d', year, month, day) <= ?"
		args = append(args, to)
	}

	if limit <= 0 || limit > 1000 {
		limit = 366
	}
	query += " GROUP BY year, month, day ORDER BY year DESC, month DESC, day DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.DailySummary
	for rows.Next() {
		var s models.DailySummary
		err := rows.Scan(&s.Year, &s.Month, &s.Day,
			&s.AcousticDepart, &s.ElectricDepart, &s.AcousticArrive, &s.ElectricArrive, &s.Stations)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
