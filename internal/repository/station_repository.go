package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citycycle/tripdata-backend-go/internal/models"
)

// StationRepository handles database operations for stations
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository creates a new station repository
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Upsert creates or refreshes a station keyed by its external id and returns
// the internal id. Name and coordinates are refreshed when newly provided;
// the region assignment sticks to whatever was set first and is never
// overwritten or cleared by a later observation.
func (r *StationRepository) Upsert(externalID string, name sql.NullString, lat, lon sql.NullFloat64, regionID sql.NullInt64) (int64, error) {
	query := `INSERT INTO stations (station_id, name, latitude, longitude, region_id)
		VALUES (?, COALESCE(?, ''), ?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			name = COALESCE(NULLIF(excluded.name, ''), stations.name),
			latitude = COALESCE(excluded.latitude, stations.latitude),
			longitude = COALESCE(excluded.longitude, stations.longitude),
			region_id = COALESCE(stations.region_id, excluded.region_id),
			updated_at = datetime('now')
		RETURNING id`

	var id int64
	err := r.db.QueryRow(query, externalID, name, lat, lon, regionID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert station %s: %w", externalID, err)
	}
	return id, nil
}

// AssignRegion sets a station's region only if it is currently unassigned
func (r *StationRepository) AssignRegion(id int64, regionID int64) error {
	query := `UPDATE stations SET region_id = ?, updated_at = datetime('now')
		WHERE id = ? AND region_id IS NULL`
	if _, err := r.db.Exec(query, regionID, id); err != nil {
		return fmt.Errorf("failed to assign region to station %d: %w", id, err)
	}
	return nil
}

// GetByExternalID retrieves a station by its external id
func (r *StationRepository) GetByExternalID(externalID string) (*models.Station, error) {
	query := `SELECT s.id, s.station_id, s.name, s.latitude, s.longitude, s.region_id,
		COALESCE(r.name, '') as region_name, s.created_at, s.updated_at
		FROM stations s
		LEFT JOIN regions r ON s.region_id = r.id
		WHERE s.station_id = ?`

	var st models.Station
	err := r.db.QueryRow(query, externalID).Scan(
		&st.ID, &st.StationID, &st.Name, &st.Latitude, &st.Longitude, &st.RegionID,
		&st.RegionName, &st.CreatedAt, &st.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return &st, nil
}

// List retrieves stations with filtering and pagination
func (r *StationRepository) List(filter models.StationFilter) ([]models.Station, int64, error) {
	query := `SELECT s.id, s.station_id, s.name, s.latitude, s.longitude, s.region_id,
		COALESCE(r.name, '') as region_name, s.created_at, s.updated_at
		FROM stations s
		LEFT JOIN regions r ON s.region_id = r.id`

	var conditions []string
	var args []interface{}

	if filter.RegionID > 0 {
		conditions = append(conditions, "s.region_id = ?")
		args = append(args, filter.RegionID)
	}
	if filter.Unassigned {
		conditions = append(conditions, "s.region_id IS NULL")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM stations s"
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stations: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += " ORDER BY s.station_id LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		err := rows.Scan(
			&st.ID, &st.StationID, &st.Name, &st.Latitude, &st.Longitude, &st.RegionID,
			&st.RegionName, &st.CreatedAt, &st.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, st)
	}

	return stations, total, rows.Err()
}

// ListInEnvelope retrieves stations with coordinates inside a degree envelope
func (r *StationRepository) ListInEnvelope(minLat, maxLat, minLon, maxLon float64) ([]models.Station, error) {
	query := `SELECT s.id, s.station_id, s.name, s.latitude, s.longitude, s.region_id,
		COALESCE(r.name, '') as region_name, s.created_at, s.updated_at
		FROM stations s
		LEFT JOIN regions r ON s.region_id = r.id
		WHERE s.latitude BETWEEN ? AND ? AND s.longitude BETWEEN ? AND ?
		ORDER BY s.station_id`

	rows, err := r.db.Query(query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations in envelope: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		err := rows.Scan(
			&st.ID, &st.StationID, &st.Name, &st.Latitude, &st.Longitude, &st.RegionID,
			&st.RegionName, &st.CreatedAt, &st.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, st)
	}

	return stations, rows.Err()
}

// ListUnassignedWithCoords retrieves stations that have coordinates but no
// region, for the classification sweep. Keyset pagination on id lets the
// sweep advance past stations that stay unclassifiable.
func (r *StationRepository) ListUnassignedWithCoords(afterID int64, limit int) ([]models.Station, error) {
	query := `SELECT id, station_id, name, latitude, longitude, region_id, '', created_at, updated_at
		FROM stations
		WHERE region_id IS NULL AND latitude IS NOT NULL AND longitude IS NOT NULL AND id > ?
		ORDER BY id
		LIMIT ?`

	rows, err := r.db.Query(query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unassigned stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		err := rows.Scan(
			&st.ID, &st.StationID, &st.Name, &st.Latitude, &st.Longitude, &st.RegionID,
			&st.RegionName, &st.CreatedAt, &st.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, st)
	}

	return stations, rows.Err()
}

// CountByAssignment returns how many stations have and lack a region
func (r *StationRepository) CountByAssignment() (assigned, unassigned int64, err error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN region_id IS NOT NULL THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN region_id IS NULL THEN 1 ELSE 0 END), 0)
		FROM stations`
	if err := r.db.QueryRow(query).Scan(&assigned, &unassigned); err != nil {
		return 0, 0, fmt.Errorf("failed to count stations by assignment: %w", err)
	}
	return assigned, unassigned, nil
}
