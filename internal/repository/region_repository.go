package repository

import (
	"database/sql"
	"fmt"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
)

// RegionRepository handles database operations for regions
type RegionRepository struct {
	db *sql.DB
}

// NewRegionRepository creates a new region repository
func NewRegionRepository(db *sql.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// ReplaceAll persists the loaded region set. Runs once per process start,
// before any classification; names refresh in place so station foreign keys
// survive a reload.
func (r *RegionRepository) ReplaceAll(regions []models.Region) error {
	tx, err := r.db.Begin()
	if err != nil {
		return pipeline.Storagef(err, "begin region load")
	}

	stmt, err := tx.Prepare(`INSERT INTO regions (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`)
	if err != nil {
		tx.Rollback()
		return pipeline.Storagef(err, "prepare region insert")
	}
	defer stmt.Close()

	for _, region := range regions {
		if _, err := stmt.Exec(region.ID, region.Name); err != nil {
			tx.Rollback()
			return pipeline.Storagef(err, "insert region %d", region.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return pipeline.Storagef(err, "commit region load")
	}
	return nil
}

// List retrieves all regions with their station counts
func (r *RegionRepository) List() ([]models.Region, error) {
	query := `SELECT r.id, r.name, COUNT(s.id) as station_count
		FROM regions r
		LEFT JOIN stations s ON s.region_id = r.id
		GROUP BY r.id, r.name
		ORDER BY r.id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %w", err)
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var region models.Region
		if err := rows.Scan(&region.ID, &region.Name, &region.StationCount); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, region)
	}

	return regions, rows.Err()
}

// Get retrieves a single region by id
func (r *RegionRepository) Get(id int64) (*models.Region, error) {
	query := `SELECT r.id, r.name, COUNT(s.id) as station_count
		FROM regions r
		LEFT JOIN stations s ON s.region_id = r.id
		WHERE r.id = ?
		GROUP BY r.id, r.name`

	var region models.Region
	err := r.db.QueryRow(query, id).Scan(&region.ID, &region.Name, &region.StationCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return &region, nil
}
