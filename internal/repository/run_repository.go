package repository

import (
	"database/sql"
	"fmt"

	"github.com/citycycle/tripdata-backend-go/internal/models"
)

// RunRepository handles database operations for import runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create records the start of an import run
func (r *RunRepository) Create(id, source string) error {
	query := `INSERT INTO import_runs (id, source, status) VALUES (?, ?, ?)`
	if _, err := r.db.Exec(query, id, source, models.RunRunning); err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}
	return nil
}

// Finish records the outcome of an import run
func (r *RunRepository) Finish(id string, stats models.LoadStats, runErr error) error {
	status := models.RunCompleted
	var errText sql.NullString
	if runErr != nil {
		status = models.RunFailed
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	query := `UPDATE import_runs SET
		rows_seen = ?, rows_rejected = ?, rows_inserted = ?, rows_duplicate = ?,
		status = ?, error = ?, finished_at = datetime('now')
		WHERE id = ?`
	if _, err := r.db.Exec(query, stats.Seen, stats.Rejected, stats.Inserted, stats.Duplicate,
		status, errText, id); err != nil {
		return fmt.Errorf("failed to finish import run: %w", err)
	}
	return nil
}

// List retrieves recent import runs, newest first
func (r *RunRepository) List(limit int) ([]models.ImportRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := `SELECT id, source, rows_seen, rows_rejected, rows_inserted, rows_duplicate,
		status, error, started_at, finished_at
		FROM import_runs
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		err := rows.Scan(&run.ID, &run.Source, &run.RowsSeen, &run.RowsRejected,
			&run.RowsInserted, &run.RowsDuplicate, &run.Status, &run.Error,
			&run.StartedAt, &run.FinishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
