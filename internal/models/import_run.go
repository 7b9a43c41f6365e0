package models

// Import run status values
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ImportRun records one pipeline invocation so per-stage counts survive the process
type ImportRun struct {
	ID            string  `json:"id" db:"id"` // uuid
	Source        string  `json:"source" db:"source"`
	RowsSeen      int64   `json:"rowsSeen" db:"rows_seen"`
	RowsRejected  int64   `json:"rowsRejected" db:"rows_rejected"`
	RowsInserted  int64   `json:"rowsInserted" db:"rows_inserted"`
	RowsDuplicate int64   `json:"rowsDuplicate" db:"rows_duplicate"`
	Status        string  `json:"status" db:"status"`
	Error         *string `json:"error,omitempty" db:"error"`
	StartedAt     string  `json:"startedAt" db:"started_at"`
	FinishedAt    *string `json:"finishedAt,omitempty" db:"finished_at"`
}
