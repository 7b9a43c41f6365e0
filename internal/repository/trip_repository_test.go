package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycycle/tripdata-backend-go/internal/models"
)

func sp(s string) *string { return &s }

func sampleTrips() []models.RawTrip {
	return []models.RawTrip{
		{
			RideID:         "A",
			BikeClass:      models.BikeClassic,
			StartedAt:      sp("2024-05-01 10:00:00"),
			EndedAt:        sp("2024-05-01 10:20:00"),
			StartStationID: sp("S1"),
			EndStationID:   sp("S2"),
		},
		{
			RideID:       "B",
			BikeClass:    models.BikeElectric,
			StartedAt:    sp("2024-05-01 11:00:00"),
			EndedAt:      sp("2024-05-01 11:05:00"),
			EndStationID: sp("S1"),
		},
	}
}

func TestInsertChunkIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewTripRepository(db)

	inserted, duplicate, err := repo.InsertChunk(sampleTrips())
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
	assert.Equal(t, int64(0), duplicate)

	// Replaying the identical chunk inserts nothing
	inserted, duplicate, err = repo.InsertChunk(sampleTrips())
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
	assert.Equal(t, int64(2), duplicate)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestInsertChunkOverlap(t *testing.T) {
	db := testDB(t)
	repo := NewTripRepository(db)

	_, _, err := repo.InsertChunk(sampleTrips()[:1])
	require.NoError(t, err)

	// Overlapping chunk: one known ride, one new
	inserted, duplicate, err := repo.InsertChunk(sampleTrips())
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
	assert.Equal(t, int64(1), duplicate)
}

func TestInsertChunkDoesNotOverwrite(t *testing.T) {
	db := testDB(t)
	repo := NewTripRepository(db)

	_, _, err := repo.InsertChunk(sampleTrips()[:1])
	require.NoError(t, err)

	// A conflicting row with different fields must leave the original alone
	mutated := sampleTrips()[:1]
	mutated[0].BikeClass = models.BikeElectric
	_, duplicate, err := repo.InsertChunk(mutated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), duplicate)

	var class string
	require.NoError(t, db.QueryRow("SELECT bike_class FROM trips_raw WHERE ride_id = 'A'").Scan(&class))
	assert.Equal(t, models.BikeClassic, class)
}

func TestInsertChunkEmpty(t *testing.T) {
	db := testDB(t)
	repo := NewTripRepository(db)

	inserted, duplicate, err := repo.InsertChunk(nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Zero(t, duplicate)
}

func TestMaxID(t *testing.T) {
	db := testDB(t)
	repo := NewTripRepository(db)

	max, err := repo.MaxID()
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	_, _, err = repo.InsertChunk(sampleTrips())
	require.NoError(t, err)

	max, err = repo.MaxID()
	require.NoError(t, err)
	assert.Equal(t, int64(2), max)
}
