package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycycle/tripdata-backend-go/internal/models"
)

func mergeAll(t *testing.T, repo *StationDayRepository, scope TripScope) int64 {
	t.Helper()
	tx, err := repo.DB().Begin()
	require.NoError(t, err)

	dep, err := repo.MergeDepartures(tx, scope)
	require.NoError(t, err)
	arr, err := repo.MergeArrivals(tx, scope)
	require.NoError(t, err)

	require.NoError(t, tx.Commit())
	return dep + arr
}

func TestMergeCountsByClass(t *testing.T) {
	db := testDB(t)
	stationRepo := NewStationRepository(db)
	tripRepo := NewTripRepository(db)
	dayRepo := NewStationDayRepository(db)

	stationPK, err := stationRepo.Upsert("S1", str("A"), num(41.9), num(-87.6), sql.NullInt64{})
	require.NoError(t, err)

	trips := []models.RawTrip{
		{RideID: "A", BikeClass: models.BikeClassic, StartedAt: sp("2024-05-01 10:00:00"), StartStationID: sp("S1")},
		{RideID: "B", BikeClass: models.BikeElectric, EndedAt: sp("2024-05-01 11:00:00"), EndStationID: sp("S1")},
		{RideID: "C", BikeClass: models.BikeUnknown, StartedAt: sp("2024-05-01 12:00:00"), StartStationID: sp("S1")},
	}
	_, _, err = tripRepo.InsertChunk(trips)
	require.NoError(t, err)

	mergeAll(t, dayRepo, TripScope{})

	days, err := dayRepo.GetCounters(stationPK, models.StationDayFilter{})
	require.NoError(t, err)
	require.Len(t, days, 1)

	d := days[0]
	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, 5, d.Month)
	assert.Equal(t, 1, d.Day)
	assert.Equal(t, int64(1), d.AcousticDepart)
	assert.Equal(t, int64(0), d.ElectricDepart)
	assert.Equal(t, int64(0), d.AcousticArrive)
	assert.Equal(t, int64(1), d.ElectricArrive)
}

func TestMergeIsAdditive(t *testing.T) {
	db := testDB(t)
	stationRepo := NewStationRepository(db)
	tripRepo := NewTripRepository(db)
	dayRepo := NewStationDayRepository(db)

	stationPK, err := stationRepo.Upsert("S1", str("A"), num(41.9), num(-87.6), sql.NullInt64{})
	require.NoError(t, err)

	_, _, err = tripRepo.InsertChunk([]models.RawTrip{
		{RideID: "A", BikeClass: models.BikeClassic, StartedAt: sp("2024-05-01 10:00:00"), StartStationID: sp("S1")},
	})
	require.NoError(t, err)
	mergeAll(t, dayRepo, TripScope{FromID: 0, ToID: 1})

	_, _, err = tripRepo.InsertChunk([]models.RawTrip{
		{RideID: "B", BikeClass: models.BikeClassic, StartedAt: sp("2024-05-01 14:00:00"), StartStationID: sp("S1")},
	})
	require.NoError(t, err)
	mergeAll(t, dayRepo, TripScope{FromID: 1, ToID: 2})

	days, err := dayRepo.GetCounters(stationPK, models.StationDayFilter{})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, int64(2), days[0].AcousticDepart)
}

func TestWatermark(t *testing.T) {
	db := testDB(t)
	dayRepo := NewStationDayRepository(db)

	wm, err := dayRepo.Watermark()
	require.NoError(t, err)
	assert.Equal(t, int64(0), wm)

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, dayRepo.AdvanceWatermark(tx, 42))
	require.NoError(t, tx.Commit())

	wm, err = dayRepo.Watermark()
	require.NoError(t, err)
	assert.Equal(t, int64(42), wm)

	// The watermark never moves backwards
	tx, err = db.Begin()
	require.NoError(t, err)
	require.NoError(t, dayRepo.AdvanceWatermark(tx, 10))
	require.NoError(t, tx.Commit())

	wm, err = dayRepo.Watermark()
	require.NoError(t, err)
	assert.Equal(t, int64(42), wm)
}

func TestDailySummary(t *testing.T) {
	db := testDB(t)
	stationRepo := NewStationRepository(db)
	tripRepo := NewTripRepository(db)
	dayRepo := NewStationDayRepository(db)

	_, err := stationRepo.Upsert("S1", str("A"), num(41.9), num(-87.6), sql.NullInt64{})
	require.NoError(t, err)
	_, err = stationRepo.Upsert("S2", str("B"), num(41.85), num(-87.55), sql.NullInt64{})
	require.NoError(t, err)

	_, _, err = tripRepo.InsertChunk([]models.RawTrip{
		{RideID: "A", BikeClass: models.BikeClassic, StartedAt: sp("2024-05-01 10:00:00"), StartStationID: sp("S1")},
		{RideID: "B", BikeClass: models.BikeElectric, StartedAt: sp("2024-05-01 11:00:00"), StartStationID: sp("S2")},
		{RideID: "C", BikeClass: models.BikeClassic, StartedAt: sp("2024-05-02 09:00:00"), StartStationID: sp("S1")},
	})
	require.NoError(t, err)
	mergeAll(t, dayRepo, TripScope{})

	summary, err := dayRepo.DailySummary("", "", 0)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	// Newest day first
	assert.Equal(t, 2, summary[0].Day)
	assert.Equal(t, int64(1), summary[0].AcousticDepart)
	assert.Equal(t, int64(1), summary[0].Stations)

	assert.Equal(t, 1, summary[1].Day)
	assert.Equal(t, int64(1), summary[1].AcousticDepart)
	assert.Equal(t, int64(1), summary[1].ElectricDepart)
	assert.Equal(t, int64(2), summary[1].Stations)
}
