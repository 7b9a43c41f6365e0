package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citycycle/tripdata-backend-go/internal/models"
	"github.com/citycycle/tripdata-backend-go/internal/pipeline"
	"github.com/citycycle/tripdata-backend-go/internal/schema"
)

func countersFor(t *testing.T, env *testEnv, externalID string) []models.StationDay {
	t.Helper()
	st, err := env.stations.Get(externalID)
	require.NoError(t, err)
	require.NotNil(t, st)

	days, err := env.dayRepo.GetCounters(st.ID, models.StationDayFilter{})
	require.NoError(t, err)
	return days
}

func TestAggregateFoldsCounters(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.importer.LoadBatch(sampleBatch())
	require.NoError(t, err)

	result, err := env.aggregate.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TripsFolded)
	assert.Equal(t, int64(2), result.Watermark)

	days := countersFor(t, env, "S1")
	require.Len(t, days, 1)
	d := days[0]
	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, 5, d.Month)
	assert.Equal(t, 1, d.Day)
	assert.Equal(t, int64(1), d.AcousticDepart) // R1 departs S1 on a classic bike
	assert.Equal(t, int64(0), d.ElectricDepart)
	assert.Equal(t, int64(0), d.AcousticArrive)
	assert.Equal(t, int64(1), d.ElectricArrive) // R2 arrives at S1 on an electric bike
}

func TestAggregateIsIdempotent(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.importer.LoadBatch(sampleBatch())
	require.NoError(t, err)
	_, err = env.aggregate.Aggregate()
	require.NoError(t, err)

	before := countersFor(t, env, "S1")

	result, err := env.aggregate.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TripsFolded)
	assert.Equal(t, int64(2), result.Watermark)

	assert.Equal(t, before, countersFor(t, env, "S1"))
}

func TestAggregateFoldsOnlyNewTrips(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.importer.LoadBatch(sampleBatch())
	require.NoError(t, err)
	_, err = env.aggregate.Aggregate()
	require.NoError(t, err)

	// A replayed row plus one genuinely new trip; only the new row folds.
	batch := append(sampleBatch(), schema.Record{
		RideID:         "R3",
		RideableType:   "classic_bike",
		StartedAt:      "2024-05-01 12:00:00",
		StartStationID: "S1",
		StartLat:       "41.90",
		StartLng:       "-87.65",
	})
	stats, err := env.importer.LoadBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Inserted)
	assert.Equal(t, int64(2), stats.Duplicate)

	result, err := env.aggregate.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TripsFolded)

	// Conflict-ignored replays still burn autoincrement ids, so the
	// watermark tracks max(id), not the row count
	maxID, err := env.tripRepo.MaxID()
	require.NoError(t, err)
	assert.Equal(t, maxID, result.Watermark)
	assert.Greater(t, result.Watermark, int64(2))

	days := countersFor(t, env, "S1")
	require.Len(t, days, 1)
	assert.Equal(t, int64(2), days[0].AcousticDepart)
	assert.Equal(t, int64(1), days[0].ElectricArrive)
}

func TestAggregateWindowDisjointDays(t *testing.T) {
	env := newTestEnv(t, 100)

	batch := []schema.Record{
		{RideID: "D1A", RideableType: "classic_bike", StartedAt: "2024-05-01 08:00:00",
			StartStationID: "S1", StartLat: "41.90", StartLng: "-87.65"},
		{RideID: "D1B", RideableType: "electric_bike", StartedAt: "2024-05-01 09:00:00",
			StartStationID: "S1"},
		{RideID: "D2A", RideableType: "classic_bike", StartedAt: "2024-05-02 08:00:00",
			StartStationID: "S1"},
		{RideID: "D2B", RideableType: "classic_bike", StartedAt: "2024-05-02 09:00:00",
			StartStationID: "S1"},
	}
	_, err := env.importer.LoadBatch(batch)
	require.NoError(t, err)

	_, err = env.aggregate.AggregateWindow("2024-05-01", "2024-05-01")
	require.NoError(t, err)
	result, err := env.aggregate.AggregateWindow("2024-05-02", "2024-05-02")
	require.NoError(t, err)

	// Windowed passes leave the watermark alone
	assert.Equal(t, int64(0), result.Watermark)

	days := countersFor(t, env, "S1")
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, int64(1), days[0].AcousticDepart)
	assert.Equal(t, int64(1), days[0].ElectricDepart)
	assert.Equal(t, 2, days[1].Day)
	assert.Equal(t, int64(2), days[1].AcousticDepart)
	assert.Equal(t, int64(0), days[1].ElectricDepart)
}

func TestAggregateWindowValidation(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.aggregate.AggregateWindow("05/01/2024", "")
	assert.True(t, pipeline.IsValidation(err))

	_, err = env.aggregate.AggregateWindow("2024-05-02", "2024-05-01")
	assert.True(t, pipeline.IsValidation(err))
}

func TestAggregateEmptyTable(t *testing.T) {
	env := newTestEnv(t, 100)

	result, err := env.aggregate.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TripsFolded)
	assert.Equal(t, int64(0), result.Watermark)
	assert.Equal(t, int64(0), result.StationDays)
}
