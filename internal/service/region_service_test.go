package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPoint(t *testing.T) {
	env := newTestEnv(t, 100)

	r, err := env.regions.Classify(41.90, -87.65)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, int64(8), r.ID)
	assert.Equal(t, "NEAR NORTH SIDE", r.Name)

	r, err = env.regions.Classify(0, 0)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestSweepAssignsMissedStations(t *testing.T) {
	env := newTestEnv(t, 100)

	// Stations created without coordinates, then refreshed with them, never
	// got a region: the first upsert fixed region_id at NULL and coordinates
	// alone do not re-trigger classification on refresh paths that skip it.
	_, err := env.db.Exec(`INSERT INTO stations (station_id, name, latitude, longitude) VALUES
		('S1', 'In region 8', 41.90, -87.65),
		('S2', 'In region 32', 41.80, -87.63),
		('S3', 'Open water', 0.0, 0.0),
		('S4', 'No coordinates', NULL, NULL)`)
	require.NoError(t, err)

	result, err := env.regions.Sweep(1) // batch size 1 exercises the keyset loop
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Assigned)
	assert.Equal(t, int64(1), result.Unmatched)
	assert.Equal(t, int64(2), result.Remaining) // S3 and S4
	assert.Equal(t, int64(4), result.TotalKnown)

	st, err := env.stations.Get("S2")
	require.NoError(t, err)
	require.NotNil(t, st.RegionID)
	assert.Equal(t, int64(32), *st.RegionID)

	st, err = env.stations.Get("S3")
	require.NoError(t, err)
	assert.Nil(t, st.RegionID)
}

func TestSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.db.Exec(`INSERT INTO stations (station_id, name, latitude, longitude) VALUES
		('S1', 'In region 8', 41.90, -87.65)`)
	require.NoError(t, err)

	_, err = env.regions.Sweep(500)
	require.NoError(t, err)

	result, err := env.regions.Sweep(500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Assigned)
	assert.Equal(t, int64(0), result.Unmatched)
}

func TestRegionGetIncludesCentroid(t *testing.T) {
	env := newTestEnv(t, 100)

	lat1, lon1 := 41.90, -87.70
	_, err := env.stations.Upsert("S1", "A", &lat1, &lon1)
	require.NoError(t, err)
	lat2, lon2 := 41.94, -87.60
	_, err = env.stations.Upsert("S2", "B", &lat2, &lon2)
	require.NoError(t, err)

	reg, err := env.regions.Get(8)
	require.NoError(t, err)
	require.NotNil(t, reg)
	require.NotNil(t, reg.Centroid)
	assert.InDelta(t, 41.92, reg.Centroid.Lat, 1e-9)
	assert.InDelta(t, -87.65, reg.Centroid.Lon, 1e-9)

	// A region with no stations has no centroid
	reg, err = env.regions.Get(32)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Nil(t, reg.Centroid)
}

func TestRegionListCountsStations(t *testing.T) {
	env := newTestEnv(t, 100)

	lat, lon := 41.90, -87.65
	_, err := env.stations.Upsert("S1", "A", &lat, &lon)
	require.NoError(t, err)
	lat2, lon2 := 41.91, -87.66
	_, err = env.stations.Upsert("S2", "B", &lat2, &lon2)
	require.NoError(t, err)

	regions, err := env.regions.List()
	require.NoError(t, err)
	require.Len(t, regions, 2)

	byID := map[int64]int64{}
	for _, r := range regions {
		byID[r.ID] = r.StationCount
	}
	assert.Equal(t, int64(2), byID[8])
	assert.Equal(t, int64(0), byID[32])
}
