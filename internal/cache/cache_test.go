package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordlys/tidelight/internal/tide"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "tide_cache.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() { c.Close() })

	return c
}

func testEvents(base time.Time, n int) []tide.WaterLevel {
	events := make([]tide.WaterLevel, 0, n)

	flag := tide.FlagLow
	for i := 0; i < n; i++ {
		events = append(events, tide.WaterLevel{
			Time: base.Add(time.Duration(i) * 6 * time.Hour),
			Flag: flag,
		})

		if flag == tide.FlagLow {
			flag = tide.FlagHigh
		} else {
			flag = tide.FlagLow
		}
	}

	return events
}

func TestCache_RoundTrip(t *testing.T) {
	c := openTestCache(t)
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	events := testEvents(base, 8)

	require.NoError(t, c.Insert(events, 69.966, 23.272))

	got, err := c.QueryRange(base.Add(-time.Hour), base.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 8)

	for i, wl := range got {
		assert.True(t, wl.Time.Equal(events[i].Time), "event %d time", i)
		assert.Equal(t, events[i].Flag, wl.Flag, "event %d flag", i)

		if i > 0 {
			assert.True(t, got[i-1].Time.Before(wl.Time), "ascending order")
		}
	}
}

func TestCache_QueryRangeBounds(t *testing.T) {
	c := openTestCache(t)
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)

	require.NoError(t, c.Insert(testEvents(base, 4), 69.966, 23.272))

	// Range endpoints are inclusive.
	got, err := c.QueryRange(base, base.Add(6*time.Hour))
	require.NoError(t, err)

	assert.Len(t, got, 2)
}

func TestCache_InsertIdempotent(t *testing.T) {
	c := openTestCache(t)
	at := time.Date(2025, 6, 15, 6, 0, 0, 0, time.Local)
	event := []tide.WaterLevel{{Time: at, Flag: tide.FlagHigh}}

	require.NoError(t, c.Insert(event, 69.966, 23.272))
	require.NoError(t, c.Insert(event, 69.966, 23.272))

	got, err := c.QueryRange(at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)

	assert.Len(t, got, 1)

	has, err := c.HasDataForRange(at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, has)
}

func TestCache_DuplicateTimeKeepsFirstFlag(t *testing.T) {
	c := openTestCache(t)
	at := time.Date(2025, 6, 15, 6, 0, 0, 0, time.Local)

	require.NoError(t, c.Insert([]tide.WaterLevel{{Time: at, Flag: tide.FlagHigh}}, 1, 2))
	// Same time with a different flag is silently dropped; time is the
	// identity key.
	require.NoError(t, c.Insert([]tide.WaterLevel{{Time: at, Flag: tide.FlagLow}}, 1, 2))

	got, err := c.QueryRange(at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, tide.FlagHigh, got[0].Flag)
}

func TestCache_IsEmpty(t *testing.T) {
	c := openTestCache(t)

	empty, err := c.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty, "fresh cache is empty")

	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	require.NoError(t, c.Insert(testEvents(base, 2), 69.966, 23.272))

	empty, err = c.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty, "data plus metadata is populated")

	// Data without location metadata still counts as empty.
	require.NoError(t, c.clearLocationMetadata())

	empty, err = c.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty, "missing metadata means empty")
}

func TestCache_InvalidateAll(t *testing.T) {
	c := openTestCache(t)
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)

	require.NoError(t, c.Insert(testEvents(base, 4), 69.966, 23.272))
	require.NoError(t, c.InvalidateAll())

	empty, err := c.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	_, _, ok, err := c.CachedLocation()
	require.NoError(t, err)
	assert.False(t, ok)

	has, err := c.HasDataForRange(base, base.Add(72*time.Hour))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCache_CachedLocation(t *testing.T) {
	c := openTestCache(t)

	_, _, ok, err := c.CachedLocation()
	require.NoError(t, err)
	assert.False(t, ok, "no metadata before first insert")

	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	require.NoError(t, c.Insert(testEvents(base, 2), 69.966, 23.272))

	lat, lon, ok, err := c.CachedLocation()
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 69.966, lat, 0.0001)
	assert.InDelta(t, 23.272, lon, 0.0001)

	// Metadata is restamped on every insert.
	require.NoError(t, c.Insert(testEvents(base.Add(48*time.Hour), 2), 58.97, 5.73))

	lat, lon, ok, err = c.CachedLocation()
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 58.97, lat, 0.0001)
	assert.InDelta(t, 5.73, lon, 0.0001)
}

func TestCache_HasDataForRangeIsExistenceCheck(t *testing.T) {
	c := openTestCache(t)
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)

	// One single event inside a week-long window counts as coverage.
	require.NoError(t, c.Insert([]tide.WaterLevel{{Time: base, Flag: tide.FlagLow}}, 1, 2))

	has, err := c.HasDataForRange(base.Add(-time.Hour), base.Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.True(t, has)

	has, err = c.HasDataForRange(base.Add(time.Hour), base.Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, has)
}
