package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordlys/tidelight/internal/testutil"
	"github.com/fjordlys/tidelight/internal/tide"
)

const sampleResponse = `<?xml version="1.0" encoding="UTF-8"?>
<tide>
  <locationdata>
    <location name="Alta" code="ALT" latitude="69.966000" longitude="23.272000"/>
    <data type="prediction" unit="cm">
      <waterlevel value="212.4" time="2025-06-15T03:11:00+02:00" flag="high"/>
      <waterlevel value="82.1" time="2025-06-15T09:24:00+02:00" flag="low"/>
      <waterlevel value="205.9" time="2025-06-15T15:38:00+02:00" flag="high"/>
      <waterlevel value="88.0" time="2025-06-15T21:47:00+02:00" flag="slack"/>
    </data>
  </locationdata>
</tide>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(testutil.NewTestLogger(), Config{BaseURL: srv.URL})
	require.NoError(t, err)

	return client
}

func TestFetchWaterLevels(t *testing.T) {
	var gotQuery map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()

		w.Write([]byte(sampleResponse))
	})
	client.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	}

	levels, err := client.FetchWaterLevels(testutil.NewTestContext(t), 69.966, 23.272, 1, 7)
	require.NoError(t, err)

	// The unknown "slack" flag is skipped.
	require.Len(t, levels, 3)

	// Zone offsets are dropped, keeping the wall-clock value in local time.
	assert.Equal(t, time.Date(2025, 6, 15, 3, 11, 0, 0, time.Local), levels[0].Time)
	assert.Equal(t, tide.FlagHigh, levels[0].Flag)
	assert.Equal(t, tide.FlagLow, levels[1].Flag)

	assert.Equal(t, "locationdata", gotQuery["tide_request"][0])
	assert.Equal(t, "69.966", gotQuery["lat"][0])
	assert.Equal(t, "23.272", gotQuery["lon"][0])
	assert.Equal(t, "tab", gotQuery["datatype"][0])
	assert.Equal(t, "2025-06-14T12:00", gotQuery["fromtime"][0])
	assert.Equal(t, "2025-06-22T12:00", gotQuery["totime"][0])
}

func TestFetchWaterLevels_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.FetchWaterLevels(testutil.NewTestContext(t), 69.966, 23.272, 1, 7)

		assert.ErrorContains(t, err, "unexpected status code")
	})

	t.Run("malformed XML", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<tide><locationdata>"))
		})

		_, err := client.FetchWaterLevels(testutil.NewTestContext(t), 69.966, 23.272, 1, 7)

		assert.ErrorContains(t, err, "parse XML")
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`<tide><locationdata><data><waterlevel time="yesterday" flag="high"/></data></locationdata></tide>`))
		})

		_, err := client.FetchWaterLevels(testutil.NewTestContext(t), 69.966, 23.272, 1, 7)

		assert.ErrorContains(t, err, "parse waterlevel time")
	})
}

func TestParseNaiveTime(t *testing.T) {
	t.Run("with zone offset", func(t *testing.T) {
		ts, err := parseNaiveTime("2025-06-15T03:11:00+02:00")
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 6, 15, 3, 11, 0, 0, time.Local), ts)
	})

	t.Run("without zone offset", func(t *testing.T) {
		ts, err := parseNaiveTime("2025-06-15T03:11:00")
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 6, 15, 3, 11, 0, 0, time.Local), ts)
	})
}
