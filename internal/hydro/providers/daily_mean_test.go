package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/JeyzDFoo/brownclaw/internal/hydro"
	"github.com/JeyzDFoo/brownclaw/internal/observability"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const dailyMeanFixture = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "properties": {"DATE": "2024-12-31", "DISCHARGE": 9.1, "LEVEL": 1.02}},
		{"type": "Feature", "properties": {"DATE": "2024-12-30", "DISCHARGE": 9.3, "LEVEL": null}},
		{"type": "Feature", "properties": {"DATE": "not-a-date", "DISCHARGE": 5.0}},
		{"type": "Feature", "properties": {"DATE": "2025-01-01", "DISCHARGE": null, "LEVEL": null}}
	],
	"numberReturned": 4
}`

func TestFetchDailyMeansParsesAndSkips(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		require.Equal(t, "/collections/hydrometric-daily-mean/items", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyMeanFixture))
	}))
	defer server.Close()

	p := NewDailyMeanProvider(server.Client(), server.URL, testLogger(), observability.NewMetricsForTesting())

	start := hydro.NewDate(2024, time.December, 1)
	end := hydro.NewDate(2024, time.December, 31)
	records, err := p.FetchDailyMeans(context.Background(), "08NA011", start, end)
	require.NoError(t, err)

	// The bad-date and no-measurement features are skipped; the rest come
	// back sorted ascending regardless of upstream order.
	require.Len(t, records, 2)
	require.Equal(t, "2024-12-30", records[0].Date.String())
	require.Equal(t, "2024-12-31", records[1].Date.String())
	require.Equal(t, hydro.SourceHistorical, records[0].Source)
	require.Nil(t, records[0].LevelM)
	require.InDelta(t, 1.02, *records[1].LevelM, 1e-9)

	require.Contains(t, gotQuery, "STATION_NUMBER=08NA011")
	require.Contains(t, gotQuery, "datetime=2024-12-01%2F2024-12-31")
}

func TestFetchDailyMeansOpenRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.Query().Get("datetime"))
		_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
	}))
	defer server.Close()

	p := NewDailyMeanProvider(server.Client(), server.URL, testLogger(), observability.NewMetricsForTesting())

	records, err := p.FetchDailyMeans(context.Background(), "08NA011", hydro.Date{}, hydro.Date{})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestFetchDailyMeansUpstreamErrorIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewDailyMeanProvider(server.Client(), server.URL, testLogger(), observability.NewMetricsForTesting())

	_, err := p.FetchDailyMeans(context.Background(), "08NA011", hydro.Date{}, hydro.Date{})
	require.Error(t, err)

	var fetchErr *hydro.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, hydro.SourceHistorical, fetchErr.Source)
	require.Equal(t, "08NA011", fetchErr.StationID)
}

func TestFetchDailyMeansMalformedEnvelopeIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>definitely not geojson</html>`))
	}))
	defer server.Close()

	p := NewDailyMeanProvider(server.Client(), server.URL, testLogger(), observability.NewMetricsForTesting())

	_, err := p.FetchDailyMeans(context.Background(), "08NA011", hydro.Date{}, hydro.Date{})

	var fetchErr *hydro.FetchError
	require.True(t, errors.As(err, &fetchErr))
}
