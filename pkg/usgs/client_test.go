package usgs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = `{
	"metadata": {"generated": 1756380000000, "title": "USGS Magnitude 2.5+ Earthquakes, Past Day", "count": 2},
	"features": [
		{
			"id": "us7000abcd",
			"properties": {"mag": 4.6, "place": "120 km SSE of Hachijo-jima, Japan", "time": 1756370000000},
			"geometry": {"coordinates": [140.31, 32.45, 35.0]}
		},
		{
			"id": "us7000abce",
			"properties": {"mag": 2.8, "place": "8 km NW of Ridgecrest, CA", "time": 1756360000000},
			"geometry": {"coordinates": [-117.73, 35.67, 7.1]}
		}
	]
}`

func TestQuakesAboveM25PastDay(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/earthquakes/feed/v1.0/summary/2.5_day.geojson", r.URL.Path)
		w.Write([]byte(feedBody)) //nolint:errcheck
	}))
	defer ts.Close()

	client := NewClient(WithBaseURL(ts.URL))
	feed, err := client.QuakesAboveM25PastDay(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, feed.Metadata.Count)
	require.Len(t, feed.Features, 2)
	assert.Equal(t, 4.6, feed.Features[0].Properties.Mag)
	assert.Equal(t, "8 km NW of Ridgecrest, CA", feed.Features[1].Properties.Place)
	require.Len(t, feed.Features[0].Geometry.Coordinates, 3)
	assert.Equal(t, 140.31, feed.Features[0].Geometry.Coordinates[0])
}

func TestQuakesAboveM25PastDay_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(WithBaseURL(ts.URL))
	_, err := client.QuakesAboveM25PastDay(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestQuakesAboveM25PastDay_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not geojson</html>`)) //nolint:errcheck
	}))
	defer ts.Close()

	client := NewClient(WithBaseURL(ts.URL))
	_, err := client.QuakesAboveM25PastDay(context.Background())
	assert.Error(t, err)
}
