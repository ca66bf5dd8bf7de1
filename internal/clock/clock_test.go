package clock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineworks/paperminer/internal/fault"
	"github.com/mineworks/paperminer/pkg/nasa"
	"github.com/mineworks/paperminer/pkg/openweather"
	"github.com/mineworks/paperminer/pkg/usgs"
)

type fakeWeather struct {
	resp   *openweather.CurrentWeather
	err    error
	gotLat float64
	gotLon float64
}

func (f *fakeWeather) CurrentWeather(_ context.Context, lat, lon float64) (*openweather.CurrentWeather, error) {
	f.gotLat, f.gotLon = lat, lon
	return f.resp, f.err
}

type fakeQuakes struct {
	resp *usgs.FeatureCollection
	err  error
}

func (f *fakeQuakes) QuakesAboveM25PastDay(_ context.Context) (*usgs.FeatureCollection, error) {
	return f.resp, f.err
}

type fakeInsight struct {
	resp *nasa.InSightWeather
	err  error
}

func (f *fakeInsight) InSightWeather(_ context.Context) (*nasa.InSightWeather, error) {
	return f.resp, f.err
}

func testLocations() []Location {
	return []Location{
		{Name: "London", Lat: 51.5074, Lon: -0.1278, Timezone: "Europe/London"},
		{Name: "Tokyo", Lat: 35.6762, Lon: 139.6503, Timezone: "Asia/Tokyo"},
	}
}

func londonWeather() *openweather.CurrentWeather {
	return &openweather.CurrentWeather{
		Weather: []openweather.Condition{{Main: "Clouds", Description: "broken clouds"}},
		Main:    openweather.Main{Temp: 18.4},
		Wind:    openweather.Wind{Speed: 3.6},
		Clouds:  openweather.Clouds{All: 75},
		Sys:     openweather.Sys{Sunrise: 1756350000, Sunset: 1756398000},
	}
}

func quakeFeed(n int) *usgs.FeatureCollection {
	feed := &usgs.FeatureCollection{Metadata: usgs.Metadata{Count: n}}
	for i := 0; i < n; i++ {
		feed.Features = append(feed.Features, usgs.Feature{Properties: usgs.Properties{Mag: 3.0}})
	}
	return feed
}

func insightFeed() *nasa.InSightWeather {
	return &nasa.InSightWeather{
		SolKeys: []string{"1218", "1219"},
		Sols: map[string]nasa.SolData{
			"1218": {HWS: &nasa.Sensor{Average: 4.4}, PRE: &nasa.Sensor{Average: 721.9}, AT: &nasa.Sensor{Average: -62}},
			"1219": {HWS: &nasa.Sensor{Average: 4.8}, PRE: &nasa.Sensor{Average: 723.1}, AT: &nasa.Sensor{Average: -60.8}},
		},
	}
}

func TestLoadLocations_EmbeddedDefault(t *testing.T) {
	locations, err := LoadLocations("")
	require.NoError(t, err)
	require.NotEmpty(t, locations)
	assert.Equal(t, "London", locations[0].Name)
	assert.NotEmpty(t, locations[0].Timezone)
}

func TestLoadLocations_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.yaml")
	body := "- name: Oslo\n  lat: 59.91\n  lon: 10.75\n  tz: Europe/Oslo\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	locations, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Oslo", locations[0].Name)
	assert.Equal(t, 59.91, locations[0].Lat)
}

func TestLoadLocations_MissingFile(t *testing.T) {
	_, err := LoadLocations(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadLocations_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o644))

	_, err := LoadLocations(path)
	assert.Error(t, err)
}

func TestLocationNames(t *testing.T) {
	s := NewService(testLocations(), nil, nil, nil)
	assert.Equal(t, []string{"London", "Tokyo"}, s.LocationNames())
}

func TestEarth(t *testing.T) {
	weather := &fakeWeather{resp: londonWeather()}
	s := NewService(testLocations(), weather, &fakeQuakes{resp: quakeFeed(2)}, nil)

	got, err := s.Earth(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "Europe/London", got["timeZone"])
	assert.Equal(t, int64(1756350000), got["sunrise"])
	assert.Equal(t, int64(1756398000), got["sunset"])
	assert.Equal(t, "13H 20M", got["dayLength"])
	assert.Equal(t, "2 >M2.5", got["seismic"])
	assert.Equal(t, "Avg. 3.6 m/s", got["wind"])
	assert.Equal(t, "75 %", got["cloudCover"])
	assert.Equal(t, "Clouds", got["weather"])
	assert.Equal(t, "18.4°C", got["temperature"])

	assert.Equal(t, 51.5074, weather.gotLat)
	assert.Equal(t, -0.1278, weather.gotLon)
}

func TestEarth_CaseInsensitiveLookup(t *testing.T) {
	s := NewService(testLocations(), &fakeWeather{resp: londonWeather()}, &fakeQuakes{resp: quakeFeed(0)}, nil)

	_, err := s.Earth(context.Background(), "london")
	assert.NoError(t, err)
}

func TestEarth_UnknownLocation(t *testing.T) {
	s := NewService(testLocations(), &fakeWeather{}, &fakeQuakes{}, nil)

	_, err := s.Earth(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

func TestEarth_WeatherFailure(t *testing.T) {
	weather := &fakeWeather{err: assert.AnError}
	s := NewService(testLocations(), weather, &fakeQuakes{resp: quakeFeed(0)}, nil)

	_, err := s.Earth(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
}

func TestEarth_SeismicFailure(t *testing.T) {
	s := NewService(testLocations(), &fakeWeather{resp: londonWeather()}, &fakeQuakes{err: assert.AnError}, nil)

	_, err := s.Earth(context.Background(), "London")
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
}

func TestMars(t *testing.T) {
	s := NewService(nil, nil, nil, &fakeInsight{resp: insightFeed()})

	got, err := s.Mars(context.Background(), "GALE CRATER")
	require.NoError(t, err)

	assert.Equal(t, float64(0), got["timeOffset"])
	assert.Equal(t, "05:30", got["solarDawn"])
	assert.Equal(t, "24H 39M", got["solLength"])
	assert.Equal(t, "0 Marsquakes", got["seismic"])
	assert.Equal(t, "4.8 m/s", got["windSpeeds"])
	assert.Equal(t, "Avg. 4.8 m/s", got["localWind"])
	assert.Equal(t, "723.1 Pa", got["pressure"])
	assert.Equal(t, "-60.8° C", got["temp"])
}

func TestMars_CaseInsensitive(t *testing.T) {
	s := NewService(nil, nil, nil, &fakeInsight{resp: insightFeed()})

	_, err := s.Mars(context.Background(), "jezero crater")
	assert.NoError(t, err)
}

func TestMars_UnknownLocation(t *testing.T) {
	s := NewService(nil, nil, nil, &fakeInsight{resp: insightFeed()})

	_, err := s.Mars(context.Background(), "ELYSIUM PLANITIA")
	require.Error(t, err)
	assert.Equal(t, fault.NotFound, fault.KindOf(err))
}

func TestMars_NoSolsFallsBackToStaticData(t *testing.T) {
	s := NewService(nil, nil, nil, &fakeInsight{resp: &nasa.InSightWeather{}})

	got, err := s.Mars(context.Background(), "OLYMPUS MONS")
	require.NoError(t, err)

	assert.Equal(t, "1 Marsquake > M2.0", got["seismic"])
	assert.NotContains(t, got, "windSpeeds")
	assert.NotContains(t, got, "pressure")
	assert.NotContains(t, got, "temp")
}

func TestMars_FeedFailure(t *testing.T) {
	s := NewService(nil, nil, nil, &fakeInsight{err: assert.AnError})

	_, err := s.Mars(context.Background(), "GALE CRATER")
	require.Error(t, err)
	assert.Equal(t, fault.Upstream, fault.KindOf(err))
}

func TestHandler_Locations(t *testing.T) {
	s := NewService(testLocations(), nil, nil, nil)
	ts := httptest.NewServer(s.Handler([]string{"http://localhost:3000"}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/locations")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{"London", "Tokyo"}, names)
}

func TestHandler_Earth(t *testing.T) {
	s := NewService(testLocations(), &fakeWeather{resp: londonWeather()}, &fakeQuakes{resp: quakeFeed(1)}, nil)
	ts := httptest.NewServer(s.Handler(nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/earth/London")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "1 >M2.5", got["seismic"])
}

func TestHandler_EarthNotFound(t *testing.T) {
	s := NewService(testLocations(), &fakeWeather{}, &fakeQuakes{}, nil)
	ts := httptest.NewServer(s.Handler(nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/earth/Atlantis")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got["error"], "not found")
}

func TestHandler_EarthUpstreamFailureIs502(t *testing.T) {
	s := NewService(testLocations(), &fakeWeather{err: assert.AnError}, &fakeQuakes{resp: quakeFeed(0)}, nil)
	ts := httptest.NewServer(s.Handler(nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/earth/London")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandler_Mars(t *testing.T) {
	s := NewService(nil, nil, nil, &fakeInsight{resp: insightFeed()})
	ts := httptest.NewServer(s.Handler(nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/mars/GALE%20CRATER")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Avg. 4.8 m/s", got["localWind"])
}
