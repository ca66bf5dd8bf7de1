package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Client fetches current weather conditions from OpenWeatherMap.
type Client interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (*CurrentWeather, error)
}

// CurrentWeather is the response from GET /data/2.5/weather.
type CurrentWeather struct {
	Weather  []Condition `json:"weather"`
	Main     Main        `json:"main"`
	Wind     Wind        `json:"wind"`
	Clouds   Clouds      `json:"clouds"`
	Sys      Sys         `json:"sys"`
	Timezone int         `json:"timezone"` // shift from UTC in seconds
	Name     string      `json:"name"`
}

// Condition describes the sky state.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Main carries temperature and pressure readings.
type Main struct {
	Temp     float64 `json:"temp"`
	Pressure float64 `json:"pressure"`
	Humidity int     `json:"humidity"`
}

// Wind carries wind readings.
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

// Clouds carries cloud coverage.
type Clouds struct {
	All int `json:"all"` // percent
}

// Sys carries sunrise and sunset as unix timestamps.
type Sys struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an OpenWeatherMap API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CurrentWeather fetches metric-unit conditions at the given coordinates.
func (c *httpClient) CurrentWeather(ctx context.Context, lat, lon float64) (*CurrentWeather, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	endpoint := c.baseURL + "/data/2.5/weather?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "openweather: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "openweather: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openweather: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("openweather: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result CurrentWeather
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "openweather: unmarshal response")
	}

	return &result, nil
}
