package usgs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://earthquake.usgs.gov"

// Client fetches earthquake summary feeds from USGS.
type Client interface {
	// QuakesAboveM25PastDay fetches the M2.5+ past-day GeoJSON summary feed.
	QuakesAboveM25PastDay(ctx context.Context) (*FeatureCollection, error)
}

// FeatureCollection is a GeoJSON earthquake feed.
type FeatureCollection struct {
	Metadata Metadata  `json:"metadata"`
	Features []Feature `json:"features"`
}

// Metadata describes the feed.
type Metadata struct {
	Generated int64  `json:"generated"`
	Title     string `json:"title"`
	Count     int    `json:"count"`
}

// Feature is a single earthquake event.
type Feature struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

// Properties holds the event's magnitude, place, and time.
type Properties struct {
	Mag   float64 `json:"mag"`
	Place string  `json:"place"`
	Time  int64   `json:"time"` // unix milliseconds
}

// Geometry holds the event's [lon, lat, depth] coordinates.
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default feed base URL.
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
	baseURL string
	http    *http.Client
}

// NewClient creates a USGS feed client. The feeds are public and need no key.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) QuakesAboveM25PastDay(ctx context.Context) (*FeatureCollection, error) {
	endpoint := c.baseURL + "/earthquakes/feed/v1.0/summary/2.5_day.geojson"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "usgs: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "usgs: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "usgs: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("usgs: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result FeatureCollection
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "usgs: unmarshal response")
	}

	return &result, nil
}
