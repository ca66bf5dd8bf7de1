package nasa

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.nasa.gov"

// Client fetches Mars weather from the NASA InSight API.
type Client interface {
	InSightWeather(ctx context.Context) (*InSightWeather, error)
}

// InSightWeather is the response from GET /insight_weather/. Sol readings
// live under dynamic top-level keys, so the type carries its own unmarshaler.
type InSightWeather struct {
	SolKeys []string
	Sols    map[string]SolData
}

// SolData holds one Martian day of sensor readings. Sensors that were off
// for the sol are nil.
type SolData struct {
	AT       *Sensor `json:"AT"`  // atmospheric temperature, °C
	HWS      *Sensor `json:"HWS"` // horizontal wind speed, m/s
	PRE      *Sensor `json:"PRE"` // pressure, Pa
	Season   string  `json:"Season"`
	FirstUTC string  `json:"First_UTC"`
	LastUTC  string  `json:"Last_UTC"`
}

// Sensor aggregates readings over a sol.
type Sensor struct {
	Average float64 `json:"av"`
	Count   int     `json:"ct"`
	Min     float64 `json:"mn"`
	Max     float64 `json:"mx"`
}

// UnmarshalJSON splits sol_keys from the per-sol objects keyed by sol number.
func (w *InSightWeather) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	w.Sols = make(map[string]SolData)

	if keys, ok := raw["sol_keys"]; ok {
		if err := json.Unmarshal(keys, &w.SolKeys); err != nil {
			return eris.Wrap(err, "nasa: unmarshal sol_keys")
		}
	}

	for _, sol := range w.SolKeys {
		body, ok := raw[sol]
		if !ok {
			continue
		}
		var data SolData
		if err := json.Unmarshal(body, &data); err != nil {
			return eris.Wrapf(err, "nasa: unmarshal sol %s", sol)
		}
		w.Sols[sol] = data
	}

	return nil
}

// Latest returns the most recent sol's readings, or false when the feed
// carries no sols. The API lists sol_keys in ascending order.
func (w *InSightWeather) Latest() (string, SolData, bool) {
	if len(w.SolKeys) == 0 {
		return "", SolData{}, false
	}
	sol := w.SolKeys[len(w.SolKeys)-1]
	data, ok := w.Sols[sol]
	return sol, data, ok
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

// NewClient creates a NASA API client. The public DEMO_KEY works with
// tight rate limits.
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

func (c *httpClient) InSightWeather(ctx context.Context) (*InSightWeather, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("feedtype", "json")
	q.Set("ver", "1.0")

	endpoint := c.baseURL + "/insight_weather/?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "nasa: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nasa: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nasa: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nasa: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result InSightWeather
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "nasa: unmarshal response")
	}

	return &result, nil
}
