// Package clock serves the planetary dashboard: Earth conditions aggregated
// from OpenWeatherMap and USGS, and Mars conditions from NASA InSight.
package clock

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mineworks/paperminer/internal/fault"
	"github.com/mineworks/paperminer/pkg/nasa"
	"github.com/mineworks/paperminer/pkg/openweather"
	"github.com/mineworks/paperminer/pkg/usgs"
)

// Service aggregates the upstream planetary data sources.
type Service struct {
	locations []Location
	weather   openweather.Client
	quakes    usgs.Client
	insight   nasa.Client
}

// NewService creates a Service.
func NewService(locations []Location, weather openweather.Client, quakes usgs.Client, insight nasa.Client) *Service {
	return &Service{
		locations: locations,
		weather:   weather,
		quakes:    quakes,
		insight:   insight,
	}
}

// LocationNames lists the Earth sites in configuration order.
func (s *Service) LocationNames() []string {
	names := make([]string, len(s.locations))
	for i, loc := range s.locations {
		names[i] = loc.Name
	}
	return names
}

// Earth aggregates current conditions for a named site. Weather and seismic
// feeds are fetched concurrently; either failing fails the whole request as
// an upstream fault.
func (s *Service) Earth(ctx context.Context, name string) (map[string]any, error) {
	loc, ok := s.findLocation(name)
	if !ok {
		return nil, fault.Errorf(fault.NotFound, "location %q not found", name)
	}

	var (
		weather *openweather.CurrentWeather
		quakes  *usgs.FeatureCollection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := s.weather.CurrentWeather(gctx, loc.Lat, loc.Lon)
		if err != nil {
			return fault.Wrap(fault.Upstream, err, "clock: fetch weather")
		}
		weather = w
		return nil
	})
	g.Go(func() error {
		q, err := s.quakes.QuakesAboveM25PastDay(gctx)
		if err != nil {
			return fault.Wrap(fault.Upstream, err, "clock: fetch seismic feed")
		}
		quakes = q
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dayLength := weather.Sys.Sunset - weather.Sys.Sunrise
	skyMain := ""
	if len(weather.Weather) > 0 {
		skyMain = weather.Weather[0].Main
	}

	zap.L().Debug("earth conditions fetched",
		zap.String("location", loc.Name),
		zap.Int("quakes", len(quakes.Features)),
	)

	return map[string]any{
		"timeZone":    loc.Timezone,
		"sunrise":     weather.Sys.Sunrise,
		"sunset":      weather.Sys.Sunset,
		"dayLength":   fmt.Sprintf("%dH %dM", dayLength/3600, (dayLength%3600)/60),
		"seismic":     fmt.Sprintf("%d >M2.5", len(quakes.Features)),
		"wind":        fmt.Sprintf("Avg. %s m/s", fmtFloat(weather.Wind.Speed)),
		"cloudCover":  fmt.Sprintf("%d %%", weather.Clouds.All),
		"weather":     skyMain,
		"temperature": fmt.Sprintf("%s°C", fmtFloat(weather.Main.Temp)),
	}, nil
}

func (s *Service) findLocation(name string) (Location, bool) {
	for _, loc := range s.locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return Location{}, false
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
