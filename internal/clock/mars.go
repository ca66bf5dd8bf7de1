package clock

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/fault"
)

// marsSite carries the fixed per-site characteristics. Live sensor readings
// from the InSight lander are merged in when the feed has recent sols.
type marsSite struct {
	TimeOffset float64
	SolarDawn  string
	SolLength  string
	Seismic    string
}

var marsSites = map[string]marsSite{
	"GALE CRATER": {
		TimeOffset: 0,
		SolarDawn:  "05:30",
		SolLength:  "24H 39M",
		Seismic:    "0 Marsquakes",
	},
	"JEZERO CRATER": {
		TimeOffset: 0.5,
		SolarDawn:  "05:45",
		SolLength:  "24H 39M",
		Seismic:    "0 Marsquakes",
	},
	"OLYMPUS MONS": {
		TimeOffset: -2.0,
		SolarDawn:  "06:00",
		SolLength:  "24H 39M",
		Seismic:    "1 Marsquake > M2.0",
	},
	"VALLES MARINERIS": {
		TimeOffset: 1.0,
		SolarDawn:  "05:00",
		SolLength:  "24H 39M",
		Seismic:    "0 Marsquakes",
	},
}

// Mars returns conditions for a named Mars site: the site's fixed
// characteristics, plus the latest sol's sensor averages when the InSight
// feed has them. A feed with no sols falls back to the fixed data alone.
func (s *Service) Mars(ctx context.Context, name string) (map[string]any, error) {
	site, ok := marsSites[strings.ToUpper(name)]
	if !ok {
		return nil, fault.Errorf(fault.NotFound, "location %q not found", name)
	}

	weather, err := s.insight.InSightWeather(ctx)
	if err != nil {
		return nil, fault.Wrap(fault.Upstream, err, "clock: fetch mars weather")
	}

	out := map[string]any{
		"timeOffset": site.TimeOffset,
		"solarDawn":  site.SolarDawn,
		"solLength":  site.SolLength,
		"seismic":    site.Seismic,
	}

	sol, data, ok := weather.Latest()
	if !ok {
		zap.L().Warn("insight feed has no sols, serving static site data",
			zap.String("location", name),
		)
		return out, nil
	}

	if data.HWS != nil {
		out["windSpeeds"] = fmt.Sprintf("%s m/s", fmtFloat(data.HWS.Average))
		out["localWind"] = fmt.Sprintf("Avg. %s m/s", fmtFloat(data.HWS.Average))
	}
	if data.PRE != nil {
		out["pressure"] = fmt.Sprintf("%s Pa", fmtFloat(data.PRE.Average))
	}
	if data.AT != nil {
		out["temp"] = fmt.Sprintf("%s° C", fmtFloat(data.AT.Average))
	}

	zap.L().Debug("mars conditions fetched", zap.String("location", name), zap.String("sol", sol))
	return out, nil
}
