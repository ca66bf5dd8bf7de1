package clock

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var defaultLocationsYAML []byte

// Location is an Earth observation site.
type Location struct {
	Name     string  `yaml:"name"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
	Timezone string  `yaml:"tz"`
}

// LoadLocations reads the location list from path, or the embedded default
// set when path is empty.
func LoadLocations(path string) ([]Location, error) {
	raw := defaultLocationsYAML
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "clock: read locations file %s", path)
		}
	}

	var locations []Location
	if err := yaml.Unmarshal(raw, &locations); err != nil {
		return nil, eris.Wrap(err, "clock: parse locations")
	}
	if len(locations) == 0 {
		return nil, eris.New("clock: no locations defined")
	}
	return locations, nil
}
