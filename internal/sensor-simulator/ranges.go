package sensor_simulator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Range describes how one metric is sampled: uniformly in [Min, Max], rounded to Decimals.
type Range struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Decimals int     `yaml:"decimals"`
}

// Ranges holds the sampling configuration of every simulated metric.
type Ranges struct {
	PH         Range `yaml:"ph"`
	TDS        Range `yaml:"tds"`
	Voltage    Range `yaml:"voltage"`
	FlowRate   Range `yaml:"flow_rate"`
	TurbineRPM Range `yaml:"turbine_rpm"`
}

// domain limits: a ranges file may narrow these, never widen them.
var domains = Ranges{
	PH:         Range{Min: 6.0, Max: 8.5, Decimals: 1},
	TDS:        Range{Min: 50, Max: 300, Decimals: 0},
	Voltage:    Range{Min: 0.5, Max: 5.0, Decimals: 2},
	FlowRate:   Range{Min: 0.1, Max: 1.5, Decimals: 2},
	TurbineRPM: Range{Min: 100, Max: 600, Decimals: 0},
}

// DefaultRanges returns the factory sampling ranges of the AquaStep device.
func DefaultRanges() Ranges {
	return domains
}

// LoadRanges reads a YAML ranges file. Metrics missing from the file keep their defaults.
func LoadRanges(path string) (Ranges, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Ranges{}, fmt.Errorf("read ranges file: %w", err)
	}

	// decode over the defaults so a partial file only overrides what it names
	r := DefaultRanges()
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return Ranges{}, fmt.Errorf("parse ranges file: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Ranges{}, err
	}
	return r, nil
}

// Validate checks every metric against its declared domain.
func (r Ranges) Validate() error {
	checks := []struct {
		name     string
		got, dom Range
		integral bool
	}{
		{"ph", r.PH, domains.PH, false},
		{"tds", r.TDS, domains.TDS, true},
		{"voltage", r.Voltage, domains.Voltage, false},
		{"flow_rate", r.FlowRate, domains.FlowRate, false},
		{"turbine_rpm", r.TurbineRPM, domains.TurbineRPM, true},
	}
	for _, c := range checks {
		if c.got.Min > c.got.Max {
			return fmt.Errorf("%s: min %v greater than max %v", c.name, c.got.Min, c.got.Max)
		}
		if c.got.Min < c.dom.Min || c.got.Max > c.dom.Max {
			return fmt.Errorf("%s: range [%v, %v] outside domain [%v, %v]",
				c.name, c.got.Min, c.got.Max, c.dom.Min, c.dom.Max)
		}
		if c.got.Decimals < 0 || c.got.Decimals > c.dom.Decimals {
			return fmt.Errorf("%s: decimals %d not in [0, %d]", c.name, c.got.Decimals, c.dom.Decimals)
		}
		if c.integral && c.got.Decimals != 0 {
			return fmt.Errorf("%s: integer metric cannot have decimals", c.name)
		}
	}
	return nil
}
