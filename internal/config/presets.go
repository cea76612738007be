package config

import (
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Presets builds a fresh copy of each built-in scenario.
var Presets = map[string]func() *Config{
	"solar":  solar,
	"triple": triple,
	"cradle": cradle,
	"binary": binary,
}

// orbit places a body on the +x axis at distance r (in AU) moving along +y.
func orbit(name string, diameter, mass, r, speed float64) BodyConfig {
	return BodyConfig{
		Name:     name,
		Diameter: diameter,
		Mass:     mass,
		Position: Polar(0, r*dynamo.AU),
		Velocity: Polar(math.Pi/2, speed),
	}
}

func solar() *Config {
	cfg := DefaultConfig()
	cfg.Name = "solar"
	// about eleven and a half days per second
	cfg.TimeScale = 1e6
	cfg.Bodies = []BodyConfig{
		{Name: "Sun", Diameter: 2 * 696342000, Mass: 1.9885e+30, Position: Cartesian(0, 0)},
		orbit("Mercury", 2*2439700, 3.3011e+23, 0.387098, 47360),
		orbit("Venus", 2*6051800, 4.8675e+24, 0.723332, 35020),
		orbit("Earth", 2*6371000, 5.97237e+24, 1, 29780),
		orbit("Mars", 2*3389500, 6.4171e+23, 1.666, 24007),
		orbit("Jupiter", 2*69911000, 1.8982e+27, 5.2044, 13070),
		orbit("Saturn", 2*60268000, 5.68343e+26, 9.5826, 9680),
		orbit("Uranus", 2*25362000, 8.6810e+25, 19.19126, 6800),
		orbit("Neptune", 2*24622000, 1.02413e+26, 30.07, 5430),
	}
	return cfg
}

func triple() *Config {
	cfg := DefaultConfig()
	cfg.Name = "triple"
	cfg.TimeScale = 10
	cfg.Bodies = []BodyConfig{
		{Name: "1", Diameter: 1, Mass: 5e8, Position: Cartesian(0, 0)},
		{Name: "2", Diameter: 1, Mass: 5e8, Position: Cartesian(2, 0)},
		{Name: "3", Diameter: 2, Mass: 5e9, Position: Cartesian(2, 5)},
	}
	return cfg
}

// cradle sends one body into a row of resting ones.
func cradle() *Config {
	cfg := DefaultConfig()
	cfg.Name = "cradle"
	cfg.Bodies = []BodyConfig{
		{Name: "1", Diameter: 0.5, Mass: 2, Position: Cartesian(-1, 0), Velocity: Polar(0, 1)},
		{Name: "2", Diameter: 0.5, Mass: 4, Position: Cartesian(0, 0)},
		{Name: "3", Diameter: 0.5, Mass: 2, Position: Cartesian(0.5, 0)},
		{Name: "4", Diameter: 0.5, Mass: 2, Position: Cartesian(1, 0)},
	}
	return cfg
}

// binary is two equal masses falling together under a unit G.
func binary() *Config {
	cfg := DefaultConfig()
	cfg.Name = "binary"
	cfg.G = 1
	cfg.Bodies = []BodyConfig{
		{Name: "1", Diameter: 0.5, Mass: 2, Position: Cartesian(-1, 0)},
		{Name: "2", Diameter: 0.5, Mass: 2, Position: Cartesian(1, 0)},
	}
	return cfg
}

// GetPreset returns a new copy of the named scenario, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
