package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	DefaultTimeScale   = 1.0
	DefaultTraceLength = 1000
	DefaultWidth       = 1920
	DefaultHeight      = 1080
)

var (
	ErrNoBodies       = errors.New("config: scenario has no bodies")
	ErrUnknownPreset  = errors.New("config: unknown preset")
	ErrInvalidSetting = errors.New("config: invalid setting")
)

// Config is one scenario document: the bodies, the engine settings and the
// initial display state.
type Config struct {
	Name      string        `yaml:"name"`
	TimeScale float64       `yaml:"time_scale"`
	G         float64       `yaml:"g"`
	Substeps  int           `yaml:"substeps"`
	Mode      string        `yaml:"mode"`
	Physics   PhysicsConfig `yaml:"physics"`
	Display   DisplayConfig `yaml:"display"`
	Bodies    []BodyConfig  `yaml:"bodies"`
}

type PhysicsConfig struct {
	Gravity   bool `yaml:"gravity"`
	Collision bool `yaml:"collision"`
}

type DisplayConfig struct {
	FollowCenter bool    `yaml:"follow_center"`
	Paused       bool    `yaml:"paused"`
	ShowVelocity bool    `yaml:"show_velocity"`
	AutoScale    bool    `yaml:"auto_scale"`
	ShowTrace    bool    `yaml:"show_trace"`
	TraceLength  int     `yaml:"trace_length"`
	ShowInfo     bool    `yaml:"show_info"`
	ShowRadius   bool    `yaml:"show_radius"`
	RealDiameter bool    `yaml:"real_diameter"`
	ShowNames    bool    `yaml:"show_names"`
	Scale        float64 `yaml:"scale,omitempty"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
}

// BodyConfig describes a body. A positive diameter makes it a planet.
type BodyConfig struct {
	Name         string       `yaml:"name,omitempty"`
	Mass         float64      `yaml:"mass"`
	Diameter     float64      `yaml:"diameter,omitempty"`
	Position     VectorConfig `yaml:"position"`
	Velocity     VectorConfig `yaml:"velocity,omitempty"`
	Acceleration VectorConfig `yaml:"acceleration,omitempty"`
	Fixed        bool         `yaml:"fixed,omitempty"`
}

// VectorConfig is written either as {x, y} or as {angle, length}. A non-zero
// length selects the polar form.
type VectorConfig struct {
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Angle  float64 `yaml:"angle,omitempty"`
	Length float64 `yaml:"length,omitempty"`
}

func Cartesian(x, y float64) VectorConfig { return VectorConfig{X: x, Y: y} }

func Polar(angle, length float64) VectorConfig { return VectorConfig{Angle: angle, Length: length} }

func (v VectorConfig) Vector() dynamo.Vector {
	if v.Length != 0 {
		return dynamo.FromPolar(v.Angle, v.Length)
	}
	return dynamo.FromCartesian(v.X, v.Y)
}

func (b BodyConfig) Spec() dynamo.BodySpec {
	return dynamo.BodySpec{
		Name:         b.Name,
		Mass:         b.Mass,
		Diameter:     b.Diameter,
		Position:     b.Position.Vector(),
		Velocity:     b.Velocity.Vector(),
		Acceleration: b.Acceleration.Vector(),
		Fixed:        b.Fixed,
	}
}

func DefaultDisplay() DisplayConfig {
	return DisplayConfig{
		Paused:       true,
		ShowVelocity: true,
		AutoScale:    true,
		ShowTrace:    true,
		TraceLength:  DefaultTraceLength,
		ShowInfo:     true,
		ShowRadius:   true,
		RealDiameter: true,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "custom",
		TimeScale: DefaultTimeScale,
		G:         dynamo.G,
		Substeps:  sim.DefaultSubsteps,
		Mode:      sim.ModeReference.String(),
		Physics:   PhysicsConfig{Gravity: true, Collision: true},
		Display:   DefaultDisplay(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders cfg as a YAML document.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Scenario returns the named preset, or the file at path when path is set.
func Scenario(name, path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Bodies) == 0 {
		return ErrNoBodies
	}
	if _, err := sim.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	if c.TimeScale < 0 || math.IsNaN(c.TimeScale) {
		return fmt.Errorf("%w: time_scale %g", ErrInvalidSetting, c.TimeScale)
	}
	if c.Substeps < 0 {
		return fmt.Errorf("%w: substeps %d", ErrInvalidSetting, c.Substeps)
	}
	if c.Display.TraceLength < 0 {
		return fmt.Errorf("%w: trace_length %d", ErrInvalidSetting, c.Display.TraceLength)
	}
	for i, b := range c.Bodies {
		if _, err := dynamo.NewBody(b.Spec()); err != nil {
			return fmt.Errorf("config: body %d: %w", i, err)
		}
	}
	return nil
}

// BuildBodies constructs fresh bodies from the scenario.
func (c *Config) BuildBodies() ([]*dynamo.Body, error) {
	if len(c.Bodies) == 0 {
		return nil, ErrNoBodies
	}
	bodies := make([]*dynamo.Body, 0, len(c.Bodies))
	for i, bc := range c.Bodies {
		b, err := dynamo.NewBody(bc.Spec())
		if err != nil {
			return nil, fmt.Errorf("config: body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func (c *Config) SimConfig() (sim.Config, error) {
	mode, err := sim.ParseMode(c.Mode)
	if err != nil {
		return sim.Config{}, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	return sim.Config{G: c.G, Substeps: c.Substeps, Mode: mode}, nil
}

func (c *Config) Toggles() sim.Toggles {
	return sim.Toggles{Gravity: c.Physics.Gravity, Collision: c.Physics.Collision}
}

// NewSimulation builds the bodies and the engine the scenario describes.
func (c *Config) NewSimulation() (*sim.Simulation, error) {
	bodies, err := c.BuildBodies()
	if err != nil {
		return nil, err
	}
	sc, err := c.SimConfig()
	if err != nil {
		return nil, err
	}
	return sim.New(bodies, sc), nil
}
