package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.G != dynamo.G {
		t.Errorf("expected G %g, got %g", dynamo.G, cfg.G)
	}
	if cfg.Substeps != sim.DefaultSubsteps {
		t.Errorf("expected %d substeps, got %d", sim.DefaultSubsteps, cfg.Substeps)
	}
	if !cfg.Physics.Gravity || !cfg.Physics.Collision {
		t.Error("gravity and collision should start enabled")
	}
	if cfg.Display.TraceLength != DefaultTraceLength {
		t.Errorf("expected trace length %d, got %d", DefaultTraceLength, cfg.Display.TraceLength)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("triple")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.Bodies[2].Mass != 5e9 {
		t.Errorf("expected mass 5e9, got %g", cfg.Bodies[2].Mass)
	}
}

func TestGetPreset_Fresh(t *testing.T) {
	a := GetPreset("binary")
	a.Bodies[0].Mass = 99
	b := GetPreset("binary")
	if b.Bodies[0].Mass != 2 {
		t.Errorf("preset mutated through earlier copy: mass %g", b.Bodies[0].Mass)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if _, err := Scenario("nonexistent", ""); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets()
	want := []string{"binary", "cradle", "solar", "triple"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		s, err := cfg.NewSimulation()
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if len(s.Bodies()) != len(cfg.Bodies) {
			t.Errorf("preset %s: expected %d bodies, got %d", name, len(cfg.Bodies), len(s.Bodies()))
		}
	}
}

func TestSolarPlacement(t *testing.T) {
	cfg := GetPreset("solar")
	bodies, err := cfg.BuildBodies()
	if err != nil {
		t.Fatal(err)
	}
	earth := bodies[3]
	if earth.Name() != "Earth" {
		t.Fatalf("expected Earth, got %s", earth.Name())
	}
	if math.Abs(earth.Position().X()-dynamo.AU) > 1e-3 {
		t.Errorf("expected x = AU, got %g", earth.Position().X())
	}
	if math.Abs(earth.Velocity.Y()-29780) > 1e-6 || math.Abs(earth.Velocity.X()) > 1e-6 {
		t.Errorf("expected velocity (0, 29780), got %v", earth.Velocity)
	}
}

func TestVectorConfig(t *testing.T) {
	tests := []struct {
		name string
		in   VectorConfig
		x, y float64
	}{
		{"cartesian", Cartesian(3, 4), 3, 4},
		{"polar", Polar(math.Pi/2, 2), 0, 2},
		{"zero", VectorConfig{}, 0, 0},
		{"length wins", VectorConfig{X: 7, Y: 7, Angle: math.Pi, Length: 1}, -1, 0},
	}

	for _, tt := range tests {
		v := tt.in.Vector()
		if math.Abs(v.X()-tt.x) > 1e-12 || math.Abs(v.Y()-tt.y) > 1e-12 {
			t.Errorf("%s: expected (%g, %g), got (%g, %g)", tt.name, tt.x, tt.y, v.X(), v.Y())
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no bodies", func(c *Config) { c.Bodies = nil }, ErrNoBodies},
		{"bad mode", func(c *Config) { c.Mode = "leapfrog" }, ErrInvalidSetting},
		{"negative time scale", func(c *Config) { c.TimeScale = -1 }, ErrInvalidSetting},
		{"negative trace", func(c *Config) { c.Display.TraceLength = -5 }, ErrInvalidSetting},
		{"zero mass", func(c *Config) { c.Bodies[0].Mass = 0 }, dynamo.ErrInvalidMass},
		{"negative diameter", func(c *Config) { c.Bodies[1].Diameter = -1 }, dynamo.ErrInvalidDiameter},
	}

	for _, tt := range tests {
		cfg := GetPreset("binary")
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cradle.yaml")
	if err := Save(path, GetPreset("cradle")); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "cradle" || len(cfg.Bodies) != 4 {
		t.Fatalf("unexpected scenario %s with %d bodies", cfg.Name, len(cfg.Bodies))
	}
	if v := cfg.Bodies[0].Velocity.Vector(); math.Abs(v.X()-1) > 1e-12 {
		t.Errorf("expected velocity x 1, got %g", v.X())
	}
}

func TestLoadPartialDocument(t *testing.T) {
	doc := `
name: pair
mode: corrected
physics:
  collision: false
bodies:
  - name: a
    mass: 1
    position: {x: -1, y: 0}
  - name: b
    mass: 1
    diameter: 0.1
    position: {angle: 0, length: 1}
    velocity: {x: 0, y: 0.5}
`
	path := filepath.Join(t.TempDir(), "pair.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Physics.Gravity || cfg.Physics.Collision {
		t.Errorf("expected gravity on and collision off, got %+v", cfg.Physics)
	}
	if cfg.Substeps != sim.DefaultSubsteps || cfg.G != dynamo.G {
		t.Error("missing keys should keep their defaults")
	}
	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Mode != sim.ModeCorrected {
		t.Errorf("expected corrected mode, got %s", sc.Mode)
	}
	bodies, err := cfg.BuildBodies()
	if err != nil {
		t.Fatal(err)
	}
	if bodies[0].IsPlanet() || !bodies[1].IsPlanet() {
		t.Error("only the body with a diameter should be a planet")
	}
	if math.Abs(bodies[1].Position().X()-1) > 1e-12 {
		t.Errorf("expected polar position x 1, got %g", bodies[1].Position().X())
	}
}

func TestLoadRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoBodies) {
		t.Errorf("expected ErrNoBodies, got %v", err)
	}
}
