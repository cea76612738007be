package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// build runs the binary pair for a fixed span of simulated time split into
// frames of the given dt.
func build(params map[string]float64) (*experiment.Experiment, error) {
	cfg := config.GetPreset("binary")
	cfg.Mode = sim.ModeCorrected.String()
	cfg.Physics.Collision = false
	cfg.Substeps = int(params["substeps"])
	s, err := cfg.NewSimulation()
	if err != nil {
		return nil, err
	}
	dt := params["dt"]
	exp := experiment.New(experiment.Config{Frames: int(0.4 / dt), Dt: dt, Toggles: cfg.Toggles()})
	if err := exp.Setup(s, []sim.Metric{metrics.NewEnergyDrift(cfg.G)}); err != nil {
		return nil, err
	}
	return exp, nil
}

func TestGridSearchPrefersFinerSteps(t *testing.T) {
	g := NewGridSearch([]string{"substeps", "dt"}, [][]float64{{1, 8}, {0.1, 0.01}})
	best, val, err := g.Search(context.Background(), build, "energy_drift")
	if err != nil {
		t.Fatal(err)
	}
	if best["substeps"] != 8 || best["dt"] != 0.01 {
		t.Errorf("expected the finest combination, got %v (drift %g)", best, val)
	}
}

func TestGridSearchUnknownMetric(t *testing.T) {
	g := NewGridSearch([]string{"substeps", "dt"}, [][]float64{{1}, {0.1}})
	if _, _, err := g.Search(context.Background(), build, "nope"); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"substeps", "dt"}, [][]float64{{1}, {0.1}})
	if _, _, err := g.Search(ctx, build, "energy_drift"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
