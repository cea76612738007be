package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

func pair() []*dynamo.Body {
	return []*dynamo.Body{
		dynamo.MustBody(dynamo.BodySpec{Mass: 2, Position: dynamo.FromCartesian(-1, 0), Velocity: dynamo.FromCartesian(0, 1)}),
		dynamo.MustBody(dynamo.BodySpec{Mass: 2, Position: dynamo.FromCartesian(1, 0), Velocity: dynamo.FromCartesian(0, -1)}),
	}
}

func TestEnergyValue(t *testing.T) {
	m := NewEnergy(1)
	bodies := pair()

	m.Observe(bodies, 0)

	// two × ½·2·1² kinetic, −1·2·2/2 potential
	expected := 2.0 - 2.0
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(1)
	bodies := pair()
	bodies[0].Velocity = dynamo.FromCartesian(0, 3)

	m.Observe(bodies, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(1)
	bodies := pair()
	bodies[0].Velocity = dynamo.FromCartesian(0, 2)

	m.Observe(bodies, 0)
	if m.Value() != 0 {
		t.Errorf("expected no drift on first frame, got %f", m.Value())
	}

	e0 := sim.Energy(bodies, 1)
	bodies[1].Velocity = dynamo.FromCartesian(0, -2)
	e1 := sim.Energy(bodies, 1)
	m.Observe(bodies, 1)

	expected := math.Abs(e1-e0) / math.Abs(e0)
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected drift %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}

	m.Observe(bodies, 2)
	m.Observe(bodies, 3)
	if m.Value() != 0 {
		t.Errorf("expected the first observation after reset as baseline, got %g", m.Value())
	}
}

func TestMomentumDrift(t *testing.T) {
	tests := []struct {
		name     string
		v0       dynamo.Vector
		v1       dynamo.Vector
		expected float64
	}{
		{"balanced start uses absolute drift", dynamo.FromCartesian(0, 1), dynamo.FromCartesian(0, 2), 2},
		{"unbalanced start is relative", dynamo.FromCartesian(0, 3), dynamo.FromCartesian(0, 4), 0.5},
	}

	for _, tt := range tests {
		m := NewMomentumDrift()
		bodies := pair()
		bodies[0].Velocity = tt.v0
		m.Observe(bodies, 0)

		bodies[0].Velocity = tt.v1
		m.Observe(bodies, 1)

		if math.Abs(m.Value()-tt.expected) > 1e-12 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.expected, m.Value())
		}
	}
}

func TestMomentumDriftConservedRun(t *testing.T) {
	s := sim.New(pair(), sim.Config{G: 1})
	m := NewMomentumDrift()
	s.AddObserver(observerFunc(m.Observe))

	for i := 0; i < 300; i++ {
		s.Step(0.01, sim.Toggles{Gravity: true})
	}

	if m.Value() > 1e-9 {
		t.Errorf("expected momentum conserved, drift %g", m.Value())
	}
}

type observerFunc func(bodies []*dynamo.Body, t float64)

func (f observerFunc) OnStep(bodies []*dynamo.Body, t float64) { f(bodies, t) }
