package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Stability is the fraction of observed frames in which every body stayed
// finite and within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []*dynamo.Body, t float64) {
	s.samples++
	for _, b := range bodies {
		if !b.IsFinite() || b.Position().Magnitude() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// CenterDrift is the largest distance the gravity center moved from where
// it was first observed.
type CenterDrift struct {
	name     string
	origin   dynamo.Vector
	maxDrift float64
	samples  int
}

func NewCenterDrift() *CenterDrift {
	return &CenterDrift{name: "center_drift"}
}

func (c *CenterDrift) Name() string { return c.name }

func (c *CenterDrift) Observe(bodies []*dynamo.Body, t float64) {
	gc := sim.GravityCenter(bodies)
	if c.samples == 0 {
		c.origin = gc
	}
	c.samples++
	c.maxDrift = math.Max(c.maxDrift, gc.Sub(c.origin).Magnitude())
}

func (c *CenterDrift) Value() float64 { return c.maxDrift }

func (c *CenterDrift) Reset() {
	c.origin = dynamo.Vector{}
	c.maxDrift = 0
	c.samples = 0
}
