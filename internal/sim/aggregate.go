package sim

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func (s *Simulation) TotalMass() float64 {
	total := 0.0
	for _, b := range s.bodies {
		total += b.Mass()
	}
	return total
}

// MaxMass returns the largest body mass, or 0 without bodies.
func (s *Simulation) MaxMass() float64 {
	m := 0.0
	for _, b := range s.bodies {
		m = math.Max(m, b.Mass())
	}
	return m
}

// Size returns the extent of the body positions along x and y.
func (s *Simulation) Size() dynamo.Vector {
	if len(s.bodies) == 0 {
		return dynamo.Vector{}
	}
	p := s.bodies[0].Position()
	minX, maxX := p.X(), p.X()
	minY, maxY := p.Y(), p.Y()
	for _, b := range s.bodies[1:] {
		p := b.Position()
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	return dynamo.FromCartesian(maxX-minX, maxY-minY)
}

// GravityCenter returns the mass-weighted centroid of all bodies.
func (s *Simulation) GravityCenter() dynamo.Vector {
	return GravityCenter(s.bodies)
}

func (s *Simulation) Momentum() dynamo.Vector { return Momentum(s.bodies) }

// Energy returns the kinetic plus pairwise gravitational potential energy.
func (s *Simulation) Energy() float64 { return Energy(s.bodies, s.cfg.G) }

// GravityCenter returns the mass-weighted centroid of bodies.
func GravityCenter(bodies []*dynamo.Body) dynamo.Vector {
	var gx, gy, total float64
	for _, b := range bodies {
		p := b.Position()
		gx += p.X() * b.Mass()
		gy += p.Y() * b.Mass()
		total += b.Mass()
	}
	if total == 0 {
		return dynamo.Vector{}
	}
	return dynamo.FromCartesian(gx/total, gy/total)
}

// Momentum returns the total linear momentum Σ m·v.
func Momentum(bodies []*dynamo.Body) dynamo.Vector {
	var px, py float64
	for _, b := range bodies {
		px += b.Mass() * b.Velocity.X()
		py += b.Mass() * b.Velocity.Y()
	}
	return dynamo.FromCartesian(px, py)
}

// Energy returns the total mechanical energy of bodies for constant g.
func Energy(bodies []*dynamo.Body, g float64) float64 {
	ke, pe := 0.0, 0.0
	for i, a := range bodies {
		ke += a.KineticEnergy()
		for _, b := range bodies[i+1:] {
			r := a.Position().Sub(b.Position()).Length()
			pe -= g * a.Mass() * b.Mass() / r
		}
	}
	return ke + pe
}
