package dynamo

import (
	"fmt"
	"math"
)

// BodySpec describes a body before it enters a simulation. A positive
// Diameter makes the body a planet.
type BodySpec struct {
	Name         string
	Mass         float64
	Diameter     float64
	Position     Vector
	Velocity     Vector
	Acceleration Vector
	Fixed        bool
}

// Body is a point or disc mass. Velocity, Acceleration and Fixed are plain
// fields; position writes go through SetPosition so the trace stays complete.
type Body struct {
	Velocity     Vector
	Acceleration Vector
	// Fixed bodies still receive accelerations but are never moved.
	Fixed bool

	mass     float64
	position Vector
	trace    []Vector
	name     string
	diameter float64
}

// NewBody validates spec and returns the body it describes.
func NewBody(spec BodySpec) (*Body, error) {
	if !(spec.Mass > 0) || math.IsInf(spec.Mass, 0) {
		return nil, fmt.Errorf("body %q: %w (got %g)", spec.Name, ErrInvalidMass, spec.Mass)
	}
	if spec.Diameter < 0 || math.IsNaN(spec.Diameter) || math.IsInf(spec.Diameter, 0) {
		return nil, fmt.Errorf("body %q: %w (got %g)", spec.Name, ErrInvalidDiameter, spec.Diameter)
	}
	return &Body{
		Velocity:     spec.Velocity,
		Acceleration: spec.Acceleration,
		Fixed:        spec.Fixed,
		mass:         spec.Mass,
		position:     spec.Position,
		name:         spec.Name,
		diameter:     spec.Diameter,
	}, nil
}

// NewPlanet is NewBody for a body that must have a name and a diameter.
func NewPlanet(name string, diameter float64, spec BodySpec) (*Body, error) {
	if !(diameter > 0) {
		return nil, fmt.Errorf("planet %q: %w (got %g)", name, ErrInvalidDiameter, diameter)
	}
	spec.Name = name
	spec.Diameter = diameter
	return NewBody(spec)
}

// MustBody is NewBody for static presets; it panics on invalid input.
func MustBody(spec BodySpec) *Body {
	b, err := NewBody(spec)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) Position() Vector { return b.position }

// SetPosition records the current position in the trace, then moves the body.
func (b *Body) SetPosition(p Vector) {
	b.trace = append(b.trace, b.position)
	b.position = p
}

// Trace returns the visited positions, oldest first. The slice is shared
// with the body; callers must not modify it.
func (b *Body) Trace() []Vector { return b.trace }

// TraceTail returns at most the last n trace points.
func (b *Body) TraceTail(n int) []Vector {
	if n < 0 || n >= len(b.trace) {
		return b.trace
	}
	return b.trace[len(b.trace)-n:]
}

func (b *Body) Name() string { return b.name }

// Diameter returns the physical diameter, or 0 for a point mass.
func (b *Body) Diameter() float64 { return b.diameter }

// IsPlanet reports whether the body has a diameter and therefore collides.
func (b *Body) IsPlanet() bool { return b.diameter > 0 }

// Radius returns the collision radius, or 0 for a point mass.
func (b *Body) Radius() float64 { return b.diameter / 2 }

// Momentum returns mass × velocity.
func (b *Body) Momentum() Vector { return b.Velocity.Scale(b.mass) }

// KineticEnergy returns ½·m·|v|².
func (b *Body) KineticEnergy() float64 {
	v := b.Velocity.Magnitude()
	return 0.5 * b.mass * v * v
}

// IsFinite reports whether position, velocity and acceleration are all finite.
func (b *Body) IsFinite() bool {
	return b.position.IsFinite() && b.Velocity.IsFinite() && b.Acceleration.IsFinite()
}

// Spec returns a descriptor that rebuilds this body in its current state,
// without its trace.
func (b *Body) Spec() BodySpec {
	return BodySpec{
		Name:         b.name,
		Mass:         b.mass,
		Diameter:     b.diameter,
		Position:     b.position,
		Velocity:     b.Velocity,
		Acceleration: b.Acceleration,
		Fixed:        b.Fixed,
	}
}

func (b *Body) String() string {
	if b.name != "" {
		return b.name
	}
	return fmt.Sprintf("body(m=%g)", b.mass)
}
