package sim

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// pairKey identifies an unordered pair of bodies by slice index, lo < hi.
type pairKey struct {
	lo, hi int
}

func makePair(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{lo: i, hi: j}
}

// Simulation owns a set of bodies and advances them under mutual gravity
// with disc collisions. It is single-threaded: Step must return before the
// bodies are read.
type Simulation struct {
	bodies []*dynamo.Body
	cfg    Config

	// history[0] collects pairs resolved in the current sub-step; older
	// slots follow. A pair present in any slot is not resolved again.
	history [CooldownSlots]map[pairKey]struct{}

	t          float64
	collisions int

	observers          []Observer
	collisionObservers []CollisionObserver
}

// New creates a simulation over bodies. Zero fields in cfg take their
// DefaultConfig values.
func New(bodies []*dynamo.Body, cfg Config) *Simulation {
	def := DefaultConfig()
	if cfg.G == 0 {
		cfg.G = def.G
	}
	if cfg.Substeps < 1 {
		cfg.Substeps = def.Substeps
	}
	owned := make([]*dynamo.Body, len(bodies))
	copy(owned, bodies)
	return &Simulation{
		bodies:             owned,
		cfg:                cfg,
		observers:          make([]Observer, 0),
		collisionObservers: make([]CollisionObserver, 0),
	}
}

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) AddCollisionObserver(o CollisionObserver) {
	s.collisionObservers = append(s.collisionObservers, o)
}

// AddBody appends b to the simulation. Bodies are never removed.
func (s *Simulation) AddBody(b *dynamo.Body) { s.bodies = append(s.bodies, b) }

// Bodies returns the simulated bodies in insertion order. The slice is
// shared; callers must not modify it.
func (s *Simulation) Bodies() []*dynamo.Body { return s.bodies }

func (s *Simulation) Config() Config { return s.cfg }

// Time returns the simulated time advanced so far.
func (s *Simulation) Time() float64 { return s.t }

// Collisions returns the number of collisions resolved so far.
func (s *Simulation) Collisions() int { return s.collisions }

// Step advances the simulation by dt, split into Config.Substeps equal
// sub-steps of gravity, collision and integration passes.
func (s *Simulation) Step(dt float64, toggles Toggles) {
	h := dt / float64(s.cfg.Substeps)
	for k := 0; k < s.cfg.Substeps; k++ {
		if toggles.Gravity {
			s.gravity(h)
		} else if s.cfg.Mode == ModeCorrected {
			s.clearAccelerations()
		}
		if toggles.Collision {
			s.collide()
		}
		s.integrate(h)
		s.t += h
	}

	for _, o := range s.observers {
		o.OnStep(s.bodies, s.t)
	}
}

// force returns the gravitational force on a exerted by b.
func (s *Simulation) force(a, b *dynamo.Body) dynamo.Vector {
	delta := a.Position().Sub(b.Position())
	r := delta.Length()
	mag := s.cfg.G * a.Mass() * b.Mass() / (r * r)
	return dynamo.FromPolar(delta.Angle()+math.Pi, mag)
}

func (s *Simulation) gravity(h float64) {
	if s.cfg.Mode == ModeCorrected {
		s.clearAccelerations()
	}

	n := len(s.bodies)
	for i := 0; i < n; i++ {
		a := s.bodies[i]
		for j := i + 1; j < n; j++ {
			b := s.bodies[j]

			f := s.force(a, b)
			accA := f.Div(a.Mass())
			accB := f.Div(-b.Mass())

			if s.cfg.Mode == ModeCorrected {
				a.Acceleration = a.Acceleration.Add(accA)
				b.Acceleration = b.Acceleration.Add(accB)
				continue
			}

			a.Acceleration = accA
			if !a.Fixed {
				a.Velocity = a.Velocity.Add(accA.Scale(h))
			}
			b.Acceleration = accB
			if !b.Fixed {
				b.Velocity = b.Velocity.Add(accB.Scale(h))
			}
		}
	}
}

func (s *Simulation) clearAccelerations() {
	for _, b := range s.bodies {
		b.Acceleration = dynamo.Vector{}
	}
}

func (s *Simulation) collide() {
	var touched map[int]struct{}

	for i, a := range s.bodies {
		if !a.IsPlanet() {
			continue
		}
		for j, b := range s.bodies {
			if i == j || !b.IsPlanet() {
				continue
			}
			if _, ok := touched[i]; ok {
				break
			}
			if _, ok := touched[j]; ok {
				continue
			}

			delta := a.Position().Sub(b.Position())
			if !(delta.Length() < a.Radius()+b.Radius()) {
				continue
			}
			key := makePair(i, j)
			if s.cooling(key) {
				continue
			}

			resolve(a, b, delta.Angle())

			if touched == nil {
				touched = make(map[int]struct{})
			}
			touched[i] = struct{}{}
			touched[j] = struct{}{}
			if s.history[0] == nil {
				s.history[0] = make(map[pairKey]struct{})
			}
			s.history[0][key] = struct{}{}
			s.collisions++

			for _, o := range s.collisionObservers {
				o.OnCollision(a, b, s.t)
			}
		}
	}

	for k := CooldownSlots - 1; k > 0; k-- {
		s.history[k] = s.history[k-1]
	}
	s.history[0] = nil
}

func (s *Simulation) cooling(key pairKey) bool {
	for _, slot := range s.history {
		if _, ok := slot[key]; ok {
			return true
		}
	}
	return false
}

// InCooldown reports whether the pair a, b was resolved within the last
// CooldownSlots sub-steps and is still immune to re-resolution.
func (s *Simulation) InCooldown(a, b *dynamo.Body) bool {
	i, j := s.indexOf(a), s.indexOf(b)
	if i < 0 || j < 0 || i == j {
		return false
	}
	return s.cooling(makePair(i, j))
}

func (s *Simulation) indexOf(b *dynamo.Body) int {
	for i, o := range s.bodies {
		if o == b {
			return i
		}
	}
	return -1
}

// axisSplit decomposes v along the direction delta into the signed
// component on the axis and the signed component at delta-π/2.
func axisSplit(v dynamo.Vector, delta float64) (axis, carry float64) {
	theta := delta - v.Angle()
	return v.Length() * math.Cos(theta), v.Length() * math.Sin(theta)
}

// resolve applies the 1-D elastic collision formula along the line of
// centres at angle delta and keeps the perpendicular components.
func resolve(a, b *dynamo.Body, delta float64) {
	ua, ca := axisSplit(a.Velocity, delta)
	ub, cb := axisSplit(b.Velocity, delta)
	ma, mb := a.Mass(), b.Mass()

	wa := (ua*ma + (2*ub-ua)*mb) / (ma + mb)
	wb := (ub*mb + (2*ua-ub)*ma) / (mb + ma)

	perp := delta - math.Pi/2
	va := dynamo.FromPolar(perp, ca).Add(dynamo.FromPolar(delta, wa))
	vb := dynamo.FromPolar(perp, cb).Add(dynamo.FromPolar(delta, wb))

	a.Acceleration = dynamo.Vector{}
	b.Acceleration = dynamo.Vector{}
	if !a.Fixed {
		a.Velocity = va
	}
	if !b.Fixed {
		b.Velocity = vb
	}
}

func (s *Simulation) integrate(h float64) {
	for _, b := range s.bodies {
		if b.Fixed {
			continue
		}
		b.Velocity = b.Velocity.Add(b.Acceleration.Scale(h))
		b.SetPosition(b.Position().Add(b.Velocity.Scale(h)))
	}
}

// Clone returns an independent simulation with the same configuration and
// the bodies' current state. Traces, history and observers are not copied.
func (s *Simulation) Clone() *Simulation {
	bodies := make([]*dynamo.Body, len(s.bodies))
	for i, b := range s.bodies {
		bodies[i] = dynamo.MustBody(b.Spec())
	}
	return New(bodies, s.cfg)
}
