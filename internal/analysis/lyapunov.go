package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// renormAt is the separation, in multiples of the initial one, at which the
// perturbed copy is pulled back toward the reference.
const renormAt = 1e3

// LyapunovExponent estimates the largest Lyapunov exponent of s by
// following a copy whose first body is displaced by perturbation along x.
// A positive value indicates chaos. s itself is not advanced.
//
// Algorithm:
// 1. Step the reference and the perturbed copy in lockstep
// 2. Whenever their state separation exceeds renormAt·δ0, add ln(δ/δ0)
// and rescale the difference back to δ0
// 3. λ ≈ Σ ln(δ/δ0) / t
func LyapunovExponent(s *sim.Simulation, toggles sim.Toggles, dt float64, frames int, perturbation float64) float64 {
	if len(s.Bodies()) == 0 || frames <= 0 || perturbation <= 0 {
		return 0
	}

	ref := s.Clone()
	pert := s.Clone()
	b0 := pert.Bodies()[0]
	b0.SetPosition(b0.Position().Add(dynamo.FromCartesian(perturbation, 0)))

	d0 := perturbation
	sumLog := 0.0
	t := 0.0

	for i := 0; i < frames; i++ {
		ref.Step(dt, toggles)
		pert.Step(dt, toggles)
		t += dt

		sep := separation(ref.Bodies(), pert.Bodies())
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}

		// Renormalize to prevent overflow
		if sep > renormAt*d0 {
			sumLog += math.Log(sep / d0)
			rescale(ref.Bodies(), pert.Bodies(), d0/sep)
		}
	}

	if t == 0 {
		return 0
	}
	if sep := separation(ref.Bodies(), pert.Bodies()); sep > 0 && !math.IsInf(sep, 0) {
		sumLog += math.Log(sep / d0)
	}
	return sumLog / t
}

// separation is the euclidean distance between the two phase-space states.
func separation(a, b []*dynamo.Body) float64 {
	sum := 0.0
	for i := range a {
		dp := b[i].Position().Sub(a[i].Position()).Magnitude()
		dv := b[i].Velocity.Sub(a[i].Velocity).Magnitude()
		sum += dp*dp + dv*dv
	}
	return math.Sqrt(sum)
}

func rescale(ref, pert []*dynamo.Body, scale float64) {
	for i := range pert {
		p, q := ref[i], pert[i]
		q.SetPosition(p.Position().Add(q.Position().Sub(p.Position()).Scale(scale)))
		q.Velocity = p.Velocity.Add(q.Velocity.Sub(p.Velocity).Scale(scale))
	}
}
