// Package analysis provides orbit and dynamics analysis tools.
//
// The package includes tools for characterizing a gravitational system:
//
//   - [PowerSpectrum]: magnitude spectrum of a sampled series
//   - [DominantPeriod]: period of the strongest oscillation in a series
//   - [OrbitalPeriod]: period of a body around the gravity center
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(s, sim.AllOn(), dt, frames, 1e-6)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
