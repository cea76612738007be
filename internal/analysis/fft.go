package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// PowerSpectrum returns the magnitudes of the first half of the discrete
// Fourier transform of data, zero-padded to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(pad(data))
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

func pad(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}

// DominantPeriod returns the period of the strongest non-constant component
// of a series sampled every dt, or 0 when the series has none.
func DominantPeriod(data []float64, dt float64) float64 {
	if len(data) < 4 || dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-12 {
		return 0
	}

	n := len(ps) * 2
	freq := float64(maxIdx) / (float64(n) * dt)
	return 1 / freq
}

// OrbitalPeriod estimates how long a body takes to circle centers, given
// one position and one center per sample. Only the x offsets are analysed.
func OrbitalPeriod(positions, centers []dynamo.Vector, dt float64) float64 {
	n := len(positions)
	if len(centers) < n {
		n = len(centers)
	}
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = positions[i].X() - centers[i].X()
	}
	return DominantPeriod(xs, dt)
}
