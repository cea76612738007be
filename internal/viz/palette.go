package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Overlay colours shared by the window and SVG renderers.
var (
	Background   = colorful.Color{R: 0, G: 0, B: 0}
	BodyWhite    = colorful.Color{R: 1, G: 1, B: 1}
	TraceGreen   = colorful.Color{R: 12.0 / 255, G: 200.0 / 255, B: 12.0 / 255}
	VelocityBlue = colorful.Color{R: 0, G: 0, B: 1}
	MarkerRed    = colorful.Color{R: 1, G: 0, B: 0}
)

// DistanceAlpha is the opacity of radius lines and labels.
const DistanceAlpha = 128

// TraceAlpha is the opacity of the i-th drawn point of a trace tail; newer
// points are more opaque.
func TraceAlpha(i, traceLength int) uint8 {
	if traceLength <= 0 {
		return 255
	}
	a := float64(i) * 255 / float64(traceLength)
	return uint8(math.Max(0, math.Min(255, a)))
}

// TraceShade fades base into the background for the i-th of n trace points,
// for targets without alpha blending.
func TraceShade(base colorful.Color, i, n int) colorful.Color {
	if n <= 1 {
		return base
	}
	return Background.BlendLab(base, float64(i+1)/float64(n)).Clamped()
}

// BodyColor spreads n distinct hues around the HCL wheel.
func BodyColor(i, n int) colorful.Color {
	if n < 1 {
		n = 1
	}
	h := math.Mod(30+float64(i)*360/float64(n), 360)
	return colorful.Hcl(h, 0.6, 0.75).Clamped()
}
