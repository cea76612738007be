package viz

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	// fitMargin leaves the system at 1/fitMargin of the smaller window axis.
	fitMargin = 2.5
	zoomStep  = 0.1
)

// Camera maps simulation metres to screen pixels: screen = p·Scale − Offset.
type Camera struct {
	Width, Height float64
	Scale         float64
	// OrigScale is the scale at creation; mass-scaled radii grow with
	// Scale/OrigScale.
	OrigScale float64
	Offset    dynamo.Vector
}

// CalculateScale fits a system of the given extent into the window. A zero
// extent on an axis counts as one metre.
func CalculateScale(width, height float64, size dynamo.Vector) float64 {
	sx, sy := size.X(), size.Y()
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return math.Min(width/sx/fitMargin, height/sy/fitMargin)
}

// CalculateOffset returns the offset that puts the already scaled point
// center in the middle of the window.
func CalculateOffset(center dynamo.Vector, width, height float64) dynamo.Vector {
	return center.Sub(dynamo.FromCartesian(width/2, height/2))
}

// NewCamera centres s in a width×height window. A zero scale is fitted to
// the system.
func NewCamera(width, height float64, s *sim.Simulation, scale float64) *Camera {
	if scale <= 0 {
		scale = CalculateScale(width, height, s.Size())
	}
	c := &Camera{Width: width, Height: height, Scale: scale, OrigScale: scale}
	c.Follow(s.GravityCenter())
	return c
}

// Follow centres the view on center, given in metres.
func (c *Camera) Follow(center dynamo.Vector) {
	c.Offset = CalculateOffset(center.Scale(c.Scale), c.Width, c.Height)
}

// Update applies follow-center and auto-scale for the current frame.
// Auto-scale only ever zooms out.
func (c *Camera) Update(s *sim.Simulation, d Display) {
	if d.FollowCenter {
		c.Follow(s.GravityCenter())
	}
	if d.AutoScale {
		c.Scale = math.Min(CalculateScale(c.Width, c.Height, s.Size()), c.Scale)
	}
}

func (c *Camera) ZoomIn() { c.Scale += c.Scale * zoomStep }

func (c *Camera) ZoomOut() { c.Scale -= c.Scale * zoomStep }

func (c *Camera) ToScreen(p dynamo.Vector) (float64, float64) {
	return p.X()*c.Scale - c.Offset.X(), p.Y()*c.Scale - c.Offset.Y()
}

// GridSize returns the window extent in metres.
func (c *Camera) GridSize() (float64, float64) {
	return c.Width / c.Scale, c.Height / c.Scale
}

// DrawRadius returns the on-screen radius of b, at least one pixel. Planets
// use their real diameter when realDiameter is set; otherwise the radius
// follows the mass relative to meanMass.
func (c *Camera) DrawRadius(b *dynamo.Body, meanMass float64, realDiameter bool) float64 {
	r := 1.0
	if meanMass > 0 && c.OrigScale > 0 {
		r = b.Mass() * 20 / meanMass * (c.Scale / c.OrigScale)
	}
	if b.IsPlanet() && realDiameter {
		r = b.Radius() * c.Scale
	}
	if !(r > 1) {
		r = 1
	}
	return r
}
