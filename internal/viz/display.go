package viz

import (
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

// Display holds the view toggles. Renderers read it every frame.
type Display struct {
	FollowCenter bool
	Paused       bool
	ShowVelocity bool
	AutoScale    bool
	ShowTrace    bool
	ShowInfo     bool
	ShowRadius   bool
	RealDiameter bool
	ShowNames    bool
	TraceLength  int
}

func NewDisplay(c config.DisplayConfig) Display {
	return Display{
		FollowCenter: c.FollowCenter,
		Paused:       c.Paused,
		ShowVelocity: c.ShowVelocity,
		AutoScale:    c.AutoScale,
		ShowTrace:    c.ShowTrace,
		ShowInfo:     c.ShowInfo,
		ShowRadius:   c.ShowRadius,
		RealDiameter: c.RealDiameter,
		ShowNames:    c.ShowNames,
		TraceLength:  c.TraceLength,
	}
}

// Controls is everything a key press can switch: the view toggles and the
// physics passes handed to Simulation.Step.
type Controls struct {
	Display Display
	Physics sim.Toggles
}

func NewControls(cfg *config.Config) Controls {
	return Controls{
		Display: NewDisplay(cfg.Display),
		Physics: cfg.Toggles(),
	}
}

// Toggle flips the setting bound to key and reports whether key is bound.
func (c *Controls) Toggle(key string) bool {
	d := &c.Display
	switch key {
	case "f":
		d.FollowCenter = !d.FollowCenter
	case "p":
		d.Paused = !d.Paused
	case "v":
		d.ShowVelocity = !d.ShowVelocity
	case "g":
		c.Physics.Gravity = !c.Physics.Gravity
	case "a":
		d.AutoScale = !d.AutoScale
	case "c":
		c.Physics.Collision = !c.Physics.Collision
	case "t":
		d.ShowTrace = !d.ShowTrace
	case "i":
		d.ShowInfo = !d.ShowInfo
	case "d":
		d.RealDiameter = !d.RealDiameter
	case "r":
		d.ShowRadius = !d.ShowRadius
	case "n":
		d.ShowNames = !d.ShowNames
	default:
		return false
	}
	return true
}

// InfoLines returns the info overlay, one toggle per line.
func (c Controls) InfoLines(fps, scale float64) []string {
	d := c.Display
	return []string{
		fmt.Sprintf("FPS: %.1f", fps),
		fmt.Sprintf("Gravity: %t", c.Physics.Gravity),
		fmt.Sprintf("Collision: %t", c.Physics.Collision),
		fmt.Sprintf("scale: %g", scale),
		fmt.Sprintf("Auto-scale: %t", d.AutoScale),
		fmt.Sprintf("real Diameter: %t", d.RealDiameter),
		fmt.Sprintf("Pause: %t", d.Paused),
		fmt.Sprintf("Follow center: %t", d.FollowCenter),
		fmt.Sprintf("show Velocity: %t", d.ShowVelocity),
		fmt.Sprintf("show Radius: %t", d.ShowRadius),
		fmt.Sprintf("show Trace: %t", d.ShowTrace),
		fmt.Sprintf("show Names: %t", d.ShowNames),
	}
}

// VelocityLabel formats a speed rounded to three decimals.
func VelocityLabel(speed float64) string {
	return strconv.FormatFloat(math.Round(speed*1000)/1000, 'f', -1, 64) + " m/s"
}

// RadiusLabel formats a distance to the gravity center rounded to two
// decimals.
func RadiusLabel(meters float64) string {
	return "r=" + strconv.FormatFloat(math.Round(meters*100)/100, 'g', -1, 64) + "m"
}
