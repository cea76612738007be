package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

func color(c colorful.Color, alpha uint8) rl.Color {
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, alpha)
}

var (
	colBody     = color(viz.BodyWhite, 255)
	colVelocity = color(viz.VelocityBlue, 255)
	colMarker   = color(viz.MarkerRed, 255)
	colDistance = color(viz.MarkerRed, viz.DistanceAlpha)
	colInfo     = color(viz.BodyWhite, 255)
)

func screen(c *viz.Camera, p dynamo.Vector) rl.Vector2 {
	x, y := c.ToScreen(p)
	return rl.NewVector2(float32(x), float32(y))
}

// Draw renders one frame: traces and overlays first, bodies above them,
// then the gravity center and info text on top.
func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(color(viz.Background, 255))

	bodies := a.Sim.Bodies()
	if len(bodies) == 0 {
		return
	}
	d := a.Controls.Display
	meanMass := a.Sim.TotalMass() / float64(len(bodies))
	gc := screen(a.Camera, a.Sim.GravityCenter())

	if d.ShowTrace {
		for _, b := range bodies {
			a.drawTrace(b, d.TraceLength)
		}
	}

	for _, b := range bodies {
		pos := screen(a.Camera, b.Position())
		r := float32(a.Camera.DrawRadius(b, meanMass, d.RealDiameter))

		if d.ShowRadius {
			a.drawRadius(gc, pos)
		}
		if d.ShowVelocity {
			tip := dynamo.FromPolar(b.Velocity.Angle(), float64(2*r))
			rl.DrawLineV(pos, rl.NewVector2(pos.X+float32(tip.X()), pos.Y+float32(tip.Y())), colVelocity)
			rl.DrawText(viz.VelocityLabel(b.Velocity.Length()), int32(pos.X+r), int32(pos.Y-r), fontSize, colVelocity)
		}
		if d.ShowNames && b.IsPlanet() {
			rl.DrawText(b.Name(), int32(pos.X+r), int32(pos.Y+r), fontSize, colMarker)
		}
	}

	for _, b := range bodies {
		r := float32(a.Camera.DrawRadius(b, meanMass, d.RealDiameter))
		rl.DrawCircleV(screen(a.Camera, b.Position()), r, colBody)
	}

	rl.DrawCircleV(gc, 2, colMarker)

	if d.ShowInfo {
		for i, line := range a.Controls.InfoLines(float64(rl.GetFPS()), a.Camera.Scale) {
			rl.DrawText(line, 0, int32(i*fontSize), fontSize, colInfo)
		}
	}
}

// drawTrace fades the trace in from transparent to the trace colour.
func (a *App) drawTrace(b *dynamo.Body, traceLength int) {
	for i, p := range b.TraceTail(traceLength) {
		rl.DrawCircleV(screen(a.Camera, p), 1, color(viz.TraceGreen, viz.TraceAlpha(i, traceLength)))
	}
}

func (a *App) drawRadius(gc, pos rl.Vector2) {
	rl.DrawLineV(gc, pos, colDistance)
	radius := dynamo.FromCartesian(float64(gc.X-pos.X), float64(gc.Y-pos.Y))
	mid := dynamo.FromCartesian(float64(gc.X), float64(gc.Y)).Sub(radius.Div(2))
	rl.DrawText(viz.RadiusLabel(radius.Length()/a.Camera.Scale), int32(mid.X()), int32(mid.Y()), fontSize, colDistance)
}
