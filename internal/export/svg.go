package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/viz"
)

const brailleBlank = 0x2800

// CanvasToSVG converts a Braille canvas to SVG format. Text cells are
// skipped.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(header(width, height))
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", viz.TraceGreen.Hex()))

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < brailleBlank || r > brailleBlank+0xff {
				continue
			}
			pattern := int(r - brailleBlank)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func header(width, height float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, viz.Background.Hex())
}

// frame maps simulation metres into a width×height image with 10% padding
// around the points. y grows downwards, as on screen.
type frame struct {
	minX, minY, scale float64
	padX, padY        float64
}

func fit(points []dynamo.Vector, width, height int) frame {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !p.IsFinite() {
			continue
		}
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	if math.IsInf(minX, 1) {
		minX, maxX, minY, maxY = 0, 0, 0, 0
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	w, h := float64(width)*0.8, float64(height)*0.8
	scale := math.Min(w/rangeX, h/rangeY)
	return frame{
		minX:  minX,
		minY:  minY,
		scale: scale,
		padX:  (float64(width) - rangeX*scale) / 2,
		padY:  (float64(height) - rangeY*scale) / 2,
	}
}

func (f frame) project(p dynamo.Vector) (float64, float64) {
	return (p.X()-f.minX)*f.scale + f.padX, (p.Y()-f.minY)*f.scale + f.padY
}

// TracesOptions selects what TracesToSVG draws.
type TracesOptions struct {
	Width, Height int
	// TraceLength limits each trace to its last points; zero draws all.
	TraceLength int
	ShowNames   bool
}

// TracesToSVG draws each body's trace as a polyline fading from the
// background into the body's colour, and the body itself as a dot at its
// current position.
func TracesToSVG(bodies []*dynamo.Body, opts TracesOptions) string {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 800, 800
	}

	all := make([]dynamo.Vector, 0)
	for _, b := range bodies {
		all = append(all, tail(b, opts.TraceLength)...)
		all = append(all, b.Position())
	}
	f := fit(all, opts.Width, opts.Height)

	var sb strings.Builder
	sb.WriteString(header(float64(opts.Width), float64(opts.Height)))

	for i, b := range bodies {
		base := viz.BodyColor(i, len(bodies))
		pts := tail(b, opts.TraceLength)
		for j := 1; j < len(pts); j++ {
			if !pts[j-1].IsFinite() || !pts[j].IsFinite() {
				continue
			}
			x0, y0 := f.project(pts[j-1])
			x1, y1 := f.project(pts[j])
			sb.WriteString(fmt.Sprintf("<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
				x0, y0, x1, y1, viz.TraceShade(base, j, len(pts)).Hex()))
		}

		if !b.IsFinite() {
			continue
		}
		x, y := f.project(b.Position())
		r := math.Max(2, b.Radius()*f.scale)
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, r, base.Hex()))
		if opts.ShowNames && b.IsPlanet() {
			sb.WriteString(fmt.Sprintf("<text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
				x+r+2, y+r+12, viz.BodyWhite.Hex(), escape(b.Name())))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func tail(b *dynamo.Body, n int) []dynamo.Vector {
	if n <= 0 {
		return b.Trace()
	}
	return b.TraceTail(n)
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

// TrajectoryToSVG draws one body's recorded positions as a single path.
func TrajectoryToSVG(points []dynamo.Vector, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	f := fit(points, width, height)

	var sb strings.Builder
	sb.WriteString(header(float64(width), float64(height)))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	first := true
	for _, p := range points {
		if !p.IsFinite() {
			continue
		}
		x, y := f.project(p)
		if first {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			first = false
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
