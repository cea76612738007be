package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	if c.Grid[row][col] < brailleBlank || c.Grid[row][col] > brailleBlank+0xff {
		// cell holds text
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Point sets the dot nearest to a screen position. Off-canvas and
// non-finite positions are ignored.
func (c *Canvas) Point(x, y float64) {
	w, h := c.Dots()
	if !(x >= 0 && y >= 0 && x < float64(w) && y < float64(h)) {
		return
	}
	c.Set(int(x), int(y))
}

// Line draws the part of the segment that lies on the canvas.
func (c *Canvas) Line(x0, y0, x1, y1 float64) {
	w, h := c.Dots()
	ok, ax, ay, bx, by := clip(x0, y0, x1, y1, float64(w-1), float64(h-1))
	if !ok {
		return
	}
	c.DrawLine(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)))
}

// Disc fills a circle of radius r dots. The radius is capped at the canvas
// height.
func (c *Canvas) Disc(x, y, r float64) {
	w, h := c.Dots()
	r = math.Min(r, float64(h))
	if math.IsNaN(x) || math.IsNaN(y) || x+r < 0 || y+r < 0 || x-r >= float64(w) || y-r >= float64(h) {
		return
	}
	if r < 1 {
		c.Point(x, y)
		return
	}
	for dy := -r; dy <= r; dy++ {
		half := math.Sqrt(r*r - dy*dy)
		for dx := -half; dx <= half; dx++ {
			c.Point(x+dx, y+dy)
		}
	}
}

// Text writes s into the cells starting at the cell holding dot (x, y).
// Text cells are left alone by later dots.
func (c *Canvas) Text(x, y float64, s string) {
	w, h := c.Dots()
	if !(x >= 0 && y >= 0 && x < float64(w) && y < float64(h)) {
		return
	}
	row, col := int(y)/4, int(x)/2
	for _, r := range s {
		if col >= c.Width {
			break
		}
		c.Grid[row][col] = r
		col++
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// clip is Liang–Barsky clipping of a segment to [0, maxX]×[0, maxY].
func clip(x0, y0, x1, y1, maxX, maxY float64) (bool, float64, float64, float64, float64) {
	for _, v := range []float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false, 0, 0, 0, 0
		}
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, maxX - x0, y0, maxY - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return false, 0, 0, 0, 0
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return false, 0, 0, 0, 0
		}
	}
	return true, x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
