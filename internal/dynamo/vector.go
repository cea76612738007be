package dynamo

import (
	"fmt"
	"math"
)

const (
	// G is the gravitational constant in m³/(kg·s²).
	G = 6.67408e-11

	// AU is one astronomical unit in meters.
	AU = 149597870700.0

	twoPi = 2 * math.Pi
)

// Vector is a 2D vector stored in cartesian and polar form at once.
// The zero value is the zero vector with angle 0.
type Vector struct {
	x, y          float64
	angle, length float64
}

// FromCartesian builds a vector from its x and y components.
func FromCartesian(x, y float64) Vector {
	v := Vector{x: x, y: y}
	v.fromCartesian()
	return v
}

// FromPolar builds a vector from an angle in radians and a length.
// The angle is normalized into [0, 2π); a negative length points the
// vector the opposite way.
func FromPolar(angle, length float64) Vector {
	v := Vector{angle: angle, length: length}
	v.fromPolar()
	return v
}

func (v Vector) X() float64      { return v.x }
func (v Vector) Y() float64      { return v.y }
func (v Vector) Angle() float64  { return v.angle }
func (v Vector) Length() float64 { return v.length }

func (v *Vector) SetX(x float64) {
	v.x = x
	v.fromCartesian()
}

func (v *Vector) SetY(y float64) {
	v.y = y
	v.fromCartesian()
}

func (v *Vector) SetAngle(angle float64) {
	v.angle = angle
	v.fromPolar()
}

func (v *Vector) SetLength(length float64) {
	v.length = length
	v.fromPolar()
}

func (v Vector) Add(o Vector) Vector {
	return FromCartesian(v.x+o.x, v.y+o.y)
}

func (v Vector) Sub(o Vector) Vector {
	return FromCartesian(v.x-o.x, v.y-o.y)
}

// AddScalar adds s to both components.
func (v Vector) AddScalar(s float64) Vector {
	return FromCartesian(v.x+s, v.y+s)
}

// SubScalar subtracts s from both components.
func (v Vector) SubScalar(s float64) Vector {
	return FromCartesian(v.x-s, v.y-s)
}

func (v Vector) Scale(s float64) Vector {
	return FromCartesian(v.x*s, v.y*s)
}

// Mul composes two vectors in polar form: angles add and lengths multiply.
// It rotates v by o's angle; it is neither a dot nor a cross product.
func (v Vector) Mul(o Vector) Vector {
	return FromPolar(v.angle+o.angle, v.length*o.length)
}

// Div divides both components by s. Division by zero yields non-finite
// components.
func (v Vector) Div(s float64) Vector {
	return FromCartesian(v.x/s, v.y/s)
}

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y)
}

// IsFinite reports whether both components are neither NaN nor Inf.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.x) && !math.IsInf(v.x, 0) && !math.IsNaN(v.y) && !math.IsInf(v.y, 0)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g | %.4f rad, %g)", v.x, v.y, v.angle, v.length)
}

func (v *Vector) fromCartesian() {
	v.length = math.Sqrt(v.x*v.x + v.y*v.y)
	v.angle = normalizeAngle(math.Atan2(v.y, v.x))
}

func (v *Vector) fromPolar() {
	if v.length < 0 {
		v.length = -v.length
		v.angle += math.Pi
	}
	v.angle = normalizeAngle(v.angle)
	v.x = math.Cos(v.angle) * v.length
	v.y = math.Sin(v.angle) * v.length
}

// normalizeAngle maps a into [0, 2π). Non-finite input is returned as is.
func normalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}
