package ug

import "math"

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Normalize returns a unit vector in the same direction.
func (p Point) Normalize() Point {
	length := p.Length()
	if length == 0 {
		return Point{}
	}
	return Point{X: p.X / length, Y: p.Y / length}
}

// Rotate returns the point rotated by angle radians around the origin.
func (p Point) Rotate(angle float64) Point {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Translate is an offset applied to a [Graphic].
// Translations compose associatively and have an inverse.
type Translate struct {
	Dx, Dy float64
}

// T is a convenience function to create a Translate.
func T(dx, dy float64) Translate {
	return Translate{Dx: dx, Dy: dy}
}

// TX translates horizontally.
func TX(dx float64) Translate { return Translate{Dx: dx} }

// TY translates vertically.
func TY(dy float64) Translate { return Translate{Dy: dy} }

// Compose returns the translation t followed by o.
func (t Translate) Compose(o Translate) Translate {
	return Translate{Dx: t.Dx + o.Dx, Dy: t.Dy + o.Dy}
}

// Reverse returns the inverse translation.
func (t Translate) Reverse() Translate {
	return Translate{Dx: -t.Dx, Dy: -t.Dy}
}

// Scaled returns the translation multiplied by f.
func (t Translate) Scaled(f float64) Translate {
	return Translate{Dx: t.Dx * f, Dy: t.Dy * f}
}

// Apply moves p by the translation.
func (t Translate) Apply(p Point) Point {
	return Point{X: p.X + t.Dx, Y: p.Y + t.Dy}
}

// Point returns the translation as a vector.
func (t Translate) Point() Point {
	return Point{X: t.Dx, Y: t.Dy}
}

// IsZero reports whether t moves nothing.
func (t Translate) IsZero() bool {
	return t.Dx == 0 && t.Dy == 0
}

func (Translate) change() {}
