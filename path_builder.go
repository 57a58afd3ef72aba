// path_builder.go

package ug

import "math"

// kappa is the control point distance for a quarter-circle cubic.
const kappa = 0.5522847498

// PathBuilder provides a fluent interface for path construction.
// All methods return the builder for chaining.
type PathBuilder struct {
	elems []PathElement
}

// BuildPath starts a new path builder.
func BuildPath() *PathBuilder {
	return &PathBuilder{elems: make([]PathElement, 0, 16)}
}

// MoveTo moves to a new position.
func (b *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	b.elems = append(b.elems, MoveTo{Point: Pt(x, y)})
	return b
}

// LineTo draws a line to a position.
func (b *PathBuilder) LineTo(x, y float64) *PathBuilder {
	b.elems = append(b.elems, LineTo{Point: Pt(x, y)})
	return b
}

// QuadTo draws a quadratic Bezier curve.
func (b *PathBuilder) QuadTo(cx, cy, x, y float64) *PathBuilder {
	b.elems = append(b.elems, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	return b
}

// CubicTo draws a cubic Bezier curve.
func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *PathBuilder {
	b.elems = append(b.elems, CubicTo{Control1: Pt(c1x, c1y), Control2: Pt(c2x, c2y), Point: Pt(x, y)})
	return b
}

// Close closes the current subpath.
func (b *PathBuilder) Close() *PathBuilder {
	b.elems = append(b.elems, Close{})
	return b
}

// Rect adds a rectangle to the path.
func (b *PathBuilder) Rect(x, y, w, h float64) *PathBuilder {
	return b.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// RoundRect adds a rectangle with elliptical corners of radii rx, ry.
func (b *PathBuilder) RoundRect(x, y, w, h, rx, ry float64) *PathBuilder {
	rx = min(rx, w/2)
	ry = min(ry, h/2)
	if rx <= 0 || ry <= 0 {
		return b.Rect(x, y, w, h)
	}
	kx, ky := kappa*rx, kappa*ry

	b.MoveTo(x+rx, y)
	b.LineTo(x+w-rx, y)
	b.CubicTo(x+w-rx+kx, y, x+w, y+ry-ky, x+w, y+ry)
	b.LineTo(x+w, y+h-ry)
	b.CubicTo(x+w, y+h-ry+ky, x+w-rx+kx, y+h, x+w-rx, y+h)
	b.LineTo(x+rx, y+h)
	b.CubicTo(x+rx-kx, y+h, x, y+h-ry+ky, x, y+h-ry)
	b.LineTo(x, y+ry)
	b.CubicTo(x, y+ry-ky, x+rx-kx, y, x+rx, y)
	return b.Close()
}

// Ellipse adds an ellipse to the path.
func (b *PathBuilder) Ellipse(cx, cy, rx, ry float64) *PathBuilder {
	kx := kappa * rx
	ky := kappa * ry

	b.MoveTo(cx+rx, cy)
	b.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	b.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	b.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	b.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	return b.Close()
}

// Arc adds an open elliptical arc. Angles are in degrees, counterclockwise
// from the positive x axis as seen on screen.
func (b *PathBuilder) Arc(cx, cy, rx, ry, startDeg, extentDeg float64) *PathBuilder {
	n := int(math.Ceil(math.Abs(extentDeg) / 90))
	if n == 0 {
		return b
	}
	step := extentDeg / float64(n) * math.Pi / 180
	a := startDeg * math.Pi / 180
	at := func(t float64) (float64, float64) {
		return cx + rx*math.Cos(t), cy - ry*math.Sin(t)
	}
	x0, y0 := at(a)
	b.MoveTo(x0, y0)
	k := 4.0 / 3.0 * math.Tan(step/4)
	for i := 0; i < n; i++ {
		a1 := a + step
		x1, y1 := at(a1)
		c1x := x0 - k*rx*math.Sin(a)
		c1y := y0 - k*ry*math.Cos(a)
		c2x := x1 + k*rx*math.Sin(a1)
		c2y := y1 + k*ry*math.Cos(a1)
		b.CubicTo(c1x, c1y, c2x, c2y, x1, y1)
		a, x0, y0 = a1, x1, y1
	}
	return b
}

// Polygon adds a closed polygon through pts.
func (b *PathBuilder) Polygon(pts []Point) *PathBuilder {
	if len(pts) < 2 {
		return b
	}
	b.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		b.LineTo(p.X, p.Y)
	}
	return b.Close()
}

// Build returns the constructed path. The builder can be reused.
func (b *PathBuilder) Build() Path {
	return Path{Elements: append([]PathElement(nil), b.elems...)}
}

// RectanglePath returns the outline of r as a path at the origin.
func RectanglePath(r Rectangle) Path {
	return BuildPath().RoundRect(0, 0, r.W, r.H, r.Rx, r.Ry).Build()
}

// EllipsePath returns the outline of e as a path at the origin.
// Arcs are left open.
func EllipsePath(e Ellipse) Path {
	rx, ry := e.W/2, e.H/2
	if e.IsArc() {
		return BuildPath().Arc(rx, ry, rx, ry, e.Start, e.Extend).Build()
	}
	return BuildPath().Ellipse(rx, ry, rx, ry).Build()
}

// PolygonPath returns the outline of p as a closed path.
func PolygonPath(p Polygon) Path {
	return BuildPath().Polygon(p.Points).Build()
}
