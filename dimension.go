package ug

import "math"

// Dimension is the measured size of something drawable.
type Dimension struct {
	W, H float64
}

// Dim is a convenience function to create a Dimension.
func Dim(w, h float64) Dimension {
	return Dimension{W: w, H: h}
}

// MergeTB stacks dimensions top to bottom: widths take the max,
// heights add up.
func (d Dimension) MergeTB(others ...Dimension) Dimension {
	for _, o := range others {
		d.W = math.Max(d.W, o.W)
		d.H += o.H
	}
	return d
}

// MergeLR places dimensions left to right: widths add up,
// heights take the max.
func (d Dimension) MergeLR(others ...Dimension) Dimension {
	for _, o := range others {
		d.W += o.W
		d.H = math.Max(d.H, o.H)
	}
	return d
}

// Delta grows the dimension by dw and dh.
func (d Dimension) Delta(dw, dh float64) Dimension {
	return Dimension{W: d.W + dw, H: d.H + dh}
}

// AtLeast returns a dimension no smaller than w x h.
func (d Dimension) AtLeast(w, h float64) Dimension {
	return Dimension{W: math.Max(d.W, w), H: math.Max(d.H, h)}
}

// Max returns the component-wise maximum.
func (d Dimension) Max(o Dimension) Dimension {
	return d.AtLeast(o.W, o.H)
}

// IsEmpty reports whether the dimension has no area.
func (d Dimension) IsEmpty() bool {
	return d.W <= 0 || d.H <= 0
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// RectOf returns the rectangle of size d placed at p.
func RectOf(p Point, d Dimension) Rect {
	return Rect{X: p.X, Y: p.Y, W: d.W, H: d.H}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Dimension returns the size of the rectangle.
func (r Rect) Dimension() Dimension {
	return Dimension{W: r.W, H: r.H}
}

// Translate moves the rectangle.
func (r Rect) Translate(t Translate) Rect {
	r.X += t.Dx
	r.Y += t.Dy
	return r
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Intersects reports whether the two rectangles overlap. Touching edges
// count as overlap so that zero-width lines on a clip border are kept.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.MaxX() && o.X <= r.MaxX() && r.Y <= o.MaxY() && o.Y <= r.MaxY()
}

// Intersect returns the overlapping part of r and o.
// The result has zero size when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.MaxX(), o.MaxX())
	y1 := math.Min(r.MaxY(), o.MaxY())
	if x1 < x0 || y1 < y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// MinMax accumulates the bounding box of everything added to it.
// The zero value is empty.
type MinMax struct {
	MinX, MinY, MaxX, MaxY float64
	valid                  bool
}

// IsEmpty reports whether nothing was added yet.
func (m MinMax) IsEmpty() bool {
	return !m.valid
}

// Add extends the box to include (x, y).
func (m MinMax) Add(x, y float64) MinMax {
	if !m.valid {
		return MinMax{MinX: x, MinY: y, MaxX: x, MaxY: y, valid: true}
	}
	m.MinX = math.Min(m.MinX, x)
	m.MinY = math.Min(m.MinY, y)
	m.MaxX = math.Max(m.MaxX, x)
	m.MaxY = math.Max(m.MaxY, y)
	return m
}

// AddRect extends the box to include r.
func (m MinMax) AddRect(r Rect) MinMax {
	return m.Add(r.X, r.Y).Add(r.MaxX(), r.MaxY())
}

// Union merges two boxes.
func (m MinMax) Union(o MinMax) MinMax {
	if !o.valid {
		return m
	}
	return m.Add(o.MinX, o.MinY).Add(o.MaxX, o.MaxY)
}

// Rect returns the box as a rectangle.
func (m MinMax) Rect() Rect {
	if !m.valid {
		return Rect{}
	}
	return Rect{X: m.MinX, Y: m.MinY, W: m.MaxX - m.MinX, H: m.MaxY - m.MinY}
}

// Dimension returns the width and height of the box.
func (m MinMax) Dimension() Dimension {
	return m.Rect().Dimension()
}
