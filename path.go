package ug

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path is a vector path with points relative to the current position.
// Open paths are stroked only; closed subpaths are also filled.
type Path struct {
	Elements []PathElement
	Shadow   float64
}

// WithShadow returns a copy with the given shadow depth.
func (p Path) WithShadow(depth float64) Path {
	p.Shadow = depth
	return p
}

// IsEmpty reports whether the path has no elements.
func (p Path) IsEmpty() bool { return len(p.Elements) == 0 }

// IsClosed reports whether the path contains a Close element.
func (p Path) IsClosed() bool {
	for _, e := range p.Elements {
		if _, ok := e.(Close); ok {
			return true
		}
	}
	return false
}

// Bounds returns the box of all points, control points included.
func (p Path) Bounds() Rect {
	var m MinMax
	for _, e := range p.Elements {
		switch v := e.(type) {
		case MoveTo:
			m = m.Add(v.Point.X, v.Point.Y)
		case LineTo:
			m = m.Add(v.Point.X, v.Point.Y)
		case QuadTo:
			m = m.Add(v.Control.X, v.Control.Y).Add(v.Point.X, v.Point.Y)
		case CubicTo:
			m = m.Add(v.Control1.X, v.Control1.Y).Add(v.Control2.X, v.Control2.Y).Add(v.Point.X, v.Point.Y)
		}
	}
	return m.Rect()
}

// Translate returns a copy of the path moved by t.
func (p Path) Translate(t Translate) Path {
	out := Path{Elements: make([]PathElement, len(p.Elements)), Shadow: p.Shadow}
	for i, e := range p.Elements {
		switch v := e.(type) {
		case MoveTo:
			out.Elements[i] = MoveTo{Point: t.Apply(v.Point)}
		case LineTo:
			out.Elements[i] = LineTo{Point: t.Apply(v.Point)}
		case QuadTo:
			out.Elements[i] = QuadTo{Control: t.Apply(v.Control), Point: t.Apply(v.Point)}
		case CubicTo:
			out.Elements[i] = CubicTo{Control1: t.Apply(v.Control1), Control2: t.Apply(v.Control2), Point: t.Apply(v.Point)}
		default:
			out.Elements[i] = e
		}
	}
	return out
}

// Walk calls fn for every element in order.
func (p Path) Walk(fn func(PathElement)) {
	for _, e := range p.Elements {
		fn(e)
	}
}
