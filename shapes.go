package ug

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Shape is pure geometry drawn at the graphic's current position.
// Shapes carry no color; colors come from the graphic's [Param].
//
// The set of shapes is closed: [Rectangle], [Ellipse], [Line], [Polygon],
// [Path], [Text] and [Image]. Every [Driver] has one method per kind.
type Shape interface {
	Kind() ShapeKind
}

// ShapeKind identifies a shape type.
type ShapeKind uint8

const (
	KindRectangle ShapeKind = iota
	KindEllipse
	KindLine
	KindPolygon
	KindPath
	KindText
	KindImage
	numKinds
)

var kindNames = [...]string{
	KindRectangle: "rectangle",
	KindEllipse:   "ellipse",
	KindLine:      "line",
	KindPolygon:   "polygon",
	KindPath:      "path",
	KindText:      "text",
	KindImage:     "image",
}

func (k ShapeKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", k)
}

// ShapeSet is a set of shape kinds, used by drivers to declare coverage.
type ShapeSet uint16

// AllShapes contains every kind.
const AllShapes ShapeSet = 1<<numKinds - 1

// Shapes builds a set from kinds.
func Shapes(kinds ...ShapeKind) ShapeSet {
	var s ShapeSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s ShapeSet) Has(k ShapeKind) bool { return s&(1<<k) != 0 }

func (s ShapeSet) String() string {
	var names []string
	for k := ShapeKind(0); k < numKinds; k++ {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Rectangle is an axis-aligned box with optional rounded corners.
// Shadow is the depth of the drop shadow; zero means none.
type Rectangle struct {
	W, H   float64
	Rx, Ry float64
	Shadow float64
}

// NewRectangle returns a w x h rectangle. It panics with
// ErrNegativeSize if either side is negative.
func NewRectangle(w, h float64) Rectangle {
	if w < 0 || h < 0 {
		panic(ErrNegativeSize)
	}
	return Rectangle{W: w, H: h}
}

// NewRoundedRectangle returns a rectangle with corner diameter round.
func NewRoundedRectangle(w, h, round float64) Rectangle {
	if round < 0 {
		panic(ErrNegativeSize)
	}
	r := NewRectangle(w, h)
	r.Rx, r.Ry = round/2, round/2
	return r
}

// WithShadow returns a copy with the given shadow depth.
func (r Rectangle) WithShadow(depth float64) Rectangle {
	r.Shadow = depth
	return r
}

// Ellipse is an ellipse inscribed in a W x H box. When Extend is
// non-zero only the arc from Start degrees spanning Extend degrees is drawn.
type Ellipse struct {
	W, H          float64
	Start, Extend float64
	Shadow        float64
}

// NewEllipse returns a w x h ellipse. It panics with ErrNegativeSize
// if either axis is negative.
func NewEllipse(w, h float64) Ellipse {
	if w < 0 || h < 0 {
		panic(ErrNegativeSize)
	}
	return Ellipse{W: w, H: h}
}

// NewCircle returns a circle of the given radius.
func NewCircle(radius float64) Ellipse {
	return NewEllipse(2*radius, 2*radius)
}

// WithShadow returns a copy with the given shadow depth.
func (e Ellipse) WithShadow(depth float64) Ellipse {
	e.Shadow = depth
	return e
}

// IsArc reports whether only part of the ellipse is drawn.
func (e Ellipse) IsArc() bool { return e.Extend != 0 }

// Line is a segment from the current position to (Dx, Dy) relative to it.
type Line struct {
	Dx, Dy float64
}

// HLine returns a horizontal line of length l.
func HLine(l float64) Line { return Line{Dx: l} }

// VLine returns a vertical line of length l.
func VLine(l float64) Line { return Line{Dy: l} }

// Polygon is a closed polygon with points relative to the current position.
type Polygon struct {
	Points []Point
	Shadow float64
}

// NewPolygon copies points into a polygon.
func NewPolygon(points ...Point) Polygon {
	return Polygon{Points: append([]Point(nil), points...)}
}

// WithShadow returns a copy with the given shadow depth.
func (p Polygon) WithShadow(depth float64) Polygon {
	p.Shadow = depth
	return p
}

// Text is a string drawn with its baseline at the current position.
type Text struct {
	Text string
	Font FontConfig
}

// Image is a bitmap with its top-left corner at the current position.
type Image struct {
	Img   image.Image
	Scale float64
}

// Size returns the drawn size of the image.
func (i Image) Size() Dimension {
	if i.Img == nil {
		return Dimension{}
	}
	s := i.Scale
	if s == 0 {
		s = 1
	}
	b := i.Img.Bounds()
	return Dimension{W: float64(b.Dx()) * s, H: float64(b.Dy()) * s}
}

func (Rectangle) Kind() ShapeKind { return KindRectangle }
func (Ellipse) Kind() ShapeKind   { return KindEllipse }
func (Line) Kind() ShapeKind      { return KindLine }
func (Polygon) Kind() ShapeKind   { return KindPolygon }
func (Path) Kind() ShapeKind      { return KindPath }
func (Text) Kind() ShapeKind      { return KindText }
func (Image) Kind() ShapeKind     { return KindImage }

// BoundsOf returns the bounding box of s drawn at the origin, shadow
// included. Text is measured with b and sits on its baseline, so its box
// starts above y=0.
func BoundsOf(s Shape, b StringBounder) Rect {
	switch v := s.(type) {
	case Rectangle:
		return Rect{W: v.W + v.Shadow, H: v.H + v.Shadow}
	case Ellipse:
		return Rect{W: v.W + v.Shadow, H: v.H + v.Shadow}
	case Line:
		return Rect{X: math.Min(0, v.Dx), Y: math.Min(0, v.Dy), W: math.Abs(v.Dx), H: math.Abs(v.Dy)}
	case Polygon:
		r := pointsBounds(v.Points)
		r.W += v.Shadow
		r.H += v.Shadow
		return r
	case Path:
		r := v.Bounds()
		r.W += v.Shadow
		r.H += v.Shadow
		return r
	case Text:
		if b == nil {
			return Rect{}
		}
		d := b.Dimension(v.Font.Font, v.Text)
		descent := b.Descent(v.Font.Font, v.Text)
		return Rect{Y: -(d.H - descent), W: d.W, H: d.H}
	case Image:
		return RectOf(Point{}, v.Size())
	}
	return Rect{}
}

func pointsBounds(pts []Point) Rect {
	var m MinMax
	for _, p := range pts {
		m = m.Add(p.X, p.Y)
	}
	return m.Rect()
}
