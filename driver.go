package ug

import "image/color"

// Driver draws shapes for one output format.
//
// There is one method per shape kind, so adding a kind means every
// driver has to grow a method. Coordinates passed to drivers are
// absolute; colors in [DrawParam] are already mapped.
//
// A driver that cannot render a kind must leave it out of Coverage;
// [Graphic.Draw] then records an [UnsupportedShapeError] instead of
// calling the method.
type Driver interface {
	Name() string
	Coverage() ShapeSet

	DrawRectangle(s Rectangle, x, y float64, p DrawParam) error
	DrawEllipse(s Ellipse, x, y float64, p DrawParam) error
	DrawLine(s Line, x, y float64, p DrawParam) error
	DrawPolygon(s Polygon, x, y float64, p DrawParam) error
	DrawPath(s Path, x, y float64, p DrawParam) error
	DrawText(s Text, x, y float64, p DrawParam) error
	DrawImage(s Image, x, y float64, p DrawParam) error

	// StartURL opens a hyperlink region that lasts until CloseURL.
	StartURL(url, tooltip string) error
	CloseURL() error
}

// PaintKind says how a [Paint] fills.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintSolid
	PaintGradient
)

// Paint is a resolved color ready for a driver.
type Paint struct {
	Kind     PaintKind
	Solid    color.NRGBA
	From, To color.NRGBA
	Policy   GradientPolicy
}

// IsNone reports whether nothing is painted.
func (p Paint) IsNone() bool {
	return p.Kind == PaintNone || (p.Kind == PaintSolid && p.Solid.A == 0)
}

// Equal reports whether p and o paint the same pixels.
func (p Paint) Equal(o Paint) bool {
	if p.IsNone() || o.IsNone() {
		return p.IsNone() && o.IsNone()
	}
	return p == o
}

// First returns the solid color, or the gradient start color.
func (p Paint) First() color.NRGBA {
	if p.Kind == PaintGradient {
		return p.From
	}
	return p.Solid
}

// DrawParam is what a driver needs besides the shape and position.
type DrawParam struct {
	// Color paints borders, lines and text.
	Color Paint
	// Back fills closed shapes.
	Back    Paint
	Stroke  Stroke
	Pattern Pattern
	// Clip is the absolute clip rectangle, or nil.
	Clip *Rect
}

// SolidPaint wraps c.
func SolidPaint(c color.NRGBA) Paint {
	return Paint{Kind: PaintSolid, Solid: c}
}

// resolvePaint turns a logical color into a Paint. against is the
// background that Automatic contrasts with.
func resolvePaint(c Color, m ColorMapper, against Paint, foreground bool) Paint {
	switch v := MapColor(m, c).(type) {
	case RGB:
		return SolidPaint(v.NRGBA())
	case Gradient:
		return Paint{Kind: PaintGradient, From: v.C1.NRGBA(), To: v.C2.NRGBA(), Policy: v.Policy}
	case Automatic:
		if !foreground {
			return SolidPaint(White.NRGBA())
		}
		if !against.IsNone() && FromColor(against.First()).IsDark() {
			return SolidPaint(White.NRGBA())
		}
		return SolidPaint(Black.NRGBA())
	default:
		return Paint{}
	}
}
