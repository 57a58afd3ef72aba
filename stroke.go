package ug

import "math"

// Stroke defines the style for borders and lines.
// DashVisible and DashSpace describe a two-length dash pattern;
// both zero means a solid line.
type Stroke struct {
	// Thickness is the line width. Zero is a valid hairline-free stroke:
	// borders are skipped.
	Thickness float64

	// DashVisible is the length of each drawn dash.
	DashVisible float64

	// DashSpace is the length of each gap.
	DashSpace float64
}

// DefaultStroke returns a solid 1-unit stroke.
func DefaultStroke() Stroke {
	return Stroke{Thickness: 1}
}

// NewStroke creates a stroke of the given thickness with an optional
// dash pattern. Negative lengths are taken as absolute values.
func NewStroke(thickness, dashVisible, dashSpace float64) Stroke {
	return Stroke{
		Thickness:   math.Abs(thickness),
		DashVisible: math.Abs(dashVisible),
		DashSpace:   math.Abs(dashSpace),
	}
}

// Dashed returns a dashed stroke (5 on, 5 off) of thickness t.
func Dashed(t float64) Stroke {
	return Stroke{Thickness: t, DashVisible: 5, DashSpace: 5}
}

// Dotted returns a dotted stroke of thickness t.
func Dotted(t float64) Stroke {
	return Stroke{Thickness: t, DashVisible: 1, DashSpace: 3}
}

// WithThickness returns a copy of the Stroke with the given thickness.
func (s Stroke) WithThickness(t float64) Stroke {
	s.Thickness = t
	return s
}

// IsDashed returns true if the stroke has a visible dash pattern.
func (s Stroke) IsDashed() bool {
	return s.DashVisible > 0 && s.DashSpace > 0
}

// DashArray returns the dash pattern, or nil for a solid line.
func (s Stroke) DashArray() []float64 {
	if !s.IsDashed() {
		return nil
	}
	return []float64{s.DashVisible, s.DashSpace}
}

// Scale returns the stroke with thickness and dashes multiplied by factor.
func (s Stroke) Scale(factor float64) Stroke {
	return Stroke{
		Thickness:   s.Thickness * factor,
		DashVisible: s.DashVisible * factor,
		DashSpace:   s.DashSpace * factor,
	}
}

func (Stroke) change() {}

// Pattern is a hatch drawn over a filled rectangle.
type Pattern uint8

const (
	PatternNone Pattern = iota
	PatternVerticalStripe
	PatternHorizontalStripe
	PatternSmallCircle
)

func (p Pattern) String() string {
	switch p {
	case PatternVerticalStripe:
		return "vertical-stripe"
	case PatternHorizontalStripe:
		return "horizontal-stripe"
	case PatternSmallCircle:
		return "small-circle"
	default:
		return "none"
	}
}

func (Pattern) change() {}
