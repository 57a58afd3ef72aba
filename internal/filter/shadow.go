package filter

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultShadowColor is the translucent gray used for diagram shadows.
var DefaultShadowColor = color.NRGBA{A: 80}

// DropShadow paints a blurred copy of a coverage mask, offset down and
// to the right.
type DropShadow struct {
	// Offset moves the shadow by (Offset, Offset) pixels.
	Offset int

	// Radius is the blur sigma in pixels.
	Radius float64

	// Color is the shadow color. The zero value uses DefaultShadowColor.
	Color color.NRGBA
}

// NewDropShadow returns the shadow for a shape with the given depth in
// pixels: offset by the depth and blurred by half of it.
func NewDropShadow(depth float64) DropShadow {
	return DropShadow{
		Offset: int(depth + 0.5),
		Radius: depth / 2,
		Color:  DefaultShadowColor,
	}
}

// MaskBounds returns the bounds a mask for a shape covering r needs so
// the blur does not clip.
func (s DropShadow) MaskBounds(r image.Rectangle) image.Rectangle {
	return r.Inset(-Margin(s.Radius) - 1)
}

// Apply blurs mask and composites the shadow over dst. Draw the shape
// itself afterwards so the shadow ends up beneath it.
func (s DropShadow) Apply(dst draw.Image, mask *image.Alpha) {
	c := s.Color
	if c == (color.NRGBA{}) {
		c = DefaultShadowColor
	}
	blurred := BlurAlpha(mask, s.Radius)
	off := image.Pt(s.Offset, s.Offset)
	r := blurred.Bounds().Add(off)
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
}
