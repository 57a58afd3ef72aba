package ug

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a logical color as written in a diagram or skin.
// It is resolved to concrete pixels by a [ColorMapper] at draw time.
//
// The implementations are [RGB], [Gradient], [Transparent] and [Automatic].
// A nil Color means "nothing": no fill or no border.
type Color interface {
	isColor()
	String() string
}

// RGB is a plain color with straight (non-premultiplied) alpha.
type RGB struct {
	R, G, B, A uint8
}

// Gradient is a two-color linear gradient whose direction is given by Policy.
type Gradient struct {
	C1, C2 RGB
	Policy GradientPolicy
}

// Transparent paints nothing but, unlike nil, overrides an inherited color.
type Transparent struct{}

// Automatic picks black or white depending on the background it is drawn on.
type Automatic struct{}

func (RGB) isColor()         {}
func (Gradient) isColor()    {}
func (Transparent) isColor() {}
func (Automatic) isColor()   {}

// Common colors.
var (
	Black = RGB{A: 0xff}
	White = RGB{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Hex creates an opaque RGB from a 0xRRGGBB value.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// NRGBA converts to the standard library color type.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromColor converts a standard color.Color to RGB.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Colorful returns c in go-colorful form, dropping alpha.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// fromColorful converts back, keeping alpha a.
func fromColorful(c colorful.Color, a uint8) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b, A: a}
}

// Luminance returns the relative luminance in [0, 1].
func (c RGB) Luminance() float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// IsDark reports whether white text reads better than black on c.
func (c RGB) IsDark() bool {
	return c.Luminance() < 0.18
}

// Lerp performs linear interpolation between two colors.
func (c RGB) Lerp(other RGB, t float64) RGB {
	lerp := func(a, b uint8) uint8 {
		return uint8(clamp255(float64(a) + (float64(b)-float64(a))*t + 0.5))
	}
	return RGB{R: lerp(c.R, other.R), G: lerp(c.G, other.G), B: lerp(c.B, other.B), A: lerp(c.A, other.A)}
}

func (c RGB) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (g Gradient) String() string {
	return g.C1.String() + string(rune(g.Policy)) + g.C2.String()
}

func (Transparent) String() string { return "transparent" }
func (Automatic) String() string   { return "automatic" }

// GradientPolicy is the direction of a [Gradient], written as the
// separator character between its two colors.
type GradientPolicy byte

const (
	// GradientHorizontal runs left to right.
	GradientHorizontal GradientPolicy = '|'
	// GradientDiagonalUp runs from bottom-left to top-right.
	GradientDiagonalUp GradientPolicy = '\\'
	// GradientVertical runs top to bottom.
	GradientVertical GradientPolicy = '-'
	// GradientDiagonalDown runs from top-left to bottom-right.
	GradientDiagonalDown GradientPolicy = '/'
)

// GradientPolicies lists every policy; drivers are tested against all of them.
var GradientPolicies = []GradientPolicy{
	GradientHorizontal, GradientDiagonalUp, GradientVertical, GradientDiagonalDown,
}

// Valid reports whether p is one of the four known policies.
func (p GradientPolicy) Valid() bool {
	switch p {
	case GradientHorizontal, GradientDiagonalUp, GradientVertical, GradientDiagonalDown:
		return true
	}
	return false
}

// Unit returns the gradient start and end in a unit box, where (0,0) is
// the top-left corner. C1 is at the start and C2 at the end.
func (p GradientPolicy) Unit() (x1, y1, x2, y2 float64) {
	switch p {
	case GradientDiagonalUp:
		return 0, 1, 1, 0
	case GradientVertical:
		return 0.5, 0, 0.5, 1
	case GradientDiagonalDown:
		return 0, 0, 1, 1
	default:
		return 0, 0.5, 1, 0.5
	}
}

// Axis returns the gradient start and end points for a box at (x, y)
// of size w x h.
func (p GradientPolicy) Axis(x, y, w, h float64) (x1, y1, x2, y2 float64) {
	ux1, uy1, ux2, uy2 := p.Unit()
	return x + ux1*w, y + uy1*h, x + ux2*w, y + uy2*h
}

// At returns the gradient parameter in [0, 1] at point (px, py) of the box.
func (p GradientPolicy) At(px, py, x, y, w, h float64) float64 {
	x1, y1, x2, y2 := p.Axis(x, y, w, h)
	dx, dy := x2-x1, y2-y1
	den := dx*dx + dy*dy
	if den == 0 {
		return 0
	}
	t := ((px-x1)*dx + (py-y1)*dy) / den
	return clamp01(t)
}

// ColorAt returns the blended color of g at parameter t.
func (g Gradient) ColorAt(t float64) RGB {
	return g.C1.Lerp(g.C2, clamp01(t))
}

// ParseColor parses a color as written in diagrams and skins:
// "#RRGGBB", "#RGB", "#RRGGBBAA", "RRGGBB", a named color such as
// "LightBlue", "transparent", "automatic", or a gradient "c1|c2",
// "c1\c2", "c1-c2", "c1/c2".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnknownColor)
	}
	switch strings.ToLower(s) {
	case "transparent", "none":
		return Transparent{}, nil
	case "automatic":
		return Automatic{}, nil
	}
	if i := strings.IndexAny(s, "|\\-/"); i > 0 && i < len(s)-1 {
		c1, err := parseRGB(s[:i])
		if err != nil {
			return nil, err
		}
		c2, err := parseRGB(s[i+1:])
		if err != nil {
			return nil, err
		}
		return Gradient{C1: c1, C2: c2, Policy: GradientPolicy(s[i])}, nil
	}
	return parseRGB(s)
}

// MustParseColor is like ParseColor but panics on error.
// It is meant for constants in code, never for user input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseRGB(s string) (RGB, error) {
	name := strings.TrimPrefix(s, "#")
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return FromColor(c), nil
	}
	if !isHex(name) {
		return RGB{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	alpha := uint8(0xff)
	switch len(name) {
	case 3, 6:
	case 8:
		a, _ := strconv.ParseUint(name[6:], 16, 8)
		alpha = uint8(a)
		name = name[:6]
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	c, err := colorful.Hex("#" + strings.ToLower(name))
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return fromColorful(c, alpha), nil
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
