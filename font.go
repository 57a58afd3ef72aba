package ug

import "strings"

// FontStyle is a set of style flags.
type FontStyle uint8

const (
	FontBold FontStyle = 1 << iota
	FontItalic
	FontUnderline
	FontStrike
)

// Has reports whether all flags in f are set.
func (s FontStyle) Has(f FontStyle) bool { return s&f == f }

func (s FontStyle) String() string {
	var parts []string
	if s.Has(FontBold) {
		parts = append(parts, "bold")
	}
	if s.Has(FontItalic) {
		parts = append(parts, "italic")
	}
	if s.Has(FontUnderline) {
		parts = append(parts, "underline")
	}
	if s.Has(FontStrike) {
		parts = append(parts, "strike")
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, "+")
}

// Font identifies a face by family, size and style.
// Family names are matched case-insensitively; "monospaced" selects the
// mono face and anything else the proportional one.
type Font struct {
	Family string
	Size   float64
	Style  FontStyle
}

// DefaultFont is used when a skin does not name one.
var DefaultFont = Font{Family: "SansSerif", Size: 14}

// WithSize returns a copy of f with the given size.
func (f Font) WithSize(size float64) Font {
	f.Size = size
	return f
}

// WithStyle returns a copy of f with style flags added.
func (f Font) WithStyle(s FontStyle) Font {
	f.Style |= s
	return f
}

// IsMonospaced reports whether the family asks for a fixed-pitch face.
func (f Font) IsMonospaced() bool {
	switch strings.ToLower(f.Family) {
	case "monospaced", "monospace", "courier", "mono":
		return true
	}
	return false
}

// FontConfig is a font with the color its text is drawn in.
type FontConfig struct {
	Font  Font
	Color Color
}

// NewFontConfig returns f drawn in black.
func NewFontConfig(f Font) FontConfig {
	return FontConfig{Font: f, Color: Black}
}

// Bold returns a bold copy.
func (fc FontConfig) Bold() FontConfig {
	fc.Font = fc.Font.WithStyle(FontBold)
	return fc
}

// Italic returns an italic copy.
func (fc FontConfig) Italic() FontConfig {
	fc.Font = fc.Font.WithStyle(FontItalic)
	return fc
}

// WithColor returns a copy drawn in c.
func (fc FontConfig) WithColor(c Color) FontConfig {
	fc.Color = c
	return fc
}

// WithSize returns a copy with the given size.
func (fc FontConfig) WithSize(size float64) FontConfig {
	fc.Font = fc.Font.WithSize(size)
	return fc
}

// StringBounder measures text. Implementations must be pure and safe
// for concurrent use: the same font and string always give the same
// result. Dimension of a multi-line string is the max line width by the
// sum of line heights.
type StringBounder interface {
	// Dimension returns the width and height of s set in f.
	Dimension(f Font, s string) Dimension
	// Descent returns the distance from the baseline to the bottom
	// of the first line.
	Descent(f Font, s string) float64
}
