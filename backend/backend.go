// Package backend defines output formats and their registry.
//
// A format is a [ug.Driver] that is begun at a page size, drawn through a
// [ug.Graphic], and ended by writing its bytes. Formats register
// themselves in init(), following the database/sql driver pattern:
//
//	import _ "github.com/gogpu/ug/backend/svg"
//
//	b, err := backend.New("svg")
//	if err != nil {
//	    // format not linked in
//	}
//
// # Available Formats
//
//   - "png": raster output through rasterx (backend/raster)
//   - "svg": SVG through svgo (backend/svg)
//   - "eps": Encapsulated PostScript (backend/eps)
//   - "debug": one line per shape, for tests and diagnostics (backend/debug)
package backend

import (
	"io"

	"github.com/gogpu/ug"
)

// Settings apply to one page of output.
type Settings struct {
	// Scale multiplies every coordinate. Zero means 1.
	Scale float64
	// DPI scales raster output relative to 96 dpi. Zero means 96.
	DPI float64
	// Background fills the page before drawing; nil leaves it transparent.
	Background ug.Color
	// Metadata is the diagram source to embed, or empty for none.
	Metadata string
	// Title names the document where the format has a place for it.
	Title string
	// Mapper resolves the background color. Nil is identity.
	Mapper ug.ColorMapper
}

// EffectiveScale combines Scale and DPI into one factor.
func (s Settings) EffectiveScale() float64 {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	if s.DPI > 0 {
		scale *= s.DPI / 96
	}
	return scale
}

// BackgroundPaint resolves the background through the mapper.
func (s Settings) BackgroundPaint() (ug.RGB, bool) {
	m := s.Mapper
	if m == nil {
		m = ug.IdentityMapper
	}
	switch c := ug.MapColor(m, s.Background).(type) {
	case ug.RGB:
		return c, c.A > 0
	case ug.Gradient:
		return c.C1, true
	}
	return ug.RGB{}, false
}

// Backend is an output format.
//
// # Implementation Contract
//
//  1. Register in init() using backend.Register()
//  2. Begin is called once before any drawing
//  3. End writes the whole document; it is called even after drawing
//     errors so partial output is flushed
type Backend interface {
	ug.Driver

	// Begin prepares a page of the given size in diagram units.
	Begin(dim ug.Dimension, s Settings) error

	// End writes the page to w. bounds is the box of everything drawn,
	// used by formats that size themselves to their content.
	End(w io.Writer, bounds ug.MinMax) error

	// Extension is the file name suffix without the dot.
	Extension() string
}
