// Package ug is the drawing core used to turn diagram models into images.
//
// # Overview
//
// ug separates what is drawn from where it is drawn. Layout code builds
// shapes (rectangles, ellipses, lines, polygons, paths, text, images) and
// draws them through a [Graphic], an immutable value carrying the current
// offset, colors, stroke and clip. Each output format provides a [Driver]
// with one method per shape kind; the graphic resolves colors through a
// [ColorMapper] and hands the driver absolute coordinates.
//
//	g := ug.NewGraphic(driver, ug.WithBounder(bounder))
//	g = g.Apply(ug.T(10, 20), ug.ChangeBackColor{Color: ug.MustParseColor("#FEFECE")})
//	g.Draw(ug.Rectangle{W: 100, H: 50})
//	if err := g.Finish(); err != nil {
//	    // unsupported shape or unbalanced URL
//	}
//
// # Immutability
//
// [Graphic.Apply] never changes its receiver. The same base graphic is
// branched many times to draw siblings at different offsets:
//
//	left := g.Apply(ug.T(0, 0))
//	right := g.Apply(ug.T(120, 0))
//
// All branches share one output sink, so they write to the same page.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Text is positioned on its baseline
//
// # Packages
//
//   - text: string measurement (go-text HarfBuzz, x/image, fixed width)
//   - block: drawable blocks and decorations
//   - annotated: frame, legend, title, caption, header and footer
//   - layout: deferred positions, grids, stacks, swimlanes
//   - backend: png, svg, eps and debug drivers
//   - graph: external graph layout and its failure block
//   - diagram: domain model, page builders and export
package ug
