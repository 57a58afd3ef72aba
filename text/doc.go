// Package text measures strings for layout.
//
// Three [ug.StringBounder] implementations are provided:
//
//   - GoTextBounder: HarfBuzz shaping through go-text/typesetting, so
//     kerning and ligatures count toward width
//   - XImageBounder: advances from golang.org/x/image/font/opentype
//   - FixedBounder: a font-free model with exact, predictable results
//
// The first two measure the Go fonts embedded by golang.org/x/image/font/gofont,
// registered in [Faces]. Wrap any bounder with [NewCachedBounder] to
// memoize measurements across a batch of renders.
//
//	b := text.NewCachedBounder(text.NewGoTextBounder(text.DefaultFaces()), 4096)
//	d := b.Dimension(ug.DefaultFont, "Hello")
//
// Strings may hold several lines separated by '\n': the width is the
// widest line and the height is the line height times the line count.
package text
