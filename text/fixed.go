package text

import (
	"golang.org/x/text/width"

	"github.com/gogpu/ug"
)

// FixedBounder measures text without fonts: every narrow rune advances
// half the font size, wide and fullwidth East Asian runes advance the
// full size, and a line is 1.25 sizes tall with a quarter-size descent.
//
// Results are exact binary fractions for integer sizes, which makes
// layout reproducible across platforms. Tests use it for that reason.
type FixedBounder struct{}

var _ ug.StringBounder = FixedBounder{}

// Dimension implements ug.StringBounder.
func (b FixedBounder) Dimension(f ug.Font, s string) ug.Dimension {
	size := sizeOf(f)
	lines := splitLines(s)
	var w float64
	for _, line := range lines {
		var lw float64
		for _, r := range line {
			lw += runeAdvance(r) * size
		}
		w = max(w, lw)
	}
	return ug.Dimension{W: w, H: b.lineHeight(f) * float64(len(lines))}
}

// Descent implements ug.StringBounder.
func (FixedBounder) Descent(f ug.Font, _ string) float64 {
	return sizeOf(f) / 4
}

func (FixedBounder) lineHeight(f ug.Font) float64 {
	return sizeOf(f) * 5 / 4
}

func runeAdvance(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 1
	}
	if r == '\t' {
		return 2
	}
	return 0.5
}
