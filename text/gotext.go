package text

import (
	"log/slog"
	"math"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ug"
)

// GoTextBounder measures text with HarfBuzz shaping from
// go-text/typesetting, so kerning and ligatures are reflected in widths.
//
// GoTextBounder is safe for concurrent use. Parsed fonts are shared;
// a font.Face is created per call and HarfbuzzShaper instances are
// pooled because neither is safe for concurrent use.
type GoTextBounder struct {
	faces      *Faces
	shaperPool sync.Pool
}

var _ ug.StringBounder = (*GoTextBounder)(nil)

// NewGoTextBounder creates a bounder over the given faces.
// A nil faces uses DefaultFaces.
func NewGoTextBounder(faces *Faces) *GoTextBounder {
	if faces == nil {
		faces = DefaultFaces()
	}
	return &GoTextBounder{
		faces: faces,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// lineMetrics is the shaped size of one line.
type lineMetrics struct {
	advance, ascent, descent, gap float64
}

func (b *GoTextBounder) shapeLine(f *gotext.Font, size float64, line string) lineMetrics {
	runes := []rune(line)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := b.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	b.shaperPool.Put(hb)

	return lineMetrics{
		advance: fixedToFloat(out.Advance),
		ascent:  fixedToFloat(out.LineBounds.Ascent),
		descent: math.Abs(fixedToFloat(out.LineBounds.Descent)),
		gap:     fixedToFloat(out.LineBounds.Gap),
	}
}

func (b *GoTextBounder) measure(f ug.Font, s string) (w, lineH, descent float64) {
	gt, err := b.faces.GoText(f)
	if err != nil {
		ug.Logger().Warn("text: no face, using fixed metrics", slog.String("family", f.Family), slog.Any("err", err))
		d := FixedBounder{}.Dimension(f, s)
		return d.W, FixedBounder{}.lineHeight(f), FixedBounder{}.Descent(f, s)
	}
	size := sizeOf(f)
	for i, line := range splitLines(s) {
		m := b.shapeLine(gt, size, line)
		w = max(w, m.advance)
		if i == 0 {
			lineH = m.ascent + m.descent + m.gap
			descent = m.descent
		}
	}
	if lineH <= 0 {
		m := b.shapeLine(gt, size, "Xg")
		lineH, descent = m.ascent+m.descent+m.gap, m.descent
	}
	return w, lineH, descent
}

// Dimension implements ug.StringBounder.
func (b *GoTextBounder) Dimension(f ug.Font, s string) ug.Dimension {
	w, lineH, _ := b.measure(f, s)
	return ug.Dimension{W: w, H: lineH * float64(len(splitLines(s)))}
}

// Descent implements ug.StringBounder.
func (b *GoTextBounder) Descent(f ug.Font, s string) float64 {
	_, _, d := b.measure(f, s)
	return d
}

// detectScript inspects the runes and returns the script of the first
// non-space character.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

// fixedToFloat converts fixed.Int26_6 to float64.
func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
