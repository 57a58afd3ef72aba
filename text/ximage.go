package text

import (
	"log/slog"
	"sync"

	"golang.org/x/image/font"

	"github.com/gogpu/ug"
)

// XImageBounder measures text with glyph advances and kerning from
// golang.org/x/image/font/opentype. It matches what the raster backend
// draws pixel for pixel.
//
// Faces are created per font and reused under a mutex, since
// font.Face is not safe for concurrent use.
type XImageBounder struct {
	faces *Faces

	mu    sync.Mutex
	cache map[ug.Font]font.Face
}

var _ ug.StringBounder = (*XImageBounder)(nil)

// NewXImageBounder creates a bounder over the given faces.
// A nil faces uses DefaultFaces.
func NewXImageBounder(faces *Faces) *XImageBounder {
	if faces == nil {
		faces = DefaultFaces()
	}
	return &XImageBounder{faces: faces, cache: make(map[ug.Font]font.Face)}
}

// faceLocked returns the cached face for f. Caller must hold b.mu.
func (b *XImageBounder) faceLocked(f ug.Font) (font.Face, error) {
	if face, ok := b.cache[f]; ok {
		return face, nil
	}
	face, err := b.faces.NewFace(f)
	if err != nil {
		return nil, err
	}
	b.cache[f] = face
	return face, nil
}

// Dimension implements ug.StringBounder.
func (b *XImageBounder) Dimension(f ug.Font, s string) ug.Dimension {
	b.mu.Lock()
	defer b.mu.Unlock()

	face, err := b.faceLocked(f)
	if err != nil {
		ug.Logger().Warn("text: no face, using fixed metrics", slog.String("family", f.Family), slog.Any("err", err))
		return FixedBounder{}.Dimension(f, s)
	}
	lines := splitLines(s)
	var w float64
	for _, line := range lines {
		w = max(w, fixedToFloat(font.MeasureString(face, line)))
	}
	m := face.Metrics()
	return ug.Dimension{W: w, H: fixedToFloat(m.Height) * float64(len(lines))}
}

// Descent implements ug.StringBounder.
func (b *XImageBounder) Descent(f ug.Font, s string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	face, err := b.faceLocked(f)
	if err != nil {
		return FixedBounder{}.Descent(f, s)
	}
	return fixedToFloat(face.Metrics().Descent)
}

// Close releases the cached faces.
func (b *XImageBounder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k, face := range b.cache {
		face.Close()
		delete(b.cache, k)
	}
	return nil
}
