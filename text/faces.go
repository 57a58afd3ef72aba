package text

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/ug"
)

// faceKey selects a face: monospace or not, bold, italic.
type faceKey struct {
	mono, bold, italic bool
}

func keyOf(f ug.Font) faceKey {
	return faceKey{
		mono:   f.IsMonospaced(),
		bold:   f.Style.Has(ug.FontBold),
		italic: f.Style.Has(ug.FontItalic),
	}
}

// Faces holds TTF data per face and parses it lazily, once per parser.
//
// Faces is safe for concurrent use. Parsed fonts are read-only and shared;
// x/image faces are not, so [Faces.NewFace] returns a fresh one each call.
type Faces struct {
	data map[faceKey][]byte

	mu      sync.RWMutex
	otFonts map[faceKey]*opentype.Font
	gtFonts map[faceKey]*gotext.Font
}

// NewFaces creates an empty registry.
func NewFaces() *Faces {
	return &Faces{
		data:    make(map[faceKey][]byte),
		otFonts: make(map[faceKey]*opentype.Font),
		gtFonts: make(map[faceKey]*gotext.Font),
	}
}

var (
	defaultFacesOnce sync.Once
	defaultFaces     *Faces
)

// DefaultFaces returns the shared registry of the Go fonts: proportional
// and mono, each in regular, bold, italic and bold italic.
func DefaultFaces() *Faces {
	defaultFacesOnce.Do(func() {
		f := NewFaces()
		f.data[faceKey{}] = goregular.TTF
		f.data[faceKey{bold: true}] = gobold.TTF
		f.data[faceKey{italic: true}] = goitalic.TTF
		f.data[faceKey{bold: true, italic: true}] = gobolditalic.TTF
		f.data[faceKey{mono: true}] = gomono.TTF
		f.data[faceKey{mono: true, bold: true}] = gomonobold.TTF
		f.data[faceKey{mono: true, italic: true}] = gomonoitalic.TTF
		f.data[faceKey{mono: true, bold: true, italic: true}] = gomonobolditalic.TTF
		defaultFaces = f
	})
	return defaultFaces
}

// Register sets the TTF data used for monospaced or proportional text
// in the given style. It must be called before the registry is shared.
func (fs *Faces) Register(mono bool, style ug.FontStyle, ttf []byte) error {
	if len(ttf) == 0 {
		return ErrEmptyFontData
	}
	k := faceKey{mono: mono, bold: style.Has(ug.FontBold), italic: style.Has(ug.FontItalic)}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data[k] = ttf
	delete(fs.otFonts, k)
	delete(fs.gtFonts, k)
	return nil
}

// lookup falls back from the exact style to regular, then to
// the proportional face.
func (fs *Faces) lookup(f ug.Font) (faceKey, []byte, error) {
	k := keyOf(f)
	for _, cand := range []faceKey{k, {mono: k.mono}, {}} {
		if d, ok := fs.data[cand]; ok {
			return cand, d, nil
		}
	}
	return k, nil, fmt.Errorf("%w: %s %s", ErrUnknownFace, f.Family, f.Style)
}

// OpenType returns the parsed x/image font for f.
func (fs *Faces) OpenType(f ug.Font) (*opentype.Font, error) {
	fs.mu.RLock()
	k, data, err := fs.lookup(f)
	if err != nil {
		fs.mu.RUnlock()
		return nil, err
	}
	if ot, ok := fs.otFonts[k]; ok {
		fs.mu.RUnlock()
		return ot, nil
	}
	fs.mu.RUnlock()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if ot, ok := fs.otFonts[k]; ok {
		return ot, nil
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	fs.otFonts[k] = ot
	return ot, nil
}

// GoText returns the parsed go-text font for f.
func (fs *Faces) GoText(f ug.Font) (*gotext.Font, error) {
	fs.mu.RLock()
	k, data, err := fs.lookup(f)
	if err != nil {
		fs.mu.RUnlock()
		return nil, err
	}
	if gt, ok := fs.gtFonts[k]; ok {
		fs.mu.RUnlock()
		return gt, nil
	}
	fs.mu.RUnlock()

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if gt, ok := fs.gtFonts[k]; ok {
		return gt, nil
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	fs.gtFonts[k] = face.Font
	return face.Font, nil
}

// NewFace returns an x/image face for f at f.Size pixels per em.
// The face is not safe for concurrent use.
func (fs *Faces) NewFace(f ug.Font) (font.Face, error) {
	ot, err := fs.OpenType(f)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ot, &opentype.FaceOptions{
		Size:    sizeOf(f),
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func sizeOf(f ug.Font) float64 {
	if f.Size <= 0 {
		return ug.DefaultFont.Size
	}
	return f.Size
}

// splitLines splits on '\n' and drops a trailing '\r' from each line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
