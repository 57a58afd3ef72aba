package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrUnknownFace is returned when no face matches a font.
	ErrUnknownFace = errors.New("text: unknown face")
)
