package ug

import (
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorMapper turns logical colors into the colors actually written.
// One mapper is used for a whole render so a logical color always maps
// to the same concrete color.
type ColorMapper interface {
	MapRGB(RGB) RGB
}

// MapperFunc adapts a function to ColorMapper.
type MapperFunc func(RGB) RGB

// MapRGB calls f(c).
func (f MapperFunc) MapRGB(c RGB) RGB { return f(c) }

// IdentityMapper returns colors unchanged.
var IdentityMapper ColorMapper = MapperFunc(func(c RGB) RGB { return c })

// MonochromeMapper maps colors to gray by their CIE L* lightness.
var MonochromeMapper ColorMapper = MapperFunc(func(c RGB) RGB {
	l, _, _ := c.Colorful().Lab()
	return fromColorful(colorful.Lab(l, 0, 0), c.A)
})

// ReverseMapper inverts lightness while keeping hue, for dark themes.
var ReverseMapper ColorMapper = MapperFunc(func(c RGB) RGB {
	h, ch, l := c.Colorful().Hcl()
	return fromColorful(colorful.Hcl(h, ch, 1-l), c.A)
})

// MapColor applies m to every concrete component of c.
// Transparent, Automatic and nil pass through.
func MapColor(m ColorMapper, c Color) Color {
	if m == nil {
		m = IdentityMapper
	}
	switch v := c.(type) {
	case RGB:
		return m.MapRGB(v)
	case Gradient:
		return Gradient{C1: m.MapRGB(v.C1), C2: m.MapRGB(v.C2), Policy: v.Policy}
	default:
		return c
	}
}

// StableMapper memoizes another mapper. It is safe for concurrent use.
type StableMapper struct {
	inner ColorMapper
	mu    sync.RWMutex
	seen  map[RGB]RGB
}

// NewStableMapper wraps m so each input is computed once.
func NewStableMapper(m ColorMapper) *StableMapper {
	if m == nil {
		m = IdentityMapper
	}
	return &StableMapper{inner: m, seen: make(map[RGB]RGB)}
}

// MapRGB returns the memoized mapping of c.
func (s *StableMapper) MapRGB(c RGB) RGB {
	s.mu.RLock()
	out, ok := s.seen[c]
	s.mu.RUnlock()
	if ok {
		return out
	}

	out = s.inner.MapRGB(c)

	s.mu.Lock()
	if prev, ok := s.seen[c]; ok {
		out = prev
	} else {
		s.seen[c] = out
	}
	s.mu.Unlock()
	return out
}

// Len returns the number of memoized colors.
func (s *StableMapper) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
