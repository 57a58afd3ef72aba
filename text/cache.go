package text

import (
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/internal/cache"
)

// DefaultCacheSize is the measurement cache limit used by the CLI.
const DefaultCacheSize = 4096

type measureKey struct {
	font ug.Font
	text string
}

type measurement struct {
	dim     ug.Dimension
	descent float64
}

// CachedBounder memoizes another bounder. Keys are NFC-normalized so
// composed and decomposed spellings of the same text share an entry.
//
// CachedBounder is safe for concurrent use when the inner bounder is.
type CachedBounder struct {
	inner ug.StringBounder
	c     *cache.Cache[measureKey, measurement]
}

var _ ug.StringBounder = (*CachedBounder)(nil)

// NewCachedBounder wraps inner with an LRU cache of the given size.
// A size of 0 means unlimited.
func NewCachedBounder(inner ug.StringBounder, size int) *CachedBounder {
	return &CachedBounder{
		inner: inner,
		c:     cache.New[measureKey, measurement](size),
	}
}

func (b *CachedBounder) get(f ug.Font, s string) measurement {
	s = norm.NFC.String(s)
	return b.c.GetOrCreate(measureKey{font: f, text: s}, func() measurement {
		return measurement{
			dim:     b.inner.Dimension(f, s),
			descent: b.inner.Descent(f, s),
		}
	})
}

// Dimension implements ug.StringBounder.
func (b *CachedBounder) Dimension(f ug.Font, s string) ug.Dimension {
	return b.get(f, s).dim
}

// Descent implements ug.StringBounder.
func (b *CachedBounder) Descent(f ug.Font, s string) float64 {
	return b.get(f, s).descent
}

// Stats returns hit and miss counts.
func (b *CachedBounder) Stats() cache.Stats {
	return b.c.Stats()
}
