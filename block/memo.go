package block

import (
	"sync"

	"github.com/gogpu/ug"
)

// Memo caches the dimension of a block per bounder. It stays pure since
// Dimension is a function of the bounder alone.
type Memo struct {
	inner Block

	mu   sync.Mutex
	dims map[ug.StringBounder]ug.Dimension
}

// NewMemo wraps blk. Bounders used as keys must be comparable.
func NewMemo(blk Block) *Memo {
	return &Memo{inner: blk, dims: make(map[ug.StringBounder]ug.Dimension)}
}

// Dimension implements Measurable.
func (m *Memo) Dimension(b ug.StringBounder) ug.Dimension {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.dims[b]; ok {
		return d
	}
	d := m.inner.Dimension(b)
	m.dims[b] = d
	return d
}

// DrawU implements Drawable.
func (m *Memo) DrawU(g ug.Graphic) { m.inner.DrawU(g) }

// InnerPosition implements InnerAddressable.
func (m *Memo) InnerPosition(member string, b ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOf(m.inner, ug.Translate{}, member, b, s)
}
