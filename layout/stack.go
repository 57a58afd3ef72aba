package layout

import (
	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// Direction is the axis a stack grows along.
type Direction uint8

const (
	Vertical Direction = iota
	Horizontal
)

// Stack lays blocks out one after another with a fixed spacing.
// Vertical stacks align children with HAlign, horizontal ones with
// VAlign.
type Stack struct {
	dir      Direction
	spacing  float64
	children []block.Block

	HAlign block.HAlign
	VAlign block.VAlign
}

// NewStack returns an empty stack.
func NewStack(dir Direction, spacing float64) *Stack {
	return &Stack{dir: dir, spacing: spacing}
}

// Add appends blocks; nil blocks are skipped.
func (s *Stack) Add(blocks ...block.Block) *Stack {
	for _, b := range blocks {
		if b != nil {
			s.children = append(s.children, b)
		}
	}
	return s
}

// Len returns the number of children.
func (s *Stack) Len() int { return len(s.children) }

// Dimension implements block.Measurable.
func (s *Stack) Dimension(sb ug.StringBounder) ug.Dimension {
	var d ug.Dimension
	for _, c := range s.children {
		if s.dir == Vertical {
			d = d.MergeTB(c.Dimension(sb))
		} else {
			d = d.MergeLR(c.Dimension(sb))
		}
	}
	if n := len(s.children); n > 1 {
		gap := s.spacing * float64(n-1)
		if s.dir == Vertical {
			d.H += gap
		} else {
			d.W += gap
		}
	}
	return d
}

// Offsets returns where every child is drawn.
func (s *Stack) Offsets(sb ug.StringBounder) []ug.Translate {
	total := s.Dimension(sb)
	out := make([]ug.Translate, len(s.children))
	pos := 0.0
	for i, c := range s.children {
		d := c.Dimension(sb)
		if s.dir == Vertical {
			out[i] = ug.T(s.HAlign.Offset(total.W, d.W), pos)
			pos += d.H + s.spacing
		} else {
			out[i] = ug.T(pos, s.VAlign.Offset(total.H, d.H))
			pos += d.W + s.spacing
		}
	}
	return out
}

// DrawU implements block.Drawable.
func (s *Stack) DrawU(g ug.Graphic) {
	for i, t := range s.Offsets(g.Bounder()) {
		s.children[i].DrawU(g.Apply(t))
	}
}

// InnerPosition implements block.InnerAddressable.
func (s *Stack) InnerPosition(member string, sb ug.StringBounder, strategy block.InnerStrategy) (ug.Rect, bool) {
	offsets := s.Offsets(sb)
	for i, c := range s.children {
		ia, ok := c.(block.InnerAddressable)
		if !ok {
			continue
		}
		if r, ok := ia.InnerPosition(member, sb, strategy); ok {
			return r.Translate(offsets[i]), true
		}
	}
	return ug.Rect{}, false
}
