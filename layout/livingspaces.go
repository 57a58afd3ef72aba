package layout

import (
	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// LivingSpaces are the participant columns of a sequence diagram.
// Each participant has a head block; the distance between two
// participants grows with the widest message label between them, which
// is only known once every message has been seen. Positions are
// deferred variables of a shared constraint set.
type LivingSpaces struct {
	c       *Constraints
	spacing float64
	spaces  []livingSpace
}

type livingSpace struct {
	name string
	head block.Block
	left Var
}

// Column is a placed participant.
type Column struct {
	Name string
	// X is the left edge of the head; Center the lifeline position.
	X, Center, Width float64
}

// NewLivingSpaces places participants in c with at least spacing
// between neighbouring heads.
func NewLivingSpaces(c *Constraints, spacing float64) *LivingSpaces {
	return &LivingSpaces{c: c, spacing: spacing}
}

// Add appends a participant and returns its index.
func (l *LivingSpaces) Add(name string, head block.Block) int {
	l.spaces = append(l.spaces, livingSpace{name: name, head: head, left: l.c.NewVar(name)})
	return len(l.spaces) - 1
}

// Len returns the number of participants.
func (l *LivingSpaces) Len() int { return len(l.spaces) }

// Index returns the index of the named participant, or -1.
func (l *LivingSpaces) Index(name string) int {
	for i, s := range l.spaces {
		if s.name == name {
			return i
		}
	}
	return -1
}

func (l *LivingSpaces) center(i int, sb ug.StringBounder) Var {
	s := l.spaces[i]
	return s.left.Offset(s.head.Dimension(sb).W / 2)
}

// Require asks for the lifelines of participants i and j to be at
// least dist apart. It is a no-op for i == j.
func (l *LivingSpaces) Require(i, j int, dist float64, sb ug.StringBounder) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	l.c.AtLeast(l.center(j, sb), l.center(i, sb), dist)
}

// Register adds the constraints keeping heads in order without overlap.
// Call it once, after adding every participant.
func (l *LivingSpaces) Register(sb ug.StringBounder) {
	for i := 1; i < len(l.spaces); i++ {
		prev := l.spaces[i-1]
		w := prev.head.Dimension(sb).W
		l.c.AtLeast(l.spaces[i].left, prev.left, w+l.spacing)
	}
}

// Columns reads the solved columns.
func (l *LivingSpaces) Columns(p *Positions, sb ug.StringBounder) []Column {
	out := make([]Column, len(l.spaces))
	for i, s := range l.spaces {
		w := s.head.Dimension(sb).W
		x := p.Value(s.left)
		out[i] = Column{Name: s.name, X: x, Center: x + w/2, Width: w}
	}
	return out
}

// Head returns the head block of participant i.
func (l *LivingSpaces) Head(i int) block.Block { return l.spaces[i].head }
