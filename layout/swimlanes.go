package layout

import (
	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// Swimlane spacing.
const (
	laneMargin = 10 // on each side of lane content and titles
	titleGap   = 5  // between the title row and the lanes
)

// Lane is one column of a swimlane diagram.
type Lane struct {
	Title   block.Block
	Content block.Block
	// Back fills the lane; nil for none.
	Back ug.Color
}

// Swimlanes places lanes side by side. Every lane is as wide as the
// larger of its title and content plus margins, and all lanes are as
// tall as the tallest one.
type Swimlanes struct {
	lanes []Lane

	// TitleBack fills the title row; nil for none.
	TitleBack ug.Color
	// Color is the separator color. Nil is black.
	Color ug.Color
}

// NewSwimlanes returns swimlanes holding lanes.
func NewSwimlanes(lanes ...Lane) *Swimlanes {
	return &Swimlanes{lanes: lanes}
}

// Add appends a lane.
func (s *Swimlanes) Add(l Lane) *Swimlanes {
	s.lanes = append(s.lanes, l)
	return s
}

func dimOf(b block.Block, sb ug.StringBounder) ug.Dimension {
	if b == nil {
		return ug.Dimension{}
	}
	return b.Dimension(sb)
}

// Widths returns the width of every lane.
func (s *Swimlanes) Widths(sb ug.StringBounder) []float64 {
	out := make([]float64, len(s.lanes))
	for i, l := range s.lanes {
		out[i] = max(dimOf(l.Title, sb).W, dimOf(l.Content, sb).W) + 2*laneMargin
	}
	return out
}

// TitlesHeight returns the height of the title row, gap included.
func (s *Swimlanes) TitlesHeight(sb ug.StringBounder) float64 {
	h := 0.0
	for _, l := range s.lanes {
		h = max(h, dimOf(l.Title, sb).H)
	}
	if h > 0 {
		h += titleGap
	}
	return h
}

func (s *Swimlanes) contentHeight(sb ug.StringBounder) float64 {
	h := 0.0
	for _, l := range s.lanes {
		h = max(h, dimOf(l.Content, sb).H)
	}
	return h
}

// Dimension implements block.Measurable.
func (s *Swimlanes) Dimension(sb ug.StringBounder) ug.Dimension {
	w := 0.0
	for _, lw := range s.Widths(sb) {
		w += lw
	}
	return ug.Dim(w, s.TitlesHeight(sb)+s.contentHeight(sb))
}

// DrawU implements block.Drawable.
func (s *Swimlanes) DrawU(g ug.Graphic) {
	sb := g.Bounder()
	widths := s.Widths(sb)
	dim := s.Dimension(sb)
	th := s.TitlesHeight(sb)

	if s.TitleBack != nil && th > 0 {
		g.Apply(ug.ChangeColor{Color: s.TitleBack}, ug.ChangeBackColor{Color: s.TitleBack}).
			Draw(ug.NewRectangle(dim.W, th-titleGap))
	}

	x := 0.0
	for i, l := range s.lanes {
		if l.Back != nil {
			g.Apply(ug.T(x, th), ug.ChangeColor{Color: l.Back}, ug.ChangeBackColor{Color: l.Back}).
				Draw(ug.NewRectangle(widths[i], dim.H-th))
		}
		if l.Title != nil {
			d := l.Title.Dimension(sb)
			l.Title.DrawU(g.Apply(ug.T(x+(widths[i]-d.W)/2, 0)))
		}
		if l.Content != nil {
			d := l.Content.Dimension(sb)
			l.Content.DrawU(g.Apply(ug.T(x+(widths[i]-d.W)/2, th)))
		}
		x += widths[i]
	}

	color := s.Color
	if color == nil {
		color = ug.Black
	}
	sep := g.Apply(ug.ChangeColor{Color: color})
	x = 0
	for i := 0; i <= len(widths); i++ {
		sep.Apply(ug.T(x, 0)).Draw(ug.VLine(dim.H))
		if i < len(widths) {
			x += widths[i]
		}
	}
	if th > 0 {
		sep.Apply(ug.T(0, th)).Draw(ug.HLine(dim.W))
	}
}
