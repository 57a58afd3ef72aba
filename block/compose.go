package block

import "github.com/gogpu/ug"

// Margins are the four sides of a margin.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns equal margins on every side.
func Uniform(m float64) Margins { return Margins{m, m, m, m} }

// XY returns margins of x on the sides and y on top and bottom.
func XY(x, y float64) Margins { return Margins{Top: y, Right: x, Bottom: y, Left: x} }

type margin struct {
	inner Block
	m     Margins
}

// Margin surrounds blk with empty space.
func Margin(blk Block, m Margins) Block {
	return margin{inner: blk, m: m}
}

func (b margin) Dimension(sb ug.StringBounder) ug.Dimension {
	return b.inner.Dimension(sb).Delta(b.m.Left+b.m.Right, b.m.Top+b.m.Bottom)
}

func (b margin) DrawU(g ug.Graphic) {
	b.inner.DrawU(g.Apply(ug.T(b.m.Left, b.m.Top)))
}

func (b margin) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOf(b.inner, ug.T(b.m.Left, b.m.Top), member, sb, s)
}

// Border is the style of a box drawn around a block.
type Border struct {
	Color   ug.Color
	Back    ug.Color
	Stroke  ug.Stroke
	Round   float64
	Shadow  float64
	Padding Margins
}

type bordered struct {
	inner Block
	st    Border
}

// Bordered draws a rectangle around blk, with blk inside the padding.
// The shadow is drawn outside the measured size.
func Bordered(blk Block, st Border) Block {
	return bordered{inner: blk, st: st}
}

func (b bordered) Dimension(sb ug.StringBounder) ug.Dimension {
	p := b.st.Padding
	return b.inner.Dimension(sb).Delta(p.Left+p.Right, p.Top+p.Bottom)
}

func (b bordered) DrawU(g ug.Graphic) {
	d := b.Dimension(g.Bounder())
	rect := ug.NewRoundedRectangle(d.W, d.H, b.st.Round).WithShadow(b.st.Shadow)
	g.Apply(ug.ChangeColor{Color: b.st.Color}, ug.ChangeBackColor{Color: b.st.Back}, b.st.Stroke).Draw(rect)
	b.inner.DrawU(g.Apply(ug.T(b.st.Padding.Left, b.st.Padding.Top)))
}

func (b bordered) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOf(b.inner, ug.T(b.st.Padding.Left, b.st.Padding.Top), member, sb, s)
}

type backcolored struct {
	inner Block
	back  ug.Color
}

// Backcolored fills the area of blk with back before drawing it.
func Backcolored(blk Block, back ug.Color) Block {
	return backcolored{inner: blk, back: back}
}

func (b backcolored) Dimension(sb ug.StringBounder) ug.Dimension { return b.inner.Dimension(sb) }

func (b backcolored) DrawU(g ug.Graphic) {
	if b.back != nil {
		d := b.inner.Dimension(g.Bounder())
		g.Apply(ug.ChangeColor{Color: b.back}, ug.ChangeBackColor{Color: b.back}).Draw(ug.NewRectangle(d.W, d.H))
	}
	b.inner.DrawU(g)
}

func (b backcolored) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOf(b.inner, ug.Translate{}, member, sb, s)
}

type translated struct {
	inner Block
	t     ug.Translate
}

// Translated draws blk shifted by t. The measured size grows by t
// so the shifted content stays inside.
func Translated(blk Block, t ug.Translate) Block {
	return translated{inner: blk, t: t}
}

func (b translated) Dimension(sb ug.StringBounder) ug.Dimension {
	return b.inner.Dimension(sb).Delta(b.t.Dx, b.t.Dy)
}

func (b translated) DrawU(g ug.Graphic) { b.inner.DrawU(g.Apply(b.t)) }

func (b translated) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOf(b.inner, b.t, member, sb, s)
}

type mergeTB struct {
	blocks []Block
	align  HAlign
}

// MergeTB stacks blocks top to bottom, aligning each horizontally
// inside the widest one. Nil blocks are skipped.
func MergeTB(align HAlign, blocks ...Block) Block {
	return mergeTB{blocks: compact(blocks), align: align}
}

func (m mergeTB) Dimension(sb ug.StringBounder) ug.Dimension {
	var d ug.Dimension
	for _, b := range m.blocks {
		d = d.MergeTB(b.Dimension(sb))
	}
	return d
}

func (m mergeTB) offsets(sb ug.StringBounder) []ug.Translate {
	total := m.Dimension(sb)
	out := make([]ug.Translate, len(m.blocks))
	y := 0.0
	for i, b := range m.blocks {
		d := b.Dimension(sb)
		out[i] = ug.T(m.align.Offset(total.W, d.W), y)
		y += d.H
	}
	return out
}

func (m mergeTB) DrawU(g ug.Graphic) {
	for i, t := range m.offsets(g.Bounder()) {
		m.blocks[i].DrawU(g.Apply(t))
	}
}

func (m mergeTB) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOfAll(m.blocks, m.offsets(sb), member, sb, s)
}

type mergeLR struct {
	blocks []Block
	align  VAlign
}

// MergeLR places blocks left to right, aligning each vertically
// inside the tallest one. Nil blocks are skipped.
func MergeLR(align VAlign, blocks ...Block) Block {
	return mergeLR{blocks: compact(blocks), align: align}
}

func (m mergeLR) Dimension(sb ug.StringBounder) ug.Dimension {
	var d ug.Dimension
	for _, b := range m.blocks {
		d = d.MergeLR(b.Dimension(sb))
	}
	return d
}

func (m mergeLR) offsets(sb ug.StringBounder) []ug.Translate {
	total := m.Dimension(sb)
	out := make([]ug.Translate, len(m.blocks))
	x := 0.0
	for i, b := range m.blocks {
		d := b.Dimension(sb)
		out[i] = ug.T(x, m.align.Offset(total.H, d.H))
		x += d.W
	}
	return out
}

func (m mergeLR) DrawU(g ug.Graphic) {
	for i, t := range m.offsets(g.Bounder()) {
		m.blocks[i].DrawU(g.Apply(t))
	}
}

func (m mergeLR) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	return innerOfAll(m.blocks, m.offsets(sb), member, sb, s)
}

func innerOfAll(blocks []Block, offsets []ug.Translate, member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	switch s {
	case FirstLine:
		for i, b := range blocks {
			if r, ok := innerOf(b, offsets[i], member, sb, s); ok {
				return r, true
			}
		}
		return ug.Rect{}, false
	case LastLine:
		for i := len(blocks) - 1; i >= 0; i-- {
			if r, ok := innerOf(blocks[i], offsets[i], member, sb, s); ok {
				return r, true
			}
		}
		return ug.Rect{}, false
	}
	for i, b := range blocks {
		if r, ok := innerOf(b, offsets[i], member, sb, s); ok {
			return r, true
		}
	}
	return ug.Rect{}, false
}

func compact(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}
