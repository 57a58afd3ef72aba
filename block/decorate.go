package block

import "github.com/gogpu/ug"

// Side is where a decoration is attached.
type Side uint8

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// decorated places deco on one side of inner. For top and bottom the
// height is the sum and the width the max; left and right swap that.
type decorated struct {
	inner, deco Block
	side        Side
	h           HAlign
	v           VAlign
}

// AddTop puts top above blk; both are aligned horizontally by align.
// A nil top returns blk unchanged.
func AddTop(blk, top Block, align HAlign) Block {
	if top == nil {
		return blk
	}
	return decorated{inner: blk, deco: top, side: SideTop, h: align}
}

// AddBottom puts bottom below blk.
func AddBottom(blk, bottom Block, align HAlign) Block {
	if bottom == nil {
		return blk
	}
	return decorated{inner: blk, deco: bottom, side: SideBottom, h: align}
}

// AddTopAndBottom puts top above and bottom below blk.
func AddTopAndBottom(blk, top, bottom Block, align HAlign) Block {
	return AddBottom(AddTop(blk, top, align), bottom, align)
}

// AddLeft puts left beside blk; both are aligned vertically by align.
func AddLeft(blk, left Block, align VAlign) Block {
	if left == nil {
		return blk
	}
	return decorated{inner: blk, deco: left, side: SideLeft, v: align}
}

// AddRight puts right beside blk.
func AddRight(blk, right Block, align VAlign) Block {
	if right == nil {
		return blk
	}
	return decorated{inner: blk, deco: right, side: SideRight, v: align}
}

// AddAt attaches deco above blk when v is Top and below it otherwise,
// aligned horizontally by h. This is how legends are placed.
func AddAt(blk, deco Block, v VAlign, h HAlign) Block {
	if v == Top {
		return AddTop(blk, deco, h)
	}
	return AddBottom(blk, deco, h)
}

func (d decorated) Dimension(sb ug.StringBounder) ug.Dimension {
	in, de := d.inner.Dimension(sb), d.deco.Dimension(sb)
	if d.side == SideLeft || d.side == SideRight {
		return in.MergeLR(de)
	}
	return in.MergeTB(de)
}

// positions returns the offsets of inner and deco.
func (d decorated) positions(sb ug.StringBounder) (inner, deco ug.Translate) {
	in, de := d.inner.Dimension(sb), d.deco.Dimension(sb)
	total := d.Dimension(sb)
	switch d.side {
	case SideTop:
		return ug.T(d.h.Offset(total.W, in.W), de.H), ug.T(d.h.Offset(total.W, de.W), 0)
	case SideBottom:
		return ug.T(d.h.Offset(total.W, in.W), 0), ug.T(d.h.Offset(total.W, de.W), in.H)
	case SideLeft:
		return ug.T(de.W, d.v.Offset(total.H, in.H)), ug.T(0, d.v.Offset(total.H, de.H))
	default:
		return ug.T(0, d.v.Offset(total.H, in.H)), ug.T(in.W, d.v.Offset(total.H, de.H))
	}
}

func (d decorated) DrawU(g ug.Graphic) {
	ti, td := d.positions(g.Bounder())
	d.deco.DrawU(g.Apply(td))
	d.inner.DrawU(g.Apply(ti))
}

func (d decorated) InnerPosition(member string, sb ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	ti, _ := d.positions(sb)
	return innerOf(d.inner, ti, member, sb, s)
}
