package annotated

import (
	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// Margins between the main frame and the content.
const (
	frameX1 = 5
	frameX2 = 7
	frameY1 = 10
	frameY2 = 10

	// tabCorner is the cut of the title tab corner.
	tabCorner = 6
)

// AddFrame draws the main frame around blk with its title in a tab
// at the top-left corner.
func (w *Worker) AddFrame(blk block.Block) block.Block {
	if w.ann.MainFrame.IsEmpty() {
		return blk
	}
	return &frame{
		inner:  blk,
		title:  block.NewText(w.ann.MainFrame, w.style.Frame, block.Center),
		back:   w.style.Background,
		shadow: w.style.shadow(),
	}
}

type frame struct {
	inner  block.Block
	title  *block.Text
	back   ug.Color
	shadow float64
}

type frameGeometry struct {
	content ug.Rect // drawn extent of the inner block, in its own coordinates
	title   ug.Dimension
	size    ug.Dimension
}

func (f *frame) geometry(sb ug.StringBounder) frameGeometry {
	dim := f.inner.Dimension(sb)
	mm := ug.MeasureBounds(sb, f.inner.DrawU).AddRect(ug.RectOf(ug.Point{}, dim))
	content := mm.Rect()
	title := f.title.Dimension(sb)
	return frameGeometry{
		content: content,
		title:   title,
		size: ug.Dim(
			frameX1+max(content.W, title.W)+frameX2,
			title.H+frameY1+content.H+frameY2,
		),
	}
}

func (f *frame) Dimension(sb ug.StringBounder) ug.Dimension {
	return f.geometry(sb).size
}

func (f *frame) offset(g frameGeometry) ug.Translate {
	return ug.T(frameX1-g.content.X, frameY1+g.title.H-g.content.Y)
}

func (f *frame) DrawU(g ug.Graphic) {
	geo := f.geometry(g.Bounder())
	box := g.Apply(ug.ChangeColor{Color: ug.Black}, ug.ChangeBackColor{Color: f.back}, ug.DefaultStroke())
	box.Draw(ug.NewRectangle(geo.size.W, geo.size.H).WithShadow(f.shadow))

	x, y := geo.title.W+tabCorner, geo.title.H+tabCorner
	tab := ug.BuildPath().
		MoveTo(x, 0).
		LineTo(x, y-tabCorner).
		LineTo(x-tabCorner, y).
		LineTo(0, y).
		Build()
	box.Apply(ug.ChangeBackColor{Color: nil}).Draw(tab)
	f.title.DrawU(g.Apply(ug.T(tabCorner/2, tabCorner/2)))

	f.inner.DrawU(g.Apply(f.offset(geo)))
}

func (f *frame) InnerPosition(member string, sb ug.StringBounder, s block.InnerStrategy) (ug.Rect, bool) {
	ia, ok := f.inner.(block.InnerAddressable)
	if !ok {
		return ug.Rect{}, false
	}
	r, ok := ia.InnerPosition(member, sb, s)
	if !ok {
		return ug.Rect{}, false
	}
	return r.Translate(f.offset(f.geometry(sb))), true
}
