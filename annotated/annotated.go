// Package annotated wraps a diagram block with its annotations: the
// main frame, the legend, the title, the caption and the header and
// footer ribbons.
//
// The order is fixed. [Worker.AddAll] applies the frame first and the
// header and footer last, so the header is always the outermost line:
//
//	w := annotated.NewWorker(ann, annotated.DefaultStyle())
//	page := w.AddAll(body)
package annotated

import (
	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// Legend is a display with its placement.
type Legend struct {
	Display block.Display `yaml:"lines"`
	HAlign  block.HAlign  `yaml:"halign"`
	VAlign  block.VAlign  `yaml:"valign"`
}

// Section is a header or footer display with its alignment.
type Section struct {
	Display block.Display `yaml:"lines"`
	HAlign  block.HAlign  `yaml:"halign"`
}

// Annotations are the decorations of one diagram page. Empty displays
// are left out.
type Annotations struct {
	MainFrame block.Display `yaml:"frame"`
	Title     block.Display `yaml:"title"`
	Caption   block.Display `yaml:"caption"`
	Legend    Legend        `yaml:"legend"`
	Header    Section       `yaml:"header"`
	Footer    Section       `yaml:"footer"`
}

// IsEmpty reports whether there is nothing to add.
func (a Annotations) IsEmpty() bool {
	return a.MainFrame.IsEmpty() && a.Title.IsEmpty() && a.Caption.IsEmpty() &&
		a.Legend.Display.IsEmpty() && a.Header.Display.IsEmpty() && a.Footer.Display.IsEmpty()
}

// Style holds the fonts and colors of the annotations.
type Style struct {
	Title   ug.FontConfig
	Caption ug.FontConfig
	Legend  ug.FontConfig
	Header  ug.FontConfig
	Footer  ug.FontConfig
	Frame   ug.FontConfig

	// Background fills the main frame.
	Background ug.Color

	LegendBack   ug.Color
	LegendBorder ug.Color

	// TitleBorder draws a box around the title; nil for none.
	TitleBorder ug.Color

	Shadowing bool
}

// DefaultStyle is the classic look: bold title, grey legend box and
// small grey header and footer.
func DefaultStyle() Style {
	base := ug.NewFontConfig(ug.DefaultFont)
	small := base.WithSize(10).WithColor(ug.Hex(0x888888))
	return Style{
		Title:        base.WithSize(14).Bold(),
		Caption:      base,
		Legend:       base,
		Header:       small,
		Footer:       small,
		Frame:        base,
		Background:   ug.White,
		LegendBack:   ug.Hex(0xDDDDDD),
		LegendBorder: ug.Black,
		Shadowing:    false,
	}
}

func (s Style) shadow() float64 {
	if s.Shadowing {
		return 3
	}
	return 0
}

// Worker applies annotations to blocks.
type Worker struct {
	ann   Annotations
	style Style
}

// NewWorker returns a worker for ann drawn in style st.
func NewWorker(ann Annotations, st Style) *Worker {
	return &Worker{ann: ann, style: st}
}

// HasMainFrame reports whether a main frame is set.
func (w *Worker) HasMainFrame() bool { return !w.ann.MainFrame.IsEmpty() }

// AddAll applies frame, legend, title, caption and header/footer, in
// that order.
func (w *Worker) AddAll(blk block.Block) block.Block {
	blk = w.AddFrame(blk)
	blk = w.AddLegend(blk)
	blk = w.AddTitle(blk)
	blk = w.AddCaption(blk)
	blk = w.AddHeaderFooter(blk)
	return blk
}

// AddLegend attaches the legend box above or below blk.
func (w *Worker) AddLegend(blk block.Block) block.Block {
	l := w.ann.Legend
	if l.Display.IsEmpty() {
		return blk
	}
	box := block.Margin(block.Bordered(
		block.NewText(l.Display, w.style.Legend, block.Left),
		block.Border{
			Color:   w.style.LegendBorder,
			Back:    w.style.LegendBack,
			Stroke:  ug.DefaultStroke(),
			Round:   15,
			Shadow:  w.style.shadow(),
			Padding: block.XY(7, 5),
		},
	), block.Uniform(5))
	return block.AddAt(blk, box, l.VAlign, l.HAlign)
}

// AddTitle puts the title above blk, centered.
func (w *Worker) AddTitle(blk block.Block) block.Block {
	if w.ann.Title.IsEmpty() {
		return blk
	}
	title := block.Bordered(
		block.NewText(w.ann.Title, w.style.Title, block.Center),
		block.Border{Color: w.style.TitleBorder, Stroke: ug.DefaultStroke(), Padding: block.Uniform(5)},
	)
	return block.AddTop(blk, block.Margin(title, block.Margins{Top: 5, Bottom: 5}), block.Center)
}

// AddCaption puts the caption below blk, centered.
func (w *Worker) AddCaption(blk block.Block) block.Block {
	if w.ann.Caption.IsEmpty() {
		return blk
	}
	caption := block.Margin(block.NewText(w.ann.Caption, w.style.Caption, block.Center), block.Uniform(1))
	return block.AddBottom(blk, caption, block.Center)
}

// AddHeaderFooter puts the header above and the footer below blk,
// each with its own alignment.
func (w *Worker) AddHeaderFooter(blk block.Block) block.Block {
	h, f := w.ann.Header, w.ann.Footer
	if !h.Display.IsEmpty() {
		blk = block.AddTop(blk, ribbon(h, w.style.Header), h.HAlign)
	}
	if !f.Display.IsEmpty() {
		blk = block.AddBottom(blk, ribbon(f, w.style.Footer), f.HAlign)
	}
	return blk
}

func ribbon(s Section, fc ug.FontConfig) block.Block {
	return block.Margin(block.NewText(s.Display, fc, s.HAlign), block.XY(0, 2))
}
