// Package eps provides the "eps" format: Encapsulated PostScript through
// the tdewolff/canvas PostScript renderer.
//
// Shapes are recorded while drawing and replayed onto a canvas sized to
// the bounds of everything drawn, so the %%BoundingBox hugs the content.
// One diagram unit is one PostScript point at scale 1. Glyphs are set
// with the Go fonts and written as outlines.
package eps

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/ps"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
)

func init() {
	backend.Register("eps", func() backend.Backend { return New() })
}

// ErrNotBegun is returned when drawing before Begin.
var ErrNotBegun = errors.New("eps: backend not begun")

const (
	mmPerPt = 25.4 / 72
	// shadowGray is the gray level of drop shadows.
	shadowGray = 179
)

// op draws one recorded shape onto the page.
type op func(pg *page)

// Backend writes EPS.
type Backend struct {
	dim      ug.Dimension
	settings backend.Settings
	begun    bool
	ops      []op
	urls     int
	families map[bool]*canvas.FontFamily
}

var _ backend.Backend = (*Backend)(nil)

// New returns an EPS backend. It must be begun before drawing.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string          { return "eps" }
func (b *Backend) Coverage() ug.ShapeSet { return ug.AllShapes }
func (b *Backend) Extension() string     { return "eps" }

// Begin resets the document for a page of size dim.
func (b *Backend) Begin(dim ug.Dimension, s backend.Settings) error {
	b.dim = dim
	b.settings = s
	b.begun = true
	b.ops = b.ops[:0]
	b.urls = 0
	return nil
}

func (b *Backend) ready() error {
	if !b.begun {
		return ErrNotBegun
	}
	return nil
}

// PageBox returns the part of diagram space written to the document:
// the drawn bounds, or the page when nothing was drawn.
func (b *Backend) PageBox(bounds ug.MinMax) ug.Rect {
	if bounds.IsEmpty() {
		return ug.Rect{W: b.dim.W, H: b.dim.H}
	}
	return bounds.Rect()
}

// page maps diagram coordinates onto a canvas whose origin is the
// bottom-left corner of box.
type page struct {
	ctx *canvas.Context
	box ug.Rect
	// scale converts diagram units to points, k to millimeters.
	scale, k float64
}

func newPage(c *canvas.Canvas, box ug.Rect, scale float64) *page {
	return &page{ctx: canvas.NewContext(c), box: box, scale: scale, k: scale * mmPerPt}
}

// at returns the canvas point of the diagram point (x, y).
func (pg *page) at(x, y float64) (float64, float64) {
	return (x - pg.box.X) * pg.k, (pg.box.MaxY() - y) * pg.k
}

func (pg *page) point(x, y float64) canvas.Point {
	cx, cy := pg.at(x, y)
	return canvas.Point{X: cx, Y: cy}
}

// path converts p, drawn at (x, y), to a canvas path.
func (pg *page) path(p ug.Path, x, y float64) *canvas.Path {
	out := &canvas.Path{}
	p.Translate(ug.T(x, y)).Walk(func(e ug.PathElement) {
		switch v := e.(type) {
		case ug.MoveTo:
			out.MoveTo(pg.at(v.Point.X, v.Point.Y))
		case ug.LineTo:
			out.LineTo(pg.at(v.Point.X, v.Point.Y))
		case ug.QuadTo:
			cx, cy := pg.at(v.Control.X, v.Control.Y)
			px, py := pg.at(v.Point.X, v.Point.Y)
			out.QuadTo(cx, cy, px, py)
		case ug.CubicTo:
			c1x, c1y := pg.at(v.Control1.X, v.Control1.Y)
			c2x, c2y := pg.at(v.Control2.X, v.Control2.Y)
			px, py := pg.at(v.Point.X, v.Point.Y)
			out.CubeTo(c1x, c1y, c2x, c2y, px, py)
		case ug.Close:
			out.Close()
		}
	})
	return out
}

func rgba(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// paint converts p; gradients run along the policy axis of box.
func (pg *page) paint(p ug.Paint, box ug.Rect) canvas.Paint {
	switch {
	case p.IsNone():
		return canvas.Paint{}
	case p.Kind == ug.PaintGradient:
		x1, y1, x2, y2 := p.Policy.Axis(box.X, box.Y, box.W, box.H)
		g := canvas.NewLinearGradient(pg.point(x1, y1), pg.point(x2, y2))
		g.Add(0, rgba(p.From))
		g.Add(1, rgba(p.To))
		return canvas.Paint{Gradient: g}
	default:
		return canvas.Paint{Color: rgba(p.Solid)}
	}
}

// draw fills with fill and strokes with p.Color.
func (pg *page) draw(path *canvas.Path, box ug.Rect, fill ug.Paint, p ug.DrawParam) {
	st := &pg.ctx.Style
	st.Fill = pg.paint(fill, box)
	st.Stroke = canvas.Paint{}
	st.Dashes = nil
	if p.Stroke.Thickness > 0 {
		st.Stroke = pg.paint(p.Color, box)
		st.StrokeWidth = p.Stroke.Thickness * pg.k
		for _, d := range p.Stroke.DashArray() {
			st.Dashes = append(st.Dashes, d*pg.k)
		}
	}
	pg.ctx.DrawPath(0, 0, path)
}

// closed records shadow, fill and border of a closed outline.
func (b *Backend) closed(path ug.Path, x, y, shadow float64, p ug.DrawParam) {
	b.ops = append(b.ops, func(pg *page) {
		box := path.Bounds().Translate(ug.T(x, y))
		if shadow > 0 {
			gray := ug.SolidPaint(color.NRGBA{R: shadowGray, G: shadowGray, B: shadowGray, A: 0xFF})
			pg.draw(pg.path(path, x+shadow, y+shadow), box, gray, ug.DrawParam{})
		}
		if p.Back.Kind == ug.PaintSolid && p.Color.Equal(p.Back) {
			p.Stroke.Thickness = 0
		}
		pg.draw(pg.path(path, x, y), box, p.Back, p)
	})
}

// open records a stroked outline.
func (b *Backend) open(path ug.Path, x, y float64, p ug.DrawParam) {
	if p.Color.IsNone() || p.Stroke.Thickness <= 0 {
		return
	}
	b.ops = append(b.ops, func(pg *page) {
		box := path.Bounds().Translate(ug.T(x, y))
		pg.draw(pg.path(path, x, y), box, ug.Paint{}, p)
	})
}

func (b *Backend) DrawRectangle(s ug.Rectangle, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.closed(ug.RectanglePath(s), x, y, s.Shadow, p)
	return nil
}

func (b *Backend) DrawEllipse(s ug.Ellipse, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.IsArc() {
		b.open(ug.EllipsePath(s), x, y, p)
		return nil
	}
	b.closed(ug.EllipsePath(s), x, y, s.Shadow, p)
	return nil
}

func (b *Backend) DrawLine(s ug.Line, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.open(ug.BuildPath().MoveTo(0, 0).LineTo(s.Dx, s.Dy).Build(), x, y, p)
	return nil
}

func (b *Backend) DrawPolygon(s ug.Polygon, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if len(s.Points) == 0 {
		return nil
	}
	b.closed(ug.PolygonPath(s), x, y, s.Shadow, p)
	return nil
}

func (b *Backend) DrawPath(s ug.Path, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	switch {
	case s.IsEmpty():
	case s.IsClosed():
		b.closed(s, x, y, s.Shadow, p)
	default:
		b.open(s, x, y, p)
	}
	return nil
}

// family loads the Go fonts, proportional or monospaced, once per
// backend.
func (b *Backend) family(mono bool) (*canvas.FontFamily, error) {
	if f, ok := b.families[mono]; ok {
		return f, nil
	}
	faces := [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	name := "Go"
	if mono {
		faces = [4][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF}
		name = "Go Mono"
	}
	f := canvas.NewFontFamily(name)
	styles := [4]canvas.FontStyle{canvas.FontRegular, canvas.FontBold, canvas.FontItalic, canvas.FontBold | canvas.FontItalic}
	for i, data := range faces {
		if err := f.LoadFont(data, 0, styles[i]); err != nil {
			return nil, fmt.Errorf("eps: load %s font: %w", name, err)
		}
	}
	if b.families == nil {
		b.families = make(map[bool]*canvas.FontFamily)
	}
	b.families[mono] = f
	return f, nil
}

func fontStyle(s ug.FontStyle) canvas.FontStyle {
	out := canvas.FontRegular
	if s.Has(ug.FontBold) {
		out = canvas.FontBold
	}
	if s.Has(ug.FontItalic) {
		out |= canvas.FontItalic
	}
	return out
}

// DrawText sets s with its baseline at y.
func (b *Backend) DrawText(s ug.Text, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Text == "" || p.Color.IsNone() {
		return nil
	}
	f := s.Font.Font
	size := f.Size
	if size <= 0 {
		size = ug.DefaultFont.Size
	}
	fam, err := b.family(f.IsMonospaced())
	if err != nil {
		return err
	}
	col := rgba(p.Color.First())
	b.ops = append(b.ops, func(pg *page) {
		face := fam.Face(size*pg.scale, col, fontStyle(f.Style), canvas.FontNormal)
		cx, cy := pg.at(x, y)
		pg.ctx.DrawText(cx, cy, canvas.NewTextLine(face, s.Text, canvas.Left))
	})
	return nil
}

// DrawImage places the image with its top-left corner at (x, y).
func (b *Backend) DrawImage(s ug.Image, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Img == nil || s.Img.Bounds().Empty() {
		return nil
	}
	size := s.Size()
	b.ops = append(b.ops, func(pg *page) {
		px := float64(s.Img.Bounds().Dx())
		cx, cy := pg.at(x, y+size.H)
		pg.ctx.DrawImage(cx, cy, s.Img, canvas.DPMM(px/(size.W*pg.k)))
	})
	return nil
}

// StartURL and CloseURL only track nesting; EPS has no links.
func (b *Backend) StartURL(string, string) error {
	b.urls++
	return nil
}

func (b *Backend) CloseURL() error {
	if b.urls == 0 {
		return ug.ErrUnbalancedURL
	}
	b.urls--
	return nil
}

// End replays the page onto a canvas and writes it as EPS.
func (b *Backend) End(w io.Writer, bounds ug.MinMax) error {
	if !b.begun {
		return ErrNotBegun
	}
	box := b.PageBox(bounds)
	scale := b.settings.EffectiveScale()
	c := canvas.New(box.W*scale*mmPerPt, box.H*scale*mmPerPt)
	pg := newPage(c, box, scale)

	if bg, ok := b.settings.BackgroundPaint(); ok {
		sheet := ug.NewRectangle(b.dim.W, b.dim.H)
		pg.draw(pg.path(ug.RectanglePath(sheet), 0, 0), ug.Rect{W: sheet.W, H: sheet.H}, ug.SolidPaint(bg.NRGBA()), ug.DrawParam{})
	}
	for _, o := range b.ops {
		o(pg)
	}

	var errs []error
	var buf bytes.Buffer
	r := ps.New(&buf, c.W, c.H, &ps.Options{Format: ps.EncapsulatedPostScript})
	c.RenderTo(r)
	if err := r.Close(); err != nil {
		errs = append(errs, fmt.Errorf("eps: %w", err))
	}
	if _, err := w.Write(b.comments(buf.Bytes())); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// comments adds the title to the header comments and the diagram source,
// one "% " line per source line, right after them.
func (b *Backend) comments(doc []byte) []byte {
	title, source := b.settings.Title, b.settings.Metadata
	if title == "" && source == "" {
		return doc
	}
	header := len(doc)
	if i := bytes.IndexByte(doc, '\n'); i >= 0 {
		header = i + 1
	}
	body := header
	if i := bytes.Index(doc, []byte("%%EndComments\n")); i >= 0 {
		body = i + len("%%EndComments\n")
	}

	var out bytes.Buffer
	out.Write(doc[:header])
	if title != "" {
		out.WriteString("%%Title: " + strings.NewReplacer("\n", " ", "\r", " ").Replace(title) + "\n")
	}
	out.Write(doc[header:body])
	if source != "" {
		for _, line := range strings.Split(source, "\n") {
			out.WriteString("% " + strings.TrimRight(line, "\r") + "\n")
		}
	}
	out.Write(doc[body:])
	return out.Bytes()
}
