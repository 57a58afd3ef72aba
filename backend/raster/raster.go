// Package raster provides the "png" format: pages are rasterized with
// rasterx and encoded as PNG.
//
// # Supported Features
//
//   - Solid and gradient fills and strokes, all four gradient policies
//   - Dashed strokes
//   - Blurred drop shadows
//   - Rectangular clipping
//   - Text through the Go fonts (x/image)
//   - Scaled images
//   - Diagram source embedded as a PNG text chunk
//
// Hyperlinks have no raster representation and are ignored.
//
// # Example
//
//	import _ "github.com/gogpu/ug/backend/raster"
//
//	b, _ := backend.New("png")
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
	"github.com/gogpu/ug/internal/filter"
	"github.com/gogpu/ug/text"
)

func init() {
	backend.Register("png", func() backend.Backend { return New() })
}

// miterLimit matches the default of most vector formats.
const miterLimit = 10

// Backend renders a page into an RGBA image.
type Backend struct {
	img      *image.RGBA
	scale    float64
	settings backend.Settings

	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	dasher  *rasterx.Dasher

	faces     *text.Faces
	faceCache map[ug.Font]font.Face
	shadowing bool
	urls      int
}

var _ backend.Backend = (*Backend)(nil)

// New returns a raster backend using the default Go fonts.
// It must be begun before drawing.
func New() *Backend {
	return NewWithFaces(text.DefaultFaces())
}

// NewWithFaces returns a raster backend drawing text with faces.
func NewWithFaces(faces *text.Faces) *Backend {
	return &Backend{faces: faces, shadowing: true}
}

// SetShadowing turns drop shadows on or off. They are on by default.
func (b *Backend) SetShadowing(on bool) { b.shadowing = on }

func (b *Backend) Name() string          { return "png" }
func (b *Backend) Coverage() ug.ShapeSet { return ug.AllShapes }
func (b *Backend) Extension() string     { return "png" }

// Image returns the page drawn so far, or nil before Begin.
func (b *Backend) Image() *image.RGBA { return b.img }

// Begin allocates the page, scaled by the effective scale of s, and
// paints the background.
func (b *Backend) Begin(dim ug.Dimension, s backend.Settings) error {
	if dim.W < 0 || dim.H < 0 {
		return fmt.Errorf("raster: negative page size %v", dim)
	}
	b.settings = s
	b.scale = s.EffectiveScale()
	w := int(math.Ceil(dim.W * b.scale))
	h := int(math.Ceil(dim.H * b.scale))
	w, h = max(w, 1), max(h, 1)

	b.img = image.NewRGBA(image.Rect(0, 0, w, h))
	if bg, ok := s.BackgroundPaint(); ok {
		draw.Draw(b.img, b.img.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)
	}

	b.scanner = rasterx.NewScannerGV(w, h, b.img, b.img.Bounds())
	b.filler = rasterx.NewFiller(w, h, b.scanner)
	b.dasher = rasterx.NewDasher(w, h, b.scanner)
	b.faceCache = make(map[ug.Font]font.Face)
	b.urls = 0

	ug.Logger().Debug("raster: begin", "width", w, "height", h, "scale", b.scale)
	return nil
}

// End encodes the page as PNG, with the diagram source in an iTXt
// chunk when metadata is set.
func (b *Backend) End(w io.Writer, _ ug.MinMax) error {
	if b.img == nil {
		return ErrNotBegun
	}
	for _, f := range b.faceCache {
		f.Close()
	}
	clear(b.faceCache)
	return Encode(w, b.img, b.settings.Metadata)
}

func (b *Backend) ready() error {
	if b.img == nil {
		return ErrNotBegun
	}
	return nil
}

// pt converts diagram units to a scaled fixed point.
func (b *Backend) pt(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * b.scale * 64)),
		Y: fixed.Int26_6(math.Round(y * b.scale * 64)),
	}
}

// addPath feeds p, drawn at (x, y), into a rasterx adder.
func (b *Backend) addPath(a rasterx.Adder, p ug.Path, x, y float64) {
	open := false
	var start ug.Point
	p.Walk(func(e ug.PathElement) {
		switch v := e.(type) {
		case ug.MoveTo:
			if open {
				a.Stop(false)
			}
			start = v.Point
			a.Start(b.pt(x+v.Point.X, y+v.Point.Y))
			open = true
		case ug.LineTo:
			if !open {
				a.Start(b.pt(x+start.X, y+start.Y))
				open = true
			}
			a.Line(b.pt(x+v.Point.X, y+v.Point.Y))
		case ug.QuadTo:
			if !open {
				a.Start(b.pt(x+start.X, y+start.Y))
				open = true
			}
			a.QuadBezier(b.pt(x+v.Control.X, y+v.Control.Y), b.pt(x+v.Point.X, y+v.Point.Y))
		case ug.CubicTo:
			if !open {
				a.Start(b.pt(x+start.X, y+start.Y))
				open = true
			}
			a.CubeBezier(b.pt(x+v.Control1.X, y+v.Control1.Y), b.pt(x+v.Control2.X, y+v.Control2.Y),
				b.pt(x+v.Point.X, y+v.Point.Y))
		case ug.Close:
			if open {
				a.Stop(true)
				open = false
			}
		}
	})
	if open {
		a.Stop(false)
	}
}

// setClip restricts the scanner to the clip of p.
func (b *Backend) setClip(p ug.DrawParam) {
	b.scanner.SetClip(b.clipRect(p))
}

// clipRect is the pixel clip of p, or the zero rectangle for none.
func (b *Backend) clipRect(p ug.DrawParam) image.Rectangle {
	if p.Clip == nil {
		return image.Rectangle{}
	}
	c := p.Clip
	r := image.Rect(
		int(math.Floor(c.X*b.scale)), int(math.Floor(c.Y*b.scale)),
		int(math.Ceil(c.MaxX()*b.scale)), int(math.Ceil(c.MaxY()*b.scale)),
	).Intersect(b.img.Bounds())
	if r.Empty() {
		// The zero rectangle disables clipping, so clip to a box
		// outside the page instead.
		return image.Rect(-2, -2, -1, -1)
	}
	return r
}

// paintColor turns a paint into a rasterx color: a color.Color, or a
// gradient color function over box.
func (b *Backend) paintColor(p ug.Paint, box ug.Rect) interface{} {
	if p.Kind != ug.PaintGradient {
		return p.Solid
	}
	x1, y1, x2, y2 := p.Policy.Unit()
	g := rasterx.Gradient{
		Points: [5]float64{x1, y1, x2, y2},
		Stops: []rasterx.GradStop{
			{StopColor: p.From, Offset: 0, Opacity: 1},
			{StopColor: p.To, Offset: 1, Opacity: 1},
		},
		Matrix: rasterx.Identity,
		Units:  rasterx.ObjectBoundingBox,
	}
	g.Bounds.X, g.Bounds.Y = box.X*b.scale, box.Y*b.scale
	g.Bounds.W, g.Bounds.H = box.W*b.scale, box.H*b.scale
	return g.GetColorFunction(1)
}

func (b *Backend) fill(p ug.Path, x, y float64, paint ug.Paint, box ug.Rect, dp ug.DrawParam) {
	if paint.IsNone() {
		return
	}
	b.filler.Clear()
	b.setClip(dp)
	b.filler.SetColor(b.paintColor(paint, box))
	b.addPath(b.filler, p, x, y)
	b.filler.Draw()
	b.filler.Clear()
}

func (b *Backend) stroke(p ug.Path, x, y float64, paint ug.Paint, box ug.Rect, dp ug.DrawParam) {
	st := dp.Stroke.Scale(b.scale)
	if paint.IsNone() || st.Thickness <= 0 {
		return
	}
	b.dasher.Clear()
	b.setClip(dp)
	b.dasher.SetStroke(
		fixed.Int26_6(st.Thickness*64), fixed.Int26_6(miterLimit*64),
		rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter,
		st.DashArray(), 0,
	)
	b.dasher.SetColor(b.paintColor(paint, box))
	b.addPath(b.dasher, p, x, y)
	b.dasher.Draw()
	b.dasher.Clear()
}

// shadow paints a blurred copy of the closed path p beneath where it
// will be drawn.
func (b *Backend) shadow(p ug.Path, x, y, depth float64, dp ug.DrawParam) {
	if !b.shadowing || depth <= 0 {
		return
	}
	ds := filter.NewDropShadow(depth * b.scale)
	box := p.Bounds().Translate(ug.T(x, y))
	shape := image.Rect(
		int(math.Floor(box.X*b.scale)), int(math.Floor(box.Y*b.scale)),
		int(math.Ceil(box.MaxX()*b.scale)), int(math.Ceil(box.MaxY()*b.scale)),
	)
	mb := ds.MaskBounds(shape)
	mask := image.NewAlpha(image.Rect(0, 0, mb.Dx(), mb.Dy()))
	scanner := rasterx.NewScannerGV(mb.Dx(), mb.Dy(), mask, mask.Bounds())
	f := rasterx.NewFiller(mb.Dx(), mb.Dy(), scanner)
	f.SetColor(color.Alpha{A: 0xff})
	// Rasterize in mask-local coordinates, then rebase the mask.
	ox, oy := float64(mb.Min.X)/b.scale, float64(mb.Min.Y)/b.scale
	b.addPath(f, p, x-ox, y-oy)
	f.Draw()
	mask.Rect = mb

	dst := draw.Image(b.img)
	if clip := b.clipRect(dp); clip != (image.Rectangle{}) {
		dst = b.img.SubImage(clip).(*image.RGBA)
	}
	ds.Apply(dst, mask)
}

// closedShape draws shadow, fill and border of a closed outline.
func (b *Backend) closedShape(p ug.Path, x, y, shadow float64, dp ug.DrawParam) {
	box := p.Bounds().Translate(ug.T(x, y))
	b.shadow(p, x, y, shadow, dp)
	b.fill(p, x, y, dp.Back, box, dp)
	b.pattern(box, dp)
	if dp.Back.Kind == ug.PaintSolid && dp.Color.Equal(dp.Back) {
		return
	}
	b.stroke(p, x, y, dp.Color, box, dp)
}

// pattern hatches box with thin lines in the border color.
func (b *Backend) pattern(box ug.Rect, dp ug.DrawParam) {
	if dp.Pattern == ug.PatternNone || dp.Color.IsNone() {
		return
	}
	const step = 4
	hatch := ug.BuildPath()
	switch dp.Pattern {
	case ug.PatternVerticalStripe:
		for x := step / 2.0; x < box.W; x += step {
			hatch.MoveTo(box.X+x, box.Y).LineTo(box.X+x, box.MaxY())
		}
	case ug.PatternHorizontalStripe:
		for y := step / 2.0; y < box.H; y += step {
			hatch.MoveTo(box.X, box.Y+y).LineTo(box.MaxX(), box.Y+y)
		}
	case ug.PatternSmallCircle:
		for y := step / 2.0; y < box.H; y += step {
			for x := step / 2.0; x < box.W; x += step {
				hatch.Ellipse(box.X+x, box.Y+y, 0.5, 0.5)
			}
		}
		b.fill(hatch.Build(), 0, 0, dp.Color, box, dp)
		return
	}
	thin := dp
	thin.Stroke = ug.Stroke{Thickness: 0.5}
	b.stroke(hatch.Build(), 0, 0, dp.Color, box, thin)
}

func (b *Backend) DrawRectangle(s ug.Rectangle, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.closedShape(ug.RectanglePath(s), x, y, s.Shadow, p)
	return nil
}

func (b *Backend) DrawEllipse(s ug.Ellipse, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	path := ug.EllipsePath(s)
	if s.IsArc() {
		b.stroke(path, x, y, p.Color, path.Bounds().Translate(ug.T(x, y)), p)
		return nil
	}
	b.closedShape(path, x, y, s.Shadow, p)
	return nil
}

func (b *Backend) DrawLine(s ug.Line, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	path := ug.BuildPath().MoveTo(0, 0).LineTo(s.Dx, s.Dy).Build()
	b.stroke(path, x, y, p.Color, ug.BoundsOf(s, nil).Translate(ug.T(x, y)), p)
	return nil
}

func (b *Backend) DrawPolygon(s ug.Polygon, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if len(s.Points) < 2 {
		return nil
	}
	b.closedShape(ug.PolygonPath(s), x, y, s.Shadow, p)
	return nil
}

func (b *Backend) DrawPath(s ug.Path, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return nil
	}
	if s.IsClosed() {
		b.closedShape(s, x, y, s.Shadow, p)
		return nil
	}
	b.stroke(s, x, y, p.Color, s.Bounds().Translate(ug.T(x, y)), p)
	return nil
}

func (b *Backend) face(f ug.Font) (font.Face, error) {
	scaled := f.WithSize(f.Size * b.scale)
	if f.Size <= 0 {
		scaled = f.WithSize(ug.DefaultFont.Size * b.scale)
	}
	if face, ok := b.faceCache[scaled]; ok {
		return face, nil
	}
	face, err := b.faces.NewFace(scaled)
	if err != nil {
		return nil, err
	}
	b.faceCache[scaled] = face
	return face, nil
}

// DrawText draws s with its baseline at y.
func (b *Backend) DrawText(s ug.Text, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Text == "" || p.Color.IsNone() {
		return nil
	}
	face, err := b.face(s.Font.Font)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	dst := draw.Image(b.img)
	if clip := b.clipRect(p); clip != (image.Rectangle{}) {
		dst = b.img.SubImage(clip).(*image.RGBA)
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(p.Color.First()),
		Face: face,
		Dot:  b.pt(x, y),
	}
	d.DrawString(s.Text)
	return nil
}

// DrawImage scales s into place with bilinear filtering.
func (b *Backend) DrawImage(s ug.Image, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Img == nil {
		return nil
	}
	size := s.Size()
	r := image.Rect(
		int(math.Round(x*b.scale)), int(math.Round(y*b.scale)),
		int(math.Round((x+size.W)*b.scale)), int(math.Round((y+size.H)*b.scale)),
	)
	dst := draw.Image(b.img)
	if clip := b.clipRect(p); clip != (image.Rectangle{}) {
		dst = b.img.SubImage(clip).(*image.RGBA)
	}
	if r.Dx() == s.Img.Bounds().Dx() && r.Dy() == s.Img.Bounds().Dy() {
		draw.Draw(dst, r, s.Img, s.Img.Bounds().Min, draw.Over)
		return nil
	}
	draw.ApproxBiLinear.Scale(dst, r, s.Img, s.Img.Bounds(), draw.Over, nil)
	return nil
}

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
