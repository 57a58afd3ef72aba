// Package svg provides the "svg" format, written with svgo.
//
// Shapes are buffered while drawing and the document header is written
// at End, once the drawn bounds are known: the page is as large as the
// larger of the requested dimension and everything drawn.
//
// Gradients, shadow filters, clip paths and hatch patterns are emitted
// once per distinct value as <defs> next to the first shape using them.
//
//	import _ "github.com/gogpu/ug/backend/svg"
//
//	b, _ := backend.New("svg")
package svg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
)

func init() {
	backend.Register("svg", func() backend.Backend { return New() })
}

// Backend writes SVG.
type Backend struct {
	dim      ug.Dimension
	settings backend.Settings
	begun    bool

	body   bytes.Buffer
	canvas *svgo.SVG

	gradients map[ug.Paint]string
	shadows   map[float64]string
	clips     map[ug.Rect]string
	patterns  map[patternKey]string
	urls      int
}

type patternKey struct {
	p     ug.Pattern
	color color.NRGBA
}

var _ backend.Backend = (*Backend)(nil)

// New returns an SVG backend. It must be begun before drawing.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string          { return "svg" }
func (b *Backend) Coverage() ug.ShapeSet { return ug.AllShapes }
func (b *Backend) Extension() string     { return "svg" }

// Begin resets the document for a page of size dim.
func (b *Backend) Begin(dim ug.Dimension, s backend.Settings) error {
	b.dim = dim
	b.settings = s
	b.begun = true
	b.body.Reset()
	b.canvas = svgo.New(&b.body)
	b.gradients = make(map[ug.Paint]string)
	b.shadows = make(map[float64]string)
	b.clips = make(map[ug.Rect]string)
	b.patterns = make(map[patternKey]string)
	b.urls = 0
	return nil
}

// End writes the document: header, optional source comment, then the
// buffered shapes inside a scaling group.
func (b *Backend) End(w io.Writer, bounds ug.MinMax) error {
	if !b.begun {
		return ErrNotBegun
	}
	width, height := b.dim.W, b.dim.H
	if !bounds.IsEmpty() {
		r := bounds.Rect()
		width = math.Max(width, r.MaxX())
		height = math.Max(height, r.MaxY())
	}
	scale := b.settings.EffectiveScale()
	pw, ph := width*scale, height*scale

	var out bytes.Buffer
	doc := svgo.New(&out)
	doc.Start(int(math.Ceil(pw)), int(math.Ceil(ph)),
		`viewBox="0 0 `+num(pw)+` `+num(ph)+`"`,
		`preserveAspectRatio="none"`,
		`style="width:`+num(pw)+`px;height:`+num(ph)+`px;"`,
	)
	if b.settings.Title != "" {
		doc.Title(b.settings.Title)
	}
	if b.settings.Metadata != "" {
		fmt.Fprintf(&out, "<!--%s-->\n", commentSafe(b.settings.Metadata))
	}
	if bg, ok := b.settings.BackgroundPaint(); ok {
		doc.Path(rectPath(0, 0, pw, ph, 0, 0), fillAttrs(bg.NRGBA())...)
	}
	if scale != 1 {
		doc.Gtransform("scale(" + num(scale) + ")")
	}
	out.Write(b.body.Bytes())
	if scale != 1 {
		doc.Gend()
	}
	doc.End()

	_, err := w.Write(out.Bytes())
	return err
}

func (b *Backend) ready() error {
	if !b.begun {
		return ErrNotBegun
	}
	return nil
}

// commentSafe keeps s from closing the comment early.
func commentSafe(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	if strings.HasSuffix(s, "-") {
		s += " "
	}
	return s
}

// num formats a coordinate with at most 4 decimals.
func num(f float64) string {
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func hexColor(c color.NRGBA) string {
	return ug.RGB{R: c.R, G: c.G, B: c.B, A: 255}.String()
}

func fillAttrs(c color.NRGBA) []string {
	a := []string{`fill="` + hexColor(c) + `"`}
	if c.A < 255 {
		a = append(a, `fill-opacity="`+num(float64(c.A)/255)+`"`)
	}
	return a
}

// gradient returns the id of the linear gradient for p, defining it on
// first use. x1/y1/x2/y2 follow the policy in bounding box percentages.
func (b *Backend) gradient(p ug.Paint) string {
	if id, ok := b.gradients[p]; ok {
		return id
	}
	id := "g" + strconv.Itoa(len(b.gradients)+1)
	b.gradients[p] = id

	x1, y1, x2, y2 := p.Policy.Unit()
	pc := func(f float64) uint8 { return uint8(math.Round(f * 100)) }
	b.canvas.Def()
	b.canvas.LinearGradient(id, pc(x1), pc(y1), pc(x2), pc(y2), []svgo.Offcolor{
		{Offset: 0, Color: hexColor(p.From), Opacity: float64(p.From.A) / 255},
		{Offset: 100, Color: hexColor(p.To), Opacity: float64(p.To.A) / 255},
	})
	b.canvas.DefEnd()
	return id
}

// paintAttrs returns the attributes painting with p under name ("fill"
// or "stroke").
func (b *Backend) paintAttrs(name string, p ug.Paint) []string {
	switch {
	case p.IsNone():
		return []string{name + `="none"`}
	case p.Kind == ug.PaintGradient:
		return []string{name + `="url(#` + b.gradient(p) + `)"`}
	}
	a := []string{name + `="` + hexColor(p.Solid) + `"`}
	if p.Solid.A < 255 {
		a = append(a, name+`-opacity="`+num(float64(p.Solid.A)/255)+`"`)
	}
	return a
}

func (b *Backend) strokeAttrs(p ug.DrawParam) []string {
	if p.Color.IsNone() || p.Stroke.Thickness <= 0 {
		return []string{`stroke="none"`}
	}
	a := b.paintAttrs("stroke", p.Color)
	a = append(a, `stroke-width="`+num(p.Stroke.Thickness)+`"`)
	if p.Stroke.IsDashed() {
		a = append(a, `stroke-dasharray="`+num(p.Stroke.DashVisible)+`,`+num(p.Stroke.DashSpace)+`"`)
	}
	return a
}

// shadowFilter returns the id of the drop shadow filter for depth.
func (b *Backend) shadowFilter(depth float64) string {
	if id, ok := b.shadows[depth]; ok {
		return id
	}
	id := "f" + strconv.Itoa(len(b.shadows)+1)
	b.shadows[depth] = id

	d := int(math.Round(depth))
	b.canvas.Def()
	b.canvas.Filter(id, `height="300%"`, `width="300%"`, `x="-1"`, `y="-1"`)
	b.canvas.FeGaussianBlur(svgo.Filterspec{In: "SourceAlpha", Result: "blurOut"}, depth/2, depth/2)
	b.canvas.FeOffset(svgo.Filterspec{In: "blurOut", Result: "offsetBlur"}, d, d)
	b.canvas.FeMerge([]string{"offsetBlur", "SourceGraphic"})
	b.canvas.Fend()
	b.canvas.DefEnd()
	return id
}

// clipGroup opens a group clipped to p.Clip and returns whether it did.
func (b *Backend) clipGroup(p ug.DrawParam) bool {
	if p.Clip == nil {
		return false
	}
	c := *p.Clip
	id, ok := b.clips[c]
	if !ok {
		id = "c" + strconv.Itoa(len(b.clips)+1)
		b.clips[c] = id
		b.canvas.Def()
		b.canvas.ClipPath(`id="` + id + `"`)
		b.canvas.Path(rectPath(c.X, c.Y, c.W, c.H, 0, 0))
		b.canvas.ClipEnd()
		b.canvas.DefEnd()
	}
	b.canvas.Group(`clip-path="url(#` + id + `)"`)
	return true
}

func (b *Backend) endClip(opened bool) {
	if opened {
		b.canvas.Gend()
	}
}

// closed draws an outline with shadow, fill, hatch and border.
func (b *Backend) closed(d string, shadow float64, p ug.DrawParam) {
	clip := b.clipGroup(p)
	defer b.endClip(clip)

	attrs := b.paintAttrs("fill", p.Back)
	if p.Back.Kind == ug.PaintSolid && p.Color.Equal(p.Back) {
		attrs = append(attrs, `stroke="none"`)
	} else {
		attrs = append(attrs, b.strokeAttrs(p)...)
	}
	if shadow > 0 {
		attrs = append(attrs, `filter="url(#`+b.shadowFilter(shadow)+`)"`)
	}
	b.canvas.Path(d, attrs...)

	if p.Pattern != ug.PatternNone && !p.Color.IsNone() {
		b.canvas.Path(d, `fill="url(#`+b.pattern(p.Pattern, p.Color.First())+`)"`, `stroke="none"`)
	}
}

// pattern returns the id of the hatch pattern for p in color c.
func (b *Backend) pattern(p ug.Pattern, c color.NRGBA) string {
	k := patternKey{p, c}
	if id, ok := b.patterns[k]; ok {
		return id
	}
	id := "p" + strconv.Itoa(len(b.patterns)+1)
	b.patterns[k] = id

	b.canvas.Def()
	b.canvas.Pattern(id, 0, 0, 4, 4, "user")
	stroke := `stroke="` + hexColor(c) + `"`
	switch p {
	case ug.PatternVerticalStripe:
		b.canvas.Path("M2,0 L2,4", stroke, `stroke-width="0.5"`)
	case ug.PatternHorizontalStripe:
		b.canvas.Path("M0,2 L4,2", stroke, `stroke-width="0.5"`)
	case ug.PatternSmallCircle:
		b.canvas.Path(ellipsePath(2, 2, 0.5, 0.5), `fill="`+hexColor(c)+`"`)
	}
	b.canvas.PatternEnd()
	b.canvas.DefEnd()
	return id
}

func (b *Backend) DrawRectangle(s ug.Rectangle, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	b.closed(rectPath(x, y, s.W, s.H, s.Rx, s.Ry), s.Shadow, p)
	return nil
}

func (b *Backend) DrawEllipse(s ug.Ellipse, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.IsArc() {
		clip := b.clipGroup(p)
		defer b.endClip(clip)
		d := pathData(ug.EllipsePath(s), x, y)
		b.canvas.Path(d, append([]string{`fill="none"`}, b.strokeAttrs(p)...)...)
		return nil
	}
	rx, ry := s.W/2, s.H/2
	b.closed(ellipsePath(x+rx, y+ry, rx, ry), s.Shadow, p)
	return nil
}

func (b *Backend) DrawLine(s ug.Line, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	clip := b.clipGroup(p)
	defer b.endClip(clip)
	d := "M" + num(x) + "," + num(y) + " L" + num(x+s.Dx) + "," + num(y+s.Dy)
	b.canvas.Path(d, append([]string{`fill="none"`}, b.strokeAttrs(p)...)...)
	return nil
}

func (b *Backend) DrawPolygon(s ug.Polygon, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if len(s.Points) == 0 {
		return nil
	}
	b.closed(pathData(ug.PolygonPath(s), x, y), s.Shadow, p)
	return nil
}

func (b *Backend) DrawPath(s ug.Path, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.IsEmpty() {
		return nil
	}
	d := pathData(s, x, y)
	if s.IsClosed() {
		b.closed(d, s.Shadow, p)
		return nil
	}
	clip := b.clipGroup(p)
	defer b.endClip(clip)
	b.canvas.Path(d, append([]string{`fill="none"`}, b.strokeAttrs(p)...)...)
	return nil
}

// fontFamily maps logical Java-style family names to CSS generics.
func fontFamily(f ug.Font) string {
	switch strings.ToLower(f.Family) {
	case "", "sansserif", "sans-serif", "dialog":
		return "sans-serif"
	case "monospaced", "monospace", "courier":
		return "monospace"
	case "serif":
		return "serif"
	}
	return f.Family
}

func (b *Backend) DrawText(s ug.Text, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Text == "" {
		return nil
	}
	clip := b.clipGroup(p)
	defer b.endClip(clip)

	f := s.Font.Font
	size := f.Size
	if size <= 0 {
		size = ug.DefaultFont.Size
	}
	attrs := []string{
		`font-family="` + fontFamily(f) + `"`,
		`font-size="` + num(size) + `"`,
	}
	attrs = append(attrs, b.paintAttrs("fill", ug.SolidPaint(p.Color.First()))...)
	if f.Style.Has(ug.FontBold) {
		attrs = append(attrs, `font-weight="bold"`)
	}
	if f.Style.Has(ug.FontItalic) {
		attrs = append(attrs, `font-style="italic"`)
	}
	if strings.HasPrefix(s.Text, " ") || strings.Contains(s.Text, "  ") {
		attrs = append(attrs, `xml:space="preserve"`)
	}
	b.canvas.Gtransform("translate(" + num(x) + "," + num(y) + ")")
	b.canvas.Text(0, 0, s.Text, attrs...)
	b.canvas.Gend()
	return nil
}

// DrawImage embeds the image as a PNG data URI.
func (b *Backend) DrawImage(s ug.Image, x, y float64, p ug.DrawParam) error {
	if err := b.ready(); err != nil {
		return err
	}
	if s.Img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Img); err != nil {
		return fmt.Errorf("svg: encode image: %w", err)
	}
	clip := b.clipGroup(p)
	defer b.endClip(clip)

	sz := s.Img.Bounds().Size()
	scale := s.Size().W / float64(max(sz.X, 1))
	b.canvas.Gtransform("translate(" + num(x) + "," + num(y) + ") scale(" + num(scale) + ")")
	b.canvas.Image(0, 0, sz.X, sz.Y, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()))
	b.canvas.Gend()
	return nil
}

func (b *Backend) StartURL(url, tooltip string) error {
	if err := b.ready(); err != nil {
		return err
	}
	if tooltip == "" {
		tooltip = url
	}
	b.canvas.Link(html.EscapeString(url), tooltip)
	b.urls++
	return nil
}

func (b *Backend) CloseURL() error {
	if b.urls == 0 {
		return ug.ErrUnbalancedURL
	}
	b.canvas.LinkEnd()
	b.urls--
	return nil
}
