package ug

import (
	"fmt"
	"log/slog"
)

// GraphicOption configures a Graphic during creation.
//
// Example:
//
//	g := ug.NewGraphic(driver, bounder,
//	    ug.WithMapper(ug.ReverseMapper),
//	    ug.WithBoundsCollection(true),
//	)
type GraphicOption func(*graphicOptions)

type graphicOptions struct {
	mapper  ColorMapper
	collect bool
	param   Param
}

func defaultGraphicOptions() graphicOptions {
	return graphicOptions{
		mapper: IdentityMapper,
		param:  DefaultParam(),
	}
}

// WithMapper sets the color mapper used for every draw.
// The mapper is wrapped with NewStableMapper unless it already is one.
func WithMapper(m ColorMapper) GraphicOption {
	return func(o *graphicOptions) {
		if m != nil {
			o.mapper = m
		}
	}
}

// WithBoundsCollection makes the graphic accumulate the bounding box of
// everything drawn, clipped shapes included. See [Graphic.Bounds].
func WithBoundsCollection(on bool) GraphicOption {
	return func(o *graphicOptions) {
		o.collect = on
	}
}

// WithParam sets the initial style.
func WithParam(p Param) GraphicOption {
	return func(o *graphicOptions) {
		o.param = p
	}
}

// sink is the state shared by every Graphic derived from one NewGraphic.
// A render pass is single-goroutine, so it is not locked.
type sink struct {
	driver  Driver
	bounder StringBounder
	mapper  ColorMapper
	collect bool
	bounds  MinMax
	urls    int
	err     error
	count   int
}

// Graphic is an immutable drawing context: an offset, a style snapshot
// and an optional clip, on top of a shared output sink.
//
// Apply returns a new Graphic and leaves the receiver unchanged, so one
// Graphic can be branched freely. All branches draw to the same page.
//
// Drawing errors are sticky: after the first failure further draws are
// skipped and the error is reported by Err and Finish.
type Graphic struct {
	s      *sink
	offset Translate
	param  Param
	clip   *Rect
}

// NewGraphic creates a graphic drawing to d and measuring text with b.
// It panics if d or b is nil.
func NewGraphic(d Driver, b StringBounder, opts ...GraphicOption) Graphic {
	if d == nil || b == nil {
		panic("ug: NewGraphic requires a driver and a bounder")
	}
	o := defaultGraphicOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := o.mapper
	if _, ok := m.(*StableMapper); !ok {
		m = NewStableMapper(m)
	}
	return Graphic{
		s:     &sink{driver: d, bounder: b, mapper: m, collect: o.collect},
		param: o.param,
	}
}

// Apply returns a graphic with the changes applied in order.
func (g Graphic) Apply(changes ...Change) Graphic {
	for _, c := range changes {
		switch v := c.(type) {
		case Translate:
			g.offset = g.offset.Compose(v)
		case ChangeColor:
			g.param.Color = v.Color
		case ChangeBackColor:
			g.param.BackColor = v.Color
		case Stroke:
			g.param.Stroke = v
		case Pattern:
			g.param.Pattern = v
		case ClipRect:
			r := v.Rect.Translate(g.offset)
			g.clip = &r
		case ResetClip:
			g.clip = nil
		case nil:
		default:
			panic(fmt.Sprintf("ug: unknown change %T", c))
		}
	}
	return g
}

// Draw draws s at the current position with the current style.
func (g Graphic) Draw(s Shape) {
	st := g.s
	bbox := BoundsOf(s, st.bounder).Translate(g.offset)
	if st.collect {
		st.bounds = st.bounds.AddRect(bbox)
	}
	if g.clip != nil && !g.clip.Intersects(bbox) {
		return
	}
	if st.err != nil {
		return
	}
	if !st.driver.Coverage().Has(s.Kind()) {
		st.err = &UnsupportedShapeError{Driver: st.driver.Name(), Kind: s.Kind()}
		Logger().Debug("ug: shape not covered", slog.String("driver", st.driver.Name()), slog.String("kind", s.Kind().String()))
		return
	}

	p := g.drawParam(s)
	x, y := g.offset.Dx, g.offset.Dy
	var err error
	switch v := s.(type) {
	case Rectangle:
		err = st.driver.DrawRectangle(v, x, y, p)
	case Ellipse:
		err = st.driver.DrawEllipse(v, x, y, p)
	case Line:
		err = st.driver.DrawLine(v, x, y, p)
	case Polygon:
		err = st.driver.DrawPolygon(v, x, y, p)
	case Path:
		err = st.driver.DrawPath(v, x, y, p)
	case Text:
		err = st.driver.DrawText(v, x, y, p)
	case Image:
		err = st.driver.DrawImage(v, x, y, p)
	default:
		err = &UnsupportedShapeError{Driver: st.driver.Name(), Kind: s.Kind()}
	}
	if err != nil {
		st.err = fmt.Errorf("ug: %s: draw %s: %w", st.driver.Name(), s.Kind(), err)
		return
	}
	st.count++
}

func (g Graphic) drawParam(s Shape) DrawParam {
	m := g.s.mapper
	back := resolvePaint(g.param.BackColor, m, Paint{}, false)
	p := DrawParam{
		Back:    back,
		Color:   resolvePaint(g.param.Color, m, back, true),
		Stroke:  g.param.Stroke,
		Pattern: g.param.Pattern,
		Clip:    g.clip,
	}
	if t, ok := s.(Text); ok && t.Font.Color != nil {
		p.Color = resolvePaint(t.Font.Color, m, back, true)
	}
	return p
}

// StartURL opens a hyperlink. Every StartURL must be matched by a
// CloseAction on a graphic of the same render.
func (g Graphic) StartURL(url, tooltip string) {
	g.s.urls++
	if g.s.err != nil {
		return
	}
	if err := g.s.driver.StartURL(url, tooltip); err != nil {
		g.s.err = fmt.Errorf("ug: %s: start url: %w", g.s.driver.Name(), err)
	}
}

// CloseAction closes the innermost hyperlink. It panics with
// ErrUnbalancedURL when no link is open.
func (g Graphic) CloseAction() {
	if g.s.urls == 0 {
		panic(ErrUnbalancedURL)
	}
	g.s.urls--
	if g.s.err != nil {
		return
	}
	if err := g.s.driver.CloseURL(); err != nil {
		g.s.err = fmt.Errorf("ug: %s: close url: %w", g.s.driver.Name(), err)
	}
}

// Bounder returns the text measurer.
func (g Graphic) Bounder() StringBounder { return g.s.bounder }

// Param returns the current style snapshot.
func (g Graphic) Param() Param { return g.param }

// Position returns the current absolute offset.
func (g Graphic) Position() Translate { return g.offset }

// Clip returns the absolute clip rectangle, if any.
func (g Graphic) Clip() (Rect, bool) {
	if g.clip == nil {
		return Rect{}, false
	}
	return *g.clip, true
}

// Mapper returns the color mapper of the render.
func (g Graphic) Mapper() ColorMapper { return g.s.mapper }

// Driver returns the driver the graphic draws to.
func (g Graphic) Driver() Driver { return g.s.driver }

// Err returns the first drawing error.
func (g Graphic) Err() error { return g.s.err }

// Bounds returns the accumulated bounding box. It is empty unless the
// graphic was created with WithBoundsCollection(true).
func (g Graphic) Bounds() MinMax { return g.s.bounds }

// Drawn returns the number of shapes handed to the driver.
func (g Graphic) Drawn() int { return g.s.count }

// Finish reports the first drawing error, or ErrUnbalancedURL if a
// link is still open.
func (g Graphic) Finish() error {
	if g.s.err != nil {
		return g.s.err
	}
	if g.s.urls != 0 {
		return fmt.Errorf("%w: %d open", ErrUnbalancedURL, g.s.urls)
	}
	return nil
}
