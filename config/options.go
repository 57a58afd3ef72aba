// Package config holds what a render needs besides the diagram: the
// immutable render [Options] and the [Skin] parameters.
//
// Options are built with functional options and never change once
// built; every render gets its own copy, so there are no global flags:
//
//	opts := config.New(
//	    config.WithFormat("svg"),
//	    config.WithScale(2),
//	    config.WithMetadata(true),
//	)
//
// Skins are YAML documents decoded over [DefaultSkin].
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
	"github.com/gogpu/ug/block"
	"github.com/gogpu/ug/graph"
	"github.com/gogpu/ug/text"
)

// ErrUnknownMapper is returned by ParseMapper for unknown names.
var ErrUnknownMapper = errors.New("config: unknown color mapper")

// DefaultSolverTimeout bounds one run of the layout solver.
const DefaultSolverTimeout = 30 * time.Second

// Options is one immutable set of render options. The zero value is not
// useful; use New.
type Options struct {
	format        string
	scale         float64
	dpi           float64
	metadata      bool
	background    ug.Color
	margins       block.Margins
	mapper        ug.ColorMapper
	shadowing     bool
	collectBounds bool
	solverTimeout time.Duration
	layouter      graph.Layouter
	formatter     block.Formatter
	skin          *Skin
	bounder       ug.StringBounder
}

// Option configures Options in New.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		format:        "png",
		scale:         1,
		dpi:           96,
		background:    ug.White,
		mapper:        ug.IdentityMapper,
		shadowing:     true,
		collectBounds: true,
		solverTimeout: DefaultSolverTimeout,
		formatter:     block.FormatEnglish,
	}
}

// New returns the default options with opts applied in order.
func New(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// With returns a copy of o with opts applied. o is not changed.
func (o Options) With(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFormat selects the output format by its registered name.
func WithFormat(name string) Option {
	return func(o *Options) {
		o.format = strings.ToLower(name)
	}
}

// WithScale multiplies every coordinate. Values <= 0 are ignored.
func WithScale(s float64) Option {
	return func(o *Options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithDPI sets the raster resolution. Values <= 0 are ignored.
func WithDPI(dpi float64) Option {
	return func(o *Options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithMetadata embeds the diagram source in formats that can hold it.
func WithMetadata(on bool) Option {
	return func(o *Options) {
		o.metadata = on
	}
}

// WithBackground sets the page color; nil leaves the page transparent.
func WithBackground(c ug.Color) Option {
	return func(o *Options) {
		o.background = c
	}
}

// WithMargins sets the space around the diagram.
func WithMargins(m block.Margins) Option {
	return func(o *Options) {
		o.margins = m
	}
}

// WithMapper sets the color mapper. Nil keeps colors unchanged.
func WithMapper(m ug.ColorMapper) Option {
	return func(o *Options) {
		if m == nil {
			m = ug.IdentityMapper
		}
		o.mapper = m
	}
}

// WithShadowing turns drop shadows on or off, whatever the skin says.
func WithShadowing(on bool) Option {
	return func(o *Options) {
		o.shadowing = on
	}
}

// WithBoundsCollection makes renders accumulate the drawn bounds, which
// size the SVG header and the EPS bounding box.
func WithBoundsCollection(on bool) Option {
	return func(o *Options) {
		o.collectBounds = on
	}
}

// WithSolverTimeout bounds the layout solver. Zero means no bound
// besides the context.
func WithSolverTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.solverTimeout = d
		}
	}
}

// WithLayouter replaces the default graph layout solver.
func WithLayouter(l graph.Layouter) Option {
	return func(o *Options) {
		o.layouter = l
	}
}

// WithFormatter sets how content problems are worded in placeholders.
func WithFormatter(f block.Formatter) Option {
	return func(o *Options) {
		if f != nil {
			o.formatter = f
		}
	}
}

// WithSkin sets the skin parameters. Nil means DefaultSkin.
func WithSkin(s *Skin) Option {
	return func(o *Options) {
		o.skin = s
	}
}

// WithBounder sets the text measurer. Nil uses the shared default.
func WithBounder(b ug.StringBounder) Option {
	return func(o *Options) {
		o.bounder = b
	}
}

func (o Options) Format() string               { return o.format }
func (o Options) Scale() float64               { return o.scale }
func (o Options) DPI() float64                 { return o.dpi }
func (o Options) Metadata() bool               { return o.metadata }
func (o Options) Background() ug.Color         { return o.background }
func (o Options) Margins() block.Margins       { return o.margins }
func (o Options) Mapper() ug.ColorMapper       { return o.mapper }
func (o Options) Shadowing() bool              { return o.shadowing }
func (o Options) CollectBounds() bool          { return o.collectBounds }
func (o Options) SolverTimeout() time.Duration { return o.solverTimeout }
func (o Options) Formatter() block.Formatter   { return o.formatter }

// Layouter returns the graph layout solver: the one set with
// WithLayouter, or dot bounded by the solver timeout.
func (o Options) Layouter() graph.Layouter {
	if o.layouter != nil {
		return o.layouter
	}
	return &graph.DotLayouter{Timeout: o.solverTimeout}
}

// defaultBounder measures with the Go fonts the raster backend draws
// with. It is shared by every render and safe for concurrent use.
var defaultBounder = sync.OnceValue(func() ug.StringBounder {
	return text.NewCachedBounder(text.NewXImageBounder(nil), 8192)
})

// Bounder returns the text measurer.
func (o Options) Bounder() ug.StringBounder {
	if o.bounder != nil {
		return o.bounder
	}
	return defaultBounder()
}

// Skin returns the skin, DefaultSkin when none was set. The skin's own
// shadowing is overridden by the options.
func (o Options) Skin() *Skin {
	s := o.skin
	if s == nil {
		s = DefaultSkin()
	} else {
		c := *s
		s = &c
	}
	s.Shadowing = s.Shadowing && o.shadowing
	return s
}

// Settings returns the backend settings for one page. The source is
// embedded only when metadata is on.
func (o Options) Settings(source, title string) backend.Settings {
	s := backend.Settings{
		Scale:      o.scale,
		Background: o.background,
		Title:      title,
		Mapper:     o.mapper,
	}
	// DPI only applies to raster output; vector formats scale by Scale.
	if o.format == "png" {
		s.DPI = o.dpi
	}
	if o.metadata {
		s.Metadata = source
	}
	return s
}

func (o Options) String() string {
	return fmt.Sprintf("format=%s scale=%g dpi=%g metadata=%t shadowing=%t", o.format, o.scale, o.dpi, o.metadata, o.shadowing)
}

// ParseMapper returns the mapper named name: "identity" (or empty),
// "monochrome" or "reverse" (also "dark").
func ParseMapper(name string) (ug.ColorMapper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "identity", "none":
		return ug.IdentityMapper, nil
	case "monochrome", "mono":
		return ug.MonochromeMapper, nil
	case "reverse", "dark":
		return ug.ReverseMapper, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMapper, name)
}
