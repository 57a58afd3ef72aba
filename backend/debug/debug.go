// Package debug provides a text backend that records every drawing
// call as a typed command and writes one line per command.
//
// It is the reference for what the other backends receive and is used
// by tests to check geometry without decoding images:
//
//	d := debug.New()
//	g := ug.NewGraphic(d, text.FixedBounder{})
//	blk.DrawU(g)
//	for _, c := range d.Commands() { ... }
package debug

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
)

func init() {
	backend.Register("debug", func() backend.Backend { return New() })
}

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdRectangle CommandType = iota
	CmdEllipse
	CmdLine
	CmdPolygon
	CmdPath
	CmdText
	CmdImage
	CmdStartURL
	CmdCloseURL
)

var commandTypeNames = [...]string{
	CmdRectangle: "RECTANGLE",
	CmdEllipse:   "ELLIPSE",
	CmdLine:      "LINE",
	CmdPolygon:   "POLYGON",
	CmdPath:      "PATH",
	CmdText:      "TEXT",
	CmdImage:     "IMAGE",
	CmdStartURL:  "START_URL",
	CmdCloseURL:  "CLOSE_URL",
}

// String returns the name of the command type.
func (t CommandType) String() string {
	if int(t) < len(commandTypeNames) {
		return commandTypeNames[t]
	}
	return "Unknown"
}

// Command is one recorded call.
type Command struct {
	Type CommandType
	// X and Y are the absolute position the shape was drawn at.
	X, Y float64
	// Shape is the drawn shape, nil for URL commands.
	Shape ug.Shape
	Param ug.DrawParam
	// URL is set for CmdStartURL.
	URL string
}

// Backend records commands. Coverage can be narrowed to test
// unsupported-shape handling.
type Backend struct {
	dim      ug.Dimension
	settings backend.Settings
	cmds     []Command
	coverage ug.ShapeSet
}

var _ backend.Backend = (*Backend)(nil)

// New returns a debug backend covering every shape kind.
func New() *Backend {
	return &Backend{coverage: ug.AllShapes}
}

// WithCoverage returns a debug backend that only accepts the given kinds.
func WithCoverage(s ug.ShapeSet) *Backend {
	return &Backend{coverage: s}
}

// Commands returns the recorded commands in order.
func (b *Backend) Commands() []Command { return b.cmds }

// OfType returns the recorded commands of type t.
func (b *Backend) OfType(t CommandType) []Command {
	var out []Command
	for _, c := range b.cmds {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the strings of all text commands, in order.
func (b *Backend) Texts() []string {
	var out []string
	for _, c := range b.OfType(CmdText) {
		out = append(out, c.Shape.(ug.Text).Text)
	}
	return out
}

// Reset drops all commands.
func (b *Backend) Reset() { b.cmds = b.cmds[:0] }

func (b *Backend) Name() string          { return "debug" }
func (b *Backend) Coverage() ug.ShapeSet { return b.coverage }
func (b *Backend) Extension() string     { return "txt" }

// Begin implements backend.Backend.
func (b *Backend) Begin(dim ug.Dimension, s backend.Settings) error {
	b.dim = dim
	b.settings = s
	b.cmds = b.cmds[:0]
	return nil
}

func (b *Backend) add(t CommandType, s ug.Shape, x, y float64, p ug.DrawParam) error {
	b.cmds = append(b.cmds, Command{Type: t, X: x, Y: y, Shape: s, Param: p})
	return nil
}

func (b *Backend) DrawRectangle(s ug.Rectangle, x, y float64, p ug.DrawParam) error {
	return b.add(CmdRectangle, s, x, y, p)
}

func (b *Backend) DrawEllipse(s ug.Ellipse, x, y float64, p ug.DrawParam) error {
	return b.add(CmdEllipse, s, x, y, p)
}

func (b *Backend) DrawLine(s ug.Line, x, y float64, p ug.DrawParam) error {
	return b.add(CmdLine, s, x, y, p)
}

func (b *Backend) DrawPolygon(s ug.Polygon, x, y float64, p ug.DrawParam) error {
	return b.add(CmdPolygon, s, x, y, p)
}

func (b *Backend) DrawPath(s ug.Path, x, y float64, p ug.DrawParam) error {
	return b.add(CmdPath, s, x, y, p)
}

func (b *Backend) DrawText(s ug.Text, x, y float64, p ug.DrawParam) error {
	return b.add(CmdText, s, x, y, p)
}

func (b *Backend) DrawImage(s ug.Image, x, y float64, p ug.DrawParam) error {
	return b.add(CmdImage, s, x, y, p)
}

func (b *Backend) StartURL(url, _ string) error {
	b.cmds = append(b.cmds, Command{Type: CmdStartURL, URL: url})
	return nil
}

func (b *Backend) CloseURL() error {
	b.cmds = append(b.cmds, Command{Type: CmdCloseURL})
	return nil
}

// End writes a header line and one line per command.
func (b *Backend) End(w io.Writer, bounds ug.MinMax) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "DPI: 96\ndimension: %s x %s\n", num(b.dim.W), num(b.dim.H))
	if !bounds.IsEmpty() {
		r := bounds.Rect()
		fmt.Fprintf(bw, "bounds: %s %s %s %s\n", num(r.X), num(r.Y), num(r.W), num(r.H))
	}
	if b.settings.Metadata != "" {
		fmt.Fprintf(bw, "metadata: %d bytes\n", len(b.settings.Metadata))
	}
	for _, c := range b.cmds {
		bw.WriteString(c.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String formats the command on one line.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Type.String())
	switch c.Type {
	case CmdStartURL:
		sb.WriteString(" " + c.URL)
		return sb.String()
	case CmdCloseURL:
		return sb.String()
	}
	fmt.Fprintf(&sb, " at=%s,%s", num(c.X), num(c.Y))
	switch s := c.Shape.(type) {
	case ug.Rectangle:
		fmt.Fprintf(&sb, " size=%sx%s", num(s.W), num(s.H))
		if s.Rx != 0 {
			fmt.Fprintf(&sb, " round=%s", num(2*s.Rx))
		}
		writeShadow(&sb, s.Shadow)
	case ug.Ellipse:
		fmt.Fprintf(&sb, " size=%sx%s", num(s.W), num(s.H))
		if s.IsArc() {
			fmt.Fprintf(&sb, " arc=%s+%s", num(s.Start), num(s.Extend))
		}
		writeShadow(&sb, s.Shadow)
	case ug.Line:
		fmt.Fprintf(&sb, " to=%s,%s", num(c.X+s.Dx), num(c.Y+s.Dy))
	case ug.Polygon:
		pts := make([]string, len(s.Points))
		for i, p := range s.Points {
			pts[i] = num(c.X+p.X) + "," + num(c.Y+p.Y)
		}
		sb.WriteString(" points=" + strings.Join(pts, ";"))
		writeShadow(&sb, s.Shadow)
	case ug.Path:
		fmt.Fprintf(&sb, " elements=%d", len(s.Elements))
		writeShadow(&sb, s.Shadow)
	case ug.Text:
		fmt.Fprintf(&sb, " text=%q font=%s/%s/%s", s.Text, s.Font.Font.Family, num(s.Font.Font.Size), s.Font.Font.Style)
	case ug.Image:
		d := s.Size()
		fmt.Fprintf(&sb, " size=%sx%s", num(d.W), num(d.H))
	}
	if c.Type != CmdText && c.Type != CmdImage {
		sb.WriteString(" color=" + paint(c.Param.Color))
		if c.Type != CmdLine {
			sb.WriteString(" back=" + paint(c.Param.Back))
		}
		sb.WriteString(" stroke=" + num(c.Param.Stroke.Thickness))
		if c.Param.Stroke.IsDashed() {
			fmt.Fprintf(&sb, " dash=%s-%s", num(c.Param.Stroke.DashVisible), num(c.Param.Stroke.DashSpace))
		}
	} else if c.Type == CmdText {
		sb.WriteString(" color=" + paint(c.Param.Color))
	}
	return sb.String()
}

func writeShadow(sb *strings.Builder, s float64) {
	if s != 0 {
		sb.WriteString(" shadow=" + num(s))
	}
}

func paint(p ug.Paint) string {
	switch {
	case p.IsNone():
		return "none"
	case p.Kind == ug.PaintGradient:
		return hex(p.From) + string(rune(p.Policy)) + hex(p.To)
	default:
		return hex(p.Solid)
	}
}

func hex(c color.NRGBA) string {
	return ug.RGB{R: c.R, G: c.G, B: c.B, A: c.A}.String()
}

// num formats with up to 4 decimals and no trailing zeros.
func num(f float64) string {
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
