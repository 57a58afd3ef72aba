package block

import (
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ug"
)

// Display is text split into lines.
type Display []string

// DisplayOf splits s on newlines and on the two-character escape `\n`.
func DisplayOf(s string) Display {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, `\n`, "\n")
	return Display(strings.Split(s, "\n"))
}

// IsEmpty reports whether there is nothing to show.
func (d Display) IsEmpty() bool {
	for _, l := range d {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// String joins the lines with '\n'.
func (d Display) String() string { return strings.Join(d, "\n") }

// UnmarshalYAML reads a display from a string, split like DisplayOf,
// or from a list of lines.
func (d *Display) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*d = DisplayOf(n.Value)
		return nil
	}
	var lines []string
	if err := n.Decode(&lines); err != nil {
		return err
	}
	*d = Display(lines)
	return nil
}

// Text is a block of lines in one font, each line aligned inside the
// widest one. Lines are addressable as members.
type Text struct {
	lines Display
	font  ug.FontConfig
	align HAlign
}

var (
	_ Block            = (*Text)(nil)
	_ InnerAddressable = (*Text)(nil)
)

// NewText creates a text block. An empty display measures 0x0.
func NewText(d Display, fc ug.FontConfig, align HAlign) *Text {
	return &Text{lines: append(Display(nil), d...), font: fc, align: align}
}

// Label is NewText of a single string, centered.
func Label(s string, fc ug.FontConfig) *Text {
	return NewText(DisplayOf(s), fc, Center)
}

// Lines returns a copy of the lines.
func (t *Text) Lines() Display { return append(Display(nil), t.lines...) }

func (t *Text) lineDims(b ug.StringBounder) []ug.Dimension {
	dims := make([]ug.Dimension, len(t.lines))
	for i, l := range t.lines {
		dims[i] = b.Dimension(t.font.Font, l)
	}
	return dims
}

// Dimension implements Measurable.
func (t *Text) Dimension(b ug.StringBounder) ug.Dimension {
	var d ug.Dimension
	return d.MergeTB(t.lineDims(b)...)
}

// DrawU implements Drawable. Each line is drawn on its baseline.
func (t *Text) DrawU(g ug.Graphic) {
	b := g.Bounder()
	dims := t.lineDims(b)
	total := ug.Dimension{}.MergeTB(dims...)
	y := 0.0
	for i, l := range t.lines {
		d := dims[i]
		if l != "" {
			x := t.align.Offset(total.W, d.W)
			baseline := y + d.H - b.Descent(t.font.Font, l)
			g.Apply(ug.T(x, baseline)).Draw(ug.Text{Text: l, Font: t.font})
		}
		y += d.H
	}
}

// InnerPosition implements InnerAddressable. Strict matches a line equal
// to member or starting with member followed by a non-identifier rune.
func (t *Text) InnerPosition(member string, b ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	if len(t.lines) == 0 {
		return ug.Rect{}, false
	}
	dims := t.lineDims(b)
	total := ug.Dimension{}.MergeTB(dims...)
	rowAt := func(i int) ug.Rect {
		y := 0.0
		for j := 0; j < i; j++ {
			y += dims[j].H
		}
		return ug.Rect{Y: y, W: total.W, H: dims[i].H}
	}
	switch s {
	case Whole:
		return ug.RectOf(ug.Point{}, total), true
	case FirstLine:
		return rowAt(0), true
	case LastLine:
		return rowAt(len(t.lines) - 1), true
	}
	for i, l := range t.lines {
		if matchMember(l, member) {
			return rowAt(i), true
		}
	}
	return ug.Rect{}, false
}

func matchMember(line, member string) bool {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "+-#~ ")
	if member == "" || !strings.HasPrefix(line, member) {
		return false
	}
	rest := line[len(member):]
	if rest == "" {
		return true
	}
	r := []rune(rest)[0]
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
