package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
	"github.com/gogpu/ug/graph"
)

func TestDefaults(t *testing.T) {
	o := New()
	if o.Format() != "png" || o.Scale() != 1 || o.DPI() != 96 {
		t.Errorf("defaults = %v", o)
	}
	if o.Metadata() {
		t.Error("metadata should be off by default")
	}
	if !o.CollectBounds() || !o.Shadowing() {
		t.Error("bounds collection and shadowing should be on by default")
	}
	if o.SolverTimeout() != DefaultSolverTimeout {
		t.Errorf("SolverTimeout() = %v", o.SolverTimeout())
	}
	if d, ok := o.Layouter().(*graph.DotLayouter); !ok || d.Timeout != DefaultSolverTimeout {
		t.Errorf("Layouter() = %#v, want dot with the solver timeout", o.Layouter())
	}
}

func TestOptionsImmutable(t *testing.T) {
	base := New(WithFormat("SVG"), WithScale(2))
	derived := base.With(WithScale(3), WithMetadata(true))

	if base.Scale() != 2 || base.Metadata() {
		t.Errorf("base changed: %v", base)
	}
	if derived.Scale() != 3 || !derived.Metadata() || derived.Format() != "svg" {
		t.Errorf("derived = %v", derived)
	}
}

func TestOptionsIgnoreBadValues(t *testing.T) {
	o := New(WithScale(-1), WithDPI(0), WithSolverTimeout(-time.Second), WithMapper(nil), WithFormatter(nil))
	if o.Scale() != 1 || o.DPI() != 96 || o.SolverTimeout() != DefaultSolverTimeout {
		t.Errorf("bad values were applied: %v", o)
	}
	if o.Mapper() == nil || o.Formatter() == nil {
		t.Error("nil mapper or formatter was applied")
	}
}

func TestSettings(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		metadata string
		dpi      float64
	}{
		{"png without metadata", New(WithDPI(192)), "", 192},
		{"png with metadata", New(WithMetadata(true)), "src", 96},
		{"svg ignores dpi", New(WithFormat("svg"), WithDPI(192), WithMetadata(true)), "src", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.opts.Settings("src", "title")
			if s.Metadata != tt.metadata || s.DPI != tt.dpi || s.Title != "title" {
				t.Errorf("Settings() = %+v", s)
			}
		})
	}
}

func TestWithLayouter(t *testing.T) {
	l := graph.LayouterFunc(func(context.Context, *graph.Graph) (*graph.Solution, error) { return nil, nil })
	if _, ok := New(WithLayouter(l)).Layouter().(graph.LayouterFunc); !ok {
		t.Error("custom layouter not returned")
	}
}

func TestParseMapper(t *testing.T) {
	for _, name := range []string{"", "identity", "Monochrome", "dark", "reverse"} {
		if _, err := ParseMapper(name); err != nil {
			t.Errorf("ParseMapper(%q) error = %v", name, err)
		}
	}
	if _, err := ParseMapper("sepia"); !errors.Is(err, ErrUnknownMapper) {
		t.Errorf("ParseMapper(sepia) error = %v", err)
	}
}

func TestParseSkin(t *testing.T) {
	s, err := ParseSkin([]byte(`
font:
  family: Serif
fonts:
  title:
    size: 20
colors:
  entity: LightBlue
  arrow: "#123456"
roundCorner: 8
shadowing: false
stereotypeAlignment: left
`))
	if err != nil {
		t.Fatal(err)
	}
	title := s.FontConfig(FontTitle)
	// A role given in the skin replaces its default entry.
	if title.Font.Family != "Serif" || title.Font.Size != 20 || title.Font.Style != 0 {
		t.Errorf("title font = %+v", title.Font)
	}
	if got := s.Color(ColorArrow, nil); got != ug.Hex(0x123456) {
		t.Errorf("arrow = %v", got)
	}
	// kept from the defaults
	if got := s.Color(ColorNote, nil); got != ug.Hex(0xFBFB77) {
		t.Errorf("note = %v", got)
	}
	if s.Round() != 8 || s.Shadow() != 0 || s.StereotypeAlignment != block.Left {
		t.Errorf("skin = %+v", s)
	}
}

func TestParseSkinErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"negative size", "font: {size: -1}", ErrFontSize},
		{"bad style", "fonts: {title: {style: wavy}}", ErrFontStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSkin([]byte(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("ParseSkin() error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := ParseSkin([]byte("unknownKey: 1")); err == nil {
		t.Error("unknown key accepted")
	}
	if _, err := ParseSkin([]byte("stereotypeAlignment: diagonal")); err == nil {
		t.Error("bad alignment accepted")
	}
}

func TestParseSkinEmpty(t *testing.T) {
	s, err := ParseSkin(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Shadow() != 4 {
		t.Errorf("empty skin should keep defaults, Shadow() = %v", s.Shadow())
	}
}

func TestBadColorFallsBack(t *testing.T) {
	s := DefaultSkin()
	s.Colors[ColorEntity] = "#nothex"
	if got := s.Color(ColorEntity, ug.White); got != ug.White {
		t.Errorf("Color() = %v, want the default", got)
	}
}

func TestLoadSkin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.yaml")
	if err := os.WriteFile(path, []byte("roundCorner: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSkin(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Round() != 5 {
		t.Errorf("Round() = %v", s.Round())
	}
	if _, err := LoadSkin(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSkin(missing) error = %v", err)
	}
}

func TestParseFontStyle(t *testing.T) {
	tests := []struct {
		in   string
		want ug.FontStyle
	}{
		{"", 0},
		{"plain", 0},
		{"bold", ug.FontBold},
		{"Bold+Italic", ug.FontBold | ug.FontItalic},
		{"italic, underline", ug.FontItalic | ug.FontUnderline},
	}
	for _, tt := range tests {
		got, err := ParseFontStyle(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFontStyle(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestSkinStyleAndOverride(t *testing.T) {
	st := DefaultSkin().Style()
	if !st.Title.Font.Style.Has(ug.FontBold) || st.TitleBorder != nil {
		t.Errorf("Style() = %+v", st)
	}

	o := New(WithShadowing(false))
	if o.Skin().Shadowing {
		t.Error("options should turn skin shadowing off")
	}
	skin := DefaultSkin()
	_ = New(WithSkin(skin), WithShadowing(false)).Skin()
	if !skin.Shadowing {
		t.Error("Skin() changed the caller's skin")
	}
}

func TestParseFontStyleKeepsKnownParts(t *testing.T) {
	got, err := ParseFontStyle("bold+bogus")
	if !errors.Is(err, ErrFontStyle) {
		t.Errorf("error = %v, want ErrFontStyle", err)
	}
	if got != ug.FontBold {
		t.Errorf("style = %v, want bold", got)
	}
}

func TestFontConfigBadStyle(t *testing.T) {
	s := DefaultSkin()
	s.Fonts = map[string]FontSpec{FontNote: {Style: "bold+bogus"}}
	if got := s.FontConfig(FontNote).Font.Style; got != ug.FontBold {
		t.Errorf("FontConfig(note) style = %v, want bold", got)
	}
}

func TestSkinProblems(t *testing.T) {
	s := DefaultSkin()
	if p := s.Problems(); len(p) != 0 {
		t.Fatalf("default skin problems = %+v", p)
	}
	s.Colors[ColorArrow] = "bogus"
	s.Colors[ColorBorder] = "#nothex"
	s.Fonts = map[string]FontSpec{FontTitle: {Color: "nocolor"}}
	var got []string
	for _, p := range s.Problems() {
		if p.Code != block.UnknownColor {
			t.Errorf("code = %v", p.Code)
		}
		got = append(got, p.Subject)
	}
	want := []string{"bogus", "#nothex", "nocolor"}
	if len(got) != len(want) {
		t.Fatalf("subjects = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("subject %d = %q, want %q", i, got[i], want[i])
		}
	}
}
