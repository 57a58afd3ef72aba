package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/annotated"
	"github.com/gogpu/ug/block"
)

var (
	// ErrFontSize is returned for negative font sizes.
	ErrFontSize = errors.New("config: negative font size")
	// ErrFontStyle is returned for unknown font styles.
	ErrFontStyle = errors.New("config: unknown font style")
)

// Font roles.
const (
	FontDefault     = "default"
	FontTitle       = "title"
	FontCaption     = "caption"
	FontLegend      = "legend"
	FontHeader      = "header"
	FontFooter      = "footer"
	FontNote        = "note"
	FontArrow       = "arrow"
	FontStereotype  = "stereotype"
	FontParticipant = "participant"
	FontLane        = "lane"
	FontTable       = "table"
)

// Color keys.
const (
	ColorBackground  = "background"
	ColorBorder      = "border"
	ColorEntity      = "entity"
	ColorNote        = "note"
	ColorNoteBorder  = "noteBorder"
	ColorArrow       = "arrow"
	ColorPackage     = "package"
	ColorParticipant = "participant"
	ColorLifeline    = "lifeline"
	ColorLane        = "lane"
	ColorActivity    = "activity"
	ColorLegend      = "legend"
	ColorLegendLine  = "legendBorder"
	ColorTitleBorder = "titleBorder"
	ColorTable       = "table"
)

// FontSpec is a partial font: empty fields inherit from the base font.
type FontSpec struct {
	Family string  `yaml:"family,omitempty"`
	Size   float64 `yaml:"size,omitempty"`
	Style  string  `yaml:"style,omitempty"`
	Color  string  `yaml:"color,omitempty"`
}

// Skin holds the look of diagrams. Colors are strings in the syntax of
// ug.ParseColor and are only parsed when used, so a bad value degrades
// to the default instead of failing the whole skin.
type Skin struct {
	Font   FontSpec            `yaml:"font"`
	Fonts  map[string]FontSpec `yaml:"fonts"`
	Colors map[string]string   `yaml:"colors"`

	RoundCorner         float64      `yaml:"roundCorner"`
	Shadowing           bool         `yaml:"shadowing"`
	StereotypeAlignment block.HAlign `yaml:"stereotypeAlignment"`
	// Mapper names the color mapper, see ParseMapper.
	Mapper string `yaml:"mapper,omitempty"`
}

// DefaultSkin is the classic yellow-and-red look.
func DefaultSkin() *Skin {
	return &Skin{
		Font: FontSpec{Family: "SansSerif", Size: 14, Color: "#000000"},
		Fonts: map[string]FontSpec{
			FontTitle:      {Size: 14, Style: "bold"},
			FontHeader:     {Size: 10, Color: "#888888"},
			FontFooter:     {Size: 10, Color: "#888888"},
			FontNote:       {Size: 13},
			FontArrow:      {Size: 13},
			FontStereotype: {Size: 12, Style: "italic"},
		},
		Colors: map[string]string{
			ColorBackground:  "#FFFFFF",
			ColorBorder:      "#A80036",
			ColorEntity:      "#FEFECE",
			ColorNote:        "#FBFB77",
			ColorNoteBorder:  "#A80036",
			ColorArrow:       "#A80036",
			ColorPackage:     "#FFFFFF",
			ColorParticipant: "#FEFECE",
			ColorLifeline:    "#A80036",
			ColorLane:        "#FFFFFF",
			ColorActivity:    "#FEFECE",
			ColorLegend:      "#DDDDDD",
			ColorLegendLine:  "#000000",
			ColorTable:       "#000000",
		},
		Shadowing:           true,
		StereotypeAlignment: block.Center,
	}
}

// ParseSkin decodes a YAML skin over DefaultSkin: keys left out keep
// their default. A font role or color given in the skin replaces the
// default entry as a whole.
func ParseSkin(data []byte) (*Skin, error) {
	s := DefaultSkin()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse skin: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSkin reads and parses a skin file.
func LoadSkin(path string) (*Skin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load skin: %w", err)
	}
	s, err := ParseSkin(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks font sizes and styles.
func (s *Skin) Validate() error {
	check := func(role string, f FontSpec) error {
		if f.Size < 0 {
			return fmt.Errorf("%w: %s: %g", ErrFontSize, role, f.Size)
		}
		if _, err := ParseFontStyle(f.Style); err != nil {
			return fmt.Errorf("%s: %w", role, err)
		}
		return nil
	}
	if err := check(FontDefault, s.Font); err != nil {
		return err
	}
	for role, f := range s.Fonts {
		if err := check(role, f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFontStyle parses "plain", "bold", "italic", or a combination
// joined by '+', ',' or spaces. Empty is plain. Unknown parts are
// reported in the error; the style of the known parts is still returned.
func ParseFontStyle(s string) (ug.FontStyle, error) {
	var (
		st  ug.FontStyle
		bad []string
	)
	for _, part := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	}) {
		switch part {
		case "plain", "normal":
		case "bold":
			st |= ug.FontBold
		case "italic":
			st |= ug.FontItalic
		case "underline":
			st |= ug.FontUnderline
		case "strike":
			st |= ug.FontStrike
		default:
			bad = append(bad, part)
		}
	}
	if len(bad) > 0 {
		return st, fmt.Errorf("%w: %q", ErrFontStyle, strings.Join(bad, "+"))
	}
	return st, nil
}

// FontConfig returns the font of role: the base font overridden by the
// role's non-empty fields.
func (s *Skin) FontConfig(role string) ug.FontConfig {
	spec := s.Font
	if r, ok := s.Fonts[role]; ok {
		if r.Family != "" {
			spec.Family = r.Family
		}
		if r.Size > 0 {
			spec.Size = r.Size
		}
		if r.Style != "" {
			spec.Style = r.Style
		}
		if r.Color != "" {
			spec.Color = r.Color
		}
	}
	f := ug.DefaultFont
	if spec.Family != "" {
		f.Family = spec.Family
	}
	if spec.Size > 0 {
		f.Size = spec.Size
	}
	style, err := ParseFontStyle(spec.Style)
	if err != nil {
		ug.Logger().Warn("config: font style ignored", slog.String("role", role), slog.Any("err", err))
	}
	f.Style = style
	return ug.FontConfig{Font: f, Color: block.ColorOr(spec.Color, ug.Black, s.report)}
}

// Color returns the color of key, or def when the key is missing or
// does not parse.
func (s *Skin) Color(key string, def ug.Color) ug.Color {
	return block.ColorOr(s.Colors[key], def, s.report)
}

// Round returns the corner radius of boxes.
func (s *Skin) Round() float64 { return max(s.RoundCorner, 0) }

// Shadow returns the shadow depth of boxes: 4 with shadowing on.
func (s *Skin) Shadow() float64 {
	if s.Shadowing {
		return 4
	}
	return 0
}

// Problems returns one problem per color of s that does not parse:
// the color keys in order, then the base font, then the roles in order.
func (s *Skin) Problems() []block.Problem {
	var out []block.Problem
	collect := func(p block.Problem) { out = append(out, p) }
	for _, k := range slices.Sorted(maps.Keys(s.Colors)) {
		block.ColorOr(s.Colors[k], nil, collect)
	}
	block.ColorOr(s.Font.Color, nil, collect)
	for _, role := range slices.Sorted(maps.Keys(s.Fonts)) {
		block.ColorOr(s.Fonts[role].Color, nil, collect)
	}
	return out
}

func (s *Skin) report(p block.Problem) {
	ug.Logger().Debug("config: skin color replaced by default", slog.String("value", p.Subject), slog.Any("err", p.Err))
}

// Style returns the annotation style of the skin.
func (s *Skin) Style() annotated.Style {
	st := annotated.DefaultStyle()
	st.Title = s.FontConfig(FontTitle)
	st.Caption = s.FontConfig(FontCaption)
	st.Legend = s.FontConfig(FontLegend)
	st.Header = s.FontConfig(FontHeader)
	st.Footer = s.FontConfig(FontFooter)
	st.Frame = s.FontConfig(FontDefault)
	st.Background = s.Color(ColorBackground, st.Background)
	st.LegendBack = s.Color(ColorLegend, st.LegendBack)
	st.LegendBorder = s.Color(ColorLegendLine, st.LegendBorder)
	st.TitleBorder = s.Color(ColorTitleBorder, nil)
	st.Shadowing = s.Shadowing
	return st
}
