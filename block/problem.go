package block

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/ug"
)

// ProblemCode classifies a content error that was replaced by a
// placeholder instead of failing the render.
type ProblemCode uint8

const (
	FileNotFound ProblemCode = iota + 1
	CannotDecode
	UnknownColor
)

func (c ProblemCode) String() string {
	switch c {
	case FileNotFound:
		return "file-not-found"
	case CannotDecode:
		return "cannot-decode"
	case UnknownColor:
		return "unknown-color"
	}
	return fmt.Sprintf("ProblemCode(%d)", c)
}

// Problem is a content error: what went wrong and with what.
type Problem struct {
	Code    ProblemCode
	Subject string
	Err     error
}

// Formatter turns a problem into the text shown in its placeholder.
type Formatter func(Problem) string

// FormatEnglish is the default formatter.
func FormatEnglish(p Problem) string {
	switch p.Code {
	case FileNotFound:
		return "(File not found: " + p.Subject + ")"
	case CannotDecode:
		return "(Cannot decode: " + p.Subject + ")"
	case UnknownColor:
		return "(Unknown color: " + p.Subject + ")"
	}
	return "(" + p.Code.String() + ": " + p.Subject + ")"
}

// Placeholder is a block standing in for content that could not be
// produced. It draws the formatted problem in red.
type Placeholder struct {
	*Text
	problem Problem
}

// PlaceholderFont is the font placeholders are drawn in.
var PlaceholderFont = ug.FontConfig{Font: ug.Font{Family: "SansSerif", Size: 12}, Color: ug.Hex(0xFF0000)}

// NewPlaceholder logs p and returns its placeholder block.
// A nil format uses FormatEnglish.
func NewPlaceholder(p Problem, format Formatter) *Placeholder {
	if format == nil {
		format = FormatEnglish
	}
	attrs := []any{slog.String("code", p.Code.String()), slog.String("subject", p.Subject)}
	if p.Err != nil {
		attrs = append(attrs, slog.Any("err", p.Err))
	}
	ug.Logger().Warn("block: content replaced by placeholder", attrs...)
	return &Placeholder{
		Text:    NewText(Display{format(p)}, PlaceholderFont, Left),
		problem: p,
	}
}

// Problem returns the problem the placeholder reports.
func (p *Placeholder) Problem() Problem { return p.problem }

// ProblemOf returns the problem behind blk, if it is a placeholder.
func ProblemOf(blk Block) (Problem, bool) {
	if p, ok := blk.(*Placeholder); ok {
		return p.problem, true
	}
	return Problem{}, false
}

// ColorOr parses s, falling back to def for an empty or bad value.
// A bad value is reported through the problem callback when it is set.
func ColorOr(s string, def ug.Color, report func(Problem)) ug.Color {
	if s == "" {
		return def
	}
	c, err := ug.ParseColor(s)
	if err != nil {
		if report != nil {
			report(Problem{Code: UnknownColor, Subject: s, Err: err})
		}
		return def
	}
	return c
}

// WithProblems stacks one placeholder per distinct problem under blk,
// left aligned. Without problems blk is returned unchanged.
func WithProblems(blk Block, problems []Problem, format Formatter) Block {
	type key struct {
		code    ProblemCode
		subject string
	}
	seen := make(map[key]bool, len(problems))
	for _, p := range problems {
		k := key{p.Code, p.Subject}
		if seen[k] {
			continue
		}
		seen[k] = true
		blk = AddBottom(blk, NewPlaceholder(p, format), Left)
	}
	return blk
}
