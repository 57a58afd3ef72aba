package block

import (
	"fmt"
	"strings"
)

// HAlign is a horizontal alignment.
type HAlign uint8

const (
	Center HAlign = iota
	Left
	Right
)

// Offset returns where content of width inner starts inside outer.
func (a HAlign) Offset(outer, inner float64) float64 {
	switch a {
	case Left:
		return 0
	case Right:
		return outer - inner
	default:
		return (outer - inner) / 2
	}
}

func (a HAlign) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// ParseHAlign reads "left", "center" or "right", case-insensitively.
func ParseHAlign(s string) (HAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "centre":
		return Center, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Center, fmt.Errorf("block: unknown horizontal alignment %q", s)
}

// UnmarshalText lets HAlign be read from YAML.
func (a *HAlign) UnmarshalText(b []byte) error {
	v, err := ParseHAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// VAlign is a vertical alignment.
type VAlign uint8

const (
	Middle VAlign = iota
	Top
	Bottom
)

// Offset returns where content of height inner starts inside outer.
func (a VAlign) Offset(outer, inner float64) float64 {
	switch a {
	case Top:
		return 0
	case Bottom:
		return outer - inner
	default:
		return (outer - inner) / 2
	}
}

func (a VAlign) String() string {
	switch a {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "middle"
	}
}

// ParseVAlign reads "top", "middle" or "bottom", case-insensitively.
func ParseVAlign(s string) (VAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "middle", "center":
		return Middle, nil
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	}
	return Middle, fmt.Errorf("block: unknown vertical alignment %q", s)
}

// UnmarshalText lets VAlign be read from YAML.
func (a *VAlign) UnmarshalText(b []byte) error {
	v, err := ParseVAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
