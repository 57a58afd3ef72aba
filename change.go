package ug

// Change is a modification applied to a [Graphic] with [Graphic.Apply].
//
// The implementations are [Translate], [ChangeColor], [ChangeBackColor],
// [Stroke], [ClipRect], [ResetClip] and [Pattern]. Translations add up;
// for every other kind the last one applied wins.
type Change interface {
	change()
}

// ChangeColor sets the border, line and text-default color.
type ChangeColor struct {
	Color Color
}

// ChangeBackColor sets the fill color.
type ChangeBackColor struct {
	Color Color
}

// ClipRect restricts drawing to a rectangle given in the coordinates
// of the graphic it is applied to.
type ClipRect struct {
	Rect Rect
}

// ResetClip removes any clip.
type ResetClip struct{}

func (ChangeColor) change()     {}
func (ChangeBackColor) change() {}
func (ClipRect) change()        {}
func (ResetClip) change()       {}

// Param is the style snapshot carried by a [Graphic].
type Param struct {
	Color     Color
	BackColor Color
	Stroke    Stroke
	Pattern   Pattern
}

// DefaultParam is black lines, no fill and a 1-unit solid stroke.
func DefaultParam() Param {
	return Param{Color: Black, Stroke: DefaultStroke()}
}
