// Package block provides drawable blocks: units that measure themselves
// with a string bounder and draw themselves at the local origin.
//
// Blocks are built once per render, measured any number of times and
// drawn once per page. Dimension must be pure: no I/O and the same
// result for the same bounder. DrawU draws at (0,0) of the graphic it
// is given; parents position children by translating the graphic.
//
// Composition is by wrapping: [Margin], [Bordered], [MergeTB], [AddTop]
// and friends all take blocks and return blocks, forwarding
// [InnerAddressable] lookups with the right offset.
package block

import "github.com/gogpu/ug"

// Measurable computes its size from text metrics.
type Measurable interface {
	Dimension(b ug.StringBounder) ug.Dimension
}

// Drawable draws at the local origin of g.
type Drawable interface {
	DrawU(g ug.Graphic)
}

// Block is the basic composable element of the layout tree.
type Block interface {
	Measurable
	Drawable
}

// InnerStrategy selects which part of a block answers an inner lookup.
type InnerStrategy uint8

const (
	// Strict finds the exact member row.
	Strict InnerStrategy = iota
	// Whole returns the whole block.
	Whole
	// FirstLine returns the first row.
	FirstLine
	// LastLine returns the last row.
	LastLine
)

func (s InnerStrategy) String() string {
	switch s {
	case Whole:
		return "whole"
	case FirstLine:
		return "first-line"
	case LastLine:
		return "last-line"
	default:
		return "strict"
	}
}

// InnerAddressable blocks can locate a member inside themselves, for
// links that attach to a class attribute rather than the whole box.
// The returned rectangle is in the block's local coordinates.
type InnerAddressable interface {
	InnerPosition(member string, b ug.StringBounder, s InnerStrategy) (ug.Rect, bool)
}

// InnerPosition looks member up in blk, falling back to the block bounds
// when blk is not addressable or the member is not found.
func InnerPosition(blk Block, member string, b ug.StringBounder, s InnerStrategy) ug.Rect {
	if ia, ok := blk.(InnerAddressable); ok && s != Whole {
		if r, ok := ia.InnerPosition(member, b, s); ok {
			return r
		}
	}
	return ug.RectOf(ug.Point{}, blk.Dimension(b))
}

// innerOf forwards a lookup to child, shifting the result by t.
func innerOf(child Block, t ug.Translate, member string, b ug.StringBounder, s InnerStrategy) (ug.Rect, bool) {
	ia, ok := child.(InnerAddressable)
	if !ok {
		return ug.Rect{}, false
	}
	r, ok := ia.InnerPosition(member, b, s)
	if !ok {
		return ug.Rect{}, false
	}
	return r.Translate(t), true
}

// Func builds a block from a dimension function and a draw function.
type Func struct {
	DimFunc  func(ug.StringBounder) ug.Dimension
	DrawFunc func(ug.Graphic)
}

func (f Func) Dimension(b ug.StringBounder) ug.Dimension { return f.DimFunc(b) }
func (f Func) DrawU(g ug.Graphic)                       { f.DrawFunc(g) }

type empty struct{ w, h float64 }

// Empty returns a block of the given size that draws nothing.
func Empty(w, h float64) Block {
	if w < 0 || h < 0 {
		panic(ug.ErrNegativeSize)
	}
	return empty{w: w, h: h}
}

func (e empty) Dimension(ug.StringBounder) ug.Dimension { return ug.Dim(e.w, e.h) }
func (empty) DrawU(ug.Graphic)                          {}

// IsEmpty reports whether blk was built by Empty or is nil.
func IsEmpty(blk Block) bool {
	if blk == nil {
		return true
	}
	_, ok := blk.(empty)
	return ok
}

type fixed struct{ w, h float64 }

// Fixed returns a w x h block that draws its own outline. It is the
// stand-in for content whose size is known up front.
func Fixed(w, h float64) Block {
	if w < 0 || h < 0 {
		panic(ug.ErrNegativeSize)
	}
	return fixed{w: w, h: h}
}

func (f fixed) Dimension(ug.StringBounder) ug.Dimension { return ug.Dim(f.w, f.h) }

func (f fixed) DrawU(g ug.Graphic) {
	g.Draw(ug.NewRectangle(f.w, f.h))
}
