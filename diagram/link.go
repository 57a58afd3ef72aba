package diagram

import (
	"math"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
	"github.com/gogpu/ug/config"
	"github.com/gogpu/ug/graph"
)

// Arrow head size.
const (
	arrowLength = 9
	arrowHalf   = 4
)

// strokeOf returns the stroke of a link style.
func strokeOf(s LinkStyle) ug.Stroke {
	switch s {
	case LinkDashed:
		return ug.Dashed(1)
	case LinkDotted:
		return ug.Dotted(1)
	case LinkBold:
		return ug.Stroke{Thickness: 2}
	}
	return ug.DefaultStroke()
}

// arrowHead returns the head polygon with its tip at tip, pointing away
// from from. It is nil when both points are equal.
func arrowHead(from, tip ug.Point) []ug.Point {
	d := tip.Sub(from)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return nil
	}
	u := d.Mul(1 / l)
	n := ug.Pt(-u.Y, u.X)
	back := tip.Sub(u.Mul(arrowLength))
	return []ug.Point{
		tip,
		back.Add(n.Mul(arrowHalf)),
		tip.Sub(u.Mul(arrowLength - 3)),
		back.Sub(n.Mul(arrowHalf)),
	}
}

// linkImage draws one solved link in page coordinates.
type linkImage struct {
	route  graph.Route
	label  block.Block
	color  ug.Color
	stroke ug.Stroke
	noHead bool
}

func (st style) linkImage(l Link, r graph.Route) *linkImage {
	li := &linkImage{
		route:  r,
		color:  st.color(l.Color, st.skin.Color(config.ColorArrow, ug.Black)),
		stroke: strokeOf(l.Style),
		noHead: l.NoHead,
	}
	if l.Label != "" {
		li.label = block.NewText(block.DisplayOf(l.Label), st.font(config.FontArrow), block.Left)
	}
	return li
}

// attach moves the end of the route onto target, a rectangle in page
// coordinates: the side facing the previous point, at mid height.
func (li *linkImage) attach(target ug.Rect) {
	pts := li.route.Points
	if len(pts) < 2 {
		return
	}
	pts = append([]ug.Point(nil), pts...)
	prev := pts[len(pts)-2]
	end := ug.Pt(target.X, target.Center().Y)
	if prev.X > target.Center().X {
		end.X = target.MaxX()
	}
	pts[len(pts)-1] = end
	if len(pts) >= 4 {
		// keep the last curve flat as it enters the row
		pts[len(pts)-2] = ug.Pt((prev.X+end.X)/2, end.Y)
	}
	li.route.Points = pts
}

func (li *linkImage) DrawU(g ug.Graphic) {
	pts := li.route.Points
	if len(pts) < 2 {
		return
	}
	line := g.Apply(ug.ChangeColor{Color: li.color}, ug.ChangeBackColor{Color: nil}, li.stroke)
	line.Draw(li.route.Path())
	if !li.noHead {
		if head := arrowHead(pts[len(pts)-2], pts[len(pts)-1]); head != nil {
			g.Apply(ug.ChangeColor{Color: li.color}, ug.ChangeBackColor{Color: li.color}).
				Draw(ug.NewPolygon(head...))
		}
	}
	if li.label != nil {
		li.label.DrawU(g.Apply(ug.T(li.route.Label.X, li.route.Label.Y)))
	}
}
