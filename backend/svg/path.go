package svg

import (
	"errors"
	"strings"

	"github.com/gogpu/ug"
)

// ErrNotBegun is returned when drawing before Begin.
var ErrNotBegun = errors.New("svg: backend not begun")

// pathData writes p, drawn at (x, y), as SVG path data with absolute
// commands.
func pathData(p ug.Path, x, y float64) string {
	var sb strings.Builder
	pt := func(q ug.Point) {
		sb.WriteString(num(x + q.X))
		sb.WriteByte(',')
		sb.WriteString(num(y + q.Y))
	}
	p.Walk(func(e ug.PathElement) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		switch v := e.(type) {
		case ug.MoveTo:
			sb.WriteByte('M')
			pt(v.Point)
		case ug.LineTo:
			sb.WriteByte('L')
			pt(v.Point)
		case ug.QuadTo:
			sb.WriteByte('Q')
			pt(v.Control)
			sb.WriteByte(' ')
			pt(v.Point)
		case ug.CubicTo:
			sb.WriteByte('C')
			pt(v.Control1)
			sb.WriteByte(' ')
			pt(v.Control2)
			sb.WriteByte(' ')
			pt(v.Point)
		case ug.Close:
			sb.WriteByte('Z')
		}
	})
	return sb.String()
}

// rectPath is a rectangle outline, with elliptic arcs for rounded
// corners.
func rectPath(x, y, w, h, rx, ry float64) string {
	rx, ry = min(rx, w/2), min(ry, h/2)
	if rx <= 0 || ry <= 0 {
		return "M" + num(x) + "," + num(y) + " h" + num(w) + " v" + num(h) + " h" + num(-w) + " Z"
	}
	arc := func(dx, dy float64) string {
		return " a" + num(rx) + "," + num(ry) + " 0 0 1 " + num(dx) + "," + num(dy)
	}
	return "M" + num(x+rx) + "," + num(y) +
		" h" + num(w-2*rx) + arc(rx, ry) +
		" v" + num(h-2*ry) + arc(-rx, ry) +
		" h" + num(-(w - 2*rx)) + arc(-rx, -ry) +
		" v" + num(-(h - 2*ry)) + arc(rx, -ry) + " Z"
}

// ellipsePath is a full ellipse as two arcs.
func ellipsePath(cx, cy, rx, ry float64) string {
	r := num(rx) + "," + num(ry)
	return "M" + num(cx-rx) + "," + num(cy) +
		" A" + r + " 0 1 0 " + num(cx+rx) + "," + num(cy) +
		" A" + r + " 0 1 0 " + num(cx-rx) + "," + num(cy) + " Z"
}
