package ug

// LimitFinder is a driver that draws nothing. Combined with bounds
// collection it tells where a drawing would land.
type LimitFinder struct{}

var _ Driver = LimitFinder{}

func (LimitFinder) Name() string       { return "limitfinder" }
func (LimitFinder) Coverage() ShapeSet { return AllShapes }

func (LimitFinder) DrawRectangle(Rectangle, float64, float64, DrawParam) error { return nil }
func (LimitFinder) DrawEllipse(Ellipse, float64, float64, DrawParam) error     { return nil }
func (LimitFinder) DrawLine(Line, float64, float64, DrawParam) error           { return nil }
func (LimitFinder) DrawPolygon(Polygon, float64, float64, DrawParam) error     { return nil }
func (LimitFinder) DrawPath(Path, float64, float64, DrawParam) error           { return nil }
func (LimitFinder) DrawText(Text, float64, float64, DrawParam) error           { return nil }
func (LimitFinder) DrawImage(Image, float64, float64, DrawParam) error         { return nil }
func (LimitFinder) StartURL(string, string) error                              { return nil }
func (LimitFinder) CloseURL() error                                            { return nil }

// MeasureBounds runs draw against a LimitFinder and returns the box
// of everything it drew.
func MeasureBounds(b StringBounder, draw func(Graphic)) MinMax {
	g := NewGraphic(LimitFinder{}, b, WithBoundsCollection(true))
	draw(g)
	return g.Bounds()
}
