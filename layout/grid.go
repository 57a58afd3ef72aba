package layout

import (
	"fmt"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/block"
)

// Strategy selects which separator lines a grid draws.
type Strategy uint8

const (
	DrawNone Strategy = iota
	DrawOutside
	DrawOutsideWithTitle
	DrawHorizontal
	DrawVertical
	DrawAll
)

var strategyNames = [...]string{
	DrawNone:             "none",
	DrawOutside:          "outside",
	DrawOutsideWithTitle: "outside-with-title",
	DrawHorizontal:       "horizontal",
	DrawVertical:         "vertical",
	DrawAll:              "all",
}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// ParseStrategy reads a strategy name as printed by String.
func ParseStrategy(s string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == s {
			return Strategy(i), nil
		}
	}
	return DrawNone, fmt.Errorf("layout: unknown grid strategy %q", s)
}

// UnmarshalText lets Strategy be read from YAML.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Strategy) outside() bool {
	return s == DrawOutside || s == DrawOutsideWithTitle || s == DrawAll
}

func (s Strategy) horizontal() bool { return s == DrawHorizontal || s == DrawAll }
func (s Strategy) vertical() bool   { return s == DrawVertical || s == DrawAll }

// titleOffset is the distance of the title from the left border.
const titleOffset = 6

// Grid is a table of blocks. Each row is as tall as its tallest cell
// and each column as wide as its widest cell; cells are centered in
// their box, inside Padding on every side.
type Grid struct {
	cells    [][]block.Block
	strategy Strategy
	title    block.Block

	// Padding is added around every cell.
	Padding float64
	// Color is the separator color. Nil is black.
	Color ug.Color
}

// NewGrid returns an empty rows x cols grid.
func NewGrid(rows, cols int, s Strategy) *Grid {
	if rows < 0 || cols < 0 {
		panic(ug.ErrNegativeSize)
	}
	cells := make([][]block.Block, rows)
	for i := range cells {
		cells[i] = make([]block.Block, cols)
	}
	return &Grid{cells: cells, strategy: s}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

// Set puts blk in a cell; nil empties it. It panics when out of range.
func (g *Grid) Set(row, col int, blk block.Block) *Grid {
	g.cells[row][col] = blk
	return g
}

// Cell returns the block in a cell.
func (g *Grid) Cell(row, col int) block.Block { return g.cells[row][col] }

// SetTitle sets the block drawn over the top border.
func (g *Grid) SetTitle(blk block.Block) *Grid {
	g.title = blk
	return g
}

// RowHeights returns the natural height of every row: the max height
// of its non-nil cells.
func (g *Grid) RowHeights(sb ug.StringBounder) []float64 {
	out := make([]float64, g.Rows())
	for r, row := range g.cells {
		for _, c := range row {
			if c != nil {
				out[r] = max(out[r], c.Dimension(sb).H)
			}
		}
	}
	return out
}

// ColumnWidths returns the natural width of every column.
func (g *Grid) ColumnWidths(sb ug.StringBounder) []float64 {
	out := make([]float64, g.Cols())
	for _, row := range g.cells {
		for c, cell := range row {
			if cell != nil {
				out[c] = max(out[c], cell.Dimension(sb).W)
			}
		}
	}
	return out
}

type gridGeometry struct {
	rows, cols []float64 // start of every row and column, plus the end
	top        float64   // room above the table for the title
	title      ug.Dimension
}

func (g *Grid) geometry(sb ug.StringBounder) gridGeometry {
	var geo gridGeometry
	if g.title != nil {
		geo.title = g.title.Dimension(sb)
		geo.top = geo.title.H / 2
	}
	geo.rows = starts(g.RowHeights(sb), g.Padding)
	geo.cols = starts(g.ColumnWidths(sb), g.Padding)
	return geo
}

func starts(sizes []float64, pad float64) []float64 {
	out := make([]float64, len(sizes)+1)
	for i, s := range sizes {
		out[i+1] = out[i] + s + 2*pad
	}
	return out
}

// Dimension implements block.Measurable.
func (g *Grid) Dimension(sb ug.StringBounder) ug.Dimension {
	geo := g.geometry(sb)
	w := geo.cols[len(geo.cols)-1]
	if geo.title.W > 0 {
		w = max(w, geo.title.W+2*titleOffset)
	}
	return ug.Dim(w, geo.top+geo.rows[len(geo.rows)-1])
}

// CellRect returns the box of a cell, padding included.
func (g *Grid) CellRect(row, col int, sb ug.StringBounder) ug.Rect {
	geo := g.geometry(sb)
	return ug.Rect{
		X: geo.cols[col],
		Y: geo.top + geo.rows[row],
		W: geo.cols[col+1] - geo.cols[col],
		H: geo.rows[row+1] - geo.rows[row],
	}
}

// DrawU implements block.Drawable.
func (g *Grid) DrawU(gr ug.Graphic) {
	sb := gr.Bounder()
	geo := g.geometry(sb)
	body := gr.Apply(ug.T(0, geo.top))

	for r, row := range g.cells {
		for c, cell := range row {
			if cell == nil {
				continue
			}
			d := cell.Dimension(sb)
			x := geo.cols[c] + (geo.cols[c+1]-geo.cols[c]-d.W)/2
			y := geo.rows[r] + (geo.rows[r+1]-geo.rows[r]-d.H)/2
			cell.DrawU(body.Apply(ug.T(x, y)))
		}
	}

	color := g.Color
	if color == nil {
		color = ug.Black
	}
	lines := body.Apply(ug.ChangeColor{Color: color})
	h, v := g.segments()
	for r := range h {
		for c, on := range h[r] {
			if on {
				lines.Apply(ug.T(geo.cols[c], geo.rows[r])).Draw(ug.HLine(geo.cols[c+1] - geo.cols[c]))
			}
		}
	}
	for r := range v {
		for c, on := range v[r] {
			if on {
				lines.Apply(ug.T(geo.cols[c], geo.rows[r])).Draw(ug.VLine(geo.rows[r+1] - geo.rows[r]))
			}
		}
	}

	if geo.title.W > 0 && geo.title.H > 0 {
		t := gr.Apply(ug.T(titleOffset, 0))
		t.Apply(ug.ChangeColor{Color: ug.White}, ug.ChangeBackColor{Color: ug.White}).
			Draw(ug.NewRectangle(geo.title.W, geo.title.H))
		g.title.DrawU(t)
	}
}

// segments returns the horizontal segments, indexed [row line][col],
// and the vertical ones, indexed [row][col line].
func (g *Grid) segments() (h, v [][]bool) {
	nr, nc := g.Rows(), g.Cols()
	h = make([][]bool, nr+1)
	for i := range h {
		h[i] = make([]bool, nc)
	}
	v = make([][]bool, nr)
	for i := range v {
		v[i] = make([]bool, nc+1)
	}
	if nr == 0 || nc == 0 {
		return h, v
	}
	if g.strategy.outside() {
		for c := 0; c < nc; c++ {
			h[0][c] = true
			h[nr][c] = true
		}
		for r := 0; r < nr; r++ {
			v[r][0] = true
			v[r][nc] = true
		}
	}
	for r, row := range g.cells {
		for c, cell := range row {
			if cell == nil {
				continue
			}
			if g.strategy.horizontal() {
				h[r][c] = true
				h[r+1][c] = true
			}
			if g.strategy.vertical() {
				v[r][c] = true
				v[r][c+1] = true
			}
		}
	}
	return h, v
}
