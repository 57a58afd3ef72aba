package graph

import (
	"context"

	"github.com/gogpu/ug"
)

// RowLayouter ranks nodes by longest path from the sources and puts
// every rank on its own row, left to right in submission order. Edges
// are straight. Cycles are broken by ignoring edges that point back to
// a node still being visited.
//
// It needs no external program, which makes it the fallback when dot
// is missing and a deterministic solver for tests.
type RowLayouter struct {
	// RankSep is the gap between rows, NodeSep between nodes of a row.
	RankSep, NodeSep float64
}

var _ Layouter = RowLayouter{}

// Layout places the nodes of g.
func (l RowLayouter) Layout(ctx context.Context, g *Graph) (*Solution, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, _ := g.index()
	rankSep, nodeSep := orDefault(l.RankSep, 60), orDefault(l.NodeSep, 35)

	rank := ranks(g, idx)
	var rows [][]int
	for i := range g.Nodes {
		r := rank[i]
		for len(rows) <= r {
			rows = append(rows, nil)
		}
		rows[r] = append(rows[r], i)
	}

	// Rows hold their tallest node plus the tallest label entering it.
	labelH := make([]float64, len(rows))
	for _, e := range g.Edges {
		r := rank[idx[e.To]]
		labelH[r] = max(labelH[r], e.Label.H)
	}

	sol := &Solution{
		Nodes: make(map[string]ug.Point, len(g.Nodes)),
		Edges: make([]Route, len(g.Edges)),
	}
	y := 0.0
	for r, row := range rows {
		if r > 0 {
			y += rankSep + labelH[r]
		}
		x, rowH := 0.0, 0.0
		for _, i := range row {
			n := g.Nodes[i]
			sol.Nodes[n.ID] = ug.Pt(x, y)
			x += n.Size.W + nodeSep
			rowH = max(rowH, n.Size.H)
		}
		sol.Size.W = max(sol.Size.W, x-nodeSep)
		y += rowH
	}
	sol.Size.H = y

	for k, e := range g.Edges {
		a := ug.RectOf(sol.Nodes[e.From], g.Nodes[idx[e.From]].Size)
		b := ug.RectOf(sol.Nodes[e.To], g.Nodes[idx[e.To]].Size)
		p0, p1 := anchors(a, b)
		d := p1.Sub(p0)
		route := Route{Points: []ug.Point{p0, p0.Add(d.Mul(1.0 / 3)), p0.Add(d.Mul(2.0 / 3)), p1}}
		if e.HasLabel() {
			mid := p0.Add(d.Mul(0.5))
			route.Label = ug.Pt(mid.X+2, mid.Y-e.Label.H/2)
		}
		sol.Edges[k] = route
	}
	return sol, nil
}

// anchors returns the points where a straight edge from a to b leaves
// a and enters b.
func anchors(a, b ug.Rect) (ug.Point, ug.Point) {
	ca, cb := a.Center(), b.Center()
	switch {
	case b.Y >= a.MaxY():
		return ug.Pt(ca.X, a.MaxY()), ug.Pt(cb.X, b.Y)
	case a.Y >= b.MaxY():
		return ug.Pt(ca.X, a.Y), ug.Pt(cb.X, b.MaxY())
	case b.X >= a.MaxX():
		return ug.Pt(a.MaxX(), ca.Y), ug.Pt(b.X, cb.Y)
	case a.X >= b.MaxX():
		return ug.Pt(a.X, ca.Y), ug.Pt(b.MaxX(), cb.Y)
	}
	return ca, cb
}

// ranks computes the longest-path rank of every node.
func ranks(g *Graph, idx map[string]int) []int {
	out := make([][]Edge, len(g.Nodes))
	for _, e := range g.Edges {
		i := idx[e.From]
		out[i] = append(out[i], e)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(g.Nodes))
	var order []int
	var visit func(i int)
	visit = func(i int) {
		state[i] = visiting
		for _, e := range out[i] {
			if j := idx[e.To]; state[j] == unvisited {
				visit(j)
			}
		}
		state[i] = done
		order = append(order, i)
	}
	for i := range g.Nodes {
		if state[i] == unvisited {
			visit(i)
		}
	}

	// order is a reverse topological order of the acyclic part; walking
	// it backwards relaxes every forward edge after its source.
	pos := make([]int, len(g.Nodes))
	for k, i := range order {
		pos[i] = k
	}
	rank := make([]int, len(g.Nodes))
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		for _, e := range out[i] {
			j := idx[e.To]
			if pos[j] >= pos[i] {
				continue // back edge
			}
			minLen := max(e.MinLen, 1)
			rank[j] = max(rank[j], rank[i]+minLen)
		}
	}
	return rank
}
