// Package graph hands node and edge sizes to a layout solver and reads
// back where everything goes.
//
// The solver is opaque: a [Layouter] receives a [Graph] of sized nodes
// and edges and returns a [Solution] with node positions, edge control
// points and label positions. [DotLayouter] runs Graphviz; [RowLayouter]
// is a small built-in solver ranking nodes top to bottom.
//
// When a solver fails, diagrams draw a [CrashBlock] instead.
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/ug"
)

var (
	// ErrUnknownNode is returned for edges naming a node not in the graph.
	ErrUnknownNode = errors.New("graph: unknown node")
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("graph: duplicate node")
	// ErrBadOutput is returned when solver output cannot be read.
	ErrBadOutput = errors.New("graph: bad solver output")
)

// Node is a box to place.
type Node struct {
	ID   string
	Size ug.Dimension
}

// Edge connects two nodes. A non-empty Label reserves room for the
// label next to the edge.
type Edge struct {
	From, To string
	Label    ug.Dimension
	// MinLen is the minimum rank distance; 0 means 1.
	MinLen int
}

// HasLabel reports whether room is reserved for a label.
func (e Edge) HasLabel() bool { return !e.Label.IsEmpty() }

// Graph is the description submitted to a solver.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// AddNode appends a node.
func (g *Graph) AddNode(id string, size ug.Dimension) *Graph {
	g.Nodes = append(g.Nodes, Node{ID: id, Size: size})
	return g
}

// AddEdge appends an edge.
func (g *Graph) AddEdge(e Edge) *Graph {
	g.Edges = append(g.Edges, e)
	return g
}

// index maps node IDs to their position in Nodes.
func (g *Graph) index() (map[string]int, error) {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := idx[n.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		idx[n.ID] = i
	}
	return idx, nil
}

// Validate checks that IDs are unique and every edge end exists.
func (g *Graph) Validate() error {
	idx, err := g.index()
	if err != nil {
		return err
	}
	for _, e := range g.Edges {
		for _, id := range [2]string{e.From, e.To} {
			if _, ok := idx[id]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownNode, id)
			}
		}
	}
	return nil
}

// Route is where an edge goes: a cubic B-spline in Graphviz order (a
// start point followed by groups of three control points), and the
// top-left corner of its label.
type Route struct {
	Points []ug.Point
	Label  ug.Point
}

// Path returns the route as a path of cubic curves.
func (r Route) Path() ug.Path {
	if len(r.Points) == 0 {
		return ug.Path{}
	}
	pb := ug.BuildPath().MoveTo(r.Points[0].X, r.Points[0].Y)
	i := 1
	for ; i+2 < len(r.Points); i += 3 {
		c1, c2, p := r.Points[i], r.Points[i+1], r.Points[i+2]
		pb.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
	}
	for ; i < len(r.Points); i++ {
		pb.LineTo(r.Points[i].X, r.Points[i].Y)
	}
	return pb.Build()
}

// Solution is a solved layout in diagram coordinates (y grows
// downwards, origin at the top-left).
type Solution struct {
	// Nodes holds the top-left corner of each node by ID.
	Nodes map[string]ug.Point
	// Edges holds one route per edge, in Graph.Edges order.
	Edges []Route
	Size  ug.Dimension
}

// Layouter solves a graph layout.
type Layouter interface {
	Layout(ctx context.Context, g *Graph) (*Solution, error)
}

// LayouterFunc adapts a function to a Layouter.
type LayouterFunc func(ctx context.Context, g *Graph) (*Solution, error)

func (f LayouterFunc) Layout(ctx context.Context, g *Graph) (*Solution, error) { return f(ctx, g) }
