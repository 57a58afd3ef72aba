// Package layout positions blocks relative to each other: deferred
// positions solved in one pass, grids, stacks, swimlanes and the
// participant columns of sequence diagrams.
//
// Deferred positions are built in two phases. A [Constraints] value
// collects lower bounds between variables; [Constraints.Solve] turns it
// into read-only [Positions]. Values can only be read from Positions,
// so reading before the solve is impossible by construction:
//
//	c := layout.NewConstraints()
//	a := c.NewVar("A")
//	b := c.NewVar("B")
//	c.AtLeast(b, a.Offset(10), 30) // B starts 30 past A's end
//	pos, err := c.Solve()
//	pos.Value(b) // 40
package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gogpu/ug"
)

var (
	// ErrSolved is the panic value when constraints are added to, or
	// solved from, a set that was already solved.
	ErrSolved = errors.New("layout: constraints already solved")

	// ErrForeignVar is the panic value when a variable is used with a
	// constraint set or positions it does not belong to.
	ErrForeignVar = errors.New("layout: variable from another constraint set")
)

// CycleError reports variables whose constraints form a cycle.
type CycleError struct {
	Vars []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("layout: constraint cycle between %s", strings.Join(e.Vars, ", "))
}

// Var is a deferred position: a root variable plus a fixed delta.
// Offset returns a new Var on the same root, so constraints on it
// apply to the root shifted by the delta.
type Var struct {
	set   *Constraints
	root  int
	delta float64
}

// Offset returns a position at a fixed distance d from v.
func (v Var) Offset(d float64) Var {
	v.delta += d
	return v
}

// Name returns the name of the root variable.
func (v Var) Name() string {
	if v.set == nil {
		return ""
	}
	return v.set.names[v.root]
}

type edge struct {
	from, to int
	w        float64
}

// Constraints collects lower bounds between deferred positions.
// The zero value is not usable; call NewConstraints.
type Constraints struct {
	names  []string
	edges  []edge
	solved bool
}

// NewConstraints returns a set holding only the origin, fixed at 0.
func NewConstraints() *Constraints {
	return &Constraints{names: []string{"origin"}}
}

// Origin returns the variable fixed at 0.
func (c *Constraints) Origin() Var {
	return Var{set: c, root: 0}
}

// NewVar adds a variable anchored to the origin: its value is at least 0.
func (c *Constraints) NewVar(name string) Var {
	c.check()
	c.names = append(c.names, name)
	v := Var{set: c, root: len(c.names) - 1}
	c.edges = append(c.edges, edge{from: 0, to: v.root})
	return v
}

// AtLeast requires v >= base + d. On a shared root the bound either
// always holds and is dropped, or never holds and Solve reports the
// root in a *CycleError.
func (c *Constraints) AtLeast(v, base Var, d float64) {
	c.check()
	c.own(v)
	c.own(base)
	w := base.delta + d - v.delta
	if v.root == base.root && w <= 0 {
		return
	}
	c.edges = append(c.edges, edge{from: base.root, to: v.root, w: w})
}

// EnsureAtLeast requires v >= x.
func (c *Constraints) EnsureAtLeast(v Var, x float64) {
	c.AtLeast(v, c.Origin(), x)
}

// MaxOf returns a new variable at least as large as every v.
func (c *Constraints) MaxOf(name string, vs ...Var) Var {
	m := c.NewVar(name)
	for _, v := range vs {
		c.AtLeast(m, v, 0)
	}
	return m
}

// Len returns the number of root variables, origin included.
func (c *Constraints) Len() int { return len(c.names) }

func (c *Constraints) check() {
	if c.solved {
		panic(ErrSolved)
	}
}

func (c *Constraints) own(v Var) {
	if v.set != c {
		panic(ErrForeignVar)
	}
}

// Solve resolves every variable to the smallest value meeting all its
// lower bounds: the longest path from the origin. The result does not
// depend on the order constraints were added in. Solve can only be
// called once; a cycle gives a *CycleError.
func (c *Constraints) Solve() (*Positions, error) {
	c.check()
	c.solved = true

	n := len(c.names)
	out := make([][]edge, n)
	indeg := make([]int, n)
	for _, e := range c.edges {
		out[e.from] = append(out[e.from], e)
		indeg[e.to]++
	}

	values := make([]float64, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	done := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		done++
		for _, e := range out[u] {
			values[e.to] = max(values[e.to], values[u]+e.w)
			indeg[e.to]--
			if indeg[e.to] == 0 {
				queue = append(queue, e.to)
			}
		}
	}

	if done < n {
		var cyc []string
		for i := 0; i < n; i++ {
			if indeg[i] > 0 {
				cyc = append(cyc, c.names[i])
			}
		}
		sort.Strings(cyc)
		return nil, &CycleError{Vars: cyc}
	}

	ug.Logger().Debug("layout: constraints solved",
		slog.Int("vars", n), slog.Int("constraints", len(c.edges)))
	return &Positions{set: c, values: values}, nil
}

// Positions are the solved values of a constraint set.
type Positions struct {
	set    *Constraints
	values []float64
}

// Value returns the solved position of v.
func (p *Positions) Value(v Var) float64 {
	if v.set != p.set {
		panic(ErrForeignVar)
	}
	return p.values[v.root] + v.delta
}

// Values returns the solved values of the root variables by name.
// Duplicate names keep the last variable.
func (p *Positions) Values() map[string]float64 {
	m := make(map[string]float64, len(p.values))
	for i, name := range p.set.names {
		m[name] = p.values[i]
	}
	return m
}
