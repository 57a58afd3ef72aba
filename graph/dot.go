package graph

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/ug"
)

// ErrNoDot is returned when the dot executable cannot be found.
var ErrNoDot = errors.New("graph: dot executable not found")

// Graphviz works in inches; diagrams in points.
const pointsPerInch = 72

// DotLayouter runs Graphviz dot on a temporary file and reads its plain
// text output.
type DotLayouter struct {
	// Path is the dot executable. Empty looks "dot" up in PATH.
	Path string
	// Timeout bounds one run; zero relies on the context alone.
	Timeout time.Duration
	// RankSep and NodeSep are in points; zero keeps the defaults.
	RankSep, NodeSep float64
}

var _ Layouter = (*DotLayouter)(nil)

func (d *DotLayouter) executable() (string, error) {
	name := d.Path
	if name == "" {
		name = "dot"
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDot, err)
	}
	return p, nil
}

// Layout writes g as DOT, runs dot -Tplain and parses the result.
// The temporary file is removed on every path.
func (d *DotLayouter) Layout(ctx context.Context, g *Graph) (*Solution, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	exe, err := d.executable()
	if err != nil {
		return nil, err
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	f, err := os.CreateTemp("", "ug-*.dot")
	if err != nil {
		return nil, fmt.Errorf("graph: create temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if err := d.WriteDot(f, g); err != nil {
		f.Close()
		return nil, fmt.Errorf("graph: write dot: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("graph: write dot: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, "-Tplain", f.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("graph: dot: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		return nil, fmt.Errorf("graph: dot: %w: %s", err, msg)
	}
	ug.Logger().Debug("graph: dot finished",
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)),
		slog.Duration("elapsed", time.Since(start)))
	return ParsePlain(&stdout, g)
}

func nodeName(i int) string { return "n" + strconv.Itoa(i) }

func inches(pt float64) string {
	return strconv.FormatFloat(pt/pointsPerInch, 'f', 4, 64)
}

// WriteDot writes g in the DOT language. Nodes are fixed-size boxes;
// labelled edges carry an empty table of the label size.
func (d *DotLayouter) WriteDot(w io.Writer, g *Graph) error {
	idx, err := g.index()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph unix {\n")
	bw.WriteString("nodesep=")
	bw.WriteString(inches(orDefault(d.NodeSep, 35)))
	bw.WriteString(";\nranksep=")
	bw.WriteString(inches(orDefault(d.RankSep, 60)))
	bw.WriteString(";\nsplines=spline;\nremincross=true;\n")
	bw.WriteString("node [shape=rect,fixedsize=true,label=\"\",margin=0];\n")
	for i, n := range g.Nodes {
		fmt.Fprintf(bw, "%s [width=%s,height=%s];\n", nodeName(i), inches(n.Size.W), inches(n.Size.H))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(bw, "%s->%s", nodeName(idx[e.From]), nodeName(idx[e.To]))
		var attrs []string
		if e.HasLabel() {
			attrs = append(attrs, fmt.Sprintf(
				"label=<<TABLE BORDER=\"0\" CELLBORDER=\"0\" FIXEDSIZE=\"TRUE\" WIDTH=\"%d\" HEIGHT=\"%d\"><TR><TD></TD></TR></TABLE>>",
				int(e.Label.W+0.5), int(e.Label.H+0.5)))
		}
		if e.MinLen > 1 {
			attrs = append(attrs, "minlen="+strconv.Itoa(e.MinLen))
		}
		if len(attrs) > 0 {
			bw.WriteString("[" + strings.Join(attrs, ",") + "]")
		}
		bw.WriteString(";\n")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// ParsePlain reads dot -Tplain output for g. Coordinates are turned into
// points with the y axis pointing down. Edges are matched back to g by
// their ends, in submission order for parallel edges.
func ParsePlain(r io.Reader, g *Graph) (*Solution, error) {
	idx, err := g.index()
	if err != nil {
		return nil, err
	}
	pending := make(map[[2]int][]int)
	for i, e := range g.Edges {
		k := [2]int{idx[e.From], idx[e.To]}
		pending[k] = append(pending[k], i)
	}

	sol := &Solution{
		Nodes: make(map[string]ug.Point, len(g.Nodes)),
		Edges: make([]Route, len(g.Edges)),
	}
	var height float64
	edges := 0
	line := 0
	bad := func(msg string) error {
		return fmt.Errorf("%w: line %d: %s", ErrBadOutput, line, msg)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		nums := func(from, n int) ([]float64, error) {
			if len(f) < from+n {
				return nil, bad("too few fields")
			}
			out := make([]float64, n)
			for i := range out {
				v, err := strconv.ParseFloat(f[from+i], 64)
				if err != nil {
					return nil, bad(err.Error())
				}
				out[i] = v * pointsPerInch
			}
			return out, nil
		}
		switch f[0] {
		case "graph":
			v, err := nums(1, 3)
			if err != nil {
				return nil, err
			}
			sol.Size = ug.Dim(v[1], v[2])
			height = v[2]
		case "node":
			i, err := nodeIndex(f, 1, len(g.Nodes))
			if err != nil {
				return nil, bad(err.Error())
			}
			v, err := nums(2, 4)
			if err != nil {
				return nil, err
			}
			cx, cy, w, h := v[0], height-v[1], v[2], v[3]
			sol.Nodes[g.Nodes[i].ID] = ug.Pt(cx-w/2, cy-h/2)
		case "edge":
			if len(f) < 4 {
				return nil, bad("too few fields")
			}
			from, err := nodeIndex(f, 1, len(g.Nodes))
			if err != nil {
				return nil, bad(err.Error())
			}
			to, err := nodeIndex(f, 2, len(g.Nodes))
			if err != nil {
				return nil, bad(err.Error())
			}
			k := [2]int{from, to}
			if len(pending[k]) == 0 {
				return nil, bad("edge not submitted")
			}
			ei := pending[k][0]
			pending[k] = pending[k][1:]

			n, err := strconv.Atoi(f[3])
			if err != nil {
				return nil, bad(err.Error())
			}
			v, err := nums(4, 2*n)
			if err != nil {
				return nil, err
			}
			route := Route{Points: make([]ug.Point, n)}
			for j := range route.Points {
				route.Points[j] = ug.Pt(v[2*j], height-v[2*j+1])
			}
			// Label text may contain spaces: read its position from the
			// end, before the style and color fields.
			if rest := len(f) - (4 + 2*n); rest >= 5 && g.Edges[ei].HasLabel() {
				lv, err := nums(len(f)-4, 2)
				if err != nil {
					return nil, err
				}
				lbl := g.Edges[ei].Label
				route.Label = ug.Pt(lv[0]-lbl.W/2, height-lv[1]-lbl.H/2)
			}
			sol.Edges[ei] = route
			edges++
		case "stop":
			if edges != len(g.Edges) {
				return nil, bad("missing edges")
			}
			if len(sol.Nodes) != len(g.Nodes) {
				return nil, bad("missing nodes")
			}
			return sol, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: no stop line", ErrBadOutput)
}

func nodeIndex(f []string, at, n int) (int, error) {
	if len(f) <= at || !strings.HasPrefix(f[at], "n") {
		return 0, errors.New("bad node name")
	}
	i, err := strconv.Atoi(f[at][1:])
	if err != nil || i < 0 || i >= n {
		return 0, fmt.Errorf("bad node name %q", f[at])
	}
	return i, nil
}
