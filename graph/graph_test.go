package graph

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
	"github.com/gogpu/ug/backend/debug"
	"github.com/gogpu/ug/text"
)

func sample() *Graph {
	g := new(Graph)
	g.AddNode("A", ug.Dim(72, 36)).AddNode("B", ug.Dim(144, 36)).AddNode("C", ug.Dim(72, 72))
	g.AddEdge(Edge{From: "A", To: "B", Label: ug.Dim(30, 10)})
	g.AddEdge(Edge{From: "A", To: "C"})
	g.AddEdge(Edge{From: "A", To: "B"})
	return g
}

// plain is dot -Tplain output for sample(), edges listed out of order.
const plain = `graph 1 4 3
node n0 2 2.5 1 0.5 "" solid rect black lightgrey
node n1 1 0.5 2 0.5 "" solid rect black lightgrey
node n2 3.5 1 1 1 "" solid rect black lightgrey
edge n0 n2 4 2 2.25 2.5 2 3 1.75 3.5 1.5 solid black
edge n0 n1 4 2 2.25 1.5 2 1 1 1 0.75 <TABLE> with spaces> 1.5 1.5 solid black
edge n0 n1 4 2 2.25 2 2 2 1 1.5 0.75 solid black
stop
`

func TestParsePlain(t *testing.T) {
	g := sample()
	sol, err := ParsePlain(strings.NewReader(plain), g)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Size != ug.Dim(288, 216) {
		t.Errorf("Size = %v", sol.Size)
	}
	// n0 centered at (2, 2.5) inches, 1 x 0.5: top-left (1.5, 0.25)
	// inches from the top once the y axis is flipped.
	if p := sol.Nodes["A"]; p != ug.Pt(108, 18) {
		t.Errorf("A at %v, want (108,18)", p)
	}
	if p := sol.Nodes["C"]; p != ug.Pt(216, 108) {
		t.Errorf("C at %v, want (216,108)", p)
	}

	if n := len(sol.Edges[1].Points); n != 4 {
		t.Fatalf("A->C has %d points", n)
	}
	if p := sol.Edges[1].Points[3]; p != ug.Pt(252, 108) {
		t.Errorf("A->C ends at %v", p)
	}
	// The labelled A->B was listed first, so it gets the first route.
	if p := sol.Edges[0].Label; p != ug.Pt(108-15, 108-5) {
		t.Errorf("label at %v", p)
	}
	if p := sol.Edges[2].Points[1]; p != ug.Pt(144, 72) {
		t.Errorf("second A->B route = %v", sol.Edges[2].Points)
	}
}

func TestParsePlainErrors(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"no stop", "graph 1 1 1\n"},
		{"missing node", "graph 1 4 3\nstop\n"},
		{"bad number", "graph 1 x 3\n"},
		{"unknown node", "graph 1 4 3\nnode n9 1 1 1 1 x solid rect black white\n"},
		{"unsubmitted edge", "graph 1 4 3\nedge n1 n0 2 0 0 1 1 solid black\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlain(strings.NewReader(tt.in), sample())
			if !errors.Is(err, ErrBadOutput) {
				t.Errorf("error = %v, want ErrBadOutput", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := new(Graph).AddNode("A", ug.Dim(1, 1)).AddEdge(Edge{From: "A", To: "X"})
	if err := g.Validate(); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Validate() = %v, want ErrUnknownNode", err)
	}
	g = new(Graph).AddNode("A", ug.Dim(1, 1)).AddNode("A", ug.Dim(1, 1))
	if err := g.Validate(); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("Validate() = %v, want ErrDuplicateNode", err)
	}
}

func TestWriteDot(t *testing.T) {
	var buf bytes.Buffer
	if err := (&DotLayouter{}).WriteDot(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"digraph unix {",
		"n0 [width=1.0000,height=0.5000];",
		"n1 [width=2.0000,height=0.5000];",
		`n0->n1[label=<<TABLE BORDER="0" CELLBORDER="0" FIXEDSIZE="TRUE" WIDTH="30" HEIGHT="10">`,
		"n0->n2;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestDotLayouterMissing(t *testing.T) {
	d := &DotLayouter{Path: filepath.Join(t.TempDir(), "no-such-dot")}
	if _, err := d.Layout(context.Background(), sample()); !errors.Is(err, ErrNoDot) {
		t.Errorf("Layout() error = %v, want ErrNoDot", err)
	}
}

// fakeDot writes a shell script standing in for dot. It records the
// path of the file it was given and prints out.
func fakeDot(t *testing.T, out string, status int) (exe, record string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	record = filepath.Join(dir, "record")
	plainFile := filepath.Join(dir, "plain")
	if err := os.WriteFile(plainFile, []byte(out), 0o600); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho \"$2\" > '" + record + "'\ncat '" + plainFile + "'\nexit " + string(rune('0'+status)) + "\n"
	exe = filepath.Join(dir, "dot")
	if err := os.WriteFile(exe, []byte(script), 0o700); err != nil {
		t.Fatal(err)
	}
	return exe, record
}

func recordedInput(t *testing.T, record string) string {
	t.Helper()
	b, err := os.ReadFile(record)
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(b))
}

func TestDotLayouterRun(t *testing.T) {
	exe, record := fakeDot(t, plain, 0)
	sol, err := (&DotLayouter{Path: exe}).Layout(context.Background(), sample())
	if err != nil {
		t.Fatal(err)
	}
	if len(sol.Nodes) != 3 {
		t.Errorf("got %d nodes", len(sol.Nodes))
	}
	if in := recordedInput(t, record); in == "" {
		t.Error("dot was not given a file")
	} else if _, err := os.Stat(in); !os.IsNotExist(err) {
		t.Errorf("temp file %s left behind", in)
	}
}

func TestDotLayouterFailure(t *testing.T) {
	exe, record := fakeDot(t, "", 1)
	if _, err := (&DotLayouter{Path: exe}).Layout(context.Background(), sample()); err == nil {
		t.Fatal("Layout() succeeded")
	}
	if _, err := os.Stat(recordedInput(t, record)); !os.IsNotExist(err) {
		t.Error("temp file left behind after failure")
	}
}

func TestRowLayouter(t *testing.T) {
	g := new(Graph).
		AddNode("A", ug.Dim(40, 20)).
		AddNode("B", ug.Dim(60, 30)).
		AddNode("C", ug.Dim(40, 20)).
		AddNode("D", ug.Dim(40, 20))
	g.AddEdge(Edge{From: "A", To: "B"})
	g.AddEdge(Edge{From: "B", To: "C", Label: ug.Dim(20, 8)})
	g.AddEdge(Edge{From: "A", To: "C"})
	g.AddEdge(Edge{From: "C", To: "A"}) // cycle
	g.AddEdge(Edge{From: "A", To: "D", MinLen: 3})

	sol, err := RowLayouter{RankSep: 10, NodeSep: 5}.Layout(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]ug.Point{
		"A": ug.Pt(0, 0),
		"B": ug.Pt(0, 30),
		"C": ug.Pt(0, 78), // 30 + 30 + 10 + label 8
		"D": ug.Pt(0, 108),
	}
	for id, p := range want {
		if got := sol.Nodes[id]; got != p {
			t.Errorf("%s at %v, want %v", id, got, p)
		}
	}
	if sol.Size != ug.Dim(60, 128) {
		t.Errorf("Size = %v", sol.Size)
	}
	ab := sol.Edges[0]
	if ab.Points[0] != ug.Pt(20, 20) || ab.Points[3] != ug.Pt(30, 30) {
		t.Errorf("A->B route = %v", ab.Points)
	}
	if p := ab.Path(); p.IsEmpty() || p.IsClosed() {
		t.Error("route path should be open and non-empty")
	}
}

func TestRowLayouterCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (RowLayouter{}).Layout(ctx, sample()); !errors.Is(err, context.Canceled) {
		t.Errorf("Layout() error = %v", err)
	}
}

func TestLayouterFunc(t *testing.T) {
	called := false
	var l Layouter = LayouterFunc(func(context.Context, *Graph) (*Solution, error) {
		called = true
		return &Solution{}, nil
	})
	if _, err := l.Layout(context.Background(), sample()); err != nil || !called {
		t.Errorf("LayouterFunc not called: %v", err)
	}
}

func TestCrashLines(t *testing.T) {
	lines := CrashLines(errors.New("boom"), "a\nb\nc")
	if lines[0] != "An error has occured : boom" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[2] != "Diagram size: 2 lines / 5 characters." {
		t.Errorf("size line = %q", lines[2])
	}
	if got := CrashLines(nil, "")[0]; got != "An error has occured!" {
		t.Errorf("nil error line = %q", got)
	}
}

func TestCrashBlock(t *testing.T) {
	blk := NewCrashBlock(errors.New("dot: exit status 1"), "@startuml\nA -> B\n@enduml")

	d := debug.New()
	if err := d.Begin(ug.Dim(400, 400), backend.Settings{}); err != nil {
		t.Fatal(err)
	}
	g := ug.NewGraphic(d, text.FixedBounder{})
	blk.DrawU(g)
	if err := g.Finish(); err != nil {
		t.Fatal(err)
	}

	texts := strings.Join(d.Texts(), "\n")
	if !strings.Contains(texts, "An error has occured : dot: exit status 1") {
		t.Errorf("texts = %q", texts)
	}
	if !strings.Contains(texts, "Diagram source:") {
		t.Error("qr code hint missing")
	}
	// background plus the dark modules of the code
	if n := len(d.OfType(debug.CmdRectangle)); n < 50 {
		t.Errorf("drew %d rectangles, want a qr code", n)
	}

	dim := blk.Dimension(text.FixedBounder{})
	if dim.H <= float64(21*QRModule) {
		t.Errorf("crash block height %v does not hold the code", dim.H)
	}
}

func TestQRBlockDimension(t *testing.T) {
	blk := QRBlock([][]bool{{true, false}, {false, true}, {true, true}})
	if d := blk.Dimension(nil); d != ug.Dim(2*QRModule, 3*QRModule) {
		t.Errorf("Dimension() = %v", d)
	}
}
