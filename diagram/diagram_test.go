package diagram

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/ug"
	_ "github.com/gogpu/ug/backend/debug"
	"github.com/gogpu/ug/config"
	"github.com/gogpu/ug/graph"
	"github.com/gogpu/ug/layout"
	"github.com/gogpu/ug/text"
)

func testOptions(opts ...config.Option) config.Options {
	base := []config.Option{
		config.WithFormat("debug"),
		config.WithBounder(text.FixedBounder{}),
		config.WithLayouter(graph.RowLayouter{}),
	}
	return config.New(append(base, opts...)...)
}

func export(t *testing.T, d *Diagram, page int, opts config.Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Export(context.Background(), &buf, d, page, opts); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

// count returns how many output lines start with prefix.
func count(out, prefix string) int {
	n := 0
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func mustContain(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
}

const descriptionYAML = `
kind: description
source: "@startuml\nA -> B\n@enduml"
annotations:
  title: Overview
  legend:
    lines: [one, two]
    halign: right
entities:
  - id: A
    kind: class
    members: ["+ name : string"]
  - id: B
    kind: note
    display: a note
links:
  - from: A
    to: B
    label: uses
    style: dashed
skin:
  roundCorner: 8
  colors:
    entity: "#123456"
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(descriptionYAML))
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind != Description || len(d.Entities) != 2 || len(d.Links) != 1 {
		t.Fatalf("Parse() = %+v", d)
	}
	if got := d.Annotations.Title.String(); got != "Overview" {
		t.Errorf("title = %q", got)
	}
	if got := d.Annotations.Legend.Display; len(got) != 2 {
		t.Errorf("legend = %v", got)
	}
	if d.Entities[1].Name() != "a note" || d.Entities[0].Name() != "A" {
		t.Errorf("names = %q, %q", d.Entities[0].Name(), d.Entities[1].Name())
	}
	if d.Links[0].Style != LinkDashed {
		t.Errorf("style = %q", d.Links[0].Style)
	}
	if d.Skin == nil || d.Skin.Round() != 8 {
		t.Fatalf("skin = %+v", d.Skin)
	}
	// left-out skin keys keep their default
	if !d.Skin.Shadowing || d.Skin.Color(config.ColorNote, nil) != ug.Hex(0xFBFB77) {
		t.Errorf("skin defaults lost: %+v", d.Skin)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown kind", "kind: gantt", ErrUnknownKind},
		{"unknown entity kind", "kind: description\nentities: [{id: A, kind: robot}]", ErrUnknownKind},
		{"duplicate entity", "kind: description\nentities: [{id: A, kind: class}, {id: A, kind: note}]", ErrDuplicateEntity},
		{"dangling link", "kind: description\nentities: [{id: A, kind: class}]\nlinks: [{from: A, to: Z}]", ErrUnknownEntity},
		{"duplicate participant", "kind: sequence\nparticipants: [{id: A}, {id: A}]", ErrDuplicateEntity},
		{"message without receiver", "kind: sequence\nmessages: [{from: A}]", ErrUnknownEntity},
		{"bad skin font", "kind: table\nskin: {font: {size: -2}}", config.ErrFontSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
	for _, in := range []string{"", "kind: table\ncolour: red", "kind: [nope"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) succeeded", in)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.yaml")
	if err := os.WriteFile(path, []byte(descriptionYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestDescriptionExport(t *testing.T) {
	d := &Diagram{
		Kind: Description,
		Entities: []Entity{
			{ID: "A", Kind: EntityClass, Stereotype: "service"},
			{ID: "B", Kind: EntityClass, URL: "http://example.com/b"},
		},
		Links: []Link{{From: "A", To: "B", Label: "uses"}},
	}
	out := export(t, d, 0, testOptions())

	mustContain(t, out,
		`text="A" font=SansSerif/14/bold`,
		`text="«service»" font=SansSerif/12/italic`,
		`text="uses" font=SansSerif/13/plain`,
		"START_URL http://example.com/b",
		"CLOSE_URL",
	)
	if n := count(out, "RECTANGLE"); n != 2 {
		t.Errorf("boxes = %d, want 2", n)
	}
	if n := count(out, "PATH"); n != 1 {
		t.Errorf("link paths = %d, want 1", n)
	}
	if n := count(out, "POLYGON"); n != 1 {
		t.Errorf("arrow heads = %d, want 1", n)
	}
}

func TestLinkStyles(t *testing.T) {
	tests := []struct {
		style LinkStyle
		want  string
	}{
		{LinkSolid, "stroke=1\n"},
		{LinkDashed, "stroke=1 dash=5-5"},
		{LinkDotted, "stroke=1 dash=1-3"},
		{LinkBold, "stroke=2\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.style)+"link", func(t *testing.T) {
			d := &Diagram{
				Kind:     Description,
				Entities: []Entity{{ID: "A", Kind: EntityRectangle}, {ID: "B", Kind: EntityRectangle}},
				Links:    []Link{{From: "A", To: "B", Style: tt.style, NoHead: true}},
			}
			out := export(t, d, 0, testOptions())
			var path string
			for _, l := range strings.Split(out, "\n") {
				if strings.HasPrefix(l, "PATH") {
					path = l + "\n"
				}
			}
			if !strings.Contains(path, tt.want) {
				t.Errorf("path = %q, want %q", path, tt.want)
			}
			if count(out, "POLYGON") != 0 {
				t.Error("head drawn for a link without head")
			}
		})
	}
}

func TestLinkToMember(t *testing.T) {
	fixed := graph.LayouterFunc(func(context.Context, *graph.Graph) (*graph.Solution, error) {
		return &graph.Solution{
			Nodes: map[string]ug.Point{"A": {X: 0, Y: 0}, "B": {X: 100, Y: 100}},
			Edges: []graph.Route{{Points: []ug.Point{{X: 11.5, Y: 25.5}, {X: 11.5, Y: 60}, {X: 130, Y: 60}, {X: 130, Y: 100}}}},
			Size:  ug.Dim(200, 200),
		}, nil
	})
	d := &Diagram{
		Kind: Description,
		Entities: []Entity{
			{ID: "A", Kind: EntityClass},
			{ID: "B", Kind: EntityClass, Members: []string{"x : int", "y : int"}},
		},
		Links: []Link{{From: "A", To: "B", ToMember: "y"}},
	}
	out := export(t, d, 0, testOptions(config.WithLayouter(fixed)))

	// B is 65 wide; the "y" row is 17.5 tall at y=147. The link enters it
	// from the left at mid height.
	mustContain(t, out, "dimension: 200 x 200", "POLYGON at=0,0 points=100,155.75;")
}

func TestLayoutFailureDrawsCrashReport(t *testing.T) {
	boom := graph.LayouterFunc(func(context.Context, *graph.Graph) (*graph.Solution, error) {
		return nil, errors.New("boom")
	})
	d := &Diagram{Kind: Description, Entities: []Entity{{ID: "A", Kind: EntityClass}}}
	r, err := NewRender(context.Background(), d, testOptions(config.WithLayouter(boom)))
	if err != nil {
		t.Fatal(err)
	}
	if r.Pages() != 1 {
		t.Fatalf("Pages() = %d", r.Pages())
	}
	var buf bytes.Buffer
	if err := r.WritePage(&buf, 0); err != nil {
		t.Fatal(err)
	}
	mustContain(t, buf.String(), `text="An error has occured : boom"`)
}

func TestLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := graph.LayouterFunc(func(ctx context.Context, _ *graph.Graph) (*graph.Solution, error) {
		return nil, ctx.Err()
	})
	d := &Diagram{Kind: Description, Entities: []Entity{{ID: "A", Kind: EntityClass}}}
	if _, err := NewBuilder(ctx, d, testOptions(config.WithLayouter(l))); !errors.Is(err, context.Canceled) {
		t.Errorf("NewBuilder() error = %v, want context.Canceled", err)
	}
}

func TestUndecodableImageEntity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	d := &Diagram{
		Kind: Description,
		Entities: []Entity{
			{ID: "img", Kind: EntityImage, Image: path},
			{ID: "gone", Kind: EntityImage, Image: filepath.Join(t.TempDir(), "gone.png")},
		},
	}
	out := export(t, d, 0, testOptions())
	mustContain(t, out, `text="(Cannot decode: bad.png)"`, `text="(File not found: gone.png)"`)
}

func TestUnknownColorPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		d    *Diagram
		want string
	}{
		{"class", &Diagram{Kind: Description, Entities: []Entity{{ID: "A", Kind: EntityClass, Color: "notacolor"}}},
			"(Unknown color: notacolor)"},
		{"note", &Diagram{Kind: Description, Entities: []Entity{{ID: "N", Kind: EntityNote, Color: "#zz"}}},
			"(Unknown color: #zz)"},
		{"link", &Diagram{
			Kind:     Description,
			Entities: []Entity{{ID: "A", Kind: EntityClass}, {ID: "B", Kind: EntityClass}},
			Links:    []Link{{From: "A", To: "B", Color: "nolink"}},
		}, "(Unknown color: nolink)"},
		{"participant", &Diagram{Kind: Sequence, Participants: []Participant{{ID: "P", Color: "nopart"}}},
			"(Unknown color: nopart)"},
		{"lane", &Diagram{Kind: Activity, Lanes: []Lane{{Title: "L", Color: "nolane"}}},
			"(Unknown color: nolane)"},
		{"skin", &Diagram{
			Kind:  Table,
			Table: &TableModel{Rows: [][]string{{"x"}}},
			Skin:  &config.Skin{Colors: map[string]string{config.ColorTable: "noskin"}},
		}, "(Unknown color: noskin)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := export(t, tt.d, 0, testOptions())
			mustContain(t, out, `text="`+tt.want+`"`)
			if n := strings.Count(out, tt.want); n != 1 {
				t.Errorf("placeholder drawn %d times, want once", n)
			}
		})
	}
}

func TestValidColorsHaveNoPlaceholder(t *testing.T) {
	d := &Diagram{Kind: Description, Entities: []Entity{{ID: "A", Kind: EntityClass, Color: "LightBlue"}, {ID: "B", Kind: EntityClass, Color: "#FF0000"}}}
	if out := export(t, d, 0, testOptions()); strings.Contains(out, "Unknown color") {
		t.Errorf("unexpected placeholder\n%s", out)
	}
}

func TestEntityKinds(t *testing.T) {
	tests := []struct {
		kind  EntityKind
		shape string
	}{
		{EntityClass, "RECTANGLE"},
		{EntityComponent, "RECTANGLE"},
		{EntityNote, "POLYGON"},
		{EntityFolder, "POLYGON"},
		{EntityPackage, "POLYGON"},
		{EntityUseCase, "ELLIPSE"},
		{EntityActor, "ELLIPSE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d := &Diagram{Kind: Description, Entities: []Entity{{ID: "E", Kind: tt.kind, Members: []string{"m"}}}}
			out := export(t, d, 0, testOptions())
			if count(out, tt.shape) == 0 {
				t.Errorf("no %s drawn\n%s", tt.shape, out)
			}
			mustContain(t, out, `text="E"`)
		})
	}
}

func TestDiagramSkinOverridesOptions(t *testing.T) {
	d, err := Parse([]byte(descriptionYAML))
	if err != nil {
		t.Fatal(err)
	}
	out := export(t, d, 0, testOptions())
	mustContain(t, out, "back=#123456", "round=8")

	// shadowing off in the options wins over the skin
	out = export(t, d, 0, testOptions(config.WithShadowing(false)))
	if strings.Contains(out, "shadow=") {
		t.Errorf("shadow drawn with shadowing off\n%s", out)
	}
}

func sequenceDiagram() *Diagram {
	return &Diagram{
		Kind:         Sequence,
		Participants: []Participant{{ID: "A"}},
		Messages: []Message{
			{From: "A", To: "B", Label: "hello"},
			{NewPage: true, Label: "Part 2"},
			{From: "B", To: "A", Label: "bye", Style: LinkDashed},
		},
	}
}

func TestSequencePages(t *testing.T) {
	opts := testOptions()
	r, err := NewRender(context.Background(), sequenceDiagram(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if r.Pages() != 2 {
		t.Fatalf("Pages() = %d, want 2", r.Pages())
	}

	var first bytes.Buffer
	if err := r.WritePage(&first, 0); err != nil {
		t.Fatal(err)
	}
	// Heads are 21x27.5. B is pushed right by the 32.5 wide label:
	// its lifeline is 56.5 past A's.
	mustContain(t, first.String(),
		"dimension: 77.5 x 93.25",
		"LINE at=10.5,55.75 to=67,55.75",
		`text="hello"`,
	)
	if strings.Contains(first.String(), "bye") {
		t.Error("second page message drawn on the first page")
	}
	// two heads on top, two at the bottom
	if n := count(first.String(), "RECTANGLE"); n != 4 {
		t.Errorf("heads = %d, want 4", n)
	}

	var second bytes.Buffer
	if err := r.WritePage(&second, 1); err != nil {
		t.Fatal(err)
	}
	mustContain(t, second.String(), `text="Part 2"`, `text="bye"`, "dash=5-5")
}

func TestSelfMessage(t *testing.T) {
	d := &Diagram{Kind: Sequence, Messages: []Message{{From: "A", To: "A", Label: "x"}}}
	out := export(t, d, 0, testOptions())
	// the self arrow reaches 42 past the lifeline at 10.5
	mustContain(t, out, "dimension: 52.5 x 106.25", "PATH")
}

func TestSequenceActor(t *testing.T) {
	d := &Diagram{
		Kind:         Sequence,
		Participants: []Participant{{ID: "u", Display: "User", Actor: true}, {ID: "s"}},
		Messages:     []Message{{From: "u", To: "s", Label: "login"}},
	}
	out := export(t, d, 0, testOptions())
	if n := count(out, "ELLIPSE"); n != 2 {
		t.Errorf("actor heads = %d, want 2", n)
	}
	mustContain(t, out, `text="User"`, `text="s"`)
}

func TestTable(t *testing.T) {
	d := &Diagram{
		Kind: Table,
		Table: &TableModel{
			Rows:    [][]string{{"a", "bb"}, {"ccc"}},
			Header:  true,
			Borders: layout.DrawAll,
			Title:   "T",
		},
	}
	out := export(t, d, 0, testOptions())
	mustContain(t, out,
		`text="a" font=SansSerif/14/bold`,
		`text="ccc" font=SansSerif/14/plain`,
		`text="T" font=SansSerif/14/bold`,
	)
	if count(out, "LINE") == 0 {
		t.Error("no grid lines drawn")
	}
}

func TestActivity(t *testing.T) {
	d := &Diagram{
		Kind: Activity,
		Lanes: []Lane{
			{Title: "Client", Steps: []Step{{Kind: ActivityStart}, {Label: "order"}, {Kind: ActivityStop}}},
			{Title: "Shop", Color: "LightBlue", Steps: []Step{{Kind: ActivityNote, Label: "remember"}}},
		},
	}
	out := export(t, d, 0, testOptions())
	mustContain(t, out, `text="Client"`, `text="Shop"`, `text="order"`, `text="remember"`)
	// start, and the two circles of stop
	if n := count(out, "ELLIPSE"); n != 3 {
		t.Errorf("circles = %d, want 3", n)
	}
	// one arrow between each pair of steps
	if n := count(out, "POLYGON"); n != 3 {
		t.Errorf("polygons = %d, want 2 arrows and a note", n)
	}
}

func TestAnnotationsAndMetadata(t *testing.T) {
	d := &Diagram{
		Kind:   Table,
		Source: "@startuml\n@enduml",
		Table:  &TableModel{Rows: [][]string{{"x"}}},
	}
	d.Annotations.Title = []string{"Report"}
	d.Annotations.Footer.Display = []string{"page"}
	out := export(t, d, 0, testOptions(config.WithMetadata(true)))
	mustContain(t, out, `text="Report"`, `text="page"`, "metadata: 17 bytes")
}

func TestExportErrors(t *testing.T) {
	d := &Diagram{Kind: Table, Table: &TableModel{Rows: [][]string{{"x"}}}}
	var buf bytes.Buffer
	if err := Export(context.Background(), &buf, d, 3, testOptions()); !errors.Is(err, ErrPage) {
		t.Errorf("page 3 error = %v, want ErrPage", err)
	}
	if err := Export(context.Background(), &buf, d, 0, testOptions(config.WithFormat("bmp"))); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	d := &Diagram{Kind: Table, Table: &TableModel{Rows: [][]string{{"x"}}}}
	path := filepath.Join(dir, "out.txt")
	if err := ExportFile(context.Background(), path, d, 0, testOptions()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "DPI: 96\n") {
		t.Errorf("file = %q", data)
	}

	if err := ExportFile(context.Background(), filepath.Join(dir, "bad.txt"), d, 9, testOptions()); err == nil {
		t.Fatal("page 9 exported")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.txt" {
		t.Errorf("dir holds %v, want only out.txt", entries)
	}
}

// unbalancedBlock closes a hyperlink it never opened.
type unbalancedBlock struct{}

func (unbalancedBlock) Dimension(ug.StringBounder) ug.Dimension { return ug.Dim(10, 10) }

func (unbalancedBlock) DrawU(g ug.Graphic) { g.CloseAction() }

func panickingRender(t *testing.T) *Render {
	t.Helper()
	d := &Diagram{Kind: Table, Table: &TableModel{Rows: [][]string{{"x"}}}}
	r, err := NewRender(context.Background(), d, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	r.pages = pages{unbalancedBlock{}}
	return r
}

// recovered runs fn and returns what it panicked with.
func recovered(fn func()) (v any) {
	defer func() { v = recover() }()
	fn()
	return nil
}

func TestWritePagePanicEndsBackend(t *testing.T) {
	r := panickingRender(t)
	var buf bytes.Buffer
	v := recovered(func() { _ = r.WritePage(&buf, 0) })
	if v != ug.ErrUnbalancedURL {
		t.Errorf("panic = %v, want ErrUnbalancedURL", v)
	}
	if !strings.HasPrefix(buf.String(), "DPI: 96\n") {
		t.Errorf("backend not ended, output = %q", buf.String())
	}
}

func TestWriteFilePanicRemovesTemp(t *testing.T) {
	r := panickingRender(t)
	dir := t.TempDir()
	v := recovered(func() { _ = r.WriteFile(filepath.Join(dir, "out.txt"), 0) })
	if v != ug.ErrUnbalancedURL {
		t.Errorf("panic = %v, want ErrUnbalancedURL", v)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dir holds %v after the panic, want nothing", entries)
	}
}

func TestPageName(t *testing.T) {
	if got := PageName("a/b", "svg", 0); got != "a/b.svg" {
		t.Errorf("PageName(0) = %q", got)
	}
	if got := PageName("a/b", "svg", 2); got != "a/b_002.svg" {
		t.Errorf("PageName(2) = %q", got)
	}
}

func TestRenderBatch(t *testing.T) {
	dir := t.TempDir()
	table := &Diagram{Kind: Table, Table: &TableModel{Rows: [][]string{{"x"}}}}
	jobs := []Job{
		{Diagram: sequenceDiagram(), Base: filepath.Join(dir, "seq"), Options: testOptions()},
		{Diagram: table, Base: filepath.Join(dir, "table"), Options: testOptions()},
	}
	files, err := RenderBatch(context.Background(), jobs, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "seq.txt"),
		filepath.Join(dir, "seq_001.txt"),
		filepath.Join(dir, "table.txt"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", files, want)
	}
	for _, f := range want {
		if _, err := os.Stat(f); err != nil {
			t.Error(err)
		}
	}
}

func TestRenderBatchError(t *testing.T) {
	dir := t.TempDir()
	bad := &Diagram{Kind: "gantt"}
	jobs := []Job{{Diagram: bad, Base: filepath.Join(dir, "bad"), Options: testOptions()}}
	if _, err := RenderBatch(context.Background(), jobs, 0); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("RenderBatch() error = %v, want ErrUnknownKind", err)
	}
}
