package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
	"github.com/gogpu/ug/text"
)

func TestRegistered(t *testing.T) {
	b, err := backend.New("debug")
	if err != nil {
		t.Fatal(err)
	}
	if b.Extension() != "txt" {
		t.Errorf("Extension() = %q", b.Extension())
	}
}

func TestDebugOutput(t *testing.T) {
	d := New()
	if err := d.Begin(ug.Dim(200, 100), backend.Settings{Metadata: "@startuml"}); err != nil {
		t.Fatal(err)
	}
	g := ug.NewGraphic(d, text.FixedBounder{}, ug.WithBoundsCollection(true))
	g = g.Apply(ug.T(10, 20), ug.ChangeBackColor{Color: ug.MustParseColor("#FEFECE")})
	g.Draw(ug.NewRoundedRectangle(100, 50, 10).WithShadow(4))
	g.Apply(ug.Dashed(2)).Draw(ug.HLine(30))
	g.StartURL("http://example.com", "")
	g.Draw(ug.Text{Text: "Hi", Font: ug.NewFontConfig(ug.Font{Family: "SansSerif", Size: 14})})
	g.CloseAction()
	if err := g.Finish(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := d.End(&buf, g.Bounds()); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"DPI: 96",
		"dimension: 200 x 100",
		"metadata: 9 bytes",
		"RECTANGLE at=10,20 size=100x50 round=10 shadow=4 color=#000000 back=#FEFECE stroke=1",
		"LINE at=10,20 to=40,20 color=#000000 stroke=2 dash=5-5",
		"START_URL http://example.com",
		`TEXT at=10,20 text="Hi" font=SansSerif/14/plain color=#000000`,
		"CLOSE_URL",
	}
	out := buf.String()
	for _, w := range want {
		if !strings.Contains(out, w+"\n") {
			t.Errorf("output missing line %q\n%s", w, out)
		}
	}
	if got := d.Texts(); len(got) != 1 || got[0] != "Hi" {
		t.Errorf("Texts() = %v", got)
	}
	if n := len(d.OfType(CmdRectangle)); n != 1 {
		t.Errorf("rectangles = %d", n)
	}
}

func TestDebugCoverage(t *testing.T) {
	d := WithCoverage(ug.Shapes(ug.KindRectangle))
	g := ug.NewGraphic(d, text.FixedBounder{})
	g.Draw(ug.NewEllipse(3, 3))
	if g.Err() == nil {
		t.Error("ellipse should be rejected")
	}
	if len(d.Commands()) != 0 {
		t.Errorf("commands = %v", d.Commands())
	}
}
