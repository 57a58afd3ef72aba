package raster

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/gogpu/ug"
	"github.com/gogpu/ug/backend"
	"github.com/gogpu/ug/text"
)

var (
	red  = ug.Hex(0xFF0000)
	blue = ug.Hex(0x0000FF)
)

func begin(t *testing.T, w, h float64, s backend.Settings) (*Backend, ug.Graphic) {
	t.Helper()
	b := New()
	if err := b.Begin(ug.Dim(w, h), s); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	return b, ug.NewGraphic(b, text.FixedBounder{})
}

func finish(t *testing.T, g ug.Graphic) {
	t.Helper()
	if err := g.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
}

func TestRegistered(t *testing.T) {
	b, err := backend.New("png")
	if err != nil {
		t.Fatal(err)
	}
	if b.Extension() != "png" || b.Name() != "png" {
		t.Errorf("got %s/%s", b.Name(), b.Extension())
	}
}

func TestNotBegun(t *testing.T) {
	b := New()
	if err := b.DrawRectangle(ug.NewRectangle(1, 1), 0, 0, ug.DrawParam{}); err != ErrNotBegun {
		t.Errorf("DrawRectangle() error = %v, want ErrNotBegun", err)
	}
	if err := b.End(new(bytes.Buffer), ug.MinMax{}); err != ErrNotBegun {
		t.Errorf("End() error = %v, want ErrNotBegun", err)
	}
}

// redSide reports whether the pixel leans to the first gradient color.
func redSide(img *image.RGBA, x, y int) bool {
	c := img.RGBAAt(x, y)
	return c.R > c.B
}

func TestGradientPolicies(t *testing.T) {
	const n = 40
	tl, tr, bl, br := image.Pt(2, 2), image.Pt(n-3, 2), image.Pt(2, n-3), image.Pt(n-3, n-3)
	tests := []struct {
		policy ug.GradientPolicy
		first  []image.Point // corners close to C1
		second []image.Point // corners close to C2
	}{
		{ug.GradientHorizontal, []image.Point{tl, bl}, []image.Point{tr, br}},
		{ug.GradientVertical, []image.Point{tl, tr}, []image.Point{bl, br}},
		{ug.GradientDiagonalUp, []image.Point{bl}, []image.Point{tr}},
		{ug.GradientDiagonalDown, []image.Point{tl}, []image.Point{br}},
	}
	for _, tt := range tests {
		t.Run(string(rune(tt.policy)), func(t *testing.T) {
			b, g := begin(t, n, n, backend.Settings{})
			g.Apply(
				ug.ChangeColor{Color: nil},
				ug.ChangeBackColor{Color: ug.Gradient{C1: red, C2: blue, Policy: tt.policy}},
			).Draw(ug.NewRectangle(n, n))
			finish(t, g)

			img := b.Image()
			for _, p := range tt.first {
				if !redSide(img, p.X, p.Y) {
					t.Errorf("pixel %v = %v, want close to C1", p, img.RGBAAt(p.X, p.Y))
				}
			}
			for _, p := range tt.second {
				if redSide(img, p.X, p.Y) {
					t.Errorf("pixel %v = %v, want close to C2", p, img.RGBAAt(p.X, p.Y))
				}
			}
		})
	}
}

func TestBackgroundAndScale(t *testing.T) {
	tests := []struct {
		name string
		s    backend.Settings
		w, h int
	}{
		{"default", backend.Settings{}, 10, 5},
		{"scale", backend.Settings{Scale: 2}, 20, 10},
		{"dpi", backend.Settings{DPI: 192}, 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.s.Background = ug.White
			b, _ := begin(t, 10, 5, tt.s)
			img := b.Image()
			if got := img.Bounds().Size(); got != image.Pt(tt.w, tt.h) {
				t.Errorf("size = %v, want %dx%d", got, tt.w, tt.h)
			}
			if c := img.RGBAAt(0, 0); c.R != 255 || c.A != 255 {
				t.Errorf("background = %v, want white", c)
			}
		})
	}
}

func TestClip(t *testing.T) {
	b, g := begin(t, 40, 40, backend.Settings{})
	g.Apply(ug.ClipRect{Rect: ug.Rect{W: 20, H: 40}}, ug.ChangeColor{Color: nil}, ug.ChangeBackColor{Color: red}).
		Draw(ug.NewRectangle(40, 40))
	finish(t, g)

	img := b.Image()
	if c := img.RGBAAt(10, 20); c.R != 255 || c.A != 255 {
		t.Errorf("inside clip = %v, want red", c)
	}
	if c := img.RGBAAt(30, 20); c.A != 0 {
		t.Errorf("outside clip = %v, want transparent", c)
	}
}

func TestShadow(t *testing.T) {
	for _, on := range []bool{true, false} {
		b := New()
		b.SetShadowing(on)
		if err := b.Begin(ug.Dim(40, 40), backend.Settings{}); err != nil {
			t.Fatal(err)
		}
		g := ug.NewGraphic(b, text.FixedBounder{})
		g.Apply(ug.T(5, 5), ug.ChangeBackColor{Color: ug.White}).
			Draw(ug.NewRectangle(20, 20).WithShadow(4))
		finish(t, g)

		img := b.Image()
		if c := img.RGBAAt(15, 15); c.A != 255 || c.R != 255 {
			t.Errorf("shadowing=%v: fill = %v, want opaque white", on, c)
		}
		shaded := img.RGBAAt(27, 27).A > 0
		if shaded != on {
			t.Errorf("shadowing=%v: pixel past the corner shaded = %v", on, shaded)
		}
	}
}

func TestDashedLine(t *testing.T) {
	b, g := begin(t, 40, 20, backend.Settings{})
	g.Apply(ug.T(0, 10), ug.Dashed(2)).Draw(ug.HLine(40))
	finish(t, g)

	img := b.Image()
	if c := img.RGBAAt(2, 9); c.A == 0 {
		t.Error("first dash not drawn")
	}
	if c := img.RGBAAt(7, 9); c.A != 0 {
		t.Errorf("first gap = %v, want empty", c)
	}
}

func TestText(t *testing.T) {
	b, g := begin(t, 80, 30, backend.Settings{Background: ug.White})
	g.Apply(ug.T(2, 20)).Draw(ug.Text{Text: "Hello", Font: ug.NewFontConfig(ug.DefaultFont)})
	finish(t, g)

	img := b.Image()
	dark := 0
	for y := 5; y < 22; y++ {
		for x := 2; x < 60; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	b, g := begin(t, 20, 20, backend.Settings{})
	g.Apply(ug.T(4, 4)).Draw(ug.Image{Img: src, Scale: 4})
	finish(t, g)

	img := b.Image()
	if c := img.RGBAAt(8, 8); c.A != 255 {
		t.Errorf("image center = %v, want opaque", c)
	}
	if c := img.RGBAAt(2, 2); c.A != 0 {
		t.Errorf("outside image = %v, want empty", c)
	}
}

func TestMetadata(t *testing.T) {
	const source = "@startuml\nAlice -> Bob : héllo\n@enduml"
	b, g := begin(t, 4, 4, backend.Settings{Metadata: source})
	finish(t, g)

	var buf bytes.Buffer
	if err := b.End(&buf, g.Bounds()); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}
	got, err := Metadata(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got != source {
		t.Errorf("Metadata() = %q, want %q", got, source)
	}

	var plain bytes.Buffer
	if err := Encode(&plain, b.Image(), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := Metadata(plain.Bytes()); err != ErrNoMetadata {
		t.Errorf("Metadata() without source error = %v", err)
	}
}

func TestUnbalancedURL(t *testing.T) {
	b := New()
	if err := b.CloseURL(); err != ug.ErrUnbalancedURL {
		t.Errorf("CloseURL() error = %v", err)
	}
}
