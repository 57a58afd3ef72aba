package ug

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF0000", RGB{R: 0xff, A: 0xff}},
		{"00ff00", RGB{G: 0xff, A: 0xff}},
		{"#00F", RGB{B: 0xff, A: 0xff}},
		{"#11223380", RGB{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
		{"White", White},
		{"#lightblue", RGB{R: 173, G: 216, B: 230, A: 0xff}},
		{"transparent", Transparent{}},
		{"Automatic", Automatic{}},
		{"red|blue", Gradient{C1: RGB{R: 0xff, A: 0xff}, C2: RGB{B: 0xff, A: 0xff}, Policy: GradientHorizontal}},
		{"#000000\\#FFFFFF", Gradient{C1: Black, C2: White, Policy: GradientDiagonalUp}},
		{"#000-#FFF", Gradient{C1: Black, C2: White, Policy: GradientVertical}},
		{"black/white", Gradient{C1: Black, C2: White, Policy: GradientDiagonalDown}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "notacolor", "#GGGGGG", "red|nope"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrUnknownColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrUnknownColor", in, err)
		}
	}
}

func TestColorString(t *testing.T) {
	c := MustParseColor("#FEFECE-#A80036")
	if got := c.String(); got != "#FEFECE-#A80036" {
		t.Errorf("String() = %q", got)
	}
	if got := (RGB{R: 1, G: 2, B: 3, A: 4}).String(); got != "#01020304" {
		t.Errorf("String() with alpha = %q", got)
	}
}

func TestGradientPolicyAxis(t *testing.T) {
	tests := []struct {
		policy                 GradientPolicy
		x1, y1, x2, y2 float64
	}{
		{GradientHorizontal, 10, 45, 110, 45},
		{GradientDiagonalUp, 10, 70, 110, 20},
		{GradientVertical, 60, 20, 60, 70},
		{GradientDiagonalDown, 10, 20, 110, 70},
	}
	for _, tt := range tests {
		t.Run(string(rune(tt.policy)), func(t *testing.T) {
			x1, y1, x2, y2 := tt.policy.Axis(10, 20, 100, 50)
			if x1 != tt.x1 || y1 != tt.y1 || x2 != tt.x2 || y2 != tt.y2 {
				t.Errorf("Axis = (%v,%v)-(%v,%v), want (%v,%v)-(%v,%v)",
					x1, y1, x2, y2, tt.x1, tt.y1, tt.x2, tt.y2)
			}
		})
	}
}

func TestGradientPolicyAtCorners(t *testing.T) {
	// Parameter at each corner of a 10x10 box: TL, TR, BL, BR.
	tests := []struct {
		policy GradientPolicy
		want   [4]float64
	}{
		{GradientHorizontal, [4]float64{0, 1, 0, 1}},
		{GradientVertical, [4]float64{0, 0, 1, 1}},
		{GradientDiagonalDown, [4]float64{0, 0.5, 0.5, 1}},
		{GradientDiagonalUp, [4]float64{0.5, 1, 0, 0.5}},
	}
	corners := [4]Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	for _, tt := range tests {
		for i, c := range corners {
			got := tt.policy.At(c.X, c.Y, 0, 0, 10, 10)
			if math.Abs(got-tt.want[i]) > 1e-9 {
				t.Errorf("%c At corner %d = %v, want %v", tt.policy, i, got, tt.want[i])
			}
		}
	}
}

func TestGradientPolicyValid(t *testing.T) {
	for _, p := range GradientPolicies {
		if !p.Valid() {
			t.Errorf("%c should be valid", p)
		}
	}
	if GradientPolicy('x').Valid() {
		t.Error("'x' should not be valid")
	}
}

func TestRGBLerp(t *testing.T) {
	mid := Black.Lerp(White, 0.5)
	if mid.R != 128 || mid.A != 0xff {
		t.Errorf("Lerp(0.5) = %v", mid)
	}
	if got := Black.Lerp(White, 0); got != Black {
		t.Errorf("Lerp(0) = %v", got)
	}
}

func TestMonochromeMapper(t *testing.T) {
	got := MonochromeMapper.MapRGB(Hex(0xFF0000))
	if got.R != got.G || got.G != got.B {
		t.Errorf("monochrome red = %v, want gray", got)
	}
	if w := MonochromeMapper.MapRGB(White); w != White {
		t.Errorf("monochrome white = %v", w)
	}
}

func TestReverseMapper(t *testing.T) {
	if got := ReverseMapper.MapRGB(White); got.R > 5 || got.G > 5 || got.B > 5 {
		t.Errorf("reverse white = %v, want near black", got)
	}
	if got := ReverseMapper.MapRGB(Black); got.R < 250 {
		t.Errorf("reverse black = %v, want near white", got)
	}
}

func TestMapColorPassThrough(t *testing.T) {
	if MapColor(MonochromeMapper, Transparent{}) != (Transparent{}) {
		t.Error("transparent changed")
	}
	if MapColor(MonochromeMapper, nil) != nil {
		t.Error("nil changed")
	}
}

func TestStableMapperConcurrent(t *testing.T) {
	calls := 0
	var mu sync.Mutex
	m := NewStableMapper(MapperFunc(func(c RGB) RGB {
		mu.Lock()
		calls++
		mu.Unlock()
		return RGB{R: c.B, G: c.G, B: c.R, A: c.A}
	}))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := Hex(uint32(i % 5))
			if got := m.MapRGB(c); got.R != c.B || got.B != c.R {
				t.Errorf("MapRGB(%v) = %v", c, got)
			}
		}()
	}
	wg.Wait()

	if m.Len() != 5 {
		t.Errorf("Len() = %d, want 5", m.Len())
	}
	first := m.MapRGB(Hex(1))
	if again := m.MapRGB(Hex(1)); again != first {
		t.Error("mapping not stable")
	}
}
