package ug

import "testing"

func TestDefaultStroke(t *testing.T) {
	s := DefaultStroke()
	if s.Thickness != 1 || s.IsDashed() || s.DashArray() != nil {
		t.Errorf("DefaultStroke() = %+v", s)
	}
}

func TestNewStroke(t *testing.T) {
	s := NewStroke(-2, -5, 3)
	if s != (Stroke{Thickness: 2, DashVisible: 5, DashSpace: 3}) {
		t.Errorf("NewStroke() = %+v, want absolute values", s)
	}
}

func TestStrokeDashes(t *testing.T) {
	tests := []struct {
		name   string
		s      Stroke
		dashed bool
		array  []float64
	}{
		{"solid", DefaultStroke(), false, nil},
		{"dashed", Dashed(1), true, []float64{5, 5}},
		{"dotted", Dotted(2), true, []float64{1, 3}},
		{"visible only", Stroke{Thickness: 1, DashVisible: 4}, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.s.IsDashed() != tt.dashed {
				t.Errorf("IsDashed() = %v", tt.s.IsDashed())
			}
			got := tt.s.DashArray()
			if len(got) != len(tt.array) {
				t.Fatalf("DashArray() = %v, want %v", got, tt.array)
			}
			for i := range got {
				if got[i] != tt.array[i] {
					t.Errorf("DashArray() = %v, want %v", got, tt.array)
				}
			}
		})
	}
}

func TestStrokeScale(t *testing.T) {
	s := Dashed(1.5).Scale(2)
	if s != (Stroke{Thickness: 3, DashVisible: 10, DashSpace: 10}) {
		t.Errorf("Scale(2) = %+v", s)
	}
	if w := DefaultStroke().WithThickness(4); w.Thickness != 4 {
		t.Errorf("WithThickness(4) = %+v", w)
	}
}

func TestPatternString(t *testing.T) {
	for p, want := range map[Pattern]string{
		PatternNone:             "none",
		PatternVerticalStripe:   "vertical-stripe",
		PatternHorizontalStripe: "horizontal-stripe",
		PatternSmallCircle:      "small-circle",
	} {
		if p.String() != want {
			t.Errorf("%d.String() = %q, want %q", p, p.String(), want)
		}
	}
}
