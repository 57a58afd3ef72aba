package layout

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestDeferredSiblings(t *testing.T) {
	c := NewConstraints()
	a := c.NewVar("A")
	b := c.NewVar("B")
	c.EnsureAtLeast(a, 0)
	aEnd := a.Offset(10)
	c.AtLeast(b, aEnd, 30)

	pos, err := c.Solve()
	if err != nil {
		t.Fatal(err)
	}
	if got := pos.Value(a); got != 0 {
		t.Errorf("A = %v, want 0", got)
	}
	if got := pos.Value(b); got != 40 {
		t.Errorf("B = %v, want 40", got)
	}
	if got := pos.Value(aEnd); got != 10 {
		t.Errorf("A end = %v, want 10", got)
	}
}

func TestLongestPathWins(t *testing.T) {
	c := NewConstraints()
	a := c.NewVar("a")
	b := c.NewVar("b")
	d := c.NewVar("d")
	c.AtLeast(b, a, 5)
	c.AtLeast(d, a, 12)
	c.AtLeast(d, b, 3)
	c.EnsureAtLeast(a, 2)
	m := c.MaxOf("max", b, d.Offset(1))

	pos, err := c.Solve()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"origin": 0, "a": 2, "b": 7, "d": 14, "max": 15}
	if got := pos.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if pos.Value(m) != 15 {
		t.Errorf("max = %v", pos.Value(m))
	}
}

func TestConstraintOnOffsetVar(t *testing.T) {
	c := NewConstraints()
	a := c.NewVar("a")
	center := a.Offset(50)
	// center >= 80 means a >= 30.
	c.EnsureAtLeast(center, 80)
	pos, err := c.Solve()
	if err != nil {
		t.Fatal(err)
	}
	if pos.Value(a) != 30 || pos.Value(center) != 80 {
		t.Errorf("a = %v, center = %v", pos.Value(a), pos.Value(center))
	}
	if center.Name() != "a" {
		t.Errorf("Name() = %q", center.Name())
	}
}

type lowerBound struct {
	v, base int
	d       float64
}

func TestOrderIndependence(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	const n = 12
	var bounds []lowerBound
	for i := 1; i < n; i++ {
		for k := 0; k < 3; k++ {
			bounds = append(bounds, lowerBound{v: i, base: r.IntN(i), d: float64(r.IntN(100)) / 4})
		}
	}

	solve := func(order []lowerBound) map[string]float64 {
		c := NewConstraints()
		vars := make([]Var, n)
		for i := range vars {
			vars[i] = c.NewVar(string(rune('a' + i)))
		}
		for _, lb := range order {
			c.AtLeast(vars[lb.v], vars[lb.base], lb.d)
		}
		pos, err := c.Solve()
		if err != nil {
			t.Fatal(err)
		}
		return pos.Values()
	}

	want := solve(bounds)
	for i := 0; i < 20; i++ {
		shuffled := append([]lowerBound(nil), bounds...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := solve(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d: %v, want %v", i, got, want)
		}
	}
}

func TestCycle(t *testing.T) {
	c := NewConstraints()
	a := c.NewVar("a")
	b := c.NewVar("b")
	free := c.NewVar("free")
	c.AtLeast(b, a, 1)
	c.AtLeast(a, b, 1)
	c.AtLeast(free, c.Origin(), 3)

	_, err := c.Solve()
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Solve() error = %v, want *CycleError", err)
	}
	if !reflect.DeepEqual(ce.Vars, []string{"a", "b"}) {
		t.Errorf("cycle vars = %v", ce.Vars)
	}
}

func TestSameRoot(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		d      float64
		cycle  bool
	}{
		{"holds", 10, 5, false},
		{"holds exactly", 5, 5, false},
		{"never holds", 10, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConstraints()
			a := c.NewVar("a")
			c.EnsureAtLeast(a, 2)
			c.AtLeast(a.Offset(tt.offset), a, tt.d)
			pos, err := c.Solve()
			if tt.cycle {
				var ce *CycleError
				if !errors.As(err, &ce) || !reflect.DeepEqual(ce.Vars, []string{"a"}) {
					t.Fatalf("Solve() error = %v, want a cycle on a", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if got := pos.Value(a); got != 2 {
				t.Errorf("a = %v, want 2", got)
			}
		})
	}
}

func expectPanic(t *testing.T, want error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, want) {
			t.Errorf("recover() = %v, want %v", r, want)
		}
	}()
	f()
}

func TestUsageErrors(t *testing.T) {
	c := NewConstraints()
	a := c.NewVar("a")
	if _, err := c.Solve(); err != nil {
		t.Fatal(err)
	}

	expectPanic(t, ErrSolved, func() { c.AtLeast(a, c.Origin(), 1) })
	expectPanic(t, ErrSolved, func() { c.NewVar("late") })
	expectPanic(t, ErrSolved, func() { c.Solve() })

	other := NewConstraints()
	x := other.NewVar("x")
	expectPanic(t, ErrForeignVar, func() { other.AtLeast(x, a, 1) })
	pos, _ := other.Solve()
	expectPanic(t, ErrForeignVar, func() { pos.Value(a) })
}
