package backend

import (
	"io"
	"strings"
	"testing"

	"github.com/gogpu/ug"
)

// mockBackend is a minimal backend implementation for testing.
type mockBackend struct {
	ug.LimitFinder
	name       string
	beginCalls int
	endCalls   int
}

func (b *mockBackend) Begin(ug.Dimension, Settings) error {
	b.beginCalls++
	return nil
}

func (b *mockBackend) End(io.Writer, ug.MinMax) error {
	b.endCalls++
	return nil
}

func (b *mockBackend) Extension() string { return b.name }

// withRegistry swaps in an empty registry for the test.
func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := factories
	factories = make(map[string]Factory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		factories = saved
		registryMu.Unlock()
	})
}

func TestRegisterAndNew(t *testing.T) {
	withRegistry(t)

	Register("test", func() Backend { return &mockBackend{name: "test"} })

	b, err := New("test")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	mock, ok := b.(*mockBackend)
	if !ok {
		t.Fatal("backend is not a mockBackend")
	}
	if mock.name != "test" {
		t.Errorf("got name %q, want %q", mock.name, "test")
	}

	again, _ := New("test")
	if again == b {
		t.Error("New should return a fresh instance per call")
	}
}

func TestNewUnknown(t *testing.T) {
	withRegistry(t)

	_, err := New("unknown")
	if err == nil || !strings.Contains(err.Error(), "forgotten import") {
		t.Errorf("New(unknown) error = %v, want forgotten import hint", err)
	}
}

func TestRegisterNilFactory(t *testing.T) {
	withRegistry(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil factory")
		}
	}()
	Register("nil", nil)
}

func TestRegisterDuplicate(t *testing.T) {
	withRegistry(t)

	factory := func() Backend { return &mockBackend{name: "dup"} }
	Register("dup", factory)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate registration")
		}
	}()
	Register("dup", factory)
}

func TestFormatsSorted(t *testing.T) {
	withRegistry(t)

	for _, n := range []string{"svg", "eps", "png"} {
		Register(n, func() Backend { return &mockBackend{name: n} })
	}
	if got := strings.Join(Formats(), ","); got != "eps,png,svg" {
		t.Errorf("Formats() = %s", got)
	}
	if !IsRegistered("png") || IsRegistered("pdf") {
		t.Error("IsRegistered mismatch")
	}
	Unregister("png")
	if IsRegistered("png") {
		t.Error("Unregister did not remove png")
	}
}

func TestSettingsEffectiveScale(t *testing.T) {
	tests := []struct {
		s    Settings
		want float64
	}{
		{Settings{}, 1},
		{Settings{Scale: 2}, 2},
		{Settings{DPI: 192}, 2},
		{Settings{Scale: 1.5, DPI: 48}, 0.75},
	}
	for _, tt := range tests {
		if got := tt.s.EffectiveScale(); got != tt.want {
			t.Errorf("%+v.EffectiveScale() = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestSettingsBackground(t *testing.T) {
	if _, ok := (Settings{}).BackgroundPaint(); ok {
		t.Error("nil background should not paint")
	}
	s := Settings{Background: ug.White, Mapper: ug.ReverseMapper}
	c, ok := s.BackgroundPaint()
	if !ok || c.R > 5 {
		t.Errorf("reversed white background = %v, %v", c, ok)
	}
}
