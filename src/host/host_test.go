package host

import (
	"errors"
	"image/color"
	"testing"
)

func TestRGBPacksLittleEndian(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want int32
	}{
		{color.RGBA{R: 255}, 0x0000FF},
		{color.RGBA{G: 255}, 0x00FF00},
		{color.RGBA{B: 255}, 0xFF0000},
		{color.RGBA{R: 255, G: 165}, 0x00A5FF},
		{color.RGBA{R: 128, B: 128}, 0x800080},
	}
	for _, tt := range tests {
		if got := RGB(tt.c); got != tt.want {
			t.Errorf("RGB(%v) = %#x, want %#x", tt.c, got, tt.want)
		}
	}
}

func TestPointerTypeString(t *testing.T) {
	tests := map[PointerType]string{
		PointerArrow:   "arrow",
		PointerPen:     "pen",
		PointerEraser:  "eraser",
		PointerType(9): "pointer(9)",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(p), got, want)
		}
	}
	if PointerType(3).Known() {
		t.Errorf("PointerType(3) should not be known")
	}
}

func TestGuardAcquireSwallowsErrorsAndPanics(t *testing.T) {
	if v, ok := guardAcquire(func() (View, error) { return nil, errors.New("gone") }); ok || v != nil {
		t.Errorf("error path returned (%v, %v)", v, ok)
	}
	if v, ok := guardAcquire(func() (View, error) { panic("com exploded") }); ok || v != nil {
		t.Errorf("panic path returned (%v, %v)", v, ok)
	}
	if v, ok := guardAcquire(func() (View, error) { return nil, nil }); ok || v != nil {
		t.Errorf("nil view path returned (%v, %v)", v, ok)
	}
}
