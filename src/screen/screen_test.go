package screen

import (
	"image"
	"testing"
)

func withDisplays(t *testing.T, n int, b image.Rectangle) {
	t.Helper()
	saved := displays
	displays.count = func() int { return n }
	displays.bounds = func(int) image.Rectangle { return b }
	t.Cleanup(func() { displays = saved })
}

func TestPrimary(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		bounds image.Rectangle
		want   image.Rectangle
	}{
		{"primary", 2, image.Rect(0, 0, 2560, 1440), image.Rect(0, 0, 2560, 1440)},
		{"no display", 0, image.Rectangle{}, Fallback},
		{"empty bounds", 1, image.Rectangle{}, Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withDisplays(t, tt.count, tt.bounds)
			if got := Primary(); got != tt.want {
				t.Errorf("Primary() = %v, want %v", got, tt.want)
			}
		})
	}
}
