package layout

import (
	"image"
	"time"
)

const (
	// LongPress is the minimum hold before movement can start a drag.
	LongPress = 300 * time.Millisecond
	// DragSlop is the manhattan distance the pointer must exceed.
	DragSlop = 3
)

// DragSession tracks one press on a navigation widget until release.
type DragSession struct {
	Side        Side
	StartGlobal image.Point
	WindowStart image.Point
	PressedAt   time.Time
	Dragging    bool
}

// BeginDrag records a press at pointer while the widget sits at window.
func BeginDrag(side Side, pointer, window image.Point, at time.Time) *DragSession {
	return &DragSession{
		Side:        side,
		StartGlobal: pointer,
		WindowStart: window,
		PressedAt:   at,
	}
}

// Update feeds a pointer position. It returns the widget's new top-left
// once the drag is confirmed: x stays pinned to the widget's side and y is
// clamped to the screen's vertical travel.
func (s *DragSession) Update(pointer image.Point, at time.Time, screen image.Rectangle, size image.Point) (image.Point, bool) {
	delta := pointer.Sub(s.StartGlobal)
	if !s.Dragging {
		if at.Sub(s.PressedAt) < LongPress || abs(delta.X)+abs(delta.Y) <= DragSlop {
			return image.Point{}, false
		}
		s.Dragging = true
	}
	y := ClampNavY(s.WindowStart.Y+delta.Y, screen, size.Y)
	return image.Pt(NavX(s.Side, screen, size.X), y), true
}

// Finish applies the release position and reports where the widget ended
// and whether the press was a drag. A non-drag release is a click.
func (s *DragSession) Finish(pointer image.Point, at time.Time, screen image.Rectangle, size image.Point) (image.Point, bool) {
	pos, ok := s.Update(pointer, at, screen, size)
	if !ok {
		return s.WindowStart, false
	}
	return pos, true
}
