// Package host wraps the presentation application's automation surface.
//
// A View is an ephemeral handle to the running slideshow. It is acquired
// fresh on every poll and released before the next one; callers never keep
// it across ticks.
package host

import (
	"fmt"
	"image/color"
	"log"
)

// PointerType mirrors the host's slideshow pointer enumeration.
type PointerType int

const (
	PointerArrow  PointerType = 1
	PointerPen    PointerType = 2
	PointerEraser PointerType = 5
)

func (p PointerType) String() string {
	switch p {
	case PointerArrow:
		return "arrow"
	case PointerPen:
		return "pen"
	case PointerEraser:
		return "eraser"
	default:
		return fmt.Sprintf("pointer(%d)", int(p))
	}
}

// Known reports whether p is one of the pointer types the toolbar mirrors.
func (p PointerType) Known() bool {
	return p == PointerArrow || p == PointerPen || p == PointerEraser
}

// View is the subset of the slideshow view the assistant reads and writes.
// Every call may fail transiently; callers log and move on.
type View interface {
	PointerType() (PointerType, error)
	SetPointerType(PointerType) error
	// SetPointerColor switches to the pen and sets its color.
	SetPointerColor(color.RGBA) error
	CurrentSlide() (int, error)
	SlideCount() (int, error)
	Next() error
	Previous() error
	GotoSlide(index int) error
	EraseDrawing() error
	// HasInk reports whether the current slide carries ink annotations.
	// Implementations report true when the check itself fails.
	HasInk() bool
	Exit() error
	// Activate brings the slideshow window to the foreground.
	Activate() error
	Release()
}

// Accessor acquires the current slideshow view.
type Accessor interface {
	// AcquireView returns the live view, or false when the host is absent
	// or not presenting. It never panics and never returns an error.
	AcquireView() (View, bool)
}

// RGB packs c into the host's 0x00BBGGRR color value.
func RGB(c color.RGBA) int32 {
	return int32(c.R) | int32(c.G)<<8 | int32(c.B)<<16
}

// guardAcquire runs acquire and converts both errors and panics into an
// absent view.
func guardAcquire(acquire func() (View, error)) (v View, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("host: acquire panicked: %v", r)
			v, ok = nil, false
		}
	}()
	view, err := acquire()
	if err != nil || view == nil {
		return nil, false
	}
	return view, true
}
