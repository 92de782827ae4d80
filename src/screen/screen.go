// Package screen reports the geometry the overlay is laid out on.
package screen

import (
	"image"
	"log"

	"github.com/kbinani/screenshot"
)

// Fallback is used when no display can be queried.
var Fallback = image.Rect(0, 0, 1920, 1080)

// displays is swapped in tests.
var displays = struct {
	count  func() int
	bounds func(int) image.Rectangle
}{screenshot.NumActiveDisplays, screenshot.GetDisplayBounds}

// Primary returns the bounds of the primary display.
func Primary() image.Rectangle {
	if displays.count() < 1 {
		log.Printf("screen: no active display, assuming %v", Fallback)
		return Fallback
	}
	b := displays.bounds(0)
	if b.Empty() {
		log.Printf("screen: primary display reports empty bounds, assuming %v", Fallback)
		return Fallback
	}
	return b
}
