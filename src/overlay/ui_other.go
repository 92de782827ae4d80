//go:build !windows

package overlay

import "image/color"

// New returns the headless overlay; there is no window system to draw on.
func New(poster Poster, _ []color.RGBA) (UI, error) {
	return NewHeadless(poster), nil
}
