// Package spotlight implements the full-screen dimming overlay with a
// rubber-band rectangular reveal.
package spotlight

import (
	"fmt"
	"image"
)

// State is the selection state of an overlay.
type State int

const (
	Idle State = iota
	Selecting
	Selected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Selected:
		return "selected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Button identifies which mouse button produced an event.
type Button int

const (
	Primary Button = iota
	Secondary
)

const (
	// CloseSize is the edge length of the close box.
	CloseSize = 30
	closeDX   = 10
	closeDY   = -15
)

// Overlay is one spotlight session. A new Overlay is created each time the
// spotlight is toggled on; nothing carries over.
type Overlay struct {
	bounds image.Rectangle
	state  State
	anchor image.Point
	cursor image.Point
	closed bool
}

// New returns an idle overlay covering bounds.
func New(bounds image.Rectangle) *Overlay {
	return &Overlay{bounds: bounds}
}

func (o *Overlay) Bounds() image.Rectangle { return o.bounds }

func (o *Overlay) State() State { return o.state }

// Closed reports whether the user asked to dismiss the overlay.
func (o *Overlay) Closed() bool { return o.closed }

// Selection returns the normalized selection, or an empty rectangle while
// idle.
func (o *Overlay) Selection() image.Rectangle {
	if o.state == Idle {
		return image.Rectangle{}
	}
	return image.Rectangle{Min: o.anchor, Max: o.cursor}.Canon()
}

// CloseButton returns the close box, present only once a selection is
// made. It sits at the selection's top-right corner, offset right and up.
func (o *Overlay) CloseButton() (image.Rectangle, bool) {
	if o.state != Selected {
		return image.Rectangle{}, false
	}
	sel := o.Selection()
	topLeft := image.Pt(sel.Max.X+closeDX, sel.Min.Y+closeDY)
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(image.Pt(CloseSize, CloseSize))}, true
}

// Press handles a button press at p. A secondary press closes the overlay
// from any state; a primary press on the close box closes it; any other
// primary press starts a new selection.
func (o *Overlay) Press(b Button, p image.Point) {
	if o.closed {
		return
	}
	if b == Secondary {
		o.closed = true
		return
	}
	if r, ok := o.CloseButton(); ok && p.In(r) {
		o.closed = true
		return
	}
	o.state = Selecting
	o.anchor, o.cursor = p, p
}

// Move grows or shrinks the selection while the primary button is held.
func (o *Overlay) Move(p image.Point) {
	if o.state == Selecting {
		o.cursor = p
	}
}

// Release finishes a selection. A release without any area returns the
// overlay to idle.
func (o *Overlay) Release(b Button, p image.Point) {
	if o.state != Selecting || b != Primary {
		return
	}
	o.cursor = p
	if o.Selection().Empty() {
		o.state = Idle
		return
	}
	o.state = Selected
}
