package overlay

import (
	"image"

	"kazuha/src/layout"
	"kazuha/src/messages"
)

// navInput turns button events on one navigation widget into loop
// messages. Presses on the page label are forwarded raw so the layout
// coordinator can tell a click from a drag.
type navInput struct {
	side    layout.Side
	pressed NavControl
	down    bool
}

// press reports whether the window should capture the pointer.
func (in *navInput) press(n Nav, local, global image.Point) ([]messages.Message, bool) {
	c, ok := n.HitTest(local)
	if !ok {
		return nil, false
	}
	in.down, in.pressed = true, c
	if c == NavPage {
		return []messages.Message{messages.NavPress{Side: in.side, Point: global}}, true
	}
	return nil, true
}

func (in *navInput) move(global image.Point) []messages.Message {
	if !in.down || in.pressed != NavPage {
		return nil
	}
	return []messages.Message{messages.NavMove{Point: global}}
}

func (in *navInput) release(n Nav, local, global image.Point) []messages.Message {
	if !in.down {
		return nil
	}
	in.down = false
	if in.pressed == NavPage {
		return []messages.Message{messages.NavRelease{Point: global}}
	}
	if c, ok := n.HitTest(local); !ok || c != in.pressed {
		return nil
	}
	if in.pressed == NavPrev {
		return []messages.Message{messages.PrevSlide{}}
	}
	return []messages.Message{messages.NextSlide{}}
}

// buttonInput fires when press and release land on the same button.
type buttonInput struct {
	pressed ToolbarButton
	down    bool
}

func (in *buttonInput) press(t Toolbar, local image.Point) bool {
	b, ok := t.HitTest(local)
	in.down, in.pressed = ok, b
	return ok
}

func (in *buttonInput) release(t Toolbar, local image.Point) (ToolbarButton, bool) {
	if !in.down {
		return 0, false
	}
	in.down = false
	b, ok := t.HitTest(local)
	if !ok || b != in.pressed {
		return 0, false
	}
	return b, true
}
