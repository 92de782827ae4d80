package hotkey

import (
	"context"
	"log"
	"slices"

	gohook "github.com/robotn/gohook"
)

// matcher tracks which keys of a combo are held.
type matcher struct {
	combo   Combo
	pressed []bool
}

func newMatcher(c Combo) *matcher {
	return &matcher{combo: c, pressed: make([]bool, len(c.Keys))}
}

// keyDown reports whether rawcode completed the combination. Held keys are
// reset on a hit so auto-repeat does not fire again.
func (m *matcher) keyDown(rawcode uint16) bool {
	for i, k := range m.combo.Keys {
		if slices.Contains(k.Rawcodes, rawcode) {
			m.pressed[i] = true
		}
	}
	if slices.Contains(m.pressed, false) {
		return false
	}
	clear(m.pressed)
	return true
}

func (m *matcher) keyUp(rawcode uint16) {
	for i, k := range m.combo.Keys {
		if slices.Contains(k.Rawcodes, rawcode) {
			m.pressed[i] = false
		}
	}
}

// Listen watches global keyboard events until ctx is done and calls fire
// each time combo is completed. fire runs on the hook goroutine and must
// not block.
func Listen(ctx context.Context, combo Combo, fire func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: listener panic: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start returned nil channel")
			return
		}
		defer gohook.End()
		log.Printf("hotkey: listening for %s", combo)

		m := newMatcher(combo)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-evChan:
				if !ok {
					log.Printf("hotkey: event channel closed")
					return
				}
				switch ev.Kind {
				case gohook.KeyDown:
					if m.keyDown(ev.Rawcode) {
						log.Printf("hotkey: %s pressed", combo)
						fire()
					}
				case gohook.KeyUp:
					m.keyUp(ev.Rawcode)
				}
			}
		}
	}()
}
