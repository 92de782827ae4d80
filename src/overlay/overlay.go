// Package overlay hosts the floating widgets drawn over a running
// slideshow: the tool strip, two navigation widgets, the slide picker, the
// pen palette, warning toasts and the spotlight window.
package overlay

import (
	"image"
	"log"
	"sync"

	"kazuha/src/host"
	"kazuha/src/layout"
	"kazuha/src/messages"
)

// Poster receives messages produced by user input on the widgets.
type Poster interface {
	Post(messages.Message)
}

// UI is the full overlay surface: the loop drives it through the methods
// it shares with eventloop.UI, and the layout coordinator positions the
// targets returned by Toolbar and Nav.
type UI interface {
	Show()
	Hide()
	SetPointer(host.PointerType)
	SetPage(current, total int)
	OpenSlidePicker(current, total int)
	ShowSpotlight(bounds image.Rectangle)
	HideSpotlight()
	Warn(msg string)

	Toolbar() layout.ToolbarTarget
	Nav(side layout.Side) layout.NavTarget
	Close()
}

// navSizer is the part of a nav target both implementations share: the
// orientation is owned by the loop goroutine and sizes derive from it.
type navSizer struct {
	orientation layout.Orientation
}

func (n *navSizer) SetOrientation(o layout.Orientation) { n.orientation = o }

func (n *navSizer) SizeHint() image.Point { return Nav{Orientation: n.orientation}.Size() }

// Headless is the UI used where no window system is available. It keeps
// the last geometry so callers can inspect it and logs everything else.
type Headless struct {
	mu      sync.Mutex
	visible bool
	toolbar headlessToolbar
	navs    [2]*headlessNav
	poster  Poster
}

// NewHeadless creates a UI that renders nothing.
func NewHeadless(p Poster) *Headless {
	return &Headless{
		poster: p,
		navs:   [2]*headlessNav{{}, {}},
	}
}

type headlessToolbar struct {
	geometry image.Rectangle
}

func (t *headlessToolbar) SizeHint() image.Point { return Toolbar{}.Size() }

func (t *headlessToolbar) SetGeometry(r image.Rectangle) { t.geometry = r }

type headlessNav struct {
	navSizer
	geometry image.Rectangle
}

func (n *headlessNav) SetGeometry(r image.Rectangle) { n.geometry = r }

func (h *Headless) Toolbar() layout.ToolbarTarget { return &h.toolbar }

func (h *Headless) Nav(side layout.Side) layout.NavTarget { return h.navs[side] }

func (h *Headless) Show() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = true
	log.Printf("overlay: show (toolbar %v, left %v, right %v)", h.toolbar.geometry, h.navs[layout.SideLeft].geometry, h.navs[layout.SideRight].geometry)
}

func (h *Headless) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
	log.Printf("overlay: hide")
}

// Visible reports the last Show/Hide.
func (h *Headless) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

func (h *Headless) SetPointer(p host.PointerType) { log.Printf("overlay: pointer %s", p) }

func (h *Headless) SetPage(current, total int) { log.Printf("overlay: page %d/%d", current, total) }

func (h *Headless) OpenSlidePicker(current, total int) {
	log.Printf("overlay: slide picker requested at %d/%d", current, total)
}

// ShowSpotlight has no window to draw into, so the spotlight closes at once.
func (h *Headless) ShowSpotlight(bounds image.Rectangle) {
	log.Printf("overlay: spotlight over %v unavailable", bounds)
	if h.poster != nil {
		h.poster.Post(messages.SpotlightClosed{})
	}
}

func (h *Headless) HideSpotlight() {}

func (h *Headless) Warn(msg string) { log.Printf("overlay: warning: %s", msg) }

func (h *Headless) Close() {}
