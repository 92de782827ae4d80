// Package tray runs the notification-area icon and its menu.
package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"

	"kazuha/src/layout"
	"kazuha/src/messages"
)

// Poster receives the messages menu clicks produce.
type Poster interface {
	Post(messages.Message)
}

type Config struct {
	Title   string
	Tooltip string
	Anchor  layout.Anchor
	Poster  Poster
	// OnExit runs after the tray has been torn down.
	OnExit func()
}

// Tray is safe for concurrent use. Setters called before the menu exists
// are applied once it is built.
type Tray struct {
	cfg Config

	mu        sync.Mutex
	ready     bool
	tooltip   string
	available bool
	anchor    layout.Anchor

	install *systray.MenuItem
	anchors [len(layout.Anchors)]*systray.MenuItem
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg, tooltip: cfg.Tooltip, anchor: cfg.Anchor}
}

// Run blocks until Destroy is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) Destroy() {
	systray.Quit()
}

type menuEntry struct {
	title   string
	tooltip string
	msg     messages.Message
}

var topEntries = []menuEntry{
	{"Spotlight", "Dim the screen and highlight an area", messages.ToggleSpotlight{}},
	{"Check for updates", "Look for a newer release", messages.CheckUpdates{}},
}

var bottomEntries = []menuEntry{
	{"Copy version info", "Copy version and release notes to the clipboard", messages.CopyVersion{}},
	{"Quit", "Quit Kazuha", messages.Quit{}},
}

func anchorTitle(a layout.Anchor) string {
	switch a {
	case layout.AnchorTop:
		return "Top"
	case layout.AnchorMiddle:
		return "Middle"
	default:
		return "Bottom"
	}
}

func (t *Tray) onReady() {
	if icon, err := iconBytes(); err != nil {
		log.Printf("tray: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle(t.cfg.Title)

	for _, e := range topEntries {
		t.bind(systray.AddMenuItem(e.title, e.tooltip), e.msg)
	}
	t.mu.Lock()
	t.install = systray.AddMenuItem("Install update", "Download and install the announced release")
	t.mu.Unlock()
	t.bind(t.install, messages.InstallUpdate{})

	nav := systray.AddMenuItem("Navigation position", "Where the page controls sit")
	for i, a := range layout.Anchors {
		item := nav.AddSubMenuItemCheckbox(anchorTitle(a), "Move both page controls to the "+a.String(), false)
		t.mu.Lock()
		t.anchors[i] = item
		t.mu.Unlock()
		t.bind(item, messages.SetAnchor{Anchor: a})
	}

	systray.AddSeparator()
	for _, e := range bottomEntries {
		t.bind(systray.AddMenuItem(e.title, e.tooltip), e.msg)
	}

	t.mu.Lock()
	t.ready = true
	t.applyLocked()
	t.mu.Unlock()
	log.Printf("tray: ready")
}

func (t *Tray) bind(item *systray.MenuItem, msg messages.Message) {
	go func() {
		for range item.ClickedCh {
			if t.cfg.Poster != nil {
				t.cfg.Poster.Post(msg)
			}
		}
	}()
}

func (t *Tray) onExit() {
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}

func (t *Tray) applyLocked() {
	if !t.ready {
		return
	}
	systray.SetTooltip(t.tooltip)
	if t.available {
		t.install.Enable()
	} else {
		t.install.Disable()
	}
	for i, item := range t.anchors {
		if layout.Anchors[i] == t.anchor {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func (t *Tray) SetTooltip(tt string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tooltip = tt
	t.applyLocked()
}

// SetUpdateAvailable enables the install item.
func (t *Tray) SetUpdateAvailable(ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.available = ok
	t.applyLocked()
}

// SetAnchor moves the check mark in the navigation position submenu.
func (t *Tray) SetAnchor(a layout.Anchor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.anchor = a
	t.applyLocked()
}
