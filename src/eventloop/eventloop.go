package eventloop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"kazuha/src/host"
	"kazuha/src/layout"
	"kazuha/src/messages"
	"kazuha/src/updater"
	"kazuha/src/worker"
)

// UI is the overlay surface driven by the loop. Implementations must not
// block: calls are forwarded to the window thread.
type UI interface {
	Show()
	Hide()
	SetPointer(host.PointerType)
	SetPage(current, total int)
	OpenSlidePicker(current, total int)
	ShowSpotlight(bounds image.Rectangle)
	HideSpotlight()
	Warn(msg string)
}

// Updater is the subset of updater.Manager the loop uses.
type Updater interface {
	CheckForUpdates(ctx context.Context) (*worker.Task, error)
	InstallLatest(ctx context.Context) (*worker.Task, error)
	Events() <-chan updater.Event
	Local() updater.VersionInfo
	Latest() (updater.Release, bool)
}

// Status reflects loop state in the tray.
type Status interface {
	SetTooltip(string)
	SetUpdateAvailable(bool)
	SetAnchor(layout.Anchor)
}

// Notifier shows user-facing messages outside the overlay.
type Notifier interface {
	Info(title, msg string)
	Error(title, msg string)
}

// Deps wires a Loop. Updater, Status, Notifier, Clipboard, SaveAnchor and
// Screen are optional.
type Deps struct {
	Host        host.Accessor
	UI          UI
	Coordinator *layout.Coordinator
	Updater     Updater
	Status      Status
	Notifier    Notifier
	Clipboard   func(string) error
	SaveAnchor  func(layout.Anchor)
	Screen      func() image.Rectangle
	Interval    time.Duration
}

// Loop is the single-threaded coordinator: it polls the presentation host,
// mirrors its state into the overlay and serializes every user action.
type Loop struct {
	Deps

	actions chan messages.Message
	visible bool

	pointer      host.PointerType
	pointerKnown bool
	current      int
	total        int
	pageKnown    bool

	spotlightOn   bool
	manualCheck   bool
	defaultStatus string
}

const defaultInterval = 500 * time.Millisecond

// New creates a loop. Actions are accepted immediately; ticks start in Run.
func New(d Deps) *Loop {
	if d.Interval <= 0 {
		d.Interval = defaultInterval
	}
	l := &Loop{
		Deps:          d,
		actions:       make(chan messages.Message, 64),
		defaultStatus: "Kazuha",
	}
	if d.Coordinator != nil {
		d.Coordinator.OnAnchorChange(l.anchorChanged)
	}
	return l
}

// SetDefaultTooltip sets the tray tooltip shown when nothing is in flight.
func (l *Loop) SetDefaultTooltip(tt string) { l.defaultStatus = tt }

// Post enqueues msg from any goroutine. It never blocks; when the queue is
// full the message is dropped.
func (l *Loop) Post(msg messages.Message) {
	select {
	case l.actions <- msg:
	default:
		log.Printf("eventloop: queue full, dropped %s", msg.Type())
	}
}

// Visible reports whether the overlay is currently shown.
func (l *Loop) Visible() bool { return l.visible }

// Run ticks every Interval and handles actions and update events until ctx
// is cancelled or a Quit message arrives.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	var updates <-chan updater.Event
	if l.Updater != nil {
		updates = l.Updater.Events()
	}

	l.Tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick()
		case msg := <-l.actions:
			if quit := l.handle(ctx, msg); quit {
				return nil
			}
		case ev := <-updates:
			if quit := l.handleUpdate(ev); quit {
				return nil
			}
		}
	}
}

// Tick runs one poll: acquire the view, toggle visibility on transitions
// and mirror pointer and page state.
func (l *Loop) Tick() {
	v, ok := l.Host.AcquireView()
	if !ok {
		if l.visible {
			l.visible = false
			log.Printf("poll: slideshow gone, hiding overlay")
			l.UI.Hide()
			if l.spotlightOn {
				l.spotlightOn = false
				l.UI.HideSpotlight()
			}
		}
		return
	}
	defer v.Release()

	if !l.visible {
		l.visible = true
		log.Printf("poll: slideshow detected, showing overlay")
		if l.Screen != nil {
			l.Coordinator.SetScreen(l.Screen())
		}
		l.Coordinator.LayoutAll()
		l.UI.Show()
	}
	l.syncPointer(v)
	l.syncPage(v)
}

func (l *Loop) syncPointer(v host.View) {
	p, err := v.PointerType()
	if err != nil || !p.Known() {
		return
	}
	if l.pointerKnown && p == l.pointer {
		return
	}
	l.pointer, l.pointerKnown = p, true
	l.UI.SetPointer(p)
}

func (l *Loop) syncPage(v host.View) {
	cur, err := v.CurrentSlide()
	if err != nil {
		return
	}
	total, err := v.SlideCount()
	if err != nil {
		return
	}
	if l.pageKnown && cur == l.current && total == l.total {
		return
	}
	l.current, l.total, l.pageKnown = cur, total, true
	l.UI.SetPage(cur, total)
}

// withView runs fn against a freshly acquired view. Failures are logged
// and otherwise ignored; the next tick shows the true remote state.
func (l *Loop) withView(what string, fn func(v host.View) error) {
	v, ok := l.Host.AcquireView()
	if !ok {
		return
	}
	defer v.Release()
	if err := fn(v); err != nil {
		log.Printf("poll: %s: %v", what, err)
	}
}

const noInkWarning = "There is no ink on this slide"

func (l *Loop) handle(ctx context.Context, msg messages.Message) bool {
	switch m := msg.(type) {
	case messages.NextSlide:
		l.withView("next", func(v host.View) error {
			if err := v.Next(); err != nil {
				return err
			}
			l.syncPage(v)
			return nil
		})
	case messages.PrevSlide:
		l.withView("previous", func(v host.View) error {
			if err := v.Previous(); err != nil {
				return err
			}
			l.syncPage(v)
			return nil
		})
	case messages.GotoSlide:
		l.withView("goto", func(v host.View) error {
			if err := v.GotoSlide(m.Index); err != nil {
				return err
			}
			l.syncPage(v)
			return nil
		})
	case messages.SetPointer:
		// The button already shows the new state; force the next tick to
		// re-assert whatever the host ends up with.
		l.pointerKnown = false
		l.withView("set pointer", func(v host.View) error {
			if m.Pointer == host.PointerEraser && !v.HasInk() {
				l.UI.Warn(noInkWarning)
			}
			if err := v.SetPointerType(m.Pointer); err != nil {
				return err
			}
			return v.Activate()
		})
	case messages.SetPenColor:
		l.pointerKnown = false
		l.withView("pen color", func(v host.View) error {
			if err := v.SetPointerColor(m.Color); err != nil {
				return err
			}
			return v.Activate()
		})
	case messages.ClearInk:
		l.withView("clear ink", func(v host.View) error {
			if !v.HasInk() {
				l.UI.Warn(noInkWarning)
			}
			return v.EraseDrawing()
		})
	case messages.ExitShow:
		l.withView("exit", func(v host.View) error { return v.Exit() })
	case messages.ToggleSpotlight:
		l.toggleSpotlight()
	case messages.SpotlightClosed:
		l.spotlightOn = false
	case messages.NavPress:
		l.Coordinator.Press(m.Side, m.Point)
	case messages.NavMove:
		l.Coordinator.Move(m.Point)
	case messages.NavRelease:
		res := l.Coordinator.Release(m.Point)
		if res.Kind == layout.ReleaseClick && l.pageKnown {
			l.UI.OpenSlidePicker(l.current, l.total)
		}
	case messages.SetAnchor:
		prev := l.Coordinator.Anchor()
		l.Coordinator.SetAnchor(m.Anchor)
		if prev != m.Anchor {
			l.anchorChanged(m.Anchor)
		}
	case messages.CheckUpdates:
		l.checkUpdates(ctx, true)
	case messages.InstallUpdate:
		l.installUpdate(ctx)
	case messages.CopyVersion:
		l.copyVersion()
	case messages.Quit:
		return true
	default:
		log.Printf("eventloop: unhandled message %s", msg.Type())
	}
	return false
}

func (l *Loop) toggleSpotlight() {
	if l.spotlightOn {
		l.spotlightOn = false
		l.UI.HideSpotlight()
		return
	}
	l.spotlightOn = true
	bounds := l.Coordinator.Screen()
	if l.Screen != nil {
		bounds = l.Screen()
	}
	l.UI.ShowSpotlight(bounds)
}

func (l *Loop) anchorChanged(a layout.Anchor) {
	if l.SaveAnchor != nil {
		l.SaveAnchor(a)
	}
	if l.Status != nil {
		l.Status.SetAnchor(a)
	}
}

// checkUpdates starts a background check; manual checks report "up to
// date" when nothing newer is found.
func (l *Loop) checkUpdates(ctx context.Context, manual bool) {
	if l.Updater == nil {
		return
	}
	if _, err := l.Updater.CheckForUpdates(ctx); err != nil {
		log.Printf("update: check not started: %v", err)
		if errors.Is(err, worker.ErrBusy) && manual {
			// The running check reports to the user when it finishes.
			l.manualCheck = true
		}
		return
	}
	l.manualCheck = manual
	l.setTooltip("Kazuha: checking for updates...")
}

// StartupCheck runs a silent check.
func (l *Loop) StartupCheck(ctx context.Context) { l.checkUpdates(ctx, false) }

func (l *Loop) installUpdate(ctx context.Context) {
	if l.Updater == nil {
		return
	}
	if _, err := l.Updater.InstallLatest(ctx); err != nil {
		log.Printf("update: install not started: %v", err)
		l.notifyError("Update", err.Error())
		return
	}
	l.setTooltip("Kazuha: downloading update...")
}

func (l *Loop) handleUpdate(ev updater.Event) bool {
	switch e := ev.(type) {
	case updater.UpdateAvailable:
		if l.Status != nil {
			l.Status.SetUpdateAvailable(true)
		}
		l.notifyInfo("Update available", fmt.Sprintf("%s is available. Use the tray menu to install it.", e.Version))
	case updater.Progress:
		l.setTooltip(fmt.Sprintf("Kazuha: downloading update %d%%", e.Percent))
	case updater.Failed:
		l.setTooltip(l.defaultStatus)
		l.notifyError("Update failed", e.Message)
	case updater.Completed:
		log.Printf("update: installer launched from %s, exiting", e.Path)
		return true
	case updater.CheckFinished:
		l.setTooltip(l.defaultStatus)
		if l.manualCheck && !e.Found && e.Err == nil {
			l.notifyInfo("Kazuha", "You are running the latest version.")
		}
		l.manualCheck = false
	}
	return false
}

func (l *Loop) copyVersion() {
	if l.Clipboard == nil {
		return
	}
	if err := l.Clipboard(l.VersionReport()); err != nil {
		log.Printf("clipboard: %v", err)
	}
}

// VersionReport summarises local and latest known versions.
func (l *Loop) VersionReport() string {
	if l.Updater == nil {
		return "Kazuha (version unknown)"
	}
	local := l.Updater.Local()
	s := fmt.Sprintf("Kazuha %s (build %d)", orUnknown(local.VersionName), local.VersionCode)
	if rel, ok := l.Updater.Latest(); ok {
		s += fmt.Sprintf("\nLatest: %s (build %d)\n\n%s", rel.TagName, rel.Code, rel.Body)
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func (l *Loop) setTooltip(s string) {
	if l.Status != nil {
		l.Status.SetTooltip(s)
	}
}

func (l *Loop) notifyInfo(title, msg string) {
	if l.Notifier != nil {
		l.Notifier.Info(title, msg)
	}
}

func (l *Loop) notifyError(title, msg string) {
	if l.Notifier != nil {
		l.Notifier.Error(title, msg)
	}
}
