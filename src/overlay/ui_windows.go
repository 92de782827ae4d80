//go:build windows

package overlay

import (
	"image"
	"image/color"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/lxn/win"

	"kazuha/src/host"
	"kazuha/src/layout"
	"kazuha/src/messages"
	"kazuha/src/spotlight"
)

const (
	toastTimerID  = 1
	toastDuration = 2000
	popupGap      = 8
)

// Windows is the overlay on Win32 layered windows. Every window lives on
// one locked OS thread running its own message loop; the exported methods
// may be called from any goroutine and only enqueue work for that thread.
type Windows struct {
	poster Poster
	calls  chan func()
	done   chan struct{}
	disp   *surface

	toolbarTarget *windowsToolbar
	navTargets    [2]*windowsNav

	// Window thread state below.
	visible     bool
	toolbar     Toolbar
	toolbarGeom image.Rectangle
	toolbarSurf *surface
	toolbarIn   buttonInput

	navs     [2]Nav
	navGeom  [2]image.Rectangle
	navSurfs [2]*surface
	navIns   [2]navInput

	palette     Palette
	paletteSurf *surface
	paletteOpen bool

	picker     Picker
	pickerSurf *surface
	pickerOpen bool

	toastSurf *surface

	spot     *spotlight.Overlay
	spotSurf *surface
	spotBuf  *image.RGBA
}

// New starts the window thread and creates every widget hidden.
func New(poster Poster, colors []color.RGBA) (UI, error) {
	w := &Windows{
		poster:  poster,
		calls:   make(chan func(), 256),
		done:    make(chan struct{}),
		palette: Palette{Colors: colors},
	}
	w.toolbarTarget = &windowsToolbar{ui: w}
	w.navTargets = [2]*windowsNav{{ui: w, side: layout.SideLeft}, {ui: w, side: layout.SideRight}}
	w.navIns = [2]navInput{{side: layout.SideLeft}, {side: layout.SideRight}}

	ready := make(chan error, 1)
	go w.run(ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Windows) run(ready chan<- error) {
	runtime.LockOSThread()
	defer close(w.done)

	if err := w.createWindows(); err != nil {
		ready <- err
		return
	}
	invoke = w.drain
	ready <- nil

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 {
			return
		}
		if ret == -1 {
			log.Printf("overlay: GetMessage error")
			return
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (w *Windows) createWindows() error {
	if err := registerSurfaceClass(); err != nil {
		return err
	}
	var err error
	if w.disp, err = newSurface("Kazuha Dispatch", false, handlerFuncs{}); err != nil {
		return err
	}
	if w.toolbarSurf, err = newSurface("Kazuha Toolbar", false, handlerFuncs{onMouse: w.toolbarMouse}); err != nil {
		return err
	}
	for side := range w.navSurfs {
		s := layout.Side(side)
		h := handlerFuncs{onMouse: func(k mouseKind, local, global image.Point) { w.navMouse(s, k, local, global) }}
		if w.navSurfs[side], err = newSurface("Kazuha Navigation "+s.String(), false, h); err != nil {
			return err
		}
	}
	if w.paletteSurf, err = newSurface("Kazuha Pen Colors", false, handlerFuncs{onMouse: w.paletteMouse}); err != nil {
		return err
	}
	if w.pickerSurf, err = newSurface("Kazuha Slides", false, handlerFuncs{onMouse: w.pickerMouse}); err != nil {
		return err
	}
	if w.toastSurf, err = newSurface("Kazuha Notice", false, handlerFuncs{onTimer: w.toastTimer}); err != nil {
		return err
	}
	return nil
}

// do runs fn on the window thread.
func (w *Windows) do(fn func()) {
	select {
	case <-w.done:
		return
	case w.calls <- fn:
	}
	win.PostMessage(w.disp.hwnd, wmInvoke, 0, 0)
}

func (w *Windows) drain() {
	for {
		select {
		case fn := <-w.calls:
			fn()
		default:
			return
		}
	}
}

func (w *Windows) post(msgs ...messages.Message) {
	for _, m := range msgs {
		w.poster.Post(m)
	}
}

// Close destroys every window and stops the window thread.
func (w *Windows) Close() {
	w.do(func() {
		for _, s := range surfaces {
			s.destroy()
		}
		win.PostQuitMessage(0)
	})
	select {
	case <-w.done:
	case <-time.After(2 * time.Second):
		log.Printf("overlay: window thread did not stop")
	}
}

func (w *Windows) Toolbar() layout.ToolbarTarget { return w.toolbarTarget }

func (w *Windows) Nav(side layout.Side) layout.NavTarget { return w.navTargets[side] }

type windowsToolbar struct {
	ui *Windows
}

func (t *windowsToolbar) SizeHint() image.Point { return Toolbar{}.Size() }

func (t *windowsToolbar) SetGeometry(r image.Rectangle) {
	t.ui.do(func() {
		t.ui.toolbarGeom = r
		if t.ui.visible {
			t.ui.toolbarSurf.present(t.ui.toolbar.Render(), r.Min)
		}
	})
}

type windowsNav struct {
	navSizer
	ui   *Windows
	side layout.Side
}

func (n *windowsNav) SetGeometry(r image.Rectangle) {
	o, side, w := n.orientation, n.side, n.ui
	w.do(func() {
		reflow := w.navs[side].Orientation != o
		w.navs[side].Orientation = o
		w.navGeom[side] = r
		if w.visible {
			w.presentNav(side, reflow)
		}
	})
}

// presentNav re-renders only when the content changed; a drag just moves
// the window.
func (w *Windows) presentNav(side layout.Side, rerender bool) {
	s := w.navSurfs[side]
	if !rerender && s.shown {
		win.SetWindowPos(s.hwnd, 0, int32(w.navGeom[side].Min.X), int32(w.navGeom[side].Min.Y), 0, 0,
			win.SWP_NOSIZE|win.SWP_NOZORDER|win.SWP_NOACTIVATE)
		s.bounds = image.Rectangle{Min: w.navGeom[side].Min, Max: w.navGeom[side].Min.Add(s.bounds.Size())}
		return
	}
	s.present(w.navs[side].Render(), w.navGeom[side].Min)
}

func (w *Windows) Show() {
	w.do(func() {
		w.visible = true
		w.toolbarSurf.present(w.toolbar.Render(), w.toolbarGeom.Min)
		for side := range w.navs {
			w.presentNav(layout.Side(side), true)
		}
		w.allowForeground()
	})
}

func (w *Windows) Hide() {
	w.do(func() {
		w.visible = false
		w.toolbarSurf.hide()
		for _, s := range w.navSurfs {
			s.hide()
		}
		w.closePalette()
		w.closePicker()
		w.toastSurf.hide()
	})
}

func (w *Windows) SetPointer(p host.PointerType) {
	w.do(func() {
		w.toolbar.Pointer = p
		if w.visible {
			w.toolbarSurf.present(w.toolbar.Render(), w.toolbarGeom.Min)
		}
	})
}

func (w *Windows) SetPage(current, total int) {
	w.do(func() {
		for side := range w.navs {
			w.navs[side].Current, w.navs[side].Total = current, total
			if w.visible {
				w.presentNav(layout.Side(side), true)
			}
		}
		if w.pickerOpen {
			w.openPicker(current, total)
		}
	})
}

// OpenSlidePicker toggles the slide grid.
func (w *Windows) OpenSlidePicker(current, total int) {
	w.do(func() {
		if w.pickerOpen {
			w.closePicker()
			return
		}
		w.openPicker(current, total)
	})
}

func (w *Windows) openPicker(current, total int) {
	if total <= 0 || !w.visible {
		return
	}
	w.picker = Picker{Current: current, Total: total}
	r := Centered(primaryScreen(), w.picker.Size())
	w.pickerSurf.present(w.picker.Render(), r.Min)
	w.pickerOpen = true
}

func (w *Windows) closePicker() {
	w.pickerSurf.hide()
	w.pickerOpen = false
}

func (w *Windows) pickerMouse(k mouseKind, local, _ image.Point) {
	if k != mouseUp {
		return
	}
	if i, ok := w.picker.HitTest(local); ok {
		w.post(messages.GotoSlide{Index: i})
	}
	w.closePicker()
}

func (w *Windows) toolbarMouse(k mouseKind, local, _ image.Point) {
	switch k {
	case mouseDown:
		w.toolbarIn.press(w.toolbar, local)
	case mouseUp:
		b, ok := w.toolbarIn.release(w.toolbar, local)
		if !ok {
			return
		}
		if p, isPointer := b.pointer(); isPointer {
			w.toolbar.Pointer = p
			w.toolbarSurf.present(w.toolbar.Render(), w.toolbarGeom.Min)
		}
		if b == ButtonPen {
			w.togglePalette()
		} else {
			w.closePalette()
		}
		w.post(b.Message())
	}
}

func (w *Windows) togglePalette() {
	if w.paletteOpen {
		w.closePalette()
		return
	}
	pen := w.toolbar.ButtonRect(ButtonPen).Add(w.toolbarGeom.Min)
	r := Above(pen, w.palette.Size(), popupGap)
	if scr := primaryScreen(); r.Min.X < scr.Min.X {
		r = r.Add(image.Pt(scr.Min.X-r.Min.X, 0))
	}
	w.paletteSurf.present(w.palette.Render(), r.Min)
	w.paletteOpen = true
}

func (w *Windows) closePalette() {
	w.paletteSurf.hide()
	w.paletteOpen = false
}

func (w *Windows) paletteMouse(k mouseKind, local, _ image.Point) {
	if k != mouseUp {
		return
	}
	c, ok := w.palette.HitTest(local)
	if !ok {
		return
	}
	w.closePalette()
	w.post(messages.SetPenColor{Color: c})
}

func (w *Windows) navMouse(side layout.Side, k mouseKind, local, global image.Point) {
	in := &w.navIns[side]
	switch k {
	case mouseDown:
		msgs, capture := in.press(w.navs[side], local, global)
		if !capture {
			win.ReleaseCapture()
		}
		w.post(msgs...)
	case mouseMove:
		w.post(in.move(global)...)
	case mouseUp:
		w.post(in.release(w.navs[side], local, global)...)
	}
}

func (w *Windows) Warn(msg string) {
	w.do(func() {
		if !w.visible {
			log.Printf("overlay: warning while hidden: %s", msg)
			return
		}
		r := Above(w.toolbarGeom, ToastSize(msg), popupGap)
		w.toastSurf.present(RenderToast(msg), r.Min)
		win.SetTimer(w.toastSurf.hwnd, toastTimerID, toastDuration, 0)
	})
}

func (w *Windows) toastTimer(id uintptr) {
	if id != toastTimerID {
		return
	}
	win.KillTimer(w.toastSurf.hwnd, toastTimerID)
	w.toastSurf.hide()
}

// ShowSpotlight opens a fresh spotlight session over bounds.
func (w *Windows) ShowSpotlight(bounds image.Rectangle) {
	w.do(func() {
		if w.spotSurf != nil {
			return
		}
		h := handlerFuncs{onMouse: w.spotlightMouse, onKey: w.spotlightKey}
		s, err := newSurface("Kazuha Spotlight", true, h)
		if err != nil {
			log.Printf("overlay: %v", err)
			w.post(messages.SpotlightClosed{})
			return
		}
		w.spot = spotlight.New(bounds)
		w.spotSurf = s
		w.spotBuf = image.NewRGBA(image.Rectangle{Max: bounds.Size()})
		w.renderSpotlight()
		w.allowForeground()
		win.SetForegroundWindow(s.hwnd)
	})
}

// HideSpotlight closes the spotlight without notifying the loop.
func (w *Windows) HideSpotlight() {
	w.do(w.destroySpotlight)
}

func (w *Windows) destroySpotlight() {
	if w.spotSurf == nil {
		return
	}
	w.spotSurf.destroy()
	w.spotSurf, w.spot, w.spotBuf = nil, nil, nil
}

func (w *Windows) renderSpotlight() {
	w.spot.Render(w.spotBuf)
	w.spotSurf.present(w.spotBuf, w.spot.Bounds().Min)
}

func (w *Windows) spotlightMouse(k mouseKind, _, global image.Point) {
	if w.spot == nil {
		return
	}
	switch k {
	case mouseDown:
		w.spot.Press(spotlight.Primary, global)
	case mouseMove:
		if w.spot.State() != spotlight.Selecting {
			return
		}
		w.spot.Move(global)
	case mouseUp:
		w.spot.Release(spotlight.Primary, global)
	case mouseSecondaryDown:
		w.spot.Press(spotlight.Secondary, global)
	}
	if w.spot.Closed() {
		w.destroySpotlight()
		w.post(messages.SpotlightClosed{})
		return
	}
	w.renderSpotlight()
}

func (w *Windows) spotlightKey(vk uintptr) {
	if vk != win.VK_ESCAPE {
		return
	}
	w.destroySpotlight()
	w.post(messages.SpotlightClosed{})
}

func (w *Windows) allowForeground() {
	procAllowSetForegroundWindow.Call(uintptr(os.Getpid()))
}

func primaryScreen() image.Rectangle {
	return image.Rect(0, 0, int(win.GetSystemMetrics(win.SM_CXSCREEN)), int(win.GetSystemMetrics(win.SM_CYSCREEN)))
}

// handlerFuncs adapts plain functions to surfaceHandler.
type handlerFuncs struct {
	onMouse func(kind mouseKind, local, global image.Point)
	onKey   func(vk uintptr)
	onTimer func(id uintptr)
}

func (h handlerFuncs) mouse(kind mouseKind, local, global image.Point) {
	if h.onMouse != nil {
		h.onMouse(kind, local, global)
	}
}

func (h handlerFuncs) key(vk uintptr) {
	if h.onKey != nil {
		h.onKey(vk)
	}
}

func (h handlerFuncs) timer(id uintptr) {
	if h.onTimer != nil {
		h.onTimer(id)
	}
}

var _ UI = (*Windows)(nil)
