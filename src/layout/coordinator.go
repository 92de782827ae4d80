package layout

import (
	"image"
	"log"
	"time"
)

// NavTarget is a navigation widget as seen by the coordinator. Its size
// depends on the orientation it was last given.
type NavTarget interface {
	SetOrientation(Orientation)
	SizeHint() image.Point
	SetGeometry(image.Rectangle)
}

// ToolbarTarget is the bottom-centered tool strip.
type ToolbarTarget interface {
	SizeHint() image.Point
	SetGeometry(image.Rectangle)
}

// ReleaseKind says how a press on a navigation widget ended.
type ReleaseKind int

const (
	ReleaseNone ReleaseKind = iota
	ReleaseClick
	ReleaseDrag
)

// Release is the outcome of a press-release on a navigation widget.
type Release struct {
	Kind   ReleaseKind
	Side   Side
	Anchor Anchor
}

// Coordinator owns the anchor shared by both navigation widgets and applies
// geometry to its render targets. All methods must be called from the
// goroutine that owns the overlay.
type Coordinator struct {
	screen  image.Rectangle
	anchor  Anchor
	toolbar ToolbarTarget
	navs    [2]NavTarget
	current Placement
	drag    *DragSession

	now            func() time.Time
	onAnchorChange func(Anchor)
}

// NewCoordinator wires targets for the given screen and starting anchor.
// The targets receive no geometry until LayoutAll or SetAnchor is called.
func NewCoordinator(screen image.Rectangle, anchor Anchor, toolbar ToolbarTarget, left, right NavTarget) *Coordinator {
	return &Coordinator{
		screen:  screen,
		anchor:  anchor,
		toolbar: toolbar,
		navs:    [2]NavTarget{left, right},
		now:     time.Now,
	}
}

// SetClock replaces the time source used for long-press detection.
func (c *Coordinator) SetClock(now func() time.Time) { c.now = now }

// OnAnchorChange registers fn to run when a drag snaps to a new anchor.
func (c *Coordinator) OnAnchorChange(fn func(Anchor)) { c.onAnchorChange = fn }

func (c *Coordinator) Anchor() Anchor { return c.anchor }

func (c *Coordinator) Screen() image.Rectangle { return c.screen }

// Placement returns the geometry last applied to the targets.
func (c *Coordinator) Placement() Placement { return c.current }

// SetScreen updates the screen geometry; call LayoutAll to apply it.
func (c *Coordinator) SetScreen(r image.Rectangle) { c.screen = r }

// SetAnchor switches both navigation widgets to a, reflows their
// orientation and recomputes geometry from the re-measured sizes.
func (c *Coordinator) SetAnchor(a Anchor) Placement {
	c.anchor = a
	return c.LayoutAll()
}

// LayoutAll applies the current anchor to every target.
func (c *Coordinator) LayoutAll() Placement {
	o := OrientationFor(c.anchor)
	for _, n := range c.navs {
		n.SetOrientation(o)
	}
	// Sizes are read after the reflow: orientation changes them.
	p := LayoutAll(c.anchor, c.screen, c.toolbar.SizeHint(), c.navs[SideLeft].SizeHint(), c.navs[SideRight].SizeHint())
	c.apply(p)
	return p
}

func (c *Coordinator) apply(p Placement) {
	if p.Toolbar != c.current.Toolbar {
		c.toolbar.SetGeometry(p.Toolbar)
	}
	if p.Left != c.current.Left {
		c.navs[SideLeft].SetGeometry(p.Left)
	}
	if p.Right != c.current.Right {
		c.navs[SideRight].SetGeometry(p.Right)
	}
	c.current = p
}

func (c *Coordinator) rect(side Side) image.Rectangle {
	if side == SideRight {
		return c.current.Right
	}
	return c.current.Left
}

// Press starts a drag session on side with the pointer at global.
func (c *Coordinator) Press(side Side, global image.Point) {
	c.drag = BeginDrag(side, global, c.rect(side).Min, c.now())
}

// Move feeds a pointer move. Once the drag is confirmed both widgets slide
// together so they stay level.
func (c *Coordinator) Move(global image.Point) {
	if c.drag == nil {
		return
	}
	size := c.rect(c.drag.Side).Size()
	pos, ok := c.drag.Update(global, c.now(), c.screen, size)
	if !ok {
		return
	}
	c.moveLevel(pos.Y)
}

func (c *Coordinator) moveLevel(y int) {
	p := c.current
	p.Left = image.Rectangle{Min: image.Pt(p.Left.Min.X, y), Max: image.Pt(p.Left.Max.X, y+p.Left.Dy())}
	p.Right = image.Rectangle{Min: image.Pt(p.Right.Min.X, y), Max: image.Pt(p.Right.Max.X, y+p.Right.Dy())}
	c.apply(p)
}

// Release ends the press. A confirmed drag snaps both widgets to the
// nearest anchor; anything else is reported as a click.
func (c *Coordinator) Release(global image.Point) Release {
	s := c.drag
	c.drag = nil
	if s == nil {
		return Release{Kind: ReleaseNone, Anchor: c.anchor}
	}

	size := c.rect(s.Side).Size()
	pos, dragged := s.Finish(global, c.now(), c.screen, size)
	if !dragged {
		return Release{Kind: ReleaseClick, Side: s.Side, Anchor: c.anchor}
	}

	c.moveLevel(pos.Y)
	resolved := Resolve(c.screen, size.Y, pos.Y+size.Y/2)
	prev := c.anchor
	c.SetAnchor(resolved)
	log.Printf("layout: drag on %s nav snapped to %s", s.Side, resolved)
	if resolved != prev && c.onAnchorChange != nil {
		c.onAnchorChange(resolved)
	}
	return Release{Kind: ReleaseDrag, Side: s.Side, Anchor: resolved}
}

// Dragging reports whether a press is in progress.
func (c *Coordinator) Dragging() bool { return c.drag != nil }
