package layout

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNav reflows like the real widget: a row when horizontal, a column
// when vertical.
type fakeNav struct {
	orientation Orientation
	geometry    image.Rectangle
	setCalls    int
}

func (f *fakeNav) SetOrientation(o Orientation) { f.orientation = o }

func (f *fakeNav) SizeHint() image.Point {
	if f.orientation == Vertical {
		return image.Pt(60, 220)
	}
	return image.Pt(220, 60)
}

func (f *fakeNav) SetGeometry(r image.Rectangle) {
	f.geometry = r
	f.setCalls++
}

type fakeToolbar struct {
	geometry image.Rectangle
	setCalls int
}

func (f *fakeToolbar) SizeHint() image.Point { return image.Pt(400, 56) }

func (f *fakeToolbar) SetGeometry(r image.Rectangle) {
	f.geometry = r
	f.setCalls++
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCoordinator(a Anchor) (*Coordinator, *fakeNav, *fakeNav, *fakeToolbar, *fakeClock) {
	left, right, tb := &fakeNav{}, &fakeNav{}, &fakeToolbar{}
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewCoordinator(fullHD, a, tb, left, right)
	c.SetClock(clock.now)
	c.LayoutAll()
	return c, left, right, tb, clock
}

func TestDragSessionClickVersusDrag(t *testing.T) {
	start := time.Unix(0, 0)
	size := image.Pt(220, 60)

	click := BeginDrag(SideLeft, image.Pt(100, 1030), image.Pt(20, 1000), start)
	_, dragged := click.Finish(image.Pt(101, 1030), start.Add(150*time.Millisecond), fullHD, size)
	assert.False(t, dragged, "150ms / 1px must be a click")

	drag := BeginDrag(SideLeft, image.Pt(100, 1030), image.Pt(20, 1000), start)
	pos, dragged := drag.Finish(image.Pt(100, 1020), start.Add(400*time.Millisecond), fullHD, size)
	assert.True(t, dragged, "400ms / 10px must be a drag")
	assert.Equal(t, image.Pt(20, 990), pos)
}

func TestDragSessionNeedsBothTimeAndDistance(t *testing.T) {
	start := time.Unix(0, 0)
	size := image.Pt(220, 60)

	fast := BeginDrag(SideLeft, image.Pt(0, 500), image.Pt(20, 470), start)
	_, ok := fast.Update(image.Pt(0, 200), start.Add(100*time.Millisecond), fullHD, size)
	assert.False(t, ok, "far but too early")

	still := BeginDrag(SideLeft, image.Pt(0, 500), image.Pt(20, 470), start)
	_, ok = still.Update(image.Pt(2, 501), start.Add(time.Second), fullHD, size)
	assert.False(t, ok, "late but within slop")

	edge := BeginDrag(SideLeft, image.Pt(0, 500), image.Pt(20, 470), start)
	_, ok = edge.Update(image.Pt(2, 502), start.Add(LongPress), fullHD, size)
	assert.True(t, ok, "exactly 300ms and 4px")
}

func TestDragSessionPinsSideAndClamps(t *testing.T) {
	start := time.Unix(0, 0)
	size := image.Pt(220, 60)
	s := BeginDrag(SideRight, image.Pt(1800, 500), image.Pt(1680, 470), start)

	pos, ok := s.Update(image.Pt(900, -4000), start.Add(time.Second), fullHD, size)
	require.True(t, ok)
	assert.Equal(t, image.Pt(1680, Margin), pos)

	pos, ok = s.Update(image.Pt(0, 4000), start.Add(2*time.Second), fullHD, size)
	require.True(t, ok)
	assert.Equal(t, image.Pt(1680, 1000), pos)
}

func TestCoordinatorClickDoesNotMove(t *testing.T) {
	c, left, right, _, clock := newTestCoordinator(AnchorBottom)
	before := c.Placement()

	c.Press(SideRight, image.Pt(1700, 1030))
	clock.advance(150 * time.Millisecond)
	c.Move(image.Pt(1701, 1030))
	res := c.Release(image.Pt(1701, 1030))

	assert.Equal(t, ReleaseClick, res.Kind)
	assert.Equal(t, SideRight, res.Side)
	assert.Equal(t, before, c.Placement())
	assert.Equal(t, 1, left.setCalls)
	assert.Equal(t, 1, right.setCalls)
}

func TestCoordinatorDragSnapsBothWidgets(t *testing.T) {
	c, left, right, _, clock := newTestCoordinator(AnchorBottom)
	var persisted []Anchor
	c.OnAnchorChange(func(a Anchor) { persisted = append(persisted, a) })

	// Left widget at y=1000 (center 1030); drag it up by 530 so its center
	// lands at 500, closest to the middle slot.
	c.Press(SideLeft, image.Pt(100, 1030))
	clock.advance(400 * time.Millisecond)
	c.Move(image.Pt(100, 700))
	assert.Equal(t, left.geometry.Min.Y, right.geometry.Min.Y, "widgets stay level mid-drag")
	res := c.Release(image.Pt(100, 500))

	require.Equal(t, ReleaseDrag, res.Kind)
	assert.Equal(t, AnchorMiddle, res.Anchor)
	assert.Equal(t, AnchorMiddle, c.Anchor())
	assert.Equal(t, []Anchor{AnchorMiddle}, persisted)

	// Middle reflows to vertical; y comes from the re-measured height.
	assert.Equal(t, Vertical, left.orientation)
	assert.Equal(t, Vertical, right.orientation)
	wantY := NavY(AnchorMiddle, fullHD, 220)
	assert.Equal(t, image.Rect(20, wantY, 80, wantY+220), left.geometry)
	assert.Equal(t, image.Rect(1840, wantY, 1900, wantY+220), right.geometry)
}

func TestCoordinatorDragFromRightMovesLeftToo(t *testing.T) {
	c, left, right, _, clock := newTestCoordinator(AnchorBottom)

	c.Press(SideRight, image.Pt(1800, 1030))
	clock.advance(500 * time.Millisecond)
	res := c.Release(image.Pt(1800, 10))

	require.Equal(t, ReleaseDrag, res.Kind)
	assert.Equal(t, AnchorTop, res.Anchor)
	assert.Equal(t, Horizontal, left.orientation)
	assert.Equal(t, image.Rect(20, 20, 240, 80), left.geometry)
	assert.Equal(t, image.Rect(1680, 20, 1900, 80), right.geometry)
}

func TestCoordinatorDragBackToSameAnchorDoesNotPersist(t *testing.T) {
	c, _, _, _, clock := newTestCoordinator(AnchorBottom)
	calls := 0
	c.OnAnchorChange(func(Anchor) { calls++ })

	c.Press(SideLeft, image.Pt(100, 1030))
	clock.advance(time.Second)
	res := c.Release(image.Pt(100, 1000))

	assert.Equal(t, ReleaseDrag, res.Kind)
	assert.Equal(t, AnchorBottom, res.Anchor)
	assert.Zero(t, calls)
}

func TestCoordinatorLayoutAllIsIdempotent(t *testing.T) {
	c, left, right, tb, _ := newTestCoordinator(AnchorTop)
	first := c.Placement()
	for i := 0; i < 5; i++ {
		c.LayoutAll()
	}
	assert.Equal(t, first, c.Placement())
	assert.Equal(t, 1, left.setCalls)
	assert.Equal(t, 1, right.setCalls)
	assert.Equal(t, 1, tb.setCalls)
}

func TestCoordinatorReleaseWithoutPress(t *testing.T) {
	c, _, _, _, _ := newTestCoordinator(AnchorTop)
	res := c.Release(image.Pt(5, 5))
	assert.Equal(t, ReleaseNone, res.Kind)
	assert.Equal(t, AnchorTop, res.Anchor)
}
