package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kazuha/src/host"
	"kazuha/src/layout"
	"kazuha/src/messages"
)

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestToolbarHitTest(t *testing.T) {
	tb := Toolbar{}
	for b := ButtonArrow; b < buttonCount; b++ {
		got, ok := tb.HitTest(center(tb.ButtonRect(b)))
		require.True(t, ok)
		assert.Equal(t, b, got)
	}
	_, ok := tb.HitTest(image.Pt(1, 1))
	assert.False(t, ok, "padding is not a button")
}

func TestToolbarButtonMessages(t *testing.T) {
	tests := []struct {
		button ToolbarButton
		want   messages.Message
	}{
		{ButtonArrow, messages.SetPointer{Pointer: host.PointerArrow}},
		{ButtonPen, messages.SetPointer{Pointer: host.PointerPen}},
		{ButtonEraser, messages.SetPointer{Pointer: host.PointerEraser}},
		{ButtonClear, messages.ClearInk{}},
		{ButtonSpotlight, messages.ToggleSpotlight{}},
		{ButtonExit, messages.ExitShow{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.button.Message())
	}
}

func TestNavSizeFollowsOrientation(t *testing.T) {
	h := Nav{Orientation: layout.Horizontal}.Size()
	v := Nav{Orientation: layout.Vertical}.Size()
	assert.Equal(t, h.X, v.Y)
	assert.Equal(t, h.Y, v.X)
	assert.Greater(t, h.X, h.Y)

	for _, o := range []layout.Orientation{layout.Horizontal, layout.Vertical} {
		n := Nav{Orientation: o}
		bounds := image.Rectangle{Max: n.Size()}
		for c := NavPrev; c <= NavNext; c++ {
			assert.True(t, n.ControlRect(c).In(bounds), "control %d inside widget", c)
		}
	}
}

func TestNavPageLabel(t *testing.T) {
	assert.Equal(t, "-", Nav{}.PageLabel())
	assert.Equal(t, "3/12", Nav{Current: 3, Total: 12}.PageLabel())
}

func TestPickerGrid(t *testing.T) {
	p := Picker{Current: 2, Total: 23}
	size := p.Size()
	assert.Equal(t, 2*padding+10*pickerCellW+9*buttonGap, size.X)
	assert.Equal(t, 2*padding+3*pickerCellH+2*buttonGap, size.Y)

	i, ok := p.HitTest(center(p.CellRect(23)))
	require.True(t, ok)
	assert.Equal(t, 23, i)

	i, ok = p.HitTest(center(p.CellRect(11)))
	require.True(t, ok)
	assert.Equal(t, 11, i)

	_, ok = p.HitTest(center(p.CellRect(24)))
	assert.False(t, ok, "cells past the last slide are empty")
}

func TestPaletteHitTest(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	p := Palette{Colors: []color.RGBA{red, blue}}

	c, ok := p.HitTest(center(p.SwatchRect(1)))
	require.True(t, ok)
	assert.Equal(t, blue, c)

	_, ok = p.HitTest(image.Pt(0, 0))
	assert.False(t, ok)
}

func TestRenderSizes(t *testing.T) {
	assert.Equal(t, Toolbar{}.Size(), Toolbar{Pointer: host.PointerPen}.Render().Bounds().Size())
	n := Nav{Orientation: layout.Vertical, Current: 1, Total: 5}
	assert.Equal(t, n.Size(), n.Render().Bounds().Size())
	p := Picker{Current: 1, Total: 5}
	assert.Equal(t, p.Size(), p.Render().Bounds().Size())
	assert.Equal(t, ToastSize("hi"), RenderToast("hi").Bounds().Size())
}

func TestToolbarRenderMarksCheckedTool(t *testing.T) {
	tb := Toolbar{Pointer: host.PointerEraser}
	img := tb.Render()
	r := tb.ButtonRect(ButtonEraser)
	// Sample the button corner area, away from the icon.
	got := img.RGBAAt(r.Min.X+4, r.Min.Y+r.Dy()/2)
	assert.Greater(t, got.G, uint8(150))
	assert.Less(t, got.R, uint8(40))

	plain := img.RGBAAt(tb.ButtonRect(ButtonArrow).Min.X+4, r.Min.Y+r.Dy()/2)
	assert.Less(t, plain.G, uint8(100))
}

func TestNavInputClickOnButtons(t *testing.T) {
	n := Nav{Current: 1, Total: 3}
	in := navInput{side: layout.SideLeft}

	next := center(n.ControlRect(NavNext))
	msgs, capture := in.press(n, next, image.Pt(500, 500))
	assert.True(t, capture)
	assert.Empty(t, msgs)
	assert.Empty(t, in.move(image.Pt(501, 500)), "button presses do not drag")
	assert.Equal(t, []messages.Message{messages.NextSlide{}}, in.release(n, next, image.Pt(501, 500)))

	prev := center(n.ControlRect(NavPrev))
	in.press(n, prev, image.Point{})
	assert.Equal(t, []messages.Message{messages.PrevSlide{}}, in.release(n, prev, image.Point{}))
}

func TestNavInputReleaseOutsideCancels(t *testing.T) {
	n := Nav{}
	in := navInput{}
	in.press(n, center(n.ControlRect(NavNext)), image.Point{})
	assert.Empty(t, in.release(n, center(n.ControlRect(NavPrev)), image.Point{}))
}

func TestNavInputPageForwardsRawEvents(t *testing.T) {
	n := Nav{Orientation: layout.Vertical}
	in := navInput{side: layout.SideRight}
	page := center(n.ControlRect(NavPage))

	msgs, capture := in.press(n, page, image.Pt(1800, 540))
	require.True(t, capture)
	assert.Equal(t, []messages.Message{messages.NavPress{Side: layout.SideRight, Point: image.Pt(1800, 540)}}, msgs)
	assert.Equal(t, []messages.Message{messages.NavMove{Point: image.Pt(1800, 300)}}, in.move(image.Pt(1800, 300)))
	assert.Equal(t, []messages.Message{messages.NavRelease{Point: image.Pt(1800, 200)}}, in.release(n, image.Pt(-5, -5), image.Pt(1800, 200)))
	assert.Empty(t, in.move(image.Pt(1800, 100)), "no moves after release")
}

func TestNavInputPressOutsideControls(t *testing.T) {
	n := Nav{}
	in := navInput{}
	msgs, capture := in.press(n, image.Pt(1, 1), image.Point{})
	assert.False(t, capture)
	assert.Empty(t, msgs)
	assert.Empty(t, in.release(n, image.Pt(1, 1), image.Point{}))
}

func TestButtonInput(t *testing.T) {
	tb := Toolbar{}
	var in buttonInput

	require.True(t, in.press(tb, center(tb.ButtonRect(ButtonClear))))
	b, ok := in.release(tb, center(tb.ButtonRect(ButtonClear)))
	require.True(t, ok)
	assert.Equal(t, ButtonClear, b)

	in.press(tb, center(tb.ButtonRect(ButtonClear)))
	_, ok = in.release(tb, center(tb.ButtonRect(ButtonExit)))
	assert.False(t, ok, "sliding off a button cancels it")
}

func TestPopupPlacement(t *testing.T) {
	anchor := image.Rect(100, 1000, 140, 1040)
	r := Above(anchor, image.Pt(60, 20), 8)
	assert.Equal(t, image.Rect(90, 972, 150, 992), r)

	c := Centered(image.Rect(0, 0, 1920, 1080), image.Pt(100, 50))
	assert.Equal(t, image.Rect(910, 515, 1010, 565), c)
}

type recordingPoster struct{ msgs []messages.Message }

func (p *recordingPoster) Post(m messages.Message) { p.msgs = append(p.msgs, m) }

func TestHeadless(t *testing.T) {
	p := &recordingPoster{}
	h := NewHeadless(p)

	coord := layout.NewCoordinator(image.Rect(0, 0, 1920, 1080), layout.AnchorMiddle, h.Toolbar(), h.Nav(layout.SideLeft), h.Nav(layout.SideRight))
	coord.LayoutAll()
	left := h.navs[layout.SideLeft].geometry
	assert.Equal(t, Nav{Orientation: layout.Vertical}.Size(), left.Size())
	assert.Equal(t, layout.Margin, left.Min.X)

	h.Show()
	assert.True(t, h.Visible())
	h.Hide()
	assert.False(t, h.Visible())

	h.ShowSpotlight(image.Rect(0, 0, 10, 10))
	assert.Equal(t, []messages.Message{messages.SpotlightClosed{}}, p.msgs)
}
