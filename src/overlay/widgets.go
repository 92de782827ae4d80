package overlay

import (
	"fmt"
	"image"
	"image/color"

	"kazuha/src/host"
	"kazuha/src/layout"
	"kazuha/src/messages"
)

const (
	buttonSize = 40
	buttonGap  = 6
	padding    = 8
	pageLength = 72
)

// ToolbarButton identifies a button on the bottom tool strip.
type ToolbarButton int

const (
	ButtonArrow ToolbarButton = iota
	ButtonPen
	ButtonEraser
	ButtonClear
	ButtonSpotlight
	ButtonExit
	buttonCount
)

var toolbarIcons = [buttonCount]string{iconArrow, iconPen, iconEraser, iconClear, iconSpotlight, iconExit}

// Message is what a click on b asks the loop to do.
func (b ToolbarButton) Message() messages.Message {
	switch b {
	case ButtonArrow:
		return messages.SetPointer{Pointer: host.PointerArrow}
	case ButtonPen:
		return messages.SetPointer{Pointer: host.PointerPen}
	case ButtonEraser:
		return messages.SetPointer{Pointer: host.PointerEraser}
	case ButtonClear:
		return messages.ClearInk{}
	case ButtonSpotlight:
		return messages.ToggleSpotlight{}
	default:
		return messages.ExitShow{}
	}
}

func (b ToolbarButton) pointer() (host.PointerType, bool) {
	switch b {
	case ButtonArrow:
		return host.PointerArrow, true
	case ButtonPen:
		return host.PointerPen, true
	case ButtonEraser:
		return host.PointerEraser, true
	}
	return 0, false
}

// Toolbar is the tool strip model. Pointer is the checked tool.
type Toolbar struct {
	Pointer host.PointerType
}

// Size is fixed; the toolbar never reflows.
func (Toolbar) Size() image.Point {
	n := int(buttonCount)
	return image.Pt(2*padding+n*buttonSize+(n-1)*buttonGap, 2*padding+buttonSize)
}

func (Toolbar) ButtonRect(b ToolbarButton) image.Rectangle {
	x := padding + int(b)*(buttonSize+buttonGap)
	return image.Rect(x, padding, x+buttonSize, padding+buttonSize)
}

// HitTest maps a point in toolbar coordinates to a button.
func (t Toolbar) HitTest(p image.Point) (ToolbarButton, bool) {
	for b := ButtonArrow; b < buttonCount; b++ {
		if p.In(t.ButtonRect(b)) {
			return b, true
		}
	}
	return 0, false
}

func (t Toolbar) Render() *image.RGBA {
	img := newCanvas(t.Size())
	fillRoundRect(img, img.Bounds(), panelRadius, colorPanel)
	for b := ButtonArrow; b < buttonCount; b++ {
		r := t.ButtonRect(b)
		bg := colorButton
		if p, ok := b.pointer(); ok && p == t.Pointer {
			bg = colorChecked
		} else if b == ButtonExit {
			bg = colorDanger
		}
		fillRoundRect(img, r, 6, bg)
		drawIcon(img, toolbarIcons[b], r.Inset(9), colorGlyph)
	}
	return img
}

// NavControl identifies a part of a navigation widget.
type NavControl int

const (
	NavPrev NavControl = iota
	NavPage
	NavNext
)

// Nav is a navigation widget model. The page label doubles as the drag
// handle; clicking it opens the slide picker.
type Nav struct {
	Orientation layout.Orientation
	Current     int
	Total       int
}

// Size depends on orientation.
func (n Nav) Size() image.Point {
	long := 2*padding + 2*buttonSize + pageLength + 2*buttonGap
	short := 2*padding + buttonSize
	if n.Orientation == layout.Vertical {
		return image.Pt(short, long)
	}
	return image.Pt(long, short)
}

func (n Nav) ControlRect(c NavControl) image.Rectangle {
	offsets := [...]int{0, buttonSize + buttonGap, buttonSize + pageLength + 2*buttonGap}
	lengths := [...]int{buttonSize, pageLength, buttonSize}
	start := padding + offsets[c]
	if n.Orientation == layout.Vertical {
		return image.Rect(padding, start, padding+buttonSize, start+lengths[c])
	}
	return image.Rect(start, padding, start+lengths[c], padding+buttonSize)
}

func (n Nav) HitTest(p image.Point) (NavControl, bool) {
	for c := NavPrev; c <= NavNext; c++ {
		if p.In(n.ControlRect(c)) {
			return c, true
		}
	}
	return 0, false
}

// PageLabel is "current/total", or "-" before the first poll.
func (n Nav) PageLabel() string {
	if n.Total <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", n.Current, n.Total)
}

func (n Nav) Render() *image.RGBA {
	img := newCanvas(n.Size())
	fillRoundRect(img, img.Bounds(), panelRadius, colorPanel)

	prev, next := iconLeft, iconRight
	if n.Orientation == layout.Vertical {
		prev, next = iconUp, iconDown
	}
	for _, b := range []struct {
		c    NavControl
		icon string
	}{{NavPrev, prev}, {NavNext, next}} {
		r := n.ControlRect(b.c)
		fillRoundRect(img, r, 6, colorButton)
		drawIcon(img, b.icon, r.Inset(8), colorGlyph)
	}
	page := n.ControlRect(NavPage)
	fillRoundRect(img, page, 6, colorButton)
	drawTextCentered(img, n.PageLabel(), page, colorGlyph)
	return img
}

const (
	pickerCols  = 10
	pickerCellW = 48
	pickerCellH = 36
)

// Picker is the slide grid opened by clicking a page label.
type Picker struct {
	Current int
	Total   int
}

func (p Picker) grid() (cols, rows int) {
	if p.Total <= 0 {
		return 1, 1
	}
	cols = min(p.Total, pickerCols)
	rows = (p.Total + pickerCols - 1) / pickerCols
	return cols, rows
}

func (p Picker) Size() image.Point {
	cols, rows := p.grid()
	return image.Pt(2*padding+cols*pickerCellW+(cols-1)*buttonGap, 2*padding+rows*pickerCellH+(rows-1)*buttonGap)
}

// CellRect returns the cell for 1-based slide i.
func (p Picker) CellRect(i int) image.Rectangle {
	col, row := (i-1)%pickerCols, (i-1)/pickerCols
	x := padding + col*(pickerCellW+buttonGap)
	y := padding + row*(pickerCellH+buttonGap)
	return image.Rect(x, y, x+pickerCellW, y+pickerCellH)
}

// HitTest returns the 1-based slide under pt.
func (p Picker) HitTest(pt image.Point) (int, bool) {
	for i := 1; i <= p.Total; i++ {
		if pt.In(p.CellRect(i)) {
			return i, true
		}
	}
	return 0, false
}

func (p Picker) Render() *image.RGBA {
	img := newCanvas(p.Size())
	fillRoundRect(img, img.Bounds(), panelRadius, colorPanel)
	for i := 1; i <= p.Total; i++ {
		r := p.CellRect(i)
		bg := colorButton
		if i == p.Current {
			bg = colorSelected
		}
		fillRoundRect(img, r, 6, bg)
		drawTextCentered(img, fmt.Sprint(i), r, colorGlyph)
	}
	return img
}

const swatchSize = 28

// Palette is the pen color strip shown above the pen button.
type Palette struct {
	Colors []color.RGBA
}

func (p Palette) Size() image.Point {
	n := max(len(p.Colors), 1)
	return image.Pt(2*padding+n*swatchSize+(n-1)*buttonGap, 2*padding+swatchSize)
}

func (p Palette) SwatchRect(i int) image.Rectangle {
	x := padding + i*(swatchSize+buttonGap)
	return image.Rect(x, padding, x+swatchSize, padding+swatchSize)
}

func (p Palette) HitTest(pt image.Point) (color.RGBA, bool) {
	for i, c := range p.Colors {
		if pt.In(p.SwatchRect(i)) {
			return c, true
		}
	}
	return color.RGBA{}, false
}

func (p Palette) Render() *image.RGBA {
	img := newCanvas(p.Size())
	fillRoundRect(img, img.Bounds(), panelRadius, colorPanel)
	for i, c := range p.Colors {
		r := p.SwatchRect(i)
		fillCircle(img, r, colorGlyph)
		fillCircle(img, r.Inset(2), c)
	}
	return img
}

// RenderToast draws a one-line warning bubble.
func RenderToast(msg string) *image.RGBA {
	img := newCanvas(ToastSize(msg))
	fillRoundRect(img, img.Bounds(), panelRadius, colorPanel)
	drawTextCentered(img, msg, img.Bounds(), colorGlyph)
	return img
}

func ToastSize(msg string) image.Point {
	return image.Pt(len(msg)*7+4*padding, 13+4*padding)
}

// Above centers a box of size s horizontally over r, gap pixels above it.
func Above(r image.Rectangle, s image.Point, gap int) image.Rectangle {
	x := r.Min.X + (r.Dx()-s.X)/2
	y := r.Min.Y - gap - s.Y
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+s.X, y+s.Y)}
}

// Centered centers a box of size s on screen.
func Centered(screen image.Rectangle, s image.Point) image.Rectangle {
	x := screen.Min.X + (screen.Dx()-s.X)/2
	y := screen.Min.Y + (screen.Dy()-s.Y)/2
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+s.X, y+s.Y)}
}
