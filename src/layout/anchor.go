// Package layout computes overlay widget geometry: the bottom-centered
// toolbar and the two navigation widgets that share one vertical anchor.
package layout

import (
	"fmt"
	"image"
	"strings"
)

// Margin is the gap between every widget and the screen edge.
const Margin = 20

// Anchor is the shared vertical slot of both navigation widgets.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorMiddle
	AnchorBottom
)

// Anchors lists every anchor in tie-break order.
var Anchors = [...]Anchor{AnchorTop, AnchorMiddle, AnchorBottom}

func (a Anchor) String() string {
	switch a {
	case AnchorTop:
		return "top"
	case AnchorMiddle:
		return "middle"
	case AnchorBottom:
		return "bottom"
	default:
		return fmt.Sprintf("anchor(%d)", int(a))
	}
}

// ParseAnchor accepts the names produced by String, case-insensitively.
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return AnchorTop, nil
	case "middle", "center":
		return AnchorMiddle, nil
	case "bottom":
		return AnchorBottom, nil
	default:
		return AnchorBottom, fmt.Errorf("unknown anchor %q", s)
	}
}

// Orientation is the internal button arrangement of a navigation widget.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// OrientationFor returns the arrangement used at anchor a: stacked at the
// middle slot, in a row at the top and bottom.
func OrientationFor(a Anchor) Orientation {
	if a == AnchorMiddle {
		return Vertical
	}
	return Horizontal
}

// Side is the screen edge a navigation widget is pinned to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// NavY returns the top edge of a navigation widget of height h at anchor a.
func NavY(a Anchor, screen image.Rectangle, h int) int {
	switch a {
	case AnchorTop:
		return screen.Min.Y + Margin
	case AnchorMiddle:
		return screen.Min.Y + max(Margin, (screen.Dy()-h)/2)
	default:
		return screen.Min.Y + max(Margin, screen.Dy()-h-Margin)
	}
}

// NavX returns the left edge of a navigation widget of width w on side.
func NavX(side Side, screen image.Rectangle, w int) int {
	if side == SideRight {
		return screen.Max.X - w - Margin
	}
	return screen.Min.X + Margin
}

// ClampNavY limits y to the vertical travel allowed while dragging.
func ClampNavY(y int, screen image.Rectangle, h int) int {
	lo := screen.Min.Y + Margin
	hi := max(lo, screen.Max.Y-h-Margin)
	return min(max(y, lo), hi)
}

// SlotCenters returns the vertical center of each anchor slot for a widget
// of height h, indexed like Anchors.
func SlotCenters(screen image.Rectangle, h int) [len(Anchors)]int {
	var out [len(Anchors)]int
	for i, a := range Anchors {
		out[i] = NavY(a, screen, h) + h/2
	}
	return out
}

// Resolve picks the anchor whose slot center is nearest to centerY. On a
// tie the earlier anchor in Anchors wins.
func Resolve(screen image.Rectangle, h, centerY int) Anchor {
	centers := SlotCenters(screen, h)
	best := Anchors[0]
	bestDist := abs(centerY - centers[0])
	for i := 1; i < len(Anchors); i++ {
		if d := abs(centerY - centers[i]); d < bestDist {
			best, bestDist = Anchors[i], d
		}
	}
	return best
}

// Placement is the full overlay geometry for one anchor and screen.
type Placement struct {
	Toolbar image.Rectangle
	Left    image.Rectangle
	Right   image.Rectangle
}

// ToolbarRect centers the toolbar horizontally, Margin above the bottom.
func ToolbarRect(screen image.Rectangle, size image.Point) image.Rectangle {
	x := screen.Min.X + (screen.Dx()-size.X)/2
	y := screen.Max.Y - size.Y - Margin
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+size.X, y+size.Y)}
}

// NavRect places a navigation widget of the given size on side at anchor a.
func NavRect(a Anchor, side Side, screen image.Rectangle, size image.Point) image.Rectangle {
	topLeft := image.Pt(NavX(side, screen, size.X), NavY(a, screen, size.Y))
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(size)}
}

// LayoutAll computes positions for the toolbar and both navigation widgets.
func LayoutAll(a Anchor, screen image.Rectangle, toolbar, leftNav, rightNav image.Point) Placement {
	return Placement{
		Toolbar: ToolbarRect(screen, toolbar),
		Left:    NavRect(a, SideLeft, screen, leftNav),
		Right:   NavRect(a, SideRight, screen, rightNav),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
