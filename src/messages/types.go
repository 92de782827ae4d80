package messages

import (
	"image"
	"image/color"

	"kazuha/src/host"
	"kazuha/src/layout"
)

// Message is the base interface for everything posted into the event loop
// by the overlay windows, the tray and the hotkey listener.
type Message interface {
	Type() string
}

// MessageType constants for type identification
const (
	TypeNextSlide       = "NextSlide"
	TypePrevSlide       = "PrevSlide"
	TypeGotoSlide       = "GotoSlide"
	TypeSetPointer      = "SetPointer"
	TypeSetPenColor     = "SetPenColor"
	TypeClearInk        = "ClearInk"
	TypeExitShow        = "ExitShow"
	TypeToggleSpotlight = "ToggleSpotlight"
	TypeSpotlightClosed = "SpotlightClosed"
	TypeNavPress        = "NavPress"
	TypeNavMove         = "NavMove"
	TypeNavRelease      = "NavRelease"
	TypeSetAnchor       = "SetAnchor"
	TypeCheckUpdates    = "CheckUpdates"
	TypeInstallUpdate   = "InstallUpdate"
	TypeCopyVersion     = "CopyVersion"
	TypeQuit            = "Quit"
)

// NextSlide - sent by a navigation widget's forward button
type NextSlide struct{}

func (m NextSlide) Type() string { return TypeNextSlide }

// PrevSlide - sent by a navigation widget's back button
type PrevSlide struct{}

func (m PrevSlide) Type() string { return TypePrevSlide }

// GotoSlide - sent by the slide picker; Index is 1-based
type GotoSlide struct {
	Index int
}

func (m GotoSlide) Type() string { return TypeGotoSlide }

// SetPointer - sent by the toolbar's arrow/pen/eraser buttons
type SetPointer struct {
	Pointer host.PointerType
}

func (m SetPointer) Type() string { return TypeSetPointer }

// SetPenColor - sent by the pen palette
type SetPenColor struct {
	Color color.RGBA
}

func (m SetPenColor) Type() string { return TypeSetPenColor }

// ClearInk - sent by the toolbar's clear button
type ClearInk struct{}

func (m ClearInk) Type() string { return TypeClearInk }

// ExitShow - sent by the toolbar's exit button
type ExitShow struct{}

func (m ExitShow) Type() string { return TypeExitShow }

// ToggleSpotlight - sent by the toolbar, the tray and the hotkey
type ToggleSpotlight struct{}

func (m ToggleSpotlight) Type() string { return TypeToggleSpotlight }

// SpotlightClosed - sent by the spotlight window after the user dismissed it
type SpotlightClosed struct{}

func (m SpotlightClosed) Type() string { return TypeSpotlightClosed }

// NavPress - primary press on the drag area of a navigation widget
type NavPress struct {
	Side  layout.Side
	Point image.Point // screen coordinates
}

func (m NavPress) Type() string { return TypeNavPress }

// NavMove - pointer move while a navigation widget holds the capture
type NavMove struct {
	Point image.Point
}

func (m NavMove) Type() string { return TypeNavMove }

// NavRelease - primary release ending a NavPress
type NavRelease struct {
	Point image.Point
}

func (m NavRelease) Type() string { return TypeNavRelease }

// SetAnchor - sent by the tray's navigation position menu
type SetAnchor struct {
	Anchor layout.Anchor
}

func (m SetAnchor) Type() string { return TypeSetAnchor }

// CheckUpdates - sent by the tray
type CheckUpdates struct{}

func (m CheckUpdates) Type() string { return TypeCheckUpdates }

// InstallUpdate - sent by the tray once an update was announced
type InstallUpdate struct{}

func (m InstallUpdate) Type() string { return TypeInstallUpdate }

// CopyVersion - sent by the tray to copy version diagnostics
type CopyVersion struct{}

func (m CopyVersion) Type() string { return TypeCopyVersion }

// Quit - sent by the tray's exit item
type Quit struct{}

func (m Quit) Type() string { return TypeQuit }
