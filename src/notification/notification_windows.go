//go:build windows

package notification

import (
	"log"

	"golang.org/x/sys/windows"
)

const (
	mbOK              = 0x00000000
	mbIconError       = 0x00000010
	mbIconInformation = 0x00000040
	mbSystemModal     = 0x00001000
	mbSetForeground   = 0x00010000
	mbTopMost         = 0x00040000
)

// show runs the message box on its own goroutine so the caller, usually
// the event loop, keeps polling.
func show(caption, text string, isError bool) {
	go func() {
		icon := uint32(mbIconInformation)
		if isError {
			icon = mbIconError
		}
		if _, err := messageBox(caption, text, mbOK|icon|mbSetForeground|mbTopMost); err != nil {
			log.Printf("notification: MessageBox: %v", err)
		}
	}()
}

// ShowBlockingError displays a modal error dialog and returns after the
// user dismisses it.
func ShowBlockingError(title, message string) {
	if _, err := messageBox(title, message, mbOK|mbIconError|mbSystemModal); err != nil {
		log.Printf("notification: MessageBox: %v", err)
	}
}

func messageBox(caption, text string, flags uint32) (int32, error) {
	c, err := windows.UTF16PtrFromString(caption)
	if err != nil {
		return 0, err
	}
	t, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return 0, err
	}
	return windows.MessageBox(0, t, c, flags)
}
