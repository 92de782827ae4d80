//go:build windows

package main

import (
	"log"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

const processPerMonitorDPIAware = 2

// enableDPIAwareness makes overlay coordinates physical pixels so the nav
// widgets line up with the slideshow window on scaled displays.
func enableDPIAwareness() {
	proc := windows.NewLazySystemDLL("shcore.dll").NewProc("SetProcessDpiAwareness")
	if err := proc.Find(); err == nil {
		if ret, _, _ := proc.Call(processPerMonitorDPIAware); ret == 0 {
			log.Printf("main: per-monitor DPI awareness enabled")
			return
		}
	}
	if win.SetProcessDPIAware() {
		log.Printf("main: system DPI awareness enabled")
		return
	}
	log.Printf("main: no DPI awareness set")
}

func logMonitorConfiguration() {
	log.Printf("main: %d monitor(s), virtual screen %dx%d at (%d,%d), primary %dx%d",
		win.GetSystemMetrics(win.SM_CMONITORS),
		win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN), win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN),
		win.GetSystemMetrics(win.SM_XVIRTUALSCREEN), win.GetSystemMetrics(win.SM_YVIRTUALSCREEN),
		win.GetSystemMetrics(win.SM_CXSCREEN), win.GetSystemMetrics(win.SM_CYSCREEN))
}
