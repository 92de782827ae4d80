//go:build windows

package updater

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

// SilentInstaller runs the installer in silent mode via the shell so an
// elevation prompt can appear.
type SilentInstaller struct{}

func (SilentInstaller) Install(_ context.Context, path string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	args, err := windows.UTF16PtrFromString("/S")
	if err != nil {
		return err
	}
	if err := windows.ShellExecute(0, verb, file, args, nil, windows.SW_HIDE); err != nil {
		return fmt.Errorf("launch installer: %w", err)
	}
	return nil
}
