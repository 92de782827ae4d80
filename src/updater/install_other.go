//go:build !windows

package updater

import (
	"context"
	"fmt"
	"os/exec"
)

// SilentInstaller starts the installer with the silent flag and does not
// wait for it.
type SilentInstaller struct{}

func (SilentInstaller) Install(_ context.Context, path string) error {
	cmd := exec.Command(path, "/S")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch installer: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
