//go:build !windows

package host

import "errors"

var errUnsupported = errors.New("presentation automation is only available on Windows")

// PowerPoint is a placeholder accessor on platforms without COM automation.
type PowerPoint struct{}

// NewPowerPoint returns an accessor that never finds a slideshow.
func NewPowerPoint() (*PowerPoint, error) { return &PowerPoint{}, nil }

func (p *PowerPoint) AcquireView() (View, bool) {
	return guardAcquire(func() (View, error) { return nil, errUnsupported })
}

// Close is a no-op on this platform.
func (p *PowerPoint) Close() {}
