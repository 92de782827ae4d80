package updater

import "fmt"

// Event is delivered on Manager.Events. Consumers switch on the concrete
// type or on Type().
type Event interface {
	Type() string
}

const (
	TypeUpdateAvailable = "update_available"
	TypeProgress        = "progress"
	TypeFailed          = "error"
	TypeCompleted       = "complete"
	TypeCheckFinished   = "check_finished"
)

// UpdateAvailable carries a release strictly newer than the local build.
type UpdateAvailable struct {
	Version string
	Code    BuildCode
	Name    string
	Body    string
	Assets  []Asset
}

func (UpdateAvailable) Type() string { return TypeUpdateAvailable }

// Progress reports download completion in percent. It is only sent when
// the server announced a content length.
type Progress struct {
	Percent int
}

func (Progress) Type() string { return TypeProgress }

// Failed is the single terminal error of a check or download.
type Failed struct {
	Op      string
	Message string
}

func (Failed) Type() string { return TypeFailed }

func (f Failed) String() string { return fmt.Sprintf("%s: %s", f.Op, f.Message) }

// Completed means the installer was launched.
type Completed struct {
	Path string
}

func (Completed) Type() string { return TypeCompleted }

// CheckFinished ends every check, whatever its outcome.
type CheckFinished struct {
	Found bool
	Err   error
}

func (CheckFinished) Type() string { return TypeCheckFinished }
