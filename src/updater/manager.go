// Package updater checks for new releases and installs them.
//
// Checks and downloads run on background goroutines. Results reach the
// caller only through Events; nothing is returned synchronously except
// the task handle.
package updater

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"kazuha/src/worker"
)

// State is the update pipeline state.
type State int

const (
	Idle State = iota
	Checking
	UpdateAvailableState
	Downloading
	Verifying
	Installing
	FailedState
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case UpdateAvailableState:
		return "update-available"
	case Downloading:
		return "downloading"
	case Verifying:
		return "verifying"
	case Installing:
		return "installing"
	case FailedState:
		return "failed"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const userAgent = "kazuha-updater"

// Options configures a Manager. Zero fields take the defaults below.
type Options struct {
	Owner           string
	Repo            string
	VersionFile     string
	APIBase         string
	APIMirrors      []string
	FeedBase        string
	FeedMirrors     []string
	DownloadProxies []string
	DownloadHosts   []string
	Attempts        int
	RetryDelay      time.Duration
	CheckTimeout    time.Duration
	DownloadTimeout time.Duration
	TempDir         string
	Installer       Installer
	Now             func() time.Time
}

func (o *Options) setDefaults() {
	if o.Owner == "" {
		o.Owner = "Haraguse"
	}
	if o.Repo == "" {
		o.Repo = "Kazuha"
	}
	if o.APIBase == "" {
		o.APIBase = "https://api.github.com"
	}
	if o.FeedBase == "" {
		o.FeedBase = "https://github.com"
	}
	if o.Attempts <= 0 {
		o.Attempts = 2
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = time.Second
	}
	if o.CheckTimeout <= 0 {
		o.CheckTimeout = 10 * time.Second
	}
	if o.DownloadTimeout <= 0 {
		o.DownloadTimeout = 20 * time.Second
	}
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.Installer == nil {
		o.Installer = SilentInstaller{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Manager runs the check-download-verify-install pipeline. At most one
// check and one download run at a time.
type Manager struct {
	opts   Options
	api    *http.Client
	dl     *http.Client
	events chan Event

	checks    *worker.Runner
	downloads *worker.Runner

	mu     sync.Mutex
	state  State
	local  VersionInfo
	latest *Release
}

// New builds a Manager and loads the local version file.
func New(opts Options) *Manager {
	opts.setDefaults()
	dialer := &net.Dialer{Timeout: opts.DownloadTimeout}
	return &Manager{
		opts: opts,
		api:  &http.Client{Timeout: opts.CheckTimeout},
		dl: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   opts.DownloadTimeout,
			ResponseHeaderTimeout: opts.DownloadTimeout,
		}},
		events:    make(chan Event, 64),
		checks:    worker.NewRunner("update-check"),
		downloads: worker.NewRunner("update-download"),
		local:     LoadVersionInfo(opts.VersionFile),
	}
}

// Events delivers pipeline events. The channel is never closed.
func (m *Manager) Events() <-chan Event { return m.events }

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	prev := m.state
	m.state = s
	m.mu.Unlock()
	if prev != s {
		log.Printf("update: %s -> %s", prev, s)
	}
}

// Local returns the persisted local version record.
func (m *Manager) Local() VersionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.local
}

// Latest returns the newest release announced by UpdateAvailable, if any.
func (m *Manager) Latest() (Release, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return Release{}, false
	}
	return *m.latest, true
}

func (m *Manager) emit(ev Event) { m.events <- ev }

// emitProgress drops the update when the consumer lags; progress is
// advisory and the next one supersedes it.
func (m *Manager) emitProgress(p int) {
	select {
	case m.events <- Progress{Percent: p}:
	default:
	}
}

// CheckForUpdates starts a background check. It returns worker.ErrBusy if
// a check is already running. Exactly one CheckFinished is emitted per
// started check, after any UpdateAvailable or Failed event.
func (m *Manager) CheckForUpdates(ctx context.Context) (*worker.Task, error) {
	var found bool
	return m.checks.Go(ctx, func(ctx context.Context) error {
		var err error
		found, err = m.check(ctx)
		return err
	}, func(err error) {
		if err != nil {
			m.setState(FailedState)
			m.emit(Failed{Op: "check", Message: err.Error()})
		}
		m.emit(CheckFinished{Found: found, Err: err})
	})
}

func (m *Manager) check(ctx context.Context) (bool, error) {
	m.setState(Checking)
	rel, err := m.fetchLatest(ctx)
	if err != nil {
		return false, err
	}
	m.recordCheck(rel)
	return m.handleRelease(rel), nil
}

// handleRelease is the single comparison routine every source feeds into.
// It reports whether rel is strictly newer than the local build.
func (m *Manager) handleRelease(rel *Release) bool {
	code, ok := ParseBuildCode(rel.Name, rel.TagName)
	local := m.Local().VersionCode
	if !ok {
		log.Printf("update: release %q/%q carries no build code; treating as no update", rel.Name, rel.TagName)
		m.setState(Idle)
		return false
	}
	rel.Code = code
	if code <= local {
		log.Printf("update: no new version. remote=%d local=%d", code, local)
		m.setState(Idle)
		return false
	}

	m.mu.Lock()
	cp := *rel
	m.latest = &cp
	m.mu.Unlock()
	m.setState(UpdateAvailableState)

	tag := rel.TagName
	if tag == "" {
		tag = "v0.0.0"
	}
	m.emit(UpdateAvailable{
		Version: tag,
		Code:    code,
		Name:    rel.Name,
		Body:    rel.Body,
		Assets:  rel.Assets,
	})
	return true
}

func (m *Manager) recordCheck(rel *Release) {
	m.mu.Lock()
	info := m.local
	meta := ReleaseMeta{Tag: rel.TagName, Name: rel.Name, CheckedAt: m.opts.Now()}
	if code, ok := ParseBuildCode(rel.Name, rel.TagName); ok {
		meta.Code = code
	}
	if info.Release != nil {
		meta.InstalledAt = info.Release.InstalledAt
	}
	info.Release = &meta
	m.local = info
	m.mu.Unlock()
	m.persist(info)
}

func (m *Manager) persist(info VersionInfo) {
	if m.opts.VersionFile == "" {
		return
	}
	if err := SaveVersionInfo(m.opts.VersionFile, info); err != nil {
		log.Printf("update: %v", err)
	}
}

// DownloadAndInstall starts a background download of assetURL, verifies it
// against expectedSHA256 when non-empty and launches the installer. It
// returns worker.ErrBusy if a download is already running.
func (m *Manager) DownloadAndInstall(ctx context.Context, assetURL, expectedSHA256 string) (*worker.Task, error) {
	if assetURL == "" {
		return nil, errors.New("no asset to download")
	}
	return m.downloads.Go(ctx, func(ctx context.Context) error {
		return m.install(ctx, assetURL, expectedSHA256)
	}, func(err error) {
		if err != nil {
			m.setState(FailedState)
			m.emit(Failed{Op: "install", Message: err.Error()})
		}
	})
}

// InstallLatest downloads the asset picked from the last announced release.
func (m *Manager) InstallLatest(ctx context.Context) (*worker.Task, error) {
	rel, ok := m.Latest()
	if !ok {
		return nil, errors.New("no update available")
	}
	asset, ok := PickAsset(rel.Assets)
	if !ok {
		return nil, fmt.Errorf("release %s has no downloadable assets", rel.TagName)
	}
	return m.DownloadAndInstall(ctx, asset.DownloadURL, asset.SHA256())
}

func (m *Manager) install(ctx context.Context, assetURL, expected string) error {
	m.setState(Downloading)
	path, err := m.download(ctx, assetURL)
	if err != nil {
		return err
	}

	if expected != "" {
		m.setState(Verifying)
		if err := VerifyFile(path, expected); err != nil {
			log.Printf("update: keeping %s for inspection", path)
			return err
		}
	}

	m.setState(Installing)
	if err := m.opts.Installer.Install(ctx, path); err != nil {
		return err
	}
	m.recordInstall()
	m.setState(Complete)
	m.emit(Completed{Path: path})
	return nil
}

func (m *Manager) recordInstall() {
	m.mu.Lock()
	info := m.local
	if m.latest != nil {
		info.VersionName = m.latest.TagName
		info.VersionCode = m.latest.Code
		info.Release = &ReleaseMeta{
			Tag:         m.latest.TagName,
			Name:        m.latest.Name,
			Code:        m.latest.Code,
			InstalledAt: m.opts.Now(),
		}
		m.local = info
	}
	m.mu.Unlock()
	m.persist(info)
}
