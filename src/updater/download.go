package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrHashMismatch means the downloaded file's digest differs from the
// published one. The file is kept for diagnostics and never installed.
var ErrHashMismatch = errors.New("installer hash mismatch")

const (
	installerName = "update_installer.exe"
	chunkSize     = 8 * 1024
)

// downloadURLs returns the asset URL, proxied variants, then host swaps.
func (m *Manager) downloadURLs(assetURL string) []string {
	urls := []string{assetURL}
	for _, prefix := range m.opts.DownloadProxies {
		urls = append(urls, strings.TrimRight(prefix, "/")+"/"+assetURL)
	}
	return append(urls, candidates(assetURL, m.opts.DownloadHosts)[1:]...)
}

// download streams the first reachable URL into the temp installer path.
func (m *Manager) download(ctx context.Context, assetURL string) (string, error) {
	dest := filepath.Join(m.opts.TempDir, installerName)
	var lastErr error
	for _, u := range m.downloadURLs(assetURL) {
		if err := m.downloadOne(ctx, u, dest); err != nil {
			lastErr = err
			log.Printf("update: download from %s failed: %v", u, err)
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		return dest, nil
	}
	return "", fmt.Errorf("cannot reach download server: %w", lastErr)
}

func (m *Manager) downloadOne(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.dl.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() { _ = f.Close() }()

	total := resp.ContentLength
	var written int64
	lastPercent := -1
	buf := make([]byte, chunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := f.Write(buf[:n]); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			written += int64(n)
			if total > 0 {
				if p := int(written * 100 / total); p != lastPercent {
					lastPercent = p
					m.emitProgress(p)
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return fmt.Errorf("read body: %w", rerr)
		}
	}
	if total > 0 && written != total {
		return fmt.Errorf("short download: %d of %d bytes", written, total)
	}
	return f.Close()
}

// VerifyFile compares the SHA-256 of path with expected, ignoring case.
func VerifyFile(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}
	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, strings.TrimSpace(expected)) {
		return fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, got, expected)
	}
	return nil
}

// Installer launches a downloaded installer.
type Installer interface {
	Install(ctx context.Context, path string) error
}

// InstallerFunc adapts a function to Installer.
type InstallerFunc func(ctx context.Context, path string) error

func (f InstallerFunc) Install(ctx context.Context, path string) error { return f(ctx, path) }
