package updater

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrNoRelease means every metadata source failed.
var ErrNoRelease = errors.New("no release metadata source reachable")

// Asset is a downloadable release file.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size"`
	Digest      string `json:"digest,omitempty"`
}

// SHA256 returns the hex digest published for the asset, if any.
func (a Asset) SHA256() string {
	if d, ok := strings.CutPrefix(a.Digest, "sha256:"); ok {
		return d
	}
	return ""
}

// Release is a release candidate fetched from a metadata source.
type Release struct {
	TagName string  `json:"tag_name"`
	Name    string  `json:"name"`
	Body    string  `json:"body"`
	Assets  []Asset `json:"assets"`

	Code   BuildCode `json:"-"`
	Source string    `json:"-"`
}

// PickAsset returns the first installer (.exe) asset, else the first asset.
func PickAsset(assets []Asset) (Asset, bool) {
	for _, a := range assets {
		if strings.HasSuffix(strings.ToLower(a.Name), ".exe") {
			return a, true
		}
	}
	if len(assets) > 0 {
		return assets[0], true
	}
	return Asset{}, false
}

// withHost swaps the host of rawURL, keeping scheme and path.
func withHost(rawURL, host string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	u.Host = host
	return u.String(), nil
}

// candidates returns primary followed by one URL per mirror host.
func candidates(primary string, mirrors []string) []string {
	out := []string{primary}
	for _, host := range mirrors {
		if u, err := withHost(primary, host); err == nil && u != primary {
			out = append(out, u)
		}
	}
	return out
}

func (m *Manager) latestURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(m.opts.APIBase, "/"), m.opts.Owner, m.opts.Repo)
}

func (m *Manager) feedURL() string {
	return fmt.Sprintf("%s/%s/%s/releases.atom", strings.TrimRight(m.opts.FeedBase, "/"), m.opts.Owner, m.opts.Repo)
}

// fetchLatest walks the metadata sources in order: the primary API with
// retries, each API mirror once, then the Atom feed and its mirrors.
func (m *Manager) fetchLatest(ctx context.Context) (*Release, error) {
	primary := m.latestURL()
	var lastErr error

	for attempt := 1; attempt <= m.opts.Attempts; attempt++ {
		rel, err := m.fetchJSON(ctx, primary)
		if err == nil {
			return rel, nil
		}
		lastErr = err
		log.Printf("update: primary attempt %d/%d failed: %v", attempt, m.opts.Attempts, err)
		if attempt < m.opts.Attempts {
			if err := sleep(ctx, m.opts.RetryDelay); err != nil {
				return nil, err
			}
		}
	}

	for _, u := range candidates(primary, m.opts.APIMirrors)[1:] {
		rel, err := m.fetchJSON(ctx, u)
		if err == nil {
			return rel, nil
		}
		lastErr = err
		log.Printf("update: mirror %s failed: %v", u, err)
	}

	for _, u := range candidates(m.feedURL(), m.opts.FeedMirrors) {
		rel, err := m.fetchFeed(ctx, u)
		if err == nil {
			return rel, nil
		}
		lastErr = err
		log.Printf("update: feed %s failed: %v", u, err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, fmt.Errorf("%w: %v", ErrNoRelease, lastErr)
}

func (m *Manager) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := m.api.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s returned status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

func (m *Manager) fetchJSON(ctx context.Context, rawURL string) (*Release, error) {
	resp, err := m.get(ctx, rawURL, "application/vnd.github.v3+json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	rel.Source = rawURL
	return &rel, nil
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Content string `xml:"content"`
}

var (
	breakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag   = regexp.MustCompile(`<[^>]+>`)
)

func (m *Manager) fetchFeed(ctx context.Context, rawURL string) (*Release, error) {
	resp, err := m.get(ctx, rawURL, "application/atom+xml")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	rel, err := parseFeed(resp.Body)
	if err != nil {
		return nil, err
	}
	rel.Source = rawURL
	return rel, nil
}

// parseFeed turns the newest Atom entry into a release without assets.
// The tag is the first word of the entry title.
func parseFeed(r io.Reader) (*Release, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, errors.New("feed has no entries")
	}
	entry := feed.Entries[0]
	title := strings.TrimSpace(entry.Title)
	tag := "v0.0.0"
	if fields := strings.Fields(title); len(fields) > 0 {
		tag = fields[0]
	}
	body := breakTag.ReplaceAllString(entry.Content, "\n")
	body = anyTag.ReplaceAllString(body, "")
	return &Release{TagName: tag, Name: title, Body: strings.TrimSpace(body)}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
