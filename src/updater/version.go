package updater

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kazuha/src/fsutil"
)

// BuildCode is the monotonically increasing integer release number. The
// version file may carry it as a JSON number or a numeric string.
type BuildCode int

func (c *BuildCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*c = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("versionCode %q: %w", s, err)
		}
		*c = BuildCode(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("versionCode: %w", err)
	}
	*c = BuildCode(n)
	return nil
}

// ReleaseMeta records what the last successful check or install saw.
type ReleaseMeta struct {
	Tag         string    `json:"tag,omitempty"`
	Name        string    `json:"name,omitempty"`
	Code        BuildCode `json:"code,omitempty"`
	CheckedAt   time.Time `json:"checkedAt,omitzero"`
	InstalledAt time.Time `json:"installedAt,omitzero"`
}

// VersionInfo is the persisted local version record.
type VersionInfo struct {
	VersionName string       `json:"versionName,omitempty"`
	VersionCode BuildCode    `json:"versionCode"`
	Release     *ReleaseMeta `json:"release,omitempty"`
}

// LoadVersionInfo reads path. A missing or unreadable file yields the zero
// record (code 0), so any published release counts as newer.
func LoadVersionInfo(path string) VersionInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("update: read version file: %v", err)
		}
		return VersionInfo{}
	}
	var info VersionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		log.Printf("update: parse version file %s: %v", path, err)
		return VersionInfo{}
	}
	return info
}

// SaveVersionInfo rewrites path atomically.
func SaveVersionInfo(path string, info VersionInfo) error {
	data, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal version info: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save version info: %w", err)
	}
	return nil
}

var (
	fullWidthCode = regexp.MustCompile(`（(\d+)）`)
	asciiCode     = regexp.MustCompile(`\((\d+)\)`)
)

// ParseBuildCode extracts the build number from a release name or tag, as in
// "v2.1（37）" or "v2.1 (37)". Full-width parentheses are tried first, the
// name before the tag.
func ParseBuildCode(name, tag string) (BuildCode, bool) {
	for _, re := range []*regexp.Regexp{fullWidthCode, asciiCode} {
		for _, s := range []string{name, tag} {
			if m := re.FindStringSubmatch(s); m != nil {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				return BuildCode(n), true
			}
		}
	}
	return 0, false
}
