// Package prefs persists the assistant's user preferences.
// Preferences are stored in ~/.config/kazuha/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"kazuha/src/fsutil"
)

// Prefs holds user preferences.
type Prefs struct {
	NavAnchor        string   `toml:"nav_anchor"`
	PenColors        []string `toml:"pen_colors"`
	AutoCheckUpdates bool     `toml:"auto_check_updates"`
}

const (
	defaultPrefsPath = "~/.config/kazuha/prefs.toml"
	defaultAnchor    = "bottom"
)

var defaultPenColors = []string{
	"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff",
	"#00ffff", "#000000", "#ffffff", "#ffa500", "#800080",
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{
		NavAnchor:        defaultAnchor,
		PenColors:        append([]string(nil), defaultPenColors...),
		AutoCheckUpdates: true,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), nil // Graceful degradation
	}

	p := Defaults()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(p.NavAnchor) == "" {
		p.NavAnchor = defaultAnchor
	}
	if len(p.PenColors) == 0 {
		p.PenColors = append([]string(nil), defaultPenColors...)
	}
	return p, nil
}

// Save writes preferences to the given path atomically, creating
// directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := fsutil.WriteFileAtomic(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Palette parses PenColors, skipping entries that are not #rrggbb.
func (p Prefs) Palette() []color.RGBA {
	out := make([]color.RGBA, 0, len(p.PenColors))
	for _, s := range p.PenColors {
		if c, ok := parseHex(s); ok {
			out = append(out, c)
		}
	}
	return out
}

func parseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
