package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// Key is one element of a combination with every rawcode that satisfies
// it (left and right variants for modifiers).
type Key struct {
	Name     string
	Rawcodes []uint16
}

// Combo is a parsed hotkey such as "Ctrl+Alt+S".
type Combo struct {
	Source string
	Keys   []Key
}

func (c Combo) String() string { return c.Source }

var namedKeys = map[string][]uint16{
	"ctrl":      {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":       {164, 165}, // VK_LMENU, VK_RMENU
	"shift":     {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":       {91, 92},   // VK_LWIN, VK_RWIN
	"space":     {32},
	"enter":     {13},
	"esc":       {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"insert":    {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pagedown":  {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

var aliases = map[string]string{
	"control": "ctrl",
	"win":     "cmd",
	"super":   "cmd",
	"return":  "enter",
	"escape":  "esc",
	"del":     "delete",
	"ins":     "insert",
	"pgup":    "pageup",
	"pgdn":    "pagedown",
}

// normalize lowercases a key name and resolves aliases.
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// rawcodes maps a normalized key name to Windows virtual key codes.
func rawcodes(name string) []uint16 {
	if codes, ok := namedKeys[name]; ok {
		return codes
	}
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 0x41}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 0x30}
		}
	}
	if strings.HasPrefix(name, "f") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(0x70 + n - 1)}
		}
	}
	return nil
}

// Parse reads a "+"-separated combination. Every part must be a known key.
func Parse(s string) (Combo, error) {
	combo := Combo{Source: s}
	for _, part := range strings.Split(s, "+") {
		name := normalize(part)
		if name == "" {
			return Combo{}, fmt.Errorf("hotkey %q: empty key", s)
		}
		codes := rawcodes(name)
		if codes == nil {
			return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", s, part)
		}
		combo.Keys = append(combo.Keys, Key{Name: name, Rawcodes: codes})
	}
	return combo, nil
}
