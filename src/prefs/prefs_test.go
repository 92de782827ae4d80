package prefs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.NavAnchor != defaultAnchor {
		t.Fatalf("NavAnchor = %q, want %q", p.NavAnchor, defaultAnchor)
	}
	if len(p.PenColors) != 10 {
		t.Fatalf("len(PenColors) = %d, want 10", len(p.PenColors))
	}
	if !p.AutoCheckUpdates {
		t.Fatalf("AutoCheckUpdates should default to true")
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "custom.toml")
	body := "nav_anchor = \"middle\"\nauto_check_updates = false\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.NavAnchor != "middle" {
		t.Fatalf("NavAnchor = %q, want middle", p.NavAnchor)
	}
	if p.AutoCheckUpdates {
		t.Fatalf("AutoCheckUpdates = true, want false")
	}
	if len(p.PenColors) != 10 {
		t.Fatalf("missing pen_colors should keep defaults, got %d", len(p.PenColors))
	}
}

func TestLoad_CorruptFileUsesDefaults(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(prefsFile, []byte("nav_anchor = [[["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.NavAnchor != defaultAnchor {
		t.Fatalf("NavAnchor = %q, want %q", p.NavAnchor, defaultAnchor)
	}
}

func TestSaveThenLoad(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "dir", "prefs.toml")
	want := Defaults()
	want.NavAnchor = "top"
	want.PenColors = []string{"#112233"}

	if err := Save(prefsFile, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.NavAnchor != "top" || len(got.PenColors) != 1 || got.PenColors[0] != "#112233" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestPaletteSkipsInvalid(t *testing.T) {
	p := Prefs{PenColors: []string{"#ffa500", "nope", "#12345", "800080"}}
	got := p.Palette()
	want := []color.RGBA{{R: 255, G: 165, B: 0, A: 255}, {R: 128, G: 0, B: 128, A: 255}}
	if len(got) != len(want) {
		t.Fatalf("Palette() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Palette()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
