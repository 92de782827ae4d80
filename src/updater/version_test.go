package updater

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildCode(t *testing.T) {
	tests := []struct {
		name, tag string
		want      BuildCode
		ok        bool
	}{
		{"Kazuha v1.2（37）", "v1.2", 37, true},
		{"Kazuha v1.2 (38)", "v1.2", 38, true},
		{"", "v1.2（39）", 39, true},
		{"", "v1.2(40)", 40, true},
		// Full-width wins over ASCII even when only the tag has it.
		{"Kazuha (5)", "v1（6）", 6, true},
		{"Kazuha v1.2", "v1.2", 0, false},
		{"(abc)", "（）", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseBuildCode(tt.name, tt.tag)
		assert.Equal(t, tt.ok, ok, "name=%q tag=%q", tt.name, tt.tag)
		assert.Equal(t, tt.want, got, "name=%q tag=%q", tt.name, tt.tag)
	}
}

func TestBuildCodeAcceptsNumberOrString(t *testing.T) {
	for input, want := range map[string]BuildCode{
		`{"versionCode": 12}`:   12,
		`{"versionCode": "13"}`: 13,
		`{"versionCode": ""}`:   0,
		`{"versionCode": null}`: 0,
		`{}`:                    0,
	} {
		var info VersionInfo
		require.NoError(t, json.Unmarshal([]byte(input), &info), input)
		assert.Equal(t, want, info.VersionCode, input)
	}

	var info VersionInfo
	assert.Error(t, json.Unmarshal([]byte(`{"versionCode": "twelve"}`), &info))
}

func TestLoadVersionInfoMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, VersionInfo{}, LoadVersionInfo(filepath.Join(dir, "absent.json")))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Equal(t, VersionInfo{}, LoadVersionInfo(bad))
}

func TestSaveThenLoadVersionInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "version.json")
	checked := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := VersionInfo{
		VersionName: "v1.2",
		VersionCode: 12,
		Release:     &ReleaseMeta{Tag: "v1.3", Code: 13, CheckedAt: checked},
	}
	require.NoError(t, SaveVersionInfo(path, want))

	got := LoadVersionInfo(path)
	require.NotNil(t, got.Release)
	assert.Equal(t, want.VersionName, got.VersionName)
	assert.Equal(t, want.VersionCode, got.VersionCode)
	assert.Equal(t, "v1.3", got.Release.Tag)
	assert.True(t, checked.Equal(got.Release.CheckedAt))
	assert.True(t, got.Release.InstalledAt.IsZero())
}

func TestLoadIgnoresLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "version.json")
	require.NoError(t, SaveVersionInfo(path, VersionInfo{VersionCode: 12}))
	// A crash mid-save leaves only a half-written temp file beside it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".version.json.123.tmp"), []byte(`{"versionCo`), 0o644))

	assert.Equal(t, BuildCode(12), LoadVersionInfo(path).VersionCode)
}
