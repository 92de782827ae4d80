package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kazuha/src/updater"
)

var installerBody = []byte("MZ fake installer")

func releaseServer(t *testing.T, code int) *httptest.Server {
	t.Helper()
	sum := sha256.Sum256(installerBody)
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/repos/Haraguse/Kazuha/releases/latest"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"tag_name": "v2.0",
				"name":     fmt.Sprintf("Kazuha v2.0（%d）", code),
				"body":     "Faster spotlight",
				"assets": []map[string]any{{
					"name":                 "Kazuha-setup.exe",
					"browser_download_url": srv.URL + "/setup.exe",
					"digest":               "sha256:" + hex.EncodeToString(sum[:]),
				}},
			})
		case r.URL.Path == "/setup.exe":
			_, _ = w.Write(installerBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeVersion(t *testing.T, code int) string {
	t.Helper()
	t.Setenv("UPDATE_REPO", "Haraguse/Kazuha")
	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, updater.SaveVersionInfo(path, updater.VersionInfo{VersionName: "v1.0", VersionCode: updater.BuildCode(code)}))
	return path
}

func TestJSONReportsAvailableUpdate(t *testing.T) {
	srv := releaseServer(t, 20)
	versionFile := writeVersion(t, 10)

	var out bytes.Buffer
	err := runWithArgs([]string{"updatecheck", "--json", "--version-file", versionFile, "--api-base", srv.URL}, &out)
	require.NoError(t, err)

	var got CheckResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.UpdateAvailable)
	assert.Equal(t, "v1.0", got.LocalVersion)
	assert.Equal(t, 10, got.LocalCode)
	require.NotNil(t, got.Latest)
	assert.Equal(t, 20, got.Latest.Code)
	assert.Equal(t, srv.URL+"/setup.exe", got.Latest.Asset)
	assert.Empty(t, got.Downloaded)
}

func TestTextReportsLatest(t *testing.T) {
	srv := releaseServer(t, 10)
	versionFile := writeVersion(t, 10)

	var out bytes.Buffer
	err := runWithArgs(normalizeLegacyArgs([]string{"updatecheck", "-version-file", versionFile, "--api-base", srv.URL}), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Local: v1.0 (build 10)")
	assert.Contains(t, out.String(), "You are running the latest version.")
}

func TestDownloadVerifiesWithoutTouchingVersionFile(t *testing.T) {
	srv := releaseServer(t, 20)
	versionFile := writeVersion(t, 10)
	dir := filepath.Join(t.TempDir(), "dl")

	var out bytes.Buffer
	err := runWithArgs([]string{"updatecheck", "--json", "--version-file", versionFile, "--api-base", srv.URL, "--download", dir}, &out)
	require.NoError(t, err)

	var got CheckResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, filepath.Join(dir, "Kazuha-setup.exe"), got.Downloaded)
	data, err := os.ReadFile(got.Downloaded)
	require.NoError(t, err)
	assert.Equal(t, installerBody, data)

	info := updater.LoadVersionInfo(versionFile)
	assert.Equal(t, updater.BuildCode(10), info.VersionCode, "download must not record an install")
}

func TestDownloadAndInstallAreExclusive(t *testing.T) {
	err := runWithArgs([]string{"updatecheck", "--download", t.TempDir(), "--install"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNormalizeLegacyArgs(t *testing.T) {
	got := normalizeLegacyArgs([]string{"updatecheck", "-json", "-download=/tmp/x", "-v", "--install"})
	assert.Equal(t, []string{"updatecheck", "--json", "--download=/tmp/x", "-v", "--install"}, got)
}

func TestAssetName(t *testing.T) {
	assert.Equal(t, "Kazuha-setup.exe", assetName(updater.Asset{Name: "Kazuha-setup.exe"}))
	assert.Equal(t, "evil.exe", assetName(updater.Asset{Name: "../../evil.exe"}))
	assert.Equal(t, "kazuha-update.exe", assetName(updater.Asset{}))
}
