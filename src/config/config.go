package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultUpdateRepo     = "Haraguse/Kazuha"
	DefaultSpotlightKey   = "Ctrl+Alt+S"
	DefaultPollInterval   = 500 * time.Millisecond
	AltEnvPathEnvVar      = "KAZUHA_ENV"
	defaultVersionFileRel = "config/version.json"
)

var (
	defaultAPIMirrors      = []string{"api.bgithub.xyz", "api.github-api.com"}
	defaultFeedMirrors     = []string{"bgithub.xyz", "kkgithub.com"}
	defaultDownloadProxies = []string{"https://ghproxy.net/"}
	defaultDownloadHosts   = []string{"kkgithub.com"}
)

type LoadOptions struct {
	VersionFileOverride string
	PrefsPathOverride   string
	DisableUpdateCheck  bool
}

type Config struct {
	EnableFileLogging bool
	LogDir            string
	PollInterval      time.Duration
	SpotlightHotkey   string
	VersionFile       string
	PrefsPath         string
	UpdateOwner       string
	UpdateRepo        string
	APIMirrors        []string
	FeedMirrors       []string
	DownloadProxies   []string
	DownloadHosts     []string
	CheckOnStart      bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, KAZUHA_ENV as a path to a config file
	// 3) The process environment
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	owner, repo := splitRepo(getEnvWithDefault("UPDATE_REPO", DefaultUpdateRepo))

	cfg := &Config{
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		LogDir:            getEnvWithDefault("LOG_DIR", appDir()),
		PollInterval:      resolvePollInterval(os.Getenv("POLL_INTERVAL_MS")),
		SpotlightHotkey:   getEnvWithDefault("SPOTLIGHT_HOTKEY", DefaultSpotlightKey),
		VersionFile:       getEnvWithDefault("VERSION_FILE", filepath.Join(appDir(), defaultVersionFileRel)),
		PrefsPath:         os.Getenv("PREFS_FILE"),
		UpdateOwner:       owner,
		UpdateRepo:        repo,
		APIMirrors:        splitList(os.Getenv("UPDATE_API_MIRRORS"), defaultAPIMirrors),
		FeedMirrors:       splitList(os.Getenv("UPDATE_FEED_MIRRORS"), defaultFeedMirrors),
		DownloadProxies:   splitList(os.Getenv("UPDATE_DOWNLOAD_PROXIES"), defaultDownloadProxies),
		DownloadHosts:     splitList(os.Getenv("UPDATE_DOWNLOAD_MIRRORS"), defaultDownloadHosts),
		CheckOnStart:      strings.ToLower(getEnvWithDefault("UPDATE_CHECK_ON_START", "true")) == "true",
	}

	if v := strings.TrimSpace(opts.VersionFileOverride); v != "" {
		cfg.VersionFile = v
	}
	if v := strings.TrimSpace(opts.PrefsPathOverride); v != "" {
		cfg.PrefsPath = v
	}
	if opts.DisableUpdateCheck {
		cfg.CheckOnStart = false
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if dir := appDir(); dir != "" {
		exeEnv := filepath.Join(dir, ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(AltEnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func appDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(execPath)
}

func resolvePollInterval(v string) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return DefaultPollInterval
}

func splitRepo(v string) (string, string) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(v), "/")
	if !ok || owner == "" || repo == "" {
		owner, repo, _ = strings.Cut(DefaultUpdateRepo, "/")
	}
	return owner, repo
}

func splitList(v string, fallback []string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
