package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kazuha/src/config"
	"kazuha/src/updater"
	"kazuha/src/worker"
)

type cliOptions struct {
	versionFile string
	downloadDir string
	install     bool
	jsonOutput  bool
	verbose     bool
	timeout     time.Duration
	apiBase     string
}

// CheckResult is the --json output.
type CheckResult struct {
	LocalVersion    string       `json:"localVersion"`
	LocalCode       int          `json:"localCode"`
	UpdateAvailable bool         `json:"updateAvailable"`
	Latest          *ReleaseInfo `json:"latest,omitempty"`
	Downloaded      string       `json:"downloaded,omitempty"`
	Installed       bool         `json:"installed,omitempty"`
}

type ReleaseInfo struct {
	Tag    string `json:"tag"`
	Name   string `json:"name"`
	Code   int    `json:"code"`
	Notes  string `json:"notes,omitempty"`
	Asset  string `json:"asset,omitempty"`
	SHA256 string `json:"sha256,omitempty"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args), os.Stdout)
}

func runWithArgs(args []string, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"updatecheck"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, out)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "updatecheck",
		Short:         "Check for a newer Kazuha release",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.versionFile, "version-file", "", "Path to version.json (overrides VERSION_FILE)")
	cmd.Flags().StringVar(&opts.downloadDir, "download", "", "Download and verify the update into this directory")
	cmd.Flags().BoolVar(&opts.install, "install", false, "Download, verify and launch the installer")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall deadline")
	cmd.Flags().StringVar(&opts.apiBase, "api-base", "", "Release API base URL")
	_ = cmd.Flags().MarkHidden("api-base")
	cmd.MarkFlagsMutuallyExclusive("download", "install")

	return cmd
}

func runWithOptions(ctx context.Context, opts cliOptions, out io.Writer) error {
	// Configure logging BEFORE any other operations.
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{VersionFileOverride: opts.versionFile})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	base := managerOptions(cfg, opts)
	m := updater.New(base)
	go drain(m.Events())

	result, err := check(ctx, m)
	if err != nil {
		return err
	}

	if result.UpdateAvailable && (opts.install || opts.downloadDir != "") {
		rel, _ := m.Latest()
		asset, ok := updater.PickAsset(rel.Assets)
		if !ok {
			return fmt.Errorf("release %s has no downloadable assets", rel.TagName)
		}
		if opts.install {
			task, err := m.InstallLatest(ctx)
			if err := wait(ctx, task, err); err != nil {
				return fmt.Errorf("install failed: %w", err)
			}
			result.Installed = true
		} else {
			dest, err := download(ctx, base, asset, opts.downloadDir)
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}
			result.Downloaded = dest
		}
	}

	return writeResult(out, result, opts.jsonOutput)
}

func managerOptions(cfg *config.Config, opts cliOptions) updater.Options {
	return updater.Options{
		Owner:           cfg.UpdateOwner,
		Repo:            cfg.UpdateRepo,
		VersionFile:     cfg.VersionFile,
		APIBase:         opts.apiBase,
		APIMirrors:      cfg.APIMirrors,
		FeedMirrors:     cfg.FeedMirrors,
		DownloadProxies: cfg.DownloadProxies,
		DownloadHosts:   cfg.DownloadHosts,
	}
}

func check(ctx context.Context, m *updater.Manager) (CheckResult, error) {
	task, err := m.CheckForUpdates(ctx)
	if err := wait(ctx, task, err); err != nil {
		return CheckResult{}, fmt.Errorf("update check failed: %w", err)
	}

	local := m.Local()
	result := CheckResult{LocalVersion: local.VersionName, LocalCode: int(local.VersionCode)}
	if rel, ok := m.Latest(); ok {
		result.UpdateAvailable = true
		info := &ReleaseInfo{Tag: rel.TagName, Name: rel.Name, Code: int(rel.Code), Notes: rel.Body}
		if asset, ok := updater.PickAsset(rel.Assets); ok {
			info.Asset = asset.DownloadURL
			info.SHA256 = asset.SHA256()
		}
		result.Latest = info
	}
	return result, nil
}

// download fetches and verifies the asset with a manager that has no
// version file, so the local record is left untouched.
func download(ctx context.Context, base updater.Options, asset updater.Asset, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, assetName(asset))
	base.VersionFile = ""
	base.TempDir = dir
	base.Installer = updater.InstallerFunc(func(_ context.Context, path string) error {
		if path == dest {
			return nil
		}
		return os.Rename(path, dest)
	})
	dm := updater.New(base)
	go drain(dm.Events())
	task, err := dm.DownloadAndInstall(ctx, asset.DownloadURL, asset.SHA256())
	if err := wait(ctx, task, err); err != nil {
		return "", err
	}
	return dest, nil
}

func assetName(a updater.Asset) string {
	if name := filepath.Base(strings.TrimSpace(a.Name)); name != "." && name != "/" && name != "" {
		return name
	}
	return "kazuha-update.exe"
}

func wait(ctx context.Context, task *worker.Task, err error) error {
	if err != nil {
		return err
	}
	return task.Wait(ctx)
}

func drain(events <-chan updater.Event) {
	for ev := range events {
		switch e := ev.(type) {
		case updater.Progress:
			log.Printf("updatecheck: %d%%", e.Percent)
		case updater.Failed:
			log.Printf("updatecheck: %s", e)
		default:
			log.Printf("updatecheck: %s", ev.Type())
		}
	}
}

func writeResult(out io.Writer, r CheckResult, jsonOutput bool) error {
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	}

	local := r.LocalVersion
	if local == "" {
		local = "unknown"
	}
	fmt.Fprintf(out, "Local: %s (build %d)\n", local, r.LocalCode)
	if !r.UpdateAvailable {
		fmt.Fprintln(out, "You are running the latest version.")
		return nil
	}
	fmt.Fprintf(out, "Latest: %s (build %d)\n", r.Latest.Tag, r.Latest.Code)
	if r.Latest.Notes != "" {
		fmt.Fprintf(out, "\n%s\n", strings.TrimSpace(r.Latest.Notes))
	}
	switch {
	case r.Installed:
		fmt.Fprintln(out, "\nInstaller launched.")
	case r.Downloaded != "":
		fmt.Fprintf(out, "\nDownloaded to %s\n", r.Downloaded)
	}
	return nil
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"json", "verbose", "version-file", "download", "install", "timeout"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
