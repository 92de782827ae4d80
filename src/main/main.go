package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kazuha/src/clipboard"
	"kazuha/src/config"
	"kazuha/src/eventloop"
	"kazuha/src/host"
	"kazuha/src/hotkey"
	"kazuha/src/layout"
	"kazuha/src/logutil"
	"kazuha/src/messages"
	"kazuha/src/notification"
	"kazuha/src/overlay"
	"kazuha/src/prefs"
	"kazuha/src/screen"
	"kazuha/src/singleinstance"
	"kazuha/src/tray"
	"kazuha/src/updater"
)

const appTitle = "Kazuha"

var errAlreadyRunning = errors.New("kazuha is already running")

type mainOptions struct {
	versionFile   string
	prefsPath     string
	noUpdateCheck bool
	spotlight     bool
	checkUpdates  bool
	quit          bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"kazuha"}
	}

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kazuha",
		Short:         "Slideshow navigation overlay for PowerPoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c, ok := opts.delegated(); ok {
				return handleDelegation(cmd.Context(), c, singleinstance.Send)
			}
			return runResident(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.versionFile, "version-file", "", "Path to version.json (overrides VERSION_FILE)")
	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "Path to prefs.toml (overrides PREFS_FILE)")
	cmd.Flags().BoolVar(&opts.noUpdateCheck, "no-update-check", false, "Skip the update check at startup")
	cmd.Flags().BoolVar(&opts.spotlight, "spotlight", false, "Toggle the spotlight in the running instance")
	cmd.Flags().BoolVar(&opts.checkUpdates, "check-updates", false, "Ask the running instance to check for updates")
	cmd.Flags().BoolVar(&opts.quit, "quit", false, "Ask the running instance to exit")
	cmd.MarkFlagsMutuallyExclusive("spotlight", "check-updates", "quit")

	return cmd
}

// delegated returns the command a later launch forwards to the resident.
func (o mainOptions) delegated() (singleinstance.Command, bool) {
	switch {
	case o.spotlight:
		return singleinstance.CommandSpotlight, true
	case o.checkUpdates:
		return singleinstance.CommandCheck, true
	case o.quit:
		return singleinstance.CommandQuit, true
	}
	return "", false
}

type sendFunc func(ctx context.Context, cmd singleinstance.Command) (bool, error)

func handleDelegation(ctx context.Context, cmd singleinstance.Command, send sendFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	delegated, err := send(ctx, cmd)
	if err != nil {
		return fmt.Errorf("forward %s: %w", strings.ToLower(string(cmd)), err)
	}
	if !delegated {
		return errors.New("kazuha is not running")
	}
	return nil
}

// residentMessage maps a forwarded command onto a loop message.
func residentMessage(cmd singleinstance.Command) (messages.Message, bool) {
	switch cmd {
	case singleinstance.CommandSpotlight:
		return messages.ToggleSpotlight{}, true
	case singleinstance.CommandCheck:
		return messages.CheckUpdates{}, true
	case singleinstance.CommandQuit:
		return messages.Quit{}, true
	}
	return nil, false
}

// loopPoster lets the overlay and tray post before the loop exists.
type loopPoster struct {
	loop atomic.Pointer[eventloop.Loop]
}

func (p *loopPoster) Post(msg messages.Message) {
	if l := p.loop.Load(); l != nil {
		l.Post(msg)
		return
	}
	log.Printf("main: loop not ready, dropped %s", msg.Type())
}

func runResident(opts mainOptions) error {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	// COM and the event loop share the main OS thread.
	runtime.LockOSThread()

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		VersionFileOverride: opts.versionFile,
		PrefsPathOverride:   opts.prefsPath,
		DisableUpdateCheck:  opts.noUpdateCheck,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logutil.Setup(cfg.EnableFileLogging, cfg.LogDir)
	logMonitorConfiguration()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resident := singleinstance.NewServer()
	if err := resident.Start(ctx); err != nil {
		log.Printf("main: %v", err)
		return errAlreadyRunning
	}
	defer resident.Close()

	p, _ := prefs.Load(cfg.PrefsPath)
	anchor, err := layout.ParseAnchor(p.NavAnchor)
	if err != nil {
		log.Printf("main: %v; using %s", err, layout.AnchorBottom)
		anchor = layout.AnchorBottom
	}

	pp, err := host.NewPowerPoint()
	if err != nil {
		notification.ShowBlockingError(appTitle, fmt.Sprintf("Automation is unavailable: %v", err))
		return err
	}
	defer pp.Close()

	if err := clipboard.Init(); err != nil {
		log.Printf("main: clipboard unavailable: %v", err)
	}

	manager := updater.New(updater.Options{
		Owner:           cfg.UpdateOwner,
		Repo:            cfg.UpdateRepo,
		VersionFile:     cfg.VersionFile,
		APIMirrors:      cfg.APIMirrors,
		FeedMirrors:     cfg.FeedMirrors,
		DownloadProxies: cfg.DownloadProxies,
		DownloadHosts:   cfg.DownloadHosts,
	})

	poster := &loopPoster{}
	ui, err := overlay.New(poster, p.Palette())
	if err != nil {
		notification.ShowBlockingError(appTitle, fmt.Sprintf("Cannot create the overlay: %v", err))
		return err
	}
	defer ui.Close()

	coord := layout.NewCoordinator(screen.Primary(), anchor, ui.Toolbar(), ui.Nav(layout.SideLeft), ui.Nav(layout.SideRight))

	local := manager.Local()
	tooltip := fmt.Sprintf("%s %s", appTitle, orDefault(local.VersionName, "(dev)"))
	trayIcon := tray.New(tray.Config{
		Title:   appTitle,
		Tooltip: tooltip,
		Anchor:  anchor,
		Poster:  poster,
		OnExit:  cancel,
	})

	loop := eventloop.New(eventloop.Deps{
		Host:        pp,
		UI:          ui,
		Coordinator: coord,
		Updater:     manager,
		Status:      trayIcon,
		Notifier:    notification.Notifier{Title: appTitle},
		Clipboard:   clipboard.Write,
		SaveAnchor: func(a layout.Anchor) {
			p.NavAnchor = a.String()
			if err := prefs.Save(cfg.PrefsPath, p); err != nil {
				log.Printf("main: save prefs: %v", err)
			}
		},
		Screen:   screen.Primary,
		Interval: cfg.PollInterval,
	})
	loop.SetDefaultTooltip(tooltip)
	poster.loop.Store(loop)

	go trayIcon.Run()
	defer trayIcon.Destroy()

	if combo, err := hotkey.Parse(cfg.SpotlightHotkey); err != nil {
		log.Printf("main: hotkey %q: %v", cfg.SpotlightHotkey, err)
	} else {
		hotkey.Listen(ctx, combo, func() { loop.Post(messages.ToggleSpotlight{}) })
	}

	go func() {
		for c := range resident.Commands() {
			if msg, ok := residentMessage(c); ok {
				loop.Post(msg)
			}
		}
	}()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Printf("main: %s started (build %d), poll every %s, spotlight on %s",
		tooltip, local.VersionCode, cfg.PollInterval, cfg.SpotlightHotkey)

	if cfg.CheckOnStart && p.AutoCheckUpdates {
		loop.StartupCheck(ctx)
	}

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("main: event loop stopped: %v", err)
		return err
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	long := []string{"version-file", "prefs", "no-update-check", "spotlight", "check-updates", "quit"}
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		if strings.HasPrefix(arg, "--") || !strings.HasPrefix(arg, "-") {
			continue
		}
		for _, name := range long {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
