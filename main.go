//go:build windows

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/juju/mutex/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/windows"

	"mwoverlay/config"
	"mwoverlay/entity"
	"mwoverlay/esp"
	"mwoverlay/gui"
	"mwoverlay/hotkey"
	"mwoverlay/logging"
	"mwoverlay/overlay"
	"mwoverlay/process"
	"mwoverlay/render"
)

const (
	appName = "mwoverlay"

	// How often the game process is checked for exit.
	aliveEvery = time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		gui.MessageBox(appName, err.Error(), windows.MB_OK|windows.MB_ICONERROR)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing mwoverlay.json")
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closer, err := logging.Setup(settings.Log, os.Stdout)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()
	log.Info().Str("build", settings.Build).Str("process", settings.Process.Name).Msg("mwoverlay starting")

	releaser, err := acquireInstanceLock()
	if err != nil {
		return err
	}
	defer releaser.Release()

	target, err := process.Attach(settings.Process.Name, settings.Process.Module)
	if err != nil {
		return err
	}
	defer target.Close()
	log.Info().
		Uint32("pid", target.PID).
		Str("base", fmt.Sprintf("0x%X", target.ModuleBase())).
		Msg("attached")

	area, err := overlay.GetClientArea(settings.Window.Title)
	if err != nil {
		return err
	}
	if area.Empty() {
		return fmt.Errorf("window %q has no client area, is it minimized?", settings.Window.Title)
	}
	log.Info().Stringer("area", area).Msg("game window found")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := settings.Display
	toggles := esp.NewToggles(d.EntityNames, d.NPCNames, d.HealthBars, d.HealthValues)
	extractor := entity.NewExtractor(target, target.ModuleBase(), settings.Offsets(), log)
	loop := esp.NewLoop(extractor, toggles, settings.Timing.Extraction, log)

	settingsWindow, err := gui.NewSettingsWindow(toggles, log)
	if err != nil {
		log.Warn().Err(err).Msg("settings window unavailable, hotkeys only")
		settingsWindow = nil
	}

	hotkeys := hotkey.NewManager(log)
	bindHotkeys(hotkeys, settings.Hotkeys, toggles, settingsWindow, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error { return hotkeys.Run(gctx) })
	g.Go(func() error { return watchTarget(gctx, target, cancel, log) })
	if settings.Timing.Watchdog > 0 {
		g.Go(func() error {
			return esp.Watch(gctx, loop, settings.Timing.Watchdog, settings.Timing.Stale, log)
		})
	}
	if settingsWindow != nil {
		settingsWindow.Show()
		g.Go(func() error { return settingsWindow.Run(gctx) })
	}

	place := func(a overlay.ClientArea) {
		x, y := overlay.MonitorOrigin(render.WindowTitle)
		render.ApplyArea(a, x, y)
	}
	follower := overlay.NewFollower(area, settings.Window.Follow,
		func() (overlay.ClientArea, error) { return overlay.GetClientArea(settings.Window.Title) },
		place, log)

	game, err := render.NewGame(gctx, loop, follower, d.FontSize, log)
	if err == nil {
		err = render.Run(game, settings.Timing.Repaint, place)
	}

	cancel()
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}

	st := loop.Stats()
	log.Info().
		Uint64("cycles", st.Cycles).
		Uint64("failures", st.Failures).
		Msg("mwoverlay stopped")
	return err
}

// acquireInstanceLock keeps a second overlay from attaching to the same game.
func acquireInstanceLock() (mutex.Releaser, error) {
	releaser, err := mutex.Acquire(mutex.Spec{
		Name:    appName,
		Clock:   wallClock{},
		Delay:   50 * time.Millisecond,
		Timeout: 500 * time.Millisecond,
	})
	if errors.Is(err, mutex.ErrTimeout) {
		return nil, errors.New("another mwoverlay instance is already running")
	}
	if err != nil {
		return nil, fmt.Errorf("instance lock: %w", err)
	}
	return releaser, nil
}

type wallClock struct{}

func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (wallClock) Now() time.Time                         { return time.Now() }

func bindHotkeys(m *hotkey.Manager, keys config.HotkeySettings, toggles *esp.Toggles, sw *gui.SettingsWindow, log zerolog.Logger) {
	names := map[esp.Feature]string{
		esp.EntityNames:  keys.EntityNames,
		esp.NPCNames:     keys.NPCNames,
		esp.HealthBars:   keys.HealthBars,
		esp.HealthValues: keys.HealthValues,
	}
	for _, f := range esp.Features {
		key, err := hotkey.ParseKey(names[f])
		if errors.Is(err, hotkey.ErrUnbound) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Stringer("feature", f).Msg("ignoring hotkey")
			continue
		}
		m.Bind(key, func() {
			on := toggles.Toggle(f)
			log.Info().Stringer("feature", f).Bool("enabled", on).Msg("toggle changed")
		})
	}

	if sw == nil {
		return
	}
	key, err := hotkey.ParseKey(keys.Settings)
	switch {
	case errors.Is(err, hotkey.ErrUnbound):
	case err != nil:
		log.Warn().Err(err).Msg("ignoring settings hotkey")
	default:
		m.Bind(key, sw.Toggle)
	}
}

// watchTarget cancels the run once the game process exits.
func watchTarget(ctx context.Context, target *process.Target, cancel context.CancelFunc, log zerolog.Logger) error {
	ticker := time.NewTicker(aliveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !target.Alive() {
				log.Warn().Str("process", target.Name).Msg("game exited, shutting down")
				cancel()
				return nil
			}
		}
	}
}
