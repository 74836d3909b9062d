package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lixenwraith/weegames/audio"
	"github.com/lixenwraith/weegames/config"
	"github.com/lixenwraith/weegames/core"
	"github.com/lixenwraith/weegames/engine"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/manifest"
	"github.com/lixenwraith/weegames/registry"
	"github.com/lixenwraith/weegames/service"
	"github.com/lixenwraith/weegames/session"
	"github.com/lixenwraith/weegames/status"
	"github.com/lixenwraith/weegames/store"
	"github.com/lixenwraith/weegames/terminal"
)

// Exit codes
const (
	exitOK          = 0
	exitStartup     = 1
	exitLoadFailure = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	cfg, err := config.Load(".env", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}

	logFile, logger := setupLogging(cfg.Debug, cfg.LogDir)
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)
	metrics := status.NewRegistry()

	reg := registry.New()
	if err := manifest.RegisterGames(reg); err != nil {
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}
	pl := cfg.PlayListFrom(basePlayList(cfg, reg))
	if err := pl.Validate(reg); err != nil {
		fmt.Fprintf(stderr, "weegames: play-list: %v\n", err)
		return exitStartup
	}

	screen, err := terminal.NewScreen()
	if err != nil {
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}
	collector := input.NewCollector()
	player := audio.NewPlayer(
		audio.WithMuted(cfg.Muted),
		audio.WithVolume(cfg.Volume),
		audio.WithPlayerLogger(logger.With("component", "audio")),
		audio.WithPlayerMetrics(metrics),
	)

	hub := service.NewHub(logger.With("component", "service"))
	services := []service.Service{
		terminal.NewService(screen, collector,
			terminal.WithLogger(logger.With("component", "terminal")),
			terminal.WithActionHandler(func(a terminal.Action) {
				if a == terminal.ActionToggleMute {
					player.ToggleMute()
				}
			}),
		),
		audio.NewService(player, audio.WithLogger(logger.With("component", "audio"))),
	}

	var recorder session.Recorder
	if cfg.DBPath != "" {
		st, err := store.Open(context.Background(), cfg.DBPath, metrics)
		if err != nil {
			fmt.Fprintf(stderr, "weegames: %v\n", err)
			return exitStartup
		}
		w := store.NewWriter(st, store.DefaultQueueSize, logger.With("component", "store"))
		services = append(services, w)
		recorder = w
	}
	for _, svc := range services {
		if err := hub.Register(svc); err != nil {
			fmt.Fprintf(stderr, "weegames: %v\n", err)
			return exitStartup
		}
	}

	core.SetCrashTerminal(screen)
	defer core.SetCrashTerminal(nil)

	if err := hub.InitAll(); err != nil {
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}
	if err := hub.StartAll(); err != nil {
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}

	eng, err := engine.New(cfg.Engine(), engine.Deps{
		Registry: reg,
		Screen:   screen,
		Input:    collector,
		Sounder:  player,
		Recorder: recorder,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		hub.StopAll()
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := eng.Run(ctx, pl)
	hub.StopAll()
	if err != nil {
		fmt.Fprintf(stderr, "weegames: %v\n", err)
		return exitStartup
	}

	printSummary(stdout, pl, res)
	printOutcomes(stdout, metrics)
	if cfg.DBPath != "" {
		printHighScores(stdout, cfg.DBPath, pl.Name, logger)
	}
	for _, lf := range res.Failures {
		fmt.Fprintf(stderr, "weegames: %v\n", lf)
	}
	if res.ExitCode() != exitOK {
		return exitLoadFailure
	}
	return exitOK
}

// basePlayList picks the built-in play-list the configuration refines
func basePlayList(cfg config.Config, reg *registry.Registry) registry.PlayList {
	if cfg.Endless {
		return manifest.EndlessPlayList(reg, cfg.Seed, cfg.BossEvery)
	}
	return manifest.DefaultPlayList(reg)
}

func printSummary(w io.Writer, pl registry.PlayList, res engine.Result) {
	var state string
	switch {
	case res.Quit:
		state = "quit"
	case res.Completed:
		state = "completed"
	default:
		state = "interrupted"
	}
	fmt.Fprintf(w, "%s: %s, score %d, lives %d, speed %.1fx\n",
		pl.Name, state, res.Progress.Score, res.Progress.Lives, res.Progress.PlaybackRate)
}

// printOutcomes lists how many games ended with each result
func printOutcomes(w io.Writer, metrics *status.Registry) {
	attrs := metrics.Outcomes()
	if len(attrs) == 0 {
		return
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, fmt.Sprintf("%s %d", a.Key, a.Value.Int64()))
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, ", "))
}

func printHighScores(w io.Writer, path, playList string, logger *slog.Logger) {
	st, err := store.Open(context.Background(), path, nil)
	if err != nil {
		logger.Error("reopen store for high scores", "error", err)
		return
	}
	defer st.Close()

	top, err := st.HighScores(context.Background(), playList, store.DefaultHighScores)
	if err != nil {
		logger.Error("high scores", "error", err)
		return
	}
	for i, hs := range top {
		fmt.Fprintf(w, "  %d. %4d  %s\n", i+1, hs.Score, hs.At.Local().Format("2006-01-02 15:04"))
	}
}
