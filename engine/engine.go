package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/games"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/manifest"
	"github.com/lixenwraith/weegames/registry"
	"github.com/lixenwraith/weegames/render"
	"github.com/lixenwraith/weegames/session"
	"github.com/lixenwraith/weegames/status"
)

// DefaultFrameInterval is the loop's target frame time
const DefaultFrameInterval = 16 * time.Millisecond

// Screen is the display the loop draws into once per frame
type Screen interface {
	render.Frame
	Show()
}

// InputSource yields one snapshot per frame
type InputSource interface {
	Snapshot() input.Snapshot
}

// Config holds loop settings
type Config struct {
	FrameInterval time.Duration
	Session       session.Config
	AssetRetries  int
	EvictOnSweep  bool
}

// Deps are the collaborators the loop drives
// Nil members are replaced with defaults: the built-in catalogue, an
// embedded-asset cache, an in-memory screen and an empty input source
type Deps struct {
	Registry *registry.Registry
	Cache    *asset.Cache
	Screen   Screen
	Input    InputSource
	Sounder  session.Sounder
	Recorder session.Recorder
	Time     TimeProvider
	Logger   *slog.Logger
	Metrics  *status.Registry
}

// Result summarizes a finished run
type Result struct {
	Quit      bool
	Completed bool
	Frames    int64
	Progress  session.Progress
	Failures  []*session.LoadFailure
}

// ExitCode maps the result onto the process exit status
func (r Result) ExitCode() int {
	if len(r.Failures) > 0 {
		return 2
	}
	return 0
}

// Engine owns the controller, the asset cache and the frame loop
type Engine struct {
	cfg     Config
	reg     *registry.Registry
	cache   *asset.Cache
	ctrl    *session.Controller
	screen  Screen
	input   InputSource
	clock   TimeProvider
	logger  *slog.Logger
	metrics *status.Registry

	running  atomic.Bool
	frames   *atomic.Int64
	overruns *atomic.Int64
	maxDelta *status.AtomicFloat
}

// New wires the loop from cfg and deps
func New(cfg Config, deps Deps) (*Engine, error) {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.Session == (session.Config{}) {
		cfg.Session = session.DefaultConfig()
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := status.Or(deps.Metrics)

	reg := deps.Registry
	if reg == nil {
		reg = registry.New()
		if err := manifest.RegisterGames(reg); err != nil {
			return nil, fmt.Errorf("register games: %w", err)
		}
	}

	cache := deps.Cache
	if cache == nil {
		policy := asset.EvictImmediate
		if cfg.EvictOnSweep {
			policy = asset.EvictOnSweep
		}
		retries := cfg.AssetRetries
		if retries <= 0 {
			retries = asset.DefaultRetries
		}
		cache = asset.NewCache(asset.NewFSLoader(games.Assets),
			asset.WithRetries(retries),
			asset.WithEvictPolicy(policy),
			asset.WithLogger(logger.With("component", "asset")),
			asset.WithMetrics(metrics),
		)
	}

	screen := deps.Screen
	if screen == nil {
		screen = &bufferScreen{Buffer: render.NewBuffer(80, 24)}
	}
	in := deps.Input
	if in == nil {
		in = input.NewCollector()
	}
	clock := deps.Time
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}

	ctrl := session.NewController(reg, cache,
		session.WithConfig(cfg.Session),
		session.WithLogger(logger.With("component", "session")),
		session.WithSounder(deps.Sounder),
		session.WithRecorder(deps.Recorder),
		session.WithMetrics(metrics),
	)

	return &Engine{
		cfg:      cfg,
		reg:      reg,
		cache:    cache,
		ctrl:     ctrl,
		screen:   screen,
		input:    in,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		frames:   metrics.Ints.Get(status.FramesTotal),
		overruns: metrics.Ints.Get(status.FrameOverruns),
		maxDelta: metrics.Floats.Get(status.FrameMaxDelta),
	}, nil
}

// Registry returns the game catalogue
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// Cache returns the asset cache
func (e *Engine) Cache() *asset.Cache {
	return e.cache
}

// Controller returns the transition controller
func (e *Engine) Controller() *session.Controller {
	return e.ctrl
}

// Start begins pl without running the loop, for callers that drive Step themselves
func (e *Engine) Start(ctx context.Context, pl registry.PlayList) error {
	return e.ctrl.Start(ctx, pl)
}

// Run plays pl until it finishes, the player quits or ctx is cancelled
// The controller is shut down and the cache closed before Run returns
func (e *Engine) Run(ctx context.Context, pl registry.PlayList) (Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Result{}, errors.New("engine already running")
	}
	defer e.running.Store(false)

	if err := e.ctrl.Start(ctx, pl); err != nil {
		return Result{}, err
	}
	defer e.shutdown()

	e.logger.InfoContext(ctx, "loop started", "interval", e.cfg.FrameInterval, "games", len(pl.Games))

	ticker := time.NewTicker(e.cfg.FrameInterval)
	defer ticker.Stop()
	last := e.clock.Now()

	for e.ctrl.Phase() != session.PhaseIdle {
		select {
		case <-ctx.Done():
			e.logger.InfoContext(ctx, "loop cancelled", "cause", context.Cause(ctx))
			return e.result(), nil
		case <-ticker.C:
			now := e.clock.Now()
			dt := now.Sub(last)
			last = now
			e.Step(e.input.Snapshot(), dt)
		}
	}
	return e.result(), nil
}

// Step runs exactly one frame: quit handling, update, then draw
func (e *Engine) Step(in input.Snapshot, dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	if dt > 2*e.cfg.FrameInterval {
		e.overruns.Add(1)
	}
	e.maxDelta.Max(float64(dt) / float64(time.Millisecond))
	e.frames.Add(1)

	if in.Quit {
		e.ctrl.Quit()
	}
	if err := e.ctrl.Update(in, dt); err != nil {
		e.logger.Warn("frame surfaced error", "error", err)
	}

	e.screen.Fill(' ', render.StyleDefault)
	e.ctrl.Draw(e.screen)
	e.screen.Show()
}

// Result reports the run so far
func (e *Engine) Result() Result {
	return e.result()
}

func (e *Engine) result() Result {
	idle := e.ctrl.Phase() == session.PhaseIdle
	return Result{
		Quit:      e.ctrl.Quitted(),
		Completed: idle && !e.ctrl.Quitted(),
		Frames:    e.frames.Load(),
		Progress:  e.ctrl.Progress(),
		Failures:  e.ctrl.Failures(),
	}
}

// shutdown unloads any live game and closes the cache
func (e *Engine) shutdown() {
	e.ctrl.Shutdown()
	if err := e.cache.Close(); err != nil {
		e.logger.Error("asset cache leak at shutdown", "error", err)
	}
	e.logger.Info("loop stopped", "metrics", e.metrics)
}

// bufferScreen adapts an in-memory buffer for headless runs
type bufferScreen struct {
	*render.Buffer
	shown int
}

func (s *bufferScreen) Show() {
	s.shown++
}
