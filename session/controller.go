package session

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/registry"
	"github.com/lixenwraith/weegames/render"
	"github.com/lixenwraith/weegames/status"
)

// Config holds controller timing
type Config struct {
	// ResolveDuration is the minimum time the outcome banner stays up
	ResolveDuration time.Duration
	// IntroDuration is how long a game's intro text overlays the playfield
	IntroDuration time.Duration
	// LoadTimeout bounds asynchronous loading, zero waits forever
	LoadTimeout time.Duration
	// AsyncLoad decodes assets off the loop and polls for readiness
	AsyncLoad bool
}

// DefaultConfig returns the stock timings
func DefaultConfig() Config {
	return Config{
		ResolveDuration: 1500 * time.Millisecond,
		IntroDuration:   time.Second,
	}
}

// Session is the one live activation
type Session struct {
	RunID   uuid.UUID
	Index   int
	GameID  game.ID
	State   game.State
	Elapsed time.Duration // Time in the current phase, scaled by playback rate while playing
	Pending *game.Outcome
}

// Controller drives games through Loading, Playing, Resolving and Unloading
// It is owned by the loop goroutine and is not safe for concurrent use
type Controller struct {
	cfg    Config
	reg    *registry.Registry
	cache  *asset.Cache
	logger *slog.Logger
	rec    Recorder
	sound  Sounder
	now    func() time.Time
	ctx    context.Context

	phase    Phase
	sess     *Session
	info     game.Info
	module   game.Module
	scope    *asset.Scope
	preload  *asset.Preload
	handles  *asset.Handles
	loadTime time.Duration
	playTime time.Duration
	budget   time.Duration
	rate     float64
	recorded bool

	pl       registry.PlayList
	queue    *registry.Queue
	runID    uuid.UUID
	index    int
	progress Progress
	failures []*LoadFailure
	surfaced *LoadFailure
	quit     bool

	metrics    *status.Registry
	mLoads     *atomic.Int64
	mFailures  *atomic.Int64
	mRecovered *atomic.Int64
	mLives     *atomic.Int64
	mGames     *atomic.Int64
	mCurrent   *status.AtomicString
	mPhase     *status.AtomicString
	mRate      *status.AtomicFloat
}

// Opt configures a Controller
type Opt func(*Controller)

// WithConfig sets controller timing
func WithConfig(cfg Config) Opt {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// WithLogger sets the controller logger
func WithLogger(l *slog.Logger) Opt {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets where completed outcomes are sent
func WithRecorder(r Recorder) Opt {
	return func(c *Controller) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithSounder sets the audio collaborator
func WithSounder(s Sounder) Opt {
	return func(c *Controller) {
		if s != nil {
			c.sound = s
		}
	}
}

// WithMetrics publishes controller metrics to reg
func WithMetrics(reg *status.Registry) Opt {
	return func(c *Controller) {
		if reg != nil {
			c.metrics = reg
		}
	}
}

// WithClock sets the wall clock used to stamp records
func WithClock(now func() time.Time) Opt {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController creates an idle controller
func NewController(reg *registry.Registry, cache *asset.Cache, opts ...Opt) *Controller {
	c := &Controller{
		cfg:     DefaultConfig(),
		reg:     reg,
		cache:   cache,
		logger:  slog.Default(),
		rec:     RecorderFunc(func(context.Context, Record) error { return nil }),
		sound:   nopSounder{},
		now:     time.Now,
		ctx:     context.Background(),
		metrics: status.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mLoads = c.metrics.Ints.Get(status.SessionLoads)
	c.mFailures = c.metrics.Ints.Get(status.SessionFailures)
	c.mRecovered = c.metrics.Ints.Get(status.SessionRecovered)
	c.mLives = c.metrics.Ints.Get(status.ProgressLives)
	c.mGames = c.metrics.Ints.Get(status.ProgressGamesPlay)
	c.mCurrent = c.metrics.Strings.Get(status.SessionCurrent)
	c.mPhase = c.metrics.Strings.Get(status.SessionPhase)
	c.mRate = c.metrics.Floats.Get(status.PlaybackRate)
	c.mPhase.Store(c.phase.String())
	return c
}

// Phase returns the current phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// Session returns a copy of the live session
func (c *Controller) Session() (Session, bool) {
	if c.sess == nil {
		return Session{}, false
	}
	return *c.sess, true
}

// Progress returns the run's progress
func (c *Controller) Progress() Progress {
	return c.progress
}

// Failures returns every load failure of the current or last run
func (c *Controller) Failures() []*LoadFailure {
	return append([]*LoadFailure(nil), c.failures...)
}

// Quitted reports whether the current or last run was ended by Quit
func (c *Controller) Quitted() bool {
	return c.quit
}

// Start begins a play-list; the controller must be Idle
func (c *Controller) Start(ctx context.Context, pl registry.PlayList) error {
	if c.phase != PhaseIdle {
		return ErrBusy
	}
	if err := pl.Validate(c.reg); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	c.ctx = ctx
	c.pl = pl
	c.queue = registry.NewQueue(c.reg, pl)
	c.runID = uuid.New()
	c.index = 0
	c.progress = NewProgress(pl.Lives)
	c.failures = nil
	c.surfaced = nil
	c.quit = false
	c.publishProgress()

	c.logger.InfoContext(ctx, "playlist started", "run", c.runID, "playlist", pl.Name, "games", len(pl.Games), "endless", pl.Endless)
	c.advance()
	return nil
}

// Update advances the controller by one frame
// It returns the LoadFailure raised during this frame, if any
func (c *Controller) Update(in input.Snapshot, dt time.Duration) error {
	if dt < 0 {
		dt = 0
	}

	switch c.phase {
	case PhaseLoading:
		c.updateLoading(dt)
	case PhasePlaying:
		c.updatePlaying(in, dt)
	case PhaseResolving:
		c.sess.Elapsed += dt
		if c.sess.Elapsed >= c.cfg.ResolveDuration {
			c.enterUnloading()
		}
	case PhaseUnloading:
		c.advance()
	}

	if lf := c.surfaced; lf != nil {
		c.surfaced = nil
		return lf
	}
	return nil
}

// Draw renders the current phase into frame
func (c *Controller) Draw(frame render.Frame) {
	switch c.phase {
	case PhaseLoading:
		render.DrawLoading(frame, c.title(), c.loadTime)
	case PhasePlaying:
		if err := c.guard("draw", func() { c.module.Draw(c.sess.State, frame) }); err != nil {
			c.resolve(game.Of(game.Lost))
			return
		}
		if c.sess.Elapsed < c.cfg.IntroDuration {
			render.DrawIntro(frame, c.info.IntroText)
		}
	case PhaseResolving, PhaseUnloading:
		if c.sess != nil && c.sess.Pending != nil {
			c.drawBanner(frame, *c.sess.Pending)
		}
	}
}

// Quit ends the run from any phase
// The live game resolves as Quit without the banner delay and is unloaded at once;
// the next Update returns to Idle
func (c *Controller) Quit() {
	if c.phase == PhaseIdle {
		return
	}
	c.quit = true
	c.queue.Stop()

	switch c.phase {
	case PhaseLoading, PhasePlaying:
		c.resolve(game.Of(game.Quit))
		c.enterUnloading()
	case PhaseResolving:
		c.enterUnloading()
	}
	c.logger.InfoContext(c.ctx, "quit requested", "run", c.runID)
}

// Shutdown forces any live session through Unloading to Idle
func (c *Controller) Shutdown() {
	if c.phase == PhaseIdle {
		return
	}
	if c.phase == PhaseLoading || c.phase == PhasePlaying {
		c.resolve(game.Of(game.Quit))
	}
	if c.phase == PhaseResolving {
		c.enterUnloading()
	}
	c.queue.Stop()
	c.advance()
}

func (c *Controller) transition(to Phase) bool {
	if !CanTransition(c.phase, to) {
		c.logger.Error("illegal phase transition refused", "from", c.phase, "to", to)
		return false
	}
	c.phase = to
	c.mPhase.Store(to.String())
	return true
}

// advance loads the next queued game or returns to Idle
// Only an endless run ends on lives; a finite play-list plays every entry
func (c *Controller) advance() {
	if c.pl.Endless && c.progress.Over() {
		c.queue.Stop()
	}
	id, ok := c.queue.Next()
	if !ok {
		if c.transition(PhaseIdle) {
			c.sess = nil
			c.logger.InfoContext(c.ctx, "playlist finished", "run", c.runID, "score", c.progress.Score,
				"lives", c.progress.Lives, "quit", c.quit, "load_failures", len(c.failures))
		}
		return
	}
	c.enterLoading(id)
}

func (c *Controller) enterLoading(id game.ID) {
	if !c.transition(PhaseLoading) {
		return
	}

	c.sess = &Session{RunID: c.runID, Index: c.index, GameID: id}
	c.index++
	c.info, _ = c.reg.Info(id)
	c.loadTime = 0
	c.recorded = false
	c.preload = nil
	c.handles = nil
	c.mLoads.Add(1)
	c.mCurrent.Store(string(id))

	factory, err := c.reg.Lookup(id)
	if err != nil {
		c.failLoad(err)
		return
	}
	c.module = factory()

	scope, err := c.cache.Register(string(id), c.module.Manifest())
	if err != nil {
		c.failLoad(err)
		return
	}
	c.scope = scope
	if c.cfg.AsyncLoad {
		c.preload = scope.Preload(c.ctx)
	}
	c.logger.DebugContext(c.ctx, "loading game", "game", id, "index", c.sess.Index, "async", c.cfg.AsyncLoad)
}

func (c *Controller) updateLoading(dt time.Duration) {
	c.loadTime += dt

	if c.preload != nil && !c.preload.Ready() {
		if c.cfg.LoadTimeout > 0 && c.loadTime >= c.cfg.LoadTimeout {
			c.preload.Cancel()
			c.failLoad(fmt.Errorf("%w after %s", ErrLoadTimeout, c.loadTime))
		}
		return
	}

	handles, err := c.scope.AcquireAll(c.preload)
	if err != nil {
		c.failLoad(err)
		return
	}
	c.handles = handles

	setup := game.Setup{
		Assets:     handles,
		Seed:       c.pl.Seed + uint64(c.sess.Index)*0x9e3779b97f4a7c15,
		Difficulty: c.progress.Difficulty,
	}
	var state game.State
	var initErr error
	if err := c.guard("init", func() { state, initErr = c.module.Init(setup) }); err != nil {
		c.resolve(game.Of(game.Lost))
		return
	}
	if initErr != nil {
		c.failLoad(fmt.Errorf("init: %w", initErr))
		return
	}

	c.sess.State = state
	c.sess.Elapsed = 0
	c.rate = c.progress.RateFor(c.info.Kind)
	c.budget = c.info.Length
	if c.pl.TimeLimit > 0 {
		c.budget = c.pl.TimeLimit
	}
	c.transition(PhasePlaying)
	c.startMusic()
	c.logger.InfoContext(c.ctx, "game started", "game", c.sess.GameID, "index", c.sess.Index,
		"budget", c.budget, "rate", c.rate, "difficulty", setup.Difficulty)
}

func (c *Controller) updatePlaying(in input.Snapshot, dt time.Duration) {
	scaled := time.Duration(float64(dt) * c.rate)
	c.sess.Elapsed += scaled

	var res game.UpdateResult
	if err := c.guard("update", func() { res = c.module.Update(c.sess.State, in, scaled) }); err != nil {
		c.resolve(game.Of(game.Lost))
		return
	}
	c.playSounds(res.Sounds)

	if res.Done {
		c.resolve(res.Outcome)
		return
	}

	var reported bool
	if err := c.guard("outcome", func() { _, reported = c.module.Outcome(c.sess.State) }); err != nil {
		c.resolve(game.Of(game.Lost))
		return
	}
	if reported {
		c.logger.Error("malformed update result: outcome reported without finishing", "game", c.sess.GameID)
		c.resolve(game.Of(game.Lost))
		return
	}

	if c.budget > 0 && c.sess.Elapsed >= c.budget {
		c.resolve(game.Of(game.TimedOut))
	}
}

// resolve records o for the live session and enters Resolving
func (c *Controller) resolve(o game.Outcome) {
	if c.phase == PhasePlaying && !o.Result.Valid() {
		c.logger.Error("malformed outcome forced to lost", "game", c.sess.GameID, "outcome", o)
		o = game.Of(game.Lost)
	}
	if !c.transition(PhaseResolving) {
		return
	}

	c.playTime = c.sess.Elapsed
	c.sess.Elapsed = 0
	c.sess.Pending = &o

	if o.Result != game.Quit {
		won := o.Result == game.Won || (o.Result == game.TimedOut && c.info.WinOnTimeout)
		c.progress.Apply(won, c.info.Kind)
		c.publishProgress()
	}
	c.metrics.Ints.Get(status.OutcomePrefix + o.Result.String()).Add(1)
	c.emit(o)

	c.logger.InfoContext(c.ctx, "game resolved", "game", c.sess.GameID, "index", c.sess.Index,
		"outcome", o.String(), "played", c.playTime, "lives", c.progress.Lives)
}

// emit sends the outcome to the recorder exactly once per session
func (c *Controller) emit(o game.Outcome) {
	if c.recorded {
		return
	}
	c.recorded = true

	rec := Record{
		RunID:    c.runID,
		PlayList: c.pl.Name,
		Index:    c.sess.Index,
		GameID:   c.sess.GameID,
		Outcome:  o,
		Duration: c.playTime,
		Progress: c.progress,
		At:       c.now(),
	}
	if err := c.rec.Record(c.ctx, rec); err != nil {
		c.logger.Error("record outcome", "game", rec.GameID, "error", err)
	}
}

func (c *Controller) failLoad(err error) {
	lf := &LoadFailure{GameID: c.sess.GameID, Index: c.sess.Index, Err: err}
	c.failures = append(c.failures, lf)
	c.surfaced = lf
	c.mFailures.Add(1)
	c.logger.Error("game load failed", "game", lf.GameID, "index", lf.Index, "error", err)
	c.enterUnloading()
}

// enterUnloading releases everything the activation holds
func (c *Controller) enterUnloading() {
	if !c.transition(PhaseUnloading) {
		return
	}

	c.sound.StopAll()
	if c.preload != nil {
		c.preload.Cancel()
		c.preload = nil
	}
	if c.handles != nil {
		if err := c.handles.ReleaseAll(); err != nil {
			c.logger.Error("release handles", "game", c.sess.GameID, "error", err)
		}
		c.handles = nil
	}
	c.module = nil
	c.scope = nil
	c.sess.State = nil
	c.mCurrent.Store("")
}

// guard runs fn, converting a panic into a PanicError
func (c *Controller) guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: op, Value: r, Stack: debug.Stack()}
			c.mRecovered.Add(1)
			c.logger.Error("recovered module panic", "game", c.sess.GameID, "op", op, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	fn()
	return nil
}

func (c *Controller) playSounds(names []string) {
	for _, name := range names {
		clip := c.handles.Clip(name)
		if clip == nil {
			c.logger.Debug("unknown sound", "game", c.sess.GameID, "name", name)
			continue
		}
		c.sound.Play(clip, c.rate)
	}
}

func (c *Controller) startMusic() {
	for _, e := range c.scope.Manifest() {
		if e.Kind != asset.KindMusicTrack {
			continue
		}
		if clip := c.handles.Clip(e.Name); clip != nil {
			c.sound.PlayMusic(clip, c.rate)
			return
		}
	}
}

func (c *Controller) publishProgress() {
	c.mLives.Store(int64(c.progress.Lives))
	c.mGames.Store(int64(c.progress.Score))
	c.mRate.Set(c.progress.PlaybackRate)
}

func (c *Controller) title() string {
	if c.info.Title != "" {
		return c.info.Title
	}
	if c.sess != nil {
		return string(c.sess.GameID)
	}
	return ""
}

func (c *Controller) drawBanner(frame render.Frame, o game.Outcome) {
	var headline string
	switch o.Result {
	case game.Won:
		headline = "YOU WIN"
	case game.Lost:
		headline = "YOU LOSE"
	case game.TimedOut:
		headline = "TIME UP"
		if c.info.WinOnTimeout {
			headline = "SURVIVED"
		}
	case game.Quit:
		headline = "QUIT"
	}
	if o.HasScore {
		headline = fmt.Sprintf("%s  %d", headline, o.Score)
	}

	won := o.Result == game.Won || (o.Result == game.TimedOut && c.info.WinOnTimeout)
	lost := o.Result == game.Lost || (o.Result == game.TimedOut && !c.info.WinOnTimeout)
	detail := []string{fmt.Sprintf("score %d   lives %d", c.progress.Score, c.progress.Lives)}
	if c.progress.LifeGained && o.Result != game.Quit {
		detail = append(detail, "life gained")
	}
	if c.pl.Endless && c.progress.Over() {
		detail = append(detail, "game over")
	}
	render.DrawBanner(frame, headline, render.BannerStyle(won, lost), detail...)
}
