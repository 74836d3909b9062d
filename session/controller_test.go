package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/registry"
	"github.com/lixenwraith/weegames/render"
	"github.com/lixenwraith/weegames/status"
)

const frameDT = 50 * time.Millisecond

// tracker observes module activity across instances
type tracker struct {
	inits  map[game.ID]int
	states []*scriptState
}

type scriptState struct {
	id     game.ID
	frames int
	seed   uint64
}

// scriptModule finishes after a fixed number of updates
type scriptModule struct {
	info        game.Info
	manifest    asset.Manifest
	tr          *tracker
	finishAfter int // zero never finishes
	result      game.UpdateResult
	sounds      []string
	initErr     error
	panicIn     string
	malformed   bool
}

func (m *scriptModule) Info() game.Info          { return m.info }
func (m *scriptModule) Manifest() asset.Manifest { return m.manifest }

func (m *scriptModule) Init(setup game.Setup) (game.State, error) {
	if m.panicIn == "init" {
		panic("init exploded")
	}
	if m.initErr != nil {
		return nil, m.initErr
	}
	st := &scriptState{id: m.info.ID, seed: setup.Seed}
	m.tr.inits[m.info.ID]++
	m.tr.states = append(m.tr.states, st)
	return st, nil
}

func (m *scriptModule) Update(state game.State, _ input.Snapshot, _ time.Duration) game.UpdateResult {
	if m.panicIn == "update" {
		panic("update exploded")
	}
	st := state.(*scriptState)
	st.frames++
	if m.finishAfter > 0 && st.frames >= m.finishAfter {
		if m.malformed {
			return game.Continue()
		}
		return m.result
	}
	return game.Continue(m.sounds...)
}

func (m *scriptModule) Draw(state game.State, frame render.Frame) {
	if m.panicIn == "draw" {
		panic("draw exploded")
	}
	render.DrawText(frame, 0, 0, string(state.(*scriptState).id), render.StyleDefault)
}

func (m *scriptModule) Outcome(state game.State) (game.Outcome, bool) {
	st := state.(*scriptState)
	if m.finishAfter > 0 && st.frames >= m.finishAfter {
		return m.result.Outcome, true
	}
	return game.Outcome{}, false
}

type fakeSounder struct {
	played  []float64
	music   int
	stopped int
}

func (s *fakeSounder) Play(_ *asset.Clip, rate float64) { s.played = append(s.played, rate) }
func (s *fakeSounder) PlayMusic(*asset.Clip, float64)   { s.music++ }
func (s *fakeSounder) StopAll()                         { s.stopped++ }

type harness struct {
	ctrl    *Controller
	cache   *asset.Cache
	reg     *registry.Registry
	tr      *tracker
	sound   *fakeSounder
	metrics *status.Registry
	frame   *render.Buffer

	mu      sync.Mutex
	records []Record
	gate    chan struct{}
	failSrc map[string]bool
}

func newHarness(t *testing.T, cfg Config, mods ...*scriptModule) *harness {
	t.Helper()
	h := &harness{
		reg:     registry.New(),
		tr:      &tracker{inits: make(map[game.ID]int)},
		sound:   &fakeSounder{},
		metrics: status.NewRegistry(),
		frame:   render.NewBuffer(40, 12),
		failSrc: make(map[string]bool),
	}

	loader := asset.LoaderFunc(func(ctx context.Context, e asset.Entry) (any, error) {
		if h.gate != nil {
			select {
			case <-h.gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if h.failSrc[e.Source] {
			return nil, errors.New("corrupt")
		}
		if e.Kind.IsAudio() {
			return &asset.Clip{Looped: e.Looped}, nil
		}
		return &asset.Sprite{Lines: []string{e.Source}}, nil
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.cache = asset.NewCache(loader, asset.WithRetries(0), asset.WithLogger(logger))

	for _, m := range mods {
		m.tr = h.tr
		proto := *m
		h.reg.MustRegister(func() game.Module {
			inst := proto
			return &inst
		})
	}

	h.ctrl = NewController(h.reg, h.cache,
		WithConfig(cfg),
		WithLogger(logger),
		WithSounder(h.sound),
		WithMetrics(h.metrics),
		WithRecorder(RecorderFunc(func(_ context.Context, rec Record) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.records = append(h.records, rec)
			return nil
		})),
	)
	return h
}

func testConfig() Config {
	return Config{ResolveDuration: 100 * time.Millisecond, IntroDuration: frameDT}
}

func minigame(id game.ID, finishAfter int, res game.UpdateResult) *scriptModule {
	return &scriptModule{
		info:        game.Info{ID: id, Title: string(id), Kind: game.KindMinigame, Length: 10 * time.Second},
		manifest:    asset.Manifest{asset.ImageEntry("sprite", string(id)+".txt"), asset.ClipEntry("beep", "tone:440:10ms")},
		finishAfter: finishAfter,
		result:      res,
	}
}

// step runs one frame the way the loop does
func (h *harness) step(in input.Snapshot) error {
	err := h.ctrl.Update(in, frameDT)
	h.frame.Fill(' ', render.StyleDefault)
	h.ctrl.Draw(h.frame)
	return err
}

// runToIdle steps until Idle and returns the frame count
func (h *harness) runToIdle(t *testing.T, maxFrames int) int {
	t.Helper()
	for i := 1; i <= maxFrames; i++ {
		_ = h.step(input.Snapshot{})
		if h.ctrl.Phase() == PhaseIdle {
			return i
		}
	}
	t.Fatalf("controller not idle after %d frames, phase %s", maxFrames, h.ctrl.Phase())
	return 0
}

func ids(list ...game.ID) registry.PlayList {
	return registry.PlayList{Name: "test", Games: list}
}

func TestCanTransition(t *testing.T) {
	valid := map[Phase][]Phase{
		PhaseIdle:      {PhaseLoading},
		PhaseLoading:   {PhasePlaying, PhaseResolving, PhaseUnloading},
		PhasePlaying:   {PhaseResolving},
		PhaseResolving: {PhaseUnloading},
		PhaseUnloading: {PhaseLoading, PhaseIdle},
	}
	for from, tos := range valid {
		for _, to := range tos {
			if !CanTransition(from, to) {
				t.Errorf("expected %s -> %s to be valid", from, to)
			}
		}
	}

	invalid := []struct {
		from Phase
		to   Phase
	}{
		{PhaseIdle, PhasePlaying},
		{PhaseIdle, PhaseIdle},
		{PhasePlaying, PhaseUnloading},
		{PhasePlaying, PhaseLoading},
		{PhaseResolving, PhaseLoading},
		{PhaseResolving, PhaseIdle},
		{PhaseUnloading, PhasePlaying},
	}
	for _, tc := range invalid {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestController_StartErrors(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 1, game.Win(1)))
	ctx := context.Background()

	err := h.ctrl.Start(ctx, registry.PlayList{})
	testutil.AssertEqual(t, "empty", errors.Is(err, registry.ErrEmptyPlaylist), true)

	err = h.ctrl.Start(ctx, ids("a", "ghost"))
	testutil.AssertEqual(t, "unknown", errors.Is(err, registry.ErrUnknownGame), true)
	testutil.AssertEqual(t, "still idle", h.ctrl.Phase(), PhaseIdle)

	testutil.AssertEqual(t, "start", h.ctrl.Start(ctx, ids("a")), nil)
	testutil.AssertEqual(t, "busy", errors.Is(h.ctrl.Start(ctx, ids("a")), ErrBusy), true)
}

func TestController_EveryGameReachesPlaying(t *testing.T) {
	mods := []*scriptModule{
		minigame("a", 2, game.Win(1)),
		minigame("b", 3, game.Lose()),
		minigame("c", 1, game.Win(5)),
	}
	h := newHarness(t, testConfig(), mods...)
	_ = h.ctrl.Start(context.Background(), ids("a", "b", "c"))

	reached := map[game.ID]int{}
	for frame := 1; frame <= 100 && h.ctrl.Phase() != PhaseIdle; frame++ {
		_ = h.step(input.Snapshot{})
		if s, ok := h.ctrl.Session(); ok && h.ctrl.Phase() == PhasePlaying {
			if _, seen := reached[s.GameID]; !seen {
				reached[s.GameID] = frame
			}
		}
	}

	for _, m := range mods {
		_, ok := reached[m.info.ID]
		testutil.AssertEqual(t, string(m.info.ID)+" reached playing", ok, true)
	}
	testutil.AssertEqual(t, "first game playing on first frame", reached["a"], 1)
	testutil.AssertEqual(t, "records", len(h.records), 3)
}

func TestController_CacheEmptyAtIdle(t *testing.T) {
	h := newHarness(t, testConfig(),
		minigame("a", 2, game.Win(1)),
		minigame("b", 1, game.Lose()),
	)
	_ = h.ctrl.Start(context.Background(), ids("a", "b", "a"))
	h.runToIdle(t, 100)

	testutil.AssertEqual(t, "live handles", h.cache.Live(), 0)
	testutil.AssertEqual(t, "resident", h.cache.Resident(), 0)
	testutil.AssertEqual(t, "close", h.cache.Close(), nil)
}

func TestController_IdleAndLoadingDoNotMutateSession(t *testing.T) {
	cfg := testConfig()
	cfg.AsyncLoad = true
	h := newHarness(t, cfg, minigame("a", 1, game.Win(1)))
	h.gate = make(chan struct{})

	// Idle: nothing to mutate and nothing created
	_ = h.step(input.Snapshot{Keys: []input.Key{input.KeyEnter}})
	_, live := h.ctrl.Session()
	testutil.AssertEqual(t, "idle has no session", live, false)

	_ = h.ctrl.Start(context.Background(), ids("a"))
	before, _ := h.ctrl.Session()
	for i := 0; i < 5; i++ {
		_ = h.step(input.Snapshot{Keys: []input.Key{input.KeyEnter}, Runes: []rune{'x'}})
	}
	after, _ := h.ctrl.Session()

	testutil.AssertEqual(t, "phase", h.ctrl.Phase(), PhaseLoading)
	testutil.AssertEqual(t, "session unchanged", after, before)
	testutil.AssertEqual(t, "no init", h.tr.inits["a"], 0)
	testutil.AssertEqual(t, "loading indicator", h.frame.Contains("loading"), true)

	close(h.gate)
	deadline := time.Now().Add(2 * time.Second)
	for h.ctrl.Phase() == PhaseLoading && time.Now().Before(deadline) {
		_ = h.step(input.Snapshot{})
		time.Sleep(time.Millisecond)
	}
	testutil.AssertEqual(t, "playing after ready", h.ctrl.Phase(), PhasePlaying)
	testutil.AssertEqual(t, "init once", h.tr.inits["a"], 1)
}

func TestController_QuitFromAnyPhase(t *testing.T) {
	tests := []struct {
		name    string
		async   bool
		frames  int // frames stepped before quitting
		phase   Phase
		records int
	}{
		{name: "loading", async: true, frames: 0, phase: PhaseLoading, records: 1},
		{name: "playing", frames: 1, phase: PhasePlaying, records: 1},
		{name: "resolving", frames: 3, phase: PhaseResolving, records: 1},
		{name: "unloading", frames: 5, phase: PhaseUnloading, records: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.AsyncLoad = tt.async
			h := newHarness(t, cfg, minigame("a", 2, game.Win(10)), minigame("b", 2, game.Win(10)))
			if tt.async {
				h.gate = make(chan struct{})
				defer close(h.gate)
			}
			_ = h.ctrl.Start(context.Background(), ids("a", "b"))
			for i := 0; i < tt.frames; i++ {
				_ = h.step(input.Snapshot{})
			}
			testutil.AssertEqual(t, "phase before quit", h.ctrl.Phase(), tt.phase)

			h.ctrl.Quit()
			testutil.AssertEqual(t, "unloading after quit", h.ctrl.Phase(), PhaseUnloading)
			testutil.AssertEqual(t, "handles released", h.cache.Live(), 0)

			_ = h.step(input.Snapshot{})
			testutil.AssertEqual(t, "idle one frame later", h.ctrl.Phase(), PhaseIdle)
			testutil.AssertEqual(t, "quitted", h.ctrl.Quitted(), true)
			testutil.AssertEqual(t, "records", len(h.records), tt.records)
			testutil.AssertEqual(t, "b never loaded", h.tr.inits["b"], 0)
		})
	}
}

func TestController_QuitRecordsQuitOutcome(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 0, game.UpdateResult{}))
	_ = h.ctrl.Start(context.Background(), ids("a"))
	_ = h.step(input.Snapshot{})
	_ = h.step(input.Snapshot{})

	h.ctrl.Quit()
	h.ctrl.Quit()
	testutil.AssertEqual(t, "one record", len(h.records), 1)
	testutil.AssertEqual(t, "quit", h.records[0].Outcome.Result, game.Quit)
	testutil.AssertEqual(t, "lives untouched", h.ctrl.Progress().Lives, MaxLives)
}

func TestController_WonEmittedExactlyOnce(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 2, game.Win(100)))
	_ = h.ctrl.Start(context.Background(), ids("a"))
	h.runToIdle(t, 50)

	testutil.AssertEqual(t, "records", len(h.records), 1)
	rec := h.records[0]
	testutil.AssertEqual(t, "game", rec.GameID, game.ID("a"))
	testutil.AssertEqual(t, "outcome", rec.Outcome, game.WonWith(100))
	testutil.AssertEqual(t, "index", rec.Index, 0)
	testutil.AssertEqual(t, "playlist", rec.PlayList, "test")
	testutil.AssertEqual(t, "duration", rec.Duration, 2*frameDT)
	testutil.AssertEqual(t, "won metric", h.metrics.Ints.Get(status.OutcomePrefix+"won").Load(), int64(1))
}

func TestController_RepeatedGameGetsFreshState(t *testing.T) {
	h := newHarness(t, testConfig(),
		minigame("a", 3, game.Win(1)),
		minigame("b", 1, game.Win(1)),
	)
	_ = h.ctrl.Start(context.Background(), ids("a", "b", "a"))
	h.runToIdle(t, 100)

	testutil.AssertEqual(t, "a inits", h.tr.inits["a"], 2)
	testutil.AssertEqual(t, "b inits", h.tr.inits["b"], 1)
	testutil.AssertEqual(t, "states", len(h.tr.states), 3)

	first, second := h.tr.states[0], h.tr.states[2]
	testutil.AssertEqual(t, "distinct state", first != second, true)
	testutil.AssertEqual(t, "first ran", first.frames, 3)
	testutil.AssertEqual(t, "second ran", second.frames, 3)
	testutil.AssertEqual(t, "distinct seeds", first.seed != second.seed, true)
}

func TestController_TimeBudget(t *testing.T) {
	tests := []struct {
		name      string
		winOnTime bool
		expLives  int
	}{
		{name: "timeout loses a life", winOnTime: false, expLives: MaxLives - 1},
		{name: "survival counts as win", winOnTime: true, expLives: MaxLives},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := minigame("a", 0, game.UpdateResult{})
			m.info.Length = 3 * frameDT
			m.info.WinOnTimeout = tt.winOnTime
			h := newHarness(t, testConfig(), m)
			_ = h.ctrl.Start(context.Background(), ids("a"))

			_ = h.step(input.Snapshot{}) // loads
			_ = h.step(input.Snapshot{})
			_ = h.step(input.Snapshot{})
			testutil.AssertEqual(t, "still playing", h.ctrl.Phase(), PhasePlaying)
			_ = h.step(input.Snapshot{})
			testutil.AssertEqual(t, "resolving", h.ctrl.Phase(), PhaseResolving)

			testutil.AssertEqual(t, "timed out", h.records[0].Outcome.Result, game.TimedOut)
			testutil.AssertEqual(t, "lives", h.ctrl.Progress().Lives, tt.expLives)
		})
	}
}

func TestController_PlayListTimeLimitOverrides(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 0, game.UpdateResult{}))
	pl := ids("a")
	pl.TimeLimit = frameDT
	_ = h.ctrl.Start(context.Background(), pl)

	_ = h.step(input.Snapshot{})
	_ = h.step(input.Snapshot{})
	testutil.AssertEqual(t, "timed out", h.records[0].Outcome.Result, game.TimedOut)
}

func TestController_PanicsForceLost(t *testing.T) {
	for _, where := range []string{"init", "update", "draw"} {
		t.Run(where, func(t *testing.T) {
			m := minigame("a", 5, game.Win(1))
			m.panicIn = where
			h := newHarness(t, testConfig(), m, minigame("b", 1, game.Win(2)))
			_ = h.ctrl.Start(context.Background(), ids("a", "b"))
			h.runToIdle(t, 50)

			testutil.AssertEqual(t, "records", len(h.records), 2)
			testutil.AssertEqual(t, "forced lost", h.records[0].Outcome.Result, game.Lost)
			testutil.AssertEqual(t, "next game ran", h.records[1].Outcome, game.WonWith(2))
			testutil.AssertEqual(t, "recovered metric", h.metrics.Ints.Get(status.SessionRecovered).Load(), int64(1))
			testutil.AssertEqual(t, "nothing leaked", h.cache.Live(), 0)
		})
	}
}

func TestController_MalformedResultForcesLost(t *testing.T) {
	m := minigame("a", 2, game.Win(50))
	m.malformed = true
	h := newHarness(t, testConfig(), m)
	_ = h.ctrl.Start(context.Background(), ids("a"))
	h.runToIdle(t, 50)

	testutil.AssertEqual(t, "records", len(h.records), 1)
	testutil.AssertEqual(t, "forced lost", h.records[0].Outcome, game.Of(game.Lost))
}

func TestController_EmptyOutcomeForcesLost(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 1, game.Finish(game.Outcome{})))
	_ = h.ctrl.Start(context.Background(), ids("a"))
	h.runToIdle(t, 50)

	testutil.AssertEqual(t, "forced lost", h.records[0].Outcome.Result, game.Lost)
}

func TestController_LoadFailureAdvances(t *testing.T) {
	h := newHarness(t, testConfig(),
		minigame("a", 1, game.Win(1)),
		minigame("bad", 1, game.Win(1)),
		minigame("c", 1, game.Win(3)),
	)
	h.failSrc["bad.txt"] = true
	_ = h.ctrl.Start(context.Background(), ids("a", "bad", "c"))

	var surfaced []error
	for i := 0; i < 100 && h.ctrl.Phase() != PhaseIdle; i++ {
		if err := h.step(input.Snapshot{}); err != nil {
			surfaced = append(surfaced, err)
		}
	}

	testutil.AssertEqual(t, "surfaced once", len(surfaced), 1)
	var lf *LoadFailure
	testutil.AssertEqual(t, "is load failure", errors.As(surfaced[0], &lf), true)
	testutil.AssertEqual(t, "failed game", lf.GameID, game.ID("bad"))
	testutil.AssertEqual(t, "sentinel", errors.Is(surfaced[0], ErrLoadFailure), true)
	testutil.AssertEqual(t, "cause", errors.Is(surfaced[0], asset.ErrLoad), true)

	testutil.AssertEqual(t, "failures", len(h.ctrl.Failures()), 1)
	testutil.AssertEqual(t, "records skip failed game", len(h.records), 2)
	testutil.AssertEqual(t, "c still played", h.records[1].GameID, game.ID("c"))
	testutil.AssertEqual(t, "nothing leaked", h.cache.Live(), 0)
}

func TestController_InitErrorReleasesHandles(t *testing.T) {
	m := minigame("a", 1, game.Win(1))
	m.initErr = errors.New("no level")
	h := newHarness(t, testConfig(), m)
	_ = h.ctrl.Start(context.Background(), ids("a"))

	err := h.step(input.Snapshot{})
	testutil.AssertErrorContains(t, err, "no level")
	testutil.AssertEqual(t, "unloading", h.ctrl.Phase(), PhaseUnloading)
	testutil.AssertEqual(t, "released", h.cache.Live(), 0)

	_ = h.step(input.Snapshot{})
	testutil.AssertEqual(t, "idle", h.ctrl.Phase(), PhaseIdle)
}

func TestController_LoadTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.AsyncLoad = true
	cfg.LoadTimeout = 2 * frameDT
	h := newHarness(t, cfg, minigame("a", 1, game.Win(1)))
	h.gate = make(chan struct{})
	defer close(h.gate)
	_ = h.ctrl.Start(context.Background(), ids("a"))

	testutil.AssertEqual(t, "first frame waits", h.step(input.Snapshot{}), nil)
	err := h.step(input.Snapshot{})
	testutil.AssertEqual(t, "timed out", errors.Is(err, ErrLoadTimeout), true)
	testutil.AssertEqual(t, "unloading", h.ctrl.Phase(), PhaseUnloading)
}

func TestController_LivesEndEndlessRun(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 1, game.Lose()))
	pl := ids("a")
	pl.Endless = true
	pl.Lives = 2
	_ = h.ctrl.Start(context.Background(), pl)
	h.runToIdle(t, 200)

	testutil.AssertEqual(t, "games played", len(h.records), 2)
	testutil.AssertEqual(t, "over", h.ctrl.Progress().Over(), true)
	testutil.AssertEqual(t, "not quit", h.ctrl.Quitted(), false)
}

func TestController_FiniteListOutlivesLives(t *testing.T) {
	h := newHarness(t, testConfig(),
		minigame("a", 1, game.Lose()),
		minigame("b", 1, game.Win(1)),
	)
	_ = h.ctrl.Start(context.Background(), ids("a", "a", "a", "a", "a", "b"))
	h.runToIdle(t, 300)

	testutil.AssertEqual(t, "every entry recorded", len(h.records), 6)
	testutil.AssertEqual(t, "a inits", h.tr.inits["a"], 5)
	testutil.AssertEqual(t, "b inits", h.tr.inits["b"], 1)
	testutil.AssertEqual(t, "last game", h.records[5].GameID, game.ID("b"))
	testutil.AssertEqual(t, "lives floor", h.ctrl.Progress().Lives, 0)
	testutil.AssertEqual(t, "score", h.ctrl.Progress().Score, 6)
}

func TestController_ShutdownReleases(t *testing.T) {
	h := newHarness(t, testConfig(), minigame("a", 0, game.UpdateResult{}))
	_ = h.ctrl.Start(context.Background(), ids("a", "a"))
	_ = h.step(input.Snapshot{})
	testutil.AssertEqual(t, "playing", h.ctrl.Phase(), PhasePlaying)

	h.ctrl.Shutdown()
	testutil.AssertEqual(t, "idle", h.ctrl.Phase(), PhaseIdle)
	testutil.AssertEqual(t, "released", h.cache.Live(), 0)
	testutil.AssertEqual(t, "quit recorded", h.records[0].Outcome.Result, game.Quit)
	testutil.AssertEqual(t, "no second game", h.tr.inits["a"], 1)

	h.ctrl.Shutdown()
	testutil.AssertEqual(t, "idempotent", len(h.records), 1)
}

func TestController_SoundsAndMusic(t *testing.T) {
	m := minigame("a", 3, game.Win(1))
	m.sounds = []string{"beep", "missing"}
	m.manifest = append(m.manifest, asset.MusicEntry("bgm", "tone:220:1s", true))
	h := newHarness(t, testConfig(), m)
	_ = h.ctrl.Start(context.Background(), ids("a"))
	h.runToIdle(t, 50)

	testutil.AssertEqual(t, "music", h.sound.music, 1)
	testutil.AssertEqual(t, "clips", len(h.sound.played), 2)
	testutil.AssertEqual(t, "rate", h.sound.played[0], 1.0)
	testutil.AssertEqual(t, "stopped on unload", h.sound.stopped, 1)
}

func TestController_DrawOverlays(t *testing.T) {
	m := minigame("a", 2, game.Win(7))
	m.info.IntroText = "tap!"
	h := newHarness(t, testConfig(), m)
	_ = h.ctrl.Start(context.Background(), ids("a"))

	h.frame.Fill(' ', render.StyleDefault)
	h.ctrl.Draw(h.frame)
	testutil.AssertEqual(t, "loading title", h.frame.Contains("A"), true)

	_ = h.step(input.Snapshot{})
	testutil.AssertEqual(t, "module drew", h.frame.Contains("a"), true)
	testutil.AssertEqual(t, "intro", h.frame.Contains("TAP!"), true)

	_ = h.step(input.Snapshot{})
	_ = h.step(input.Snapshot{})
	testutil.AssertEqual(t, "resolving", h.ctrl.Phase(), PhaseResolving)
	testutil.AssertEqual(t, "banner", h.frame.Contains("YOU WIN  7"), true)
	testutil.AssertEqual(t, "progress line", h.frame.Contains("score 1"), true)
}
