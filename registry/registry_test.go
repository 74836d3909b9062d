package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

type stubModule struct {
	info     game.Info
	manifest asset.Manifest
}

func (m *stubModule) Info() game.Info                         { return m.info }
func (m *stubModule) Manifest() asset.Manifest                { return m.manifest }
func (m *stubModule) Init(game.Setup) (game.State, error)     { return struct{}{}, nil }
func (m *stubModule) Draw(game.State, render.Frame)           {}
func (m *stubModule) Outcome(game.State) (game.Outcome, bool) { return game.Outcome{}, false }
func (m *stubModule) Update(game.State, input.Snapshot, time.Duration) game.UpdateResult {
	return game.Continue()
}

func stub(id game.ID, kind game.Kind) game.Factory {
	return func() game.Module {
		return &stubModule{info: game.Info{ID: id, Kind: kind}}
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := New()
	reg.MustRegister(
		stub("a", game.KindMinigame),
		stub("b", game.KindMinigame),
		stub("c", game.KindMinigame),
		stub("boss", game.KindBoss),
	)
	return reg
}

func TestRegistry_Register(t *testing.T) {
	reg := testRegistry(t)

	testutil.AssertEqual(t, "len", reg.Len(), 4)
	testutil.AssertEqual(t, "order", reg.List()[3], game.ID("boss"))

	err := reg.Register(stub("a", game.KindMinigame))
	testutil.AssertEqual(t, "duplicate", errors.Is(err, ErrDuplicateGame), true)

	err = reg.Register(stub("", game.KindMinigame))
	testutil.AssertErrorContains(t, err, "id is required")

	err = reg.Register(func() game.Module {
		return &stubModule{info: game.Info{ID: "bad"}, manifest: asset.Manifest{asset.ImageEntry("x", "")}}
	})
	testutil.AssertErrorContains(t, err, "source is required")
	testutil.AssertEqual(t, "rejected not listed", reg.Len(), 4)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := testRegistry(t)

	f, err := reg.Lookup("b")
	testutil.AssertEqual(t, "err", err, nil)
	testutil.AssertEqual(t, "fresh instance", f() != f(), true)

	_, err = reg.Lookup("zzz")
	testutil.AssertEqual(t, "unknown", errors.Is(err, ErrUnknownGame), true)

	bosses := reg.ByKind(game.KindBoss)
	testutil.AssertEqual(t, "boss count", len(bosses), 1)
	testutil.AssertEqual(t, "boss id", bosses[0], game.ID("boss"))
}

func TestPlayList_Validate(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name    string
		pl      PlayList
		expIs   error
		expText string
	}{
		{name: "valid", pl: PlayList{Games: []game.ID{"a", "b", "a"}}},
		{name: "empty", pl: PlayList{}, expIs: ErrEmptyPlaylist},
		{name: "unknown", pl: PlayList{Games: []game.ID{"a", "nope"}}, expIs: ErrUnknownGame, expText: "nope"},
		{name: "negative lives", pl: PlayList{Games: []game.ID{"a"}, Lives: -1}, expText: "lives must not be negative"},
		{name: "negative limit", pl: PlayList{Games: []game.ID{"a"}, TimeLimit: -time.Second}, expText: "time limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pl.Validate(reg)
			if tt.expIs == nil && tt.expText == "" {
				testutil.AssertEqual(t, "err", err, nil)
				return
			}
			if tt.expIs != nil {
				testutil.AssertEqual(t, "is", errors.Is(err, tt.expIs), true)
			}
			if tt.expText != "" {
				testutil.AssertErrorContains(t, err, tt.expText)
			}
		})
	}
}

func drain(q *Queue, max int) []game.ID {
	var ids []game.ID
	for i := 0; i < max; i++ {
		id, ok := q.Next()
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

func TestQueue_Sequential(t *testing.T) {
	reg := testRegistry(t)
	q := NewQueue(reg, PlayList{Games: []game.ID{"a", "b", "a"}})

	ids := drain(q, 10)
	testutil.AssertEqual(t, "count", len(ids), 3)
	testutil.AssertEqual(t, "first", ids[0], game.ID("a"))
	testutil.AssertEqual(t, "second", ids[1], game.ID("b"))
	testutil.AssertEqual(t, "third", ids[2], game.ID("a"))
	testutil.AssertEqual(t, "exhausted", q.HasNext(), false)
}

func TestQueue_ShuffleIsPermutationAndSeeded(t *testing.T) {
	reg := testRegistry(t)
	pl := PlayList{Games: []game.ID{"a", "b", "c", "boss"}, Shuffle: true, Seed: 7}

	first := drain(NewQueue(reg, pl), 10)
	second := drain(NewQueue(reg, pl), 10)
	testutil.AssertEqual(t, "count", len(first), 4)

	counts := map[game.ID]int{}
	for i, id := range first {
		counts[id]++
		testutil.AssertEqual(t, "deterministic", second[i], id)
	}
	for _, id := range pl.Games {
		testutil.AssertEqual(t, string(id), counts[id], 1)
	}
}

func TestQueue_EndlessBossCadence(t *testing.T) {
	reg := testRegistry(t)
	q := NewQueue(reg, PlayList{Games: []game.ID{"a", "b", "c", "boss"}, Endless: true, BossEvery: 3})

	ids := drain(q, 9)
	testutil.AssertEqual(t, "count", len(ids), 9)
	for i, id := range ids {
		isBoss := id == "boss"
		testutil.AssertEqual(t, "boss slot", isBoss, (i+1)%3 == 0)
	}
	testutil.AssertEqual(t, "still going", q.HasNext(), true)

	q.Stop()
	_, ok := q.Next()
	testutil.AssertEqual(t, "stopped", ok, false)
}

func TestQueue_ShuffleWindowAvoidsRepeats(t *testing.T) {
	reg := New()
	ids := []game.ID{"g1", "g2", "g3", "g4", "g5", "g6", "g7"}
	for _, id := range ids {
		reg.MustRegister(stub(id, game.KindMinigame))
	}
	q := NewQueue(reg, PlayList{Games: ids, Endless: true, Shuffle: true, Seed: 42})

	got := drain(q, 60)
	for i := range got {
		for j := i + 1; j < len(got) && j < i+ShuffleWindow; j++ {
			if got[i] == got[j] {
				t.Fatalf("game %s repeated within window at %d and %d", got[i], i, j)
			}
		}
	}
}
