package games

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

// Dodge: survive the falling rocks until time runs out
type Dodge struct{}

// NewDodge is the dodge factory
func NewDodge() game.Module { return Dodge{} }

type rock struct {
	x int
	y float64
}

type dodgeState struct {
	rng      *rand.Rand
	runnerX  int
	rocks    []rock
	spawnIn  time.Duration
	interval time.Duration
	speed    float64
	runner   *asset.Sprite
	rock     *asset.Sprite
	survived time.Duration
	outcome  game.Outcome
	done     bool
}

const (
	runnerFallback = "o"
	rockFallback   = "@"
	rockSpeed      = 9.0
)

func (Dodge) Info() game.Info {
	return game.Info{
		ID:           "dodge",
		Title:        "Dodge",
		IntroText:    "Dodge!",
		Kind:         game.KindMinigame,
		Length:       game.DefaultLength,
		WinOnTimeout: true,
	}
}

func (Dodge) Manifest() asset.Manifest {
	return asset.Manifest{
		asset.ImageEntry("runner", "runner.txt"),
		asset.ImageEntry("rock", "rock.txt"),
		asset.ClipEntry("hit", "tone:140:200ms"),
	}
}

func (Dodge) Init(setup game.Setup) (game.State, error) {
	d := max(setup.Difficulty, 1)
	s := &dodgeState{
		rng:      newRand(setup.Seed),
		runnerX:  FieldWidth / 2,
		interval: time.Duration(450/d) * time.Millisecond,
		speed:    rockSpeed + 2*float64(d-1),
		runner:   setup.Assets.Sprite("runner"),
		rock:     setup.Assets.Sprite("rock"),
	}
	s.spawnIn = s.interval
	return s, nil
}

// runnerTop is the field row of the runner's head
func (s *dodgeState) runnerTop() int {
	h := 1
	if s.runner != nil && len(s.runner.Lines) > 0 {
		h = len(s.runner.Lines)
	}
	return FieldHeight - h
}

func (Dodge) Update(state game.State, in input.Snapshot, dt time.Duration) game.UpdateResult {
	s := state.(*dodgeState)
	if s.done {
		return game.Finish(s.outcome)
	}
	s.survived += dt

	if in.Pressed(input.KeyLeft) || in.Typed('a') {
		s.runnerX--
	}
	if in.Pressed(input.KeyRight) || in.Typed('d') {
		s.runnerX++
	}
	s.runnerX = clamp(s.runnerX, 0, FieldWidth-1)

	// large steps spawn several rocks so the field stays dense
	for s.spawnIn -= dt; s.spawnIn <= 0; s.spawnIn += s.interval {
		s.rocks = append(s.rocks, rock{x: s.rng.IntN(FieldWidth)})
	}

	top := s.runnerTop()
	live := s.rocks[:0]
	for _, r := range s.rocks {
		r.y += s.speed * dt.Seconds()
		if r.x == s.runnerX && int(r.y) >= top {
			s.done = true
			s.outcome = game.Of(game.Lost)
			return game.Finish(s.outcome, "hit")
		}
		if int(r.y) < FieldHeight {
			live = append(live, r)
		}
	}
	s.rocks = live
	return game.Continue()
}

func (Dodge) Draw(state game.State, f render.Frame) {
	s := state.(*dodgeState)
	drawField(f, "dodge", fmt.Sprintf("%.1fs", s.survived.Seconds()))
	style := render.StyleDefault.Foreground(tcell.ColorGray)
	for _, r := range s.rocks {
		putSprite(f, r.x, int(r.y), s.rock, rockFallback, style)
	}
	putSprite(f, s.runnerX, s.runnerTop(), s.runner, runnerFallback, render.StyleTitle)
}

// Outcome reports only a loss; surviving is resolved by the time budget
func (Dodge) Outcome(state game.State) (game.Outcome, bool) {
	s := state.(*dodgeState)
	return s.outcome, s.done
}
