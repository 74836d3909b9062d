package games

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

// Pop: type the letter under each balloon, or click it, before time runs out
type Pop struct{}

// NewPop is the pop factory
func NewPop() game.Module { return Pop{} }

type balloon struct {
	x, y   int
	key    rune
	popped bool
}

type popState struct {
	balloons []balloon
	popped   int
	sprite   *asset.Sprite
	outcome  game.Outcome
	done     bool
}

const popFallback = "(O)"

func (Pop) Info() game.Info {
	return game.Info{
		ID:        "pop",
		Title:     "Pop",
		IntroText: "Pop!",
		Kind:      game.KindMinigame,
		Length:    game.DefaultLength,
	}
}

func (Pop) Manifest() asset.Manifest {
	return asset.Manifest{
		asset.ImageEntry("balloon", "balloon.txt"),
		asset.ClipEntry("pop", "pop.wav"),
	}
}

func (Pop) Init(setup game.Setup) (game.State, error) {
	rng := newRand(setup.Seed)
	n := 2 + max(setup.Difficulty, 1)
	s := &popState{sprite: setup.Assets.Sprite("balloon")}

	w := spriteWidth(s.sprite, popFallback)
	lane := (FieldWidth - 2) / n
	letters := rng.Perm(26)
	for i := 0; i < n; i++ {
		s.balloons = append(s.balloons, balloon{
			x:   1 + i*lane + rng.IntN(max(lane-w, 1)),
			y:   1 + rng.IntN(FieldHeight-6),
			key: rune('a' + letters[i]),
		})
	}
	return s, nil
}

func (Pop) Update(state game.State, in input.Snapshot, _ time.Duration) game.UpdateResult {
	s := state.(*popState)
	if s.done {
		return game.Finish(s.outcome)
	}

	var sounds []string
	for _, r := range in.Runes {
		if s.pop(func(b *balloon) bool { return b.key == r }) {
			sounds = append(sounds, "pop")
		}
	}
	if in.Pointer.Button == input.ButtonPress {
		if x, y, ok := toField(in.Pointer); ok {
			w := spriteWidth(s.sprite, popFallback)
			if s.pop(func(b *balloon) bool {
				return x >= b.x && x < b.x+w && y >= b.y && y <= b.y+3
			}) {
				sounds = append(sounds, "pop")
			}
		}
	}

	if s.popped == len(s.balloons) {
		s.done = true
		s.outcome = game.WonWith(s.popped * 10)
		return game.Finish(s.outcome, sounds...)
	}
	return game.Continue(sounds...)
}

// pop bursts the first live balloon matching hit
func (s *popState) pop(hit func(*balloon) bool) bool {
	for i := range s.balloons {
		b := &s.balloons[i]
		if !b.popped && hit(b) {
			b.popped = true
			s.popped++
			return true
		}
	}
	return false
}

func (Pop) Draw(state game.State, f render.Frame) {
	s := state.(*popState)
	drawField(f, "pop", fmt.Sprintf("%d/%d", s.popped, len(s.balloons)))
	style := render.StyleDefault.Foreground(tcell.ColorRed)
	for _, b := range s.balloons {
		if b.popped {
			put(f, b.x, b.y+1, "*", render.StyleDim)
			continue
		}
		putSprite(f, b.x, b.y, s.sprite, popFallback, style)
		put(f, b.x+1, b.y+3, string(b.key), render.StyleTitle)
	}
}

func (Pop) Outcome(state game.State) (game.Outcome, bool) {
	s := state.(*popState)
	return s.outcome, s.done
}
