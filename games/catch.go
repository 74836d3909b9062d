package games

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

// Catch: steer the basket under the falling egg
type Catch struct{}

// NewCatch is the catch factory
func NewCatch() game.Module { return Catch{} }

type catchState struct {
	basketX int
	eggX    int
	eggY    float64
	speed   float64 // rows per second
	basket  *asset.Sprite
	egg     *asset.Sprite
	outcome game.Outcome
	done    bool
}

const (
	basketFallback = `\___/`
	eggFallback    = "()"
	basketStep     = 2
)

func (Catch) Info() game.Info {
	return game.Info{
		ID:        "catch",
		Title:     "Catch",
		IntroText: "Catch!",
		Kind:      game.KindMinigame,
		Length:    5 * time.Second,
	}
}

func (Catch) Manifest() asset.Manifest {
	return asset.Manifest{
		asset.ImageEntry("basket", "basket.txt"),
		asset.ImageEntry("egg", "egg.txt"),
		asset.ClipEntry("caught", "pop.wav"),
	}
}

func (Catch) Init(setup game.Setup) (game.State, error) {
	rng := newRand(setup.Seed)
	s := &catchState{
		basket: setup.Assets.Sprite("basket"),
		egg:    setup.Assets.Sprite("egg"),
	}
	bw := spriteWidth(s.basket, basketFallback)
	s.basketX = (FieldWidth - bw) / 2
	s.eggX = rng.IntN(FieldWidth - 2)
	// the fall takes under four seconds at difficulty one
	s.speed = float64(FieldHeight-1) / (3.6 - 0.6*float64(max(setup.Difficulty, 1)-1))
	return s, nil
}

func (Catch) Update(state game.State, in input.Snapshot, dt time.Duration) game.UpdateResult {
	s := state.(*catchState)
	if s.done {
		return game.Finish(s.outcome)
	}

	bw := spriteWidth(s.basket, basketFallback)
	if in.Pressed(input.KeyLeft) || in.Typed('a') {
		s.basketX -= basketStep
	}
	if in.Pressed(input.KeyRight) || in.Typed('d') {
		s.basketX += basketStep
	}
	if x, _, ok := toField(in.Pointer); ok && in.Pointer.Button.IsHeld() {
		s.basketX = x - bw/2
	}
	s.basketX = clamp(s.basketX, 0, FieldWidth-bw)

	s.eggY += s.speed * dt.Seconds()
	if int(s.eggY) < FieldHeight-1 {
		return game.Continue()
	}

	s.done = true
	ew := spriteWidth(s.egg, eggFallback)
	if s.eggX+ew > s.basketX && s.eggX < s.basketX+bw {
		s.outcome = game.WonWith(50)
		return game.Finish(s.outcome, "caught")
	}
	s.outcome = game.Of(game.Lost)
	return game.Finish(s.outcome)
}

func (Catch) Draw(state game.State, f render.Frame) {
	s := state.(*catchState)
	drawField(f, "catch", "")
	eggY := min(int(s.eggY), FieldHeight-1)
	putSprite(f, s.eggX, eggY, s.egg, eggFallback, render.StyleDefault.Foreground(tcell.ColorYellow))
	putSprite(f, s.basketX, FieldHeight-1, s.basket, basketFallback, render.StyleTitle)
}

func (Catch) Outcome(state game.State) (game.Outcome, bool) {
	s := state.(*catchState)
	return s.outcome, s.done
}
