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

// Reflex: press any key as soon as GO appears, not before
type Reflex struct{}

// NewReflex is the reflex factory
func NewReflex() game.Module { return Reflex{} }

type reflexState struct {
	font    *blockFont
	delay   time.Duration
	elapsed time.Duration
	early   bool
	outcome game.Outcome
	done    bool
}

// reflexPerfect is the score for an instant reaction, less one per millisecond
const reflexPerfect = 1000

func (Reflex) Info() game.Info {
	return game.Info{
		ID:        "reflex",
		Title:     "Reflex",
		IntroText: "Wait for it",
		Kind:      game.KindMinigame,
		Length:    game.DefaultLength,
	}
}

func (Reflex) Manifest() asset.Manifest {
	return asset.Manifest{
		asset.FontEntry("block", "block.txt", 5),
		asset.ClipEntry("go", "tone:880:120ms"),
		asset.ClipEntry("fail", "tone:150:250ms"),
	}
}

func (Reflex) Init(setup game.Setup) (game.State, error) {
	font, err := parseBlockFont(setup.Assets.Font("block"))
	if err != nil {
		return nil, fmt.Errorf("reflex font: %w", err)
	}
	rng := newRand(setup.Seed)
	return &reflexState{
		font:  font,
		delay: time.Duration(1200+rng.IntN(1500)) * time.Millisecond,
	}, nil
}

func (Reflex) Update(state game.State, in input.Snapshot, dt time.Duration) game.UpdateResult {
	s := state.(*reflexState)
	if s.done {
		return game.Finish(s.outcome)
	}

	before := s.elapsed < s.delay
	s.elapsed += dt
	pressed := in.Any()

	switch {
	case pressed && before:
		s.done, s.early = true, true
		s.outcome = game.Of(game.Lost)
		return game.Finish(s.outcome, "fail")
	case pressed:
		reaction := s.elapsed - s.delay
		s.done = true
		s.outcome = game.WonWith(max(reflexPerfect-int(reaction.Milliseconds()), 1))
		return game.Finish(s.outcome)
	case before && s.elapsed >= s.delay:
		return game.Continue("go")
	}
	return game.Continue()
}

func (Reflex) Draw(state game.State, f render.Frame) {
	s := state.(*reflexState)
	drawField(f, "reflex", "")

	y := (FieldHeight - s.font.height) / 2
	switch {
	case s.early:
		put(f, (FieldWidth-9)/2, FieldHeight/2, "TOO SOON!", render.StyleLost)
	case s.elapsed < s.delay:
		put(f, (FieldWidth-3)/2, FieldHeight/2, "...", render.StyleDim)
	default:
		text := "GO!"
		if s.done {
			text = fmt.Sprint(s.outcome.Score)
		}
		style := render.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
		s.font.draw(f, (FieldWidth-s.font.width(text))/2, y, text, style)
	}
}

func (Reflex) Outcome(state game.State) (game.Outcome, bool) {
	s := state.(*reflexState)
	return s.outcome, s.done
}
