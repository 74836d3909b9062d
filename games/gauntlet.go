package games

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

// Gauntlet is the boss: type every word before the clock or your nerve runs out
type Gauntlet struct{}

// NewGauntlet is the gauntlet factory
func NewGauntlet() game.Module { return Gauntlet{} }

var gauntletWords = []string{
	"wee", "game", "boss", "quick", "jump", "fast", "sprite", "pixel",
	"sound", "score", "lives", "speed", "timer", "combo", "level", "power",
}

const (
	gauntletMistakes = 3
	bossFallback     = "<BOSS>"
)

type gauntletState struct {
	words    []string
	word     int
	typed    int
	mistakes int
	boss     *asset.Sprite
	outcome  game.Outcome
	done     bool
}

func (Gauntlet) Info() game.Info {
	return game.Info{
		ID:        "gauntlet",
		Title:     "Gauntlet",
		IntroText: "Boss: type it!",
		Kind:      game.KindBoss,
		Length:    12 * time.Second,
	}
}

func (Gauntlet) Manifest() asset.Manifest {
	return asset.Manifest{
		asset.ImageEntry("boss", "boss.txt"),
		asset.MusicEntry("theme", "tone:220:500ms", true),
		asset.ClipEntry("ding", "pop.wav"),
		asset.ClipEntry("buzz", "tone:110:150ms"),
	}
}

func (Gauntlet) Init(setup game.Setup) (game.State, error) {
	rng := newRand(setup.Seed)
	n := 2 + max(setup.Difficulty, 1)
	s := &gauntletState{boss: setup.Assets.Sprite("boss")}
	for _, i := range rng.Perm(len(gauntletWords))[:n] {
		s.words = append(s.words, gauntletWords[i])
	}
	return s, nil
}

func (Gauntlet) Update(state game.State, in input.Snapshot, _ time.Duration) game.UpdateResult {
	s := state.(*gauntletState)
	if s.done {
		return game.Finish(s.outcome)
	}

	var sounds []string
	for _, r := range in.Runes {
		target := []rune(s.words[s.word])
		if r != target[s.typed] {
			s.mistakes++
			sounds = append(sounds, "buzz")
			if s.mistakes >= gauntletMistakes {
				s.done = true
				s.outcome = game.Of(game.Lost)
				return game.Finish(s.outcome, sounds...)
			}
			continue
		}
		s.typed++
		if s.typed < len(target) {
			continue
		}
		sounds = append(sounds, "ding")
		s.word, s.typed = s.word+1, 0
		if s.word == len(s.words) {
			s.done = true
			s.outcome = game.WonWith(100*len(s.words) - 25*s.mistakes)
			return game.Finish(s.outcome, sounds...)
		}
	}
	return game.Continue(sounds...)
}

func (Gauntlet) Draw(state game.State, f render.Frame) {
	s := state.(*gauntletState)
	drawField(f, "gauntlet", fmt.Sprintf("miss %d/%d", s.mistakes, gauntletMistakes))

	putSprite(f, (FieldWidth-spriteWidth(s.boss, bossFallback))/2, 1, s.boss, bossFallback,
		render.StyleDefault.Foreground(tcell.ColorPurple).Bold(true))

	row := FieldHeight / 2
	for i, w := range s.words {
		x := (FieldWidth - len(w)) / 2
		switch {
		case i < s.word:
			put(f, x, row+i, w, render.StyleDim)
		case i == s.word && !s.done:
			put(f, x, row+i, w[:s.typed], render.StyleWon)
			put(f, x+s.typed, row+i, w[s.typed:], render.StyleTitle)
		default:
			put(f, x, row+i, strings.Repeat(".", len(w)), render.StyleDim)
		}
	}
}

func (Gauntlet) Outcome(state game.State) (game.Outcome, bool) {
	s := state.(*gauntletState)
	return s.outcome, s.done
}
