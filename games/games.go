// Package games holds the built-in minigames and their embedded assets
package games

import (
	"embed"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"strings"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/game"
	"github.com/lixenwraith/weegames/input"
	"github.com/lixenwraith/weegames/render"
)

//go:embed assets
var embedded embed.FS

// Assets is the asset tree laid out as images/, audio/ and fonts/
var Assets fs.FS = mustSub(embedded, "assets")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("games: embedded assets: %v", err))
	}
	return sub
}

// All returns every built-in game in catalogue order
func All() []game.Factory {
	return []game.Factory{
		NewPop,
		NewCatch,
		NewDodge,
		NewReflex,
		NewGauntlet,
	}
}

// Playfield geometry shared by the built-in games
// The field sits below a one-line header, inside a border
const (
	FieldWidth  = 40
	FieldHeight = 14

	fieldX = 1
	fieldY = 2
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// drawField renders the header and border; content is drawn in field coordinates
func drawField(f render.Frame, title, status string) {
	render.DrawText(f, 0, 0, strings.ToUpper(title), render.StyleTitle)
	if status != "" {
		render.DrawText(f, FieldWidth+2-len(status), 0, status, render.StyleDim)
	}
	for x := 0; x < FieldWidth+2; x++ {
		f.SetContent(x, fieldY-1, '-', render.StyleDim)
		f.SetContent(x, fieldY+FieldHeight, '-', render.StyleDim)
	}
	for y := 0; y < FieldHeight; y++ {
		f.SetContent(fieldX-1, fieldY+y, '|', render.StyleDim)
		f.SetContent(fieldX+FieldWidth, fieldY+y, '|', render.StyleDim)
	}
}

// put draws text at field coordinates, clipped to the field
func put(f render.Frame, x, y int, s string, style render.Style) {
	if y < 0 || y >= FieldHeight {
		return
	}
	for i, r := range []rune(s) {
		if fx := x + i; fx >= 0 && fx < FieldWidth && r != ' ' {
			f.SetContent(fieldX+fx, fieldY+y, r, style)
		}
	}
}

// putSprite draws a sprite at field coordinates, falling back to text when missing
func putSprite(f render.Frame, x, y int, s *asset.Sprite, fallback string, style render.Style) {
	lines := []string{fallback}
	if s != nil && len(s.Lines) > 0 {
		lines = s.Lines
	}
	for dy, line := range lines {
		put(f, x, y+dy, line, style)
	}
}

// spriteWidth returns the sprite width or the fallback length
func spriteWidth(s *asset.Sprite, fallback string) int {
	if s == nil || len(s.Lines) == 0 {
		return len(fallback)
	}
	w, _ := s.Size()
	return w
}

// toField maps a pointer position into field coordinates
func toField(p input.Pointer) (int, int, bool) {
	x, y := p.X-fieldX, p.Y-fieldY
	return x, y, x >= 0 && x < FieldWidth && y >= 0 && y < FieldHeight
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
