package games

import (
	"bufio"
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/lixenwraith/weegames/asset"
	"github.com/lixenwraith/weegames/render"
)

// blockFont maps a character to its rows of glyph art
// Face format: a "=c" header line per character followed by its rows
type blockFont struct {
	glyphs map[rune][]string
	height int
}

func parseBlockFont(f *asset.Font) (*blockFont, error) {
	if f == nil {
		return nil, fmt.Errorf("font missing")
	}
	bf := &blockFont{glyphs: make(map[rune][]string)}

	var cur rune = -1
	sc := bufio.NewScanner(bytes.NewReader(f.Face))
	for sc.Scan() {
		line := sc.Text()
		if len(line) >= 2 && line[0] == '=' {
			r, _ := utf8.DecodeRuneInString(line[1:])
			cur = r
			bf.glyphs[cur] = nil
			continue
		}
		if cur < 0 {
			return nil, fmt.Errorf("glyph row before first header")
		}
		bf.glyphs[cur] = append(bf.glyphs[cur], line)
		bf.height = max(bf.height, len(bf.glyphs[cur]))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if len(bf.glyphs) == 0 {
		return nil, fmt.Errorf("font has no glyphs")
	}
	return bf, nil
}

// width is the rendered width of s, one column between glyphs
func (bf *blockFont) width(s string) int {
	w := 0
	for _, r := range s {
		if w > 0 {
			w++
		}
		w += bf.glyphWidth(r)
	}
	return w
}

func (bf *blockFont) glyphWidth(r rune) int {
	w := 0
	for _, row := range bf.glyphs[r] {
		w = max(w, utf8.RuneCountInString(row))
	}
	if w == 0 {
		w = 1
	}
	return w
}

// draw renders s at field coordinates; unknown characters leave a gap
func (bf *blockFont) draw(f render.Frame, x, y int, s string, style render.Style) {
	for _, r := range s {
		for dy, row := range bf.glyphs[r] {
			put(f, x, y+dy, row, style)
		}
		x += bf.glyphWidth(r) + 1
	}
}
