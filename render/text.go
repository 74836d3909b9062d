package render

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// DrawText writes s starting at x,y, clipped by the frame
func DrawText(f Frame, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		f.SetContent(x, y, r, style)
		x++
	}
}

// DrawCentered writes s horizontally centered on row y
func DrawCentered(f Frame, y int, s string, style tcell.Style) {
	w, _ := f.Size()
	x := (w - utf8.RuneCountInString(s)) / 2
	if x < 0 {
		x = 0
	}
	DrawText(f, x, y, s, style)
}

// DrawBox fills a rectangle with r
func DrawBox(f Frame, x, y, w, h int, r rune, style tcell.Style) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			f.SetContent(x+dx, y+dy, r, style)
		}
	}
}

// DrawLines writes a block of lines with its top-left corner at x,y
// Spaces are transparent so sprites can overlap the background
func DrawLines(f Frame, x, y int, lines []string, style tcell.Style) {
	for dy, line := range lines {
		dx := 0
		for _, r := range line {
			if r != ' ' {
				f.SetContent(x+dx, y+dy, r, style)
			}
			dx++
		}
	}
}
