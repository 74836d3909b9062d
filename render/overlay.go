package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// DrawLoading renders the loading indicator shown while assets are pending
func DrawLoading(f Frame, title string, elapsed time.Duration) {
	_, h := f.Size()
	spin := spinnerFrames[int(elapsed/(100*time.Millisecond))%len(spinnerFrames)]
	DrawCentered(f, h/2-1, strings.ToUpper(title), StyleTitle)
	DrawCentered(f, h/2+1, fmt.Sprintf("loading %c", spin), StyleDim)
}

// DrawIntro renders the game's intro text over the playfield, wrapped to the frame
func DrawIntro(f Frame, text string) {
	if text == "" {
		return
	}
	w, h := f.Size()
	lines := WrapLines(strings.ToUpper(text), w-2)
	top := h/2 - len(lines)/2
	for i, line := range lines {
		DrawCentered(f, top+i, " "+line+" ", StyleTitle.Reverse(true))
	}
}

// WrapLines word-wraps s to width columns; words longer than width are cut
func WrapLines(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	wrapped := wrap.String(wordwrap.String(s, width), width)
	return strings.Split(wrapped, "\n")
}

// BannerStyle picks the banner style for an outcome label
func BannerStyle(won, lost bool) tcell.Style {
	switch {
	case won:
		return StyleWon
	case lost:
		return StyleLost
	default:
		return StyleNeutral
	}
}

// DrawBanner renders the outcome display shown while a run resolves
// detail lines are drawn below the headline
func DrawBanner(f Frame, headline string, style tcell.Style, detail ...string) {
	w, h := f.Size()
	width := len(headline) + 4
	for _, d := range detail {
		if len(d)+4 > width {
			width = len(d) + 4
		}
	}
	if width > w {
		width = w
	}
	height := 3 + len(detail)
	top := (h - height) / 2
	left := (w - width) / 2

	DrawBox(f, left, top, width, height, ' ', style)
	DrawCentered(f, top+1, headline, style)
	for i, d := range detail {
		DrawCentered(f, top+2+i, d, style)
	}
}
