package render

import "github.com/gdamore/tcell/v2"

// Frame is the draw target handed to games and overlays each frame
// Coordinates outside Size are ignored by implementations
type Frame interface {
	Size() (width, height int)
	SetContent(x, y int, r rune, style tcell.Style)
	Fill(r rune, style tcell.Style)
}

// Style is the cell style games draw with
type Style = tcell.Style

// Common styles shared by overlays and built-in games
var (
	StyleDefault = tcell.StyleDefault
	StyleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleTitle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleWon     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen).Bold(true)
	StyleLost    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true)
	StyleNeutral = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
)
