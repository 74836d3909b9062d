package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Screen adapts a tcell screen to the frame the loop draws into
type Screen struct {
	tcell.Screen
}

// NewScreen opens the controlling terminal
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open screen: %w", err)
	}
	return &Screen{Screen: s}, nil
}

// WrapScreen adapts an existing tcell screen, such as a simulation screen
func WrapScreen(s tcell.Screen) *Screen {
	return &Screen{Screen: s}
}

// SetContent writes one cell
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.Screen.SetContent(x, y, r, nil, style)
}
