package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/weegames/input"
)

// Action is a system command handled by the shell rather than the game
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleMute
	ActionRedraw
)

// binding routes a tcell key either to the game or to the shell
type binding struct {
	key    input.Key
	action Action
}

// DefaultKeyMap maps special keys; printable keys arrive as runes
var DefaultKeyMap = map[tcell.Key]binding{
	tcell.KeyEnter:      {key: input.KeyEnter},
	tcell.KeyBackspace:  {key: input.KeyBackspace},
	tcell.KeyBackspace2: {key: input.KeyBackspace},
	tcell.KeyTab:        {key: input.KeyTab},
	tcell.KeyUp:         {key: input.KeyUp},
	tcell.KeyDown:       {key: input.KeyDown},
	tcell.KeyLeft:       {key: input.KeyLeft},
	tcell.KeyRight:      {key: input.KeyRight},
	tcell.KeyEscape:     {action: ActionQuit},
	tcell.KeyCtrlC:      {action: ActionQuit},
	tcell.KeyCtrlQ:      {action: ActionQuit},
	tcell.KeyCtrlS:      {action: ActionToggleMute},
	tcell.KeyCtrlL:      {action: ActionRedraw},
}

// Translate maps a tcell event onto collector events and a shell action
func Translate(ev tcell.Event) ([]input.Event, Action) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyRune {
			return []input.Event{{Kind: input.EventRune, Rune: ev.Rune()}}, ActionNone
		}
		b, ok := DefaultKeyMap[ev.Key()]
		if !ok {
			return nil, ActionNone
		}
		if b.action == ActionQuit {
			return []input.Event{{Kind: input.EventQuit}}, ActionQuit
		}
		if b.action != ActionNone {
			return nil, b.action
		}
		return []input.Event{{Kind: input.EventKey, Key: b.key}}, ActionNone

	case *tcell.EventMouse:
		x, y := ev.Position()
		held := ev.Buttons()&tcell.Button1 != 0
		return []input.Event{{Kind: input.EventPointer, X: x, Y: y, Button: held}}, ActionNone

	case *tcell.EventResize:
		return nil, ActionRedraw
	}
	return nil, ActionNone
}
