package input

// ButtonState is the state of the pointer button for one frame
type ButtonState uint8

const (
	ButtonUp      ButtonState = iota // Not held
	ButtonDown                       // Held since a previous frame
	ButtonPress                      // Went down this frame
	ButtonRelease                    // Went up this frame
)

func (b ButtonState) String() string {
	switch b {
	case ButtonDown:
		return "down"
	case ButtonPress:
		return "press"
	case ButtonRelease:
		return "release"
	default:
		return "up"
	}
}

// IsHeld returns true for Down and Press
func (b ButtonState) IsHeld() bool {
	return b == ButtonDown || b == ButtonPress
}

// Key identifies a non-printable key; printable input arrives as runes
type Key uint8

const (
	KeyNone Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = [...]string{
	KeyNone:      "none",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// Pointer is the mouse/touch position in frame cells
type Pointer struct {
	X, Y   int
	Button ButtonState
}

// Snapshot is the device state handed to the active game for one frame
// Games receive it by value and must treat the slices as read-only
type Snapshot struct {
	Keys    []Key
	Runes   []rune
	Pointer Pointer
	Quit    bool // Player asked to leave the session
}

// Pressed reports whether key k was pressed this frame
func (s Snapshot) Pressed(k Key) bool {
	for _, key := range s.Keys {
		if key == k {
			return true
		}
	}
	return false
}

// Typed reports whether rune r was typed this frame
func (s Snapshot) Typed(r rune) bool {
	for _, c := range s.Runes {
		if c == r {
			return true
		}
	}
	return false
}

// Any reports whether there was any key, rune, or pointer press this frame
func (s Snapshot) Any() bool {
	return len(s.Keys) > 0 || len(s.Runes) > 0 || s.Pointer.Button == ButtonPress
}

// Clone returns a deep copy so the caller cannot observe later mutation
func (s Snapshot) Clone() Snapshot {
	c := s
	if s.Keys != nil {
		c.Keys = append([]Key(nil), s.Keys...)
	}
	if s.Runes != nil {
		c.Runes = append([]rune(nil), s.Runes...)
	}
	return c
}
