package input

import "sync"

// EventKind classifies raw device events pushed by the terminal poller
type EventKind uint8

const (
	EventKey EventKind = iota
	EventRune
	EventPointer
	EventQuit
)

// Event is one raw device event
type Event struct {
	Kind   EventKind
	Key    Key
	Rune   rune
	X, Y   int
	Button bool // Pointer button held
}

// Collector accumulates events between frames and folds them into a Snapshot
// Push is called from the polling goroutine; Snapshot from the frame loop
type Collector struct {
	mu       sync.Mutex
	keys     []Key
	runes    []rune
	x, y     int
	held     bool
	pressed  bool
	released bool
	quit     bool
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Push records a device event for the next frame
func (c *Collector) Push(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Kind {
	case EventKey:
		c.keys = append(c.keys, ev.Key)
	case EventRune:
		c.runes = append(c.runes, ev.Rune)
	case EventPointer:
		c.x, c.y = ev.X, ev.Y
		if ev.Button && !c.held {
			c.pressed = true
		}
		if !ev.Button && c.held {
			c.released = true
		}
		c.held = ev.Button
	case EventQuit:
		c.quit = true
	}
}

// Snapshot drains pending events into a frame snapshot
// Press and release edges seen within one frame are both preserved, press wins
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Keys:  c.keys,
		Runes: c.runes,
		Quit:  c.quit,
		Pointer: Pointer{
			X: c.x,
			Y: c.y,
		},
	}

	switch {
	case c.pressed:
		s.Pointer.Button = ButtonPress
	case c.released:
		s.Pointer.Button = ButtonRelease
	case c.held:
		s.Pointer.Button = ButtonDown
	default:
		s.Pointer.Button = ButtonUp
	}

	c.keys = nil
	c.runes = nil
	c.pressed = false
	c.released = false
	c.quit = false

	return s
}
