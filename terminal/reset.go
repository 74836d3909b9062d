package terminal

import (
	"io"
	"os"
)

var (
	seqMouseOff      = []byte("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l")
	seqCursorShow    = []byte("\x1b[?25h")
	seqAltScreenExit = []byte("\x1b[?1049l")
	seqSGR0          = []byte("\x1b[0m")
	seqAutoWrapOn    = []byte("\x1b[?7h")
)

// EmergencyReset restores a usable terminal without going through tcell
// Used by the crash handler when the screen may be in an unknown state
func EmergencyReset(w io.Writer) {
	for _, seq := range [][]byte{seqMouseOff, seqCursorShow, seqAltScreenExit, seqSGR0, seqAutoWrapOn} {
		_, _ = w.Write(seq)
	}
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
	resetTerminalMode()
}
