package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/weegames/terminal"
)

// Finisher releases the terminal before crash output is printed
type Finisher interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finisher
	exit          = os.Exit
)

// SetCrashTerminal registers the screen finalized on crash, nil clears it
func SetCrashTerminal(f Finisher) {
	crashMu.Lock()
	crashTerminal = f
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	f := crashTerminal
	crashMu.Unlock()

	if f != nil {
		f.Fini()
	}
	terminal.EmergencyReset(os.Stdout)
	_ = os.Stdout.Sync()

	report(os.Stderr, r, debug.Stack())
	_ = os.Stderr.Sync()

	exit(1)
}

// report prints the crash banner with CRLF endings, the terminal may still be raw
func report(w io.Writer, r any, stack []byte) {
	fmt.Fprintf(w, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(w, "Stack Trace:\r\n%s\r\n", stack)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
