package session

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/weegames/game"
)

var (
	// ErrBusy is returned by Start while a play-list is running
	ErrBusy = errors.New("session already running")
	// ErrLoadFailure is wrapped by every LoadFailure
	ErrLoadFailure = errors.New("game load failed")
	// ErrPanic marks a failure recovered from a panicking module
	ErrPanic = errors.New("module panicked")
	// ErrLoadTimeout is the cause of a LoadFailure when preloading runs too long
	ErrLoadTimeout = errors.New("load timed out")
)

// LoadFailure reports a game that could not reach Playing
type LoadFailure struct {
	GameID game.ID
	Index  int
	Err    error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("load %q (#%d): %v", e.GameID, e.Index, e.Err)
}

// Unwrap exposes both ErrLoadFailure and the underlying cause
func (e *LoadFailure) Unwrap() []error {
	return []error{ErrLoadFailure, e.Err}
}

// PanicError carries a recovered panic value
type PanicError struct {
	Op    string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Value)
}

// Is matches ErrPanic
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}
