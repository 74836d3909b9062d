package asset

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetNotFound is returned when the manifest has no entry for a name
	ErrAssetNotFound = errors.New("asset not found")
	// ErrLoad is wrapped by every LoadError
	ErrLoad = errors.New("asset load failed")
	// ErrStaleHandle is returned when releasing a handle that is no longer live
	ErrStaleHandle = errors.New("stale asset handle")
)

// LoadError reports a resource that could not be decoded after all retries
type LoadError struct {
	Name     string
	Source   string
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q from %q after %d attempt(s): %v", e.Name, e.Source, e.Attempts, e.Err)
}

// Unwrap exposes both ErrLoad and the underlying cause
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}
