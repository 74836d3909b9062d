package asset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	goerrors "github.com/pixil98/go-errors"
)

// ErrNotReady is returned when adopting a preload that has not finished
var ErrNotReady = errors.New("preload not ready")

// Scope resolves logical names against one registered manifest
type Scope struct {
	id       string
	manifest Manifest
	cache    *Cache
}

// ID returns the id the manifest was registered under
func (s *Scope) ID() string {
	return s.id
}

// Manifest returns a copy of the scope's manifest
func (s *Scope) Manifest() Manifest {
	return append(Manifest(nil), s.manifest...)
}

// Acquire resolves name, loading the resource if it is not resident
func (s *Scope) Acquire(name string) (Handle, error) {
	e, ok := s.manifest.Lookup(name)
	if !ok {
		return Handle{}, fmt.Errorf("%s/%s: %w", s.id, name, ErrAssetNotFound)
	}
	return s.cache.acquire(context.Background(), e, nil)
}

// Release drops a handle acquired from this scope
func (s *Scope) Release(h Handle) error {
	return s.cache.Release(h)
}

// RefCount returns the reference count of the resource behind name
func (s *Scope) RefCount(name string) int {
	e, ok := s.manifest.Lookup(name)
	if !ok {
		return 0
	}
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	if r, ok := s.cache.res[e.key()]; ok {
		return r.refs
	}
	return 0
}

// Preload starts decoding every non-resident entry in the background
// The cache itself is not touched until AcquireAll adopts the result
func (s *Scope) Preload(ctx context.Context) *Preload {
	ctx, cancel := context.WithCancel(ctx)
	p := &Preload{
		cancel: cancel,
		done:   make(chan struct{}),
		staged: make(map[key]any),
	}

	s.cache.mu.Lock()
	pending := make([]Entry, 0, len(s.manifest))
	seen := make(map[key]bool, len(s.manifest))
	for _, e := range s.manifest {
		k := e.key()
		if _, resident := s.cache.res[k]; resident || seen[k] {
			continue
		}
		seen[k] = true
		pending = append(pending, e)
	}
	s.cache.mu.Unlock()

	go func() {
		defer close(p.done)
		defer cancel()
		for _, e := range pending {
			v, err := s.cache.load(ctx, e)
			if err != nil {
				p.err = err
				return
			}
			p.staged[e.key()] = v
		}
	}()
	return p
}

// AcquireAll takes a handle on every manifest entry
// On failure every handle acquired so far is released
func (s *Scope) AcquireAll(pre *Preload) (*Handles, error) {
	if pre != nil {
		if !pre.Ready() {
			return nil, fmt.Errorf("%s: %w", s.id, ErrNotReady)
		}
		if pre.err != nil {
			return nil, pre.err
		}
	}

	hs := &Handles{scope: s, byName: make(map[string]Handle, len(s.manifest))}
	for _, e := range s.manifest {
		var staged any
		if pre != nil {
			staged = pre.staged[e.key()]
		}
		h, err := s.cache.acquire(context.Background(), e, staged)
		if err != nil {
			if rerr := hs.ReleaseAll(); rerr != nil {
				s.cache.logger.Error("release after failed acquire", "scope", s.id, "error", rerr)
			}
			return nil, err
		}
		hs.byName[e.Name] = h
		hs.order = append(hs.order, e.Name)
	}
	return hs, nil
}

// Preload is a background decode of one manifest
type Preload struct {
	cancel context.CancelFunc
	done   chan struct{}
	staged map[key]any
	err    error
}

// Ready reports whether the decode has finished, without blocking
func (p *Preload) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Err returns the decode failure once Ready
func (p *Preload) Err() error {
	if !p.Ready() {
		return nil
	}
	return p.err
}

// Cancel abandons the decode; staged values are discarded
func (p *Preload) Cancel() {
	p.cancel()
}

// Done is closed when the decode finishes
func (p *Preload) Done() <-chan struct{} {
	return p.done
}

// Handles is the set of handles one activation holds
// It is the read-only asset view handed to a game
type Handles struct {
	mu     sync.Mutex
	scope  *Scope
	byName map[string]Handle
	order  []string
}

// Len returns the number of held handles
func (h *Handles) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byName)
}

// Handle returns the handle held for name
func (h *Handles) Handle(name string) (Handle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hd, ok := h.byName[name]
	return hd, ok
}

// Get returns the resource behind name
func (h *Handles) Get(name string) (any, bool) {
	hd, ok := h.Handle(name)
	if !ok {
		return nil, false
	}
	return h.scope.cache.Get(hd)
}

// Sprite returns the named image, nil when absent
func (h *Handles) Sprite(name string) *Sprite {
	v, _ := h.Get(name)
	s, _ := v.(*Sprite)
	return s
}

// Clip returns the named audio clip or music track, nil when absent
func (h *Handles) Clip(name string) *Clip {
	v, _ := h.Get(name)
	c, _ := v.(*Clip)
	return c
}

// Font returns the named font, nil when absent
func (h *Handles) Font(name string) *Font {
	v, _ := h.Get(name)
	f, _ := v.(*Font)
	return f
}

// ReleaseAll drops every held handle in reverse acquisition order
// Calling it again is a no-op
func (h *Handles) ReleaseAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	el := goerrors.NewErrorList()
	for i := len(h.order) - 1; i >= 0; i-- {
		name := h.order[i]
		if err := h.scope.cache.Release(h.byName[name]); err != nil {
			el.Add(err)
		}
		delete(h.byName, name)
	}
	h.order = nil
	return el.Err()
}
