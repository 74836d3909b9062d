package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lixenwraith/weegames/game"
)

var (
	// ErrUnknownGame is returned for ids not present in the registry
	ErrUnknownGame = errors.New("unknown game")
	// ErrDuplicateGame is returned when an id is registered twice
	ErrDuplicateGame = errors.New("duplicate game")
	// ErrEmptyPlaylist is returned for a play-list with no entries
	ErrEmptyPlaylist = errors.New("empty playlist")
)

type entry struct {
	factory game.Factory
	info    game.Info
}

// Registry is the ordered catalogue of game factories
// Fixed after startup in practice; reads are lock-guarded regardless
type Registry struct {
	mu      sync.RWMutex
	entries map[game.ID]entry
	order   []game.ID
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[game.ID]entry)}
}

// Register adds a factory; the id and manifest come from a probe instance
func (r *Registry) Register(factory game.Factory) error {
	if factory == nil {
		return errors.New("register: nil factory")
	}
	probe := factory()
	info := probe.Info()
	if info.ID == "" {
		return errors.New("register: game id is required")
	}
	if err := probe.Manifest().Validate(); err != nil {
		return fmt.Errorf("register %q: %w", info.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[info.ID]; exists {
		return fmt.Errorf("register %q: %w", info.ID, ErrDuplicateGame)
	}
	r.entries[info.ID] = entry{factory: factory, info: info}
	r.order = append(r.order, info.ID)
	return nil
}

// MustRegister is Register for static catalogues; it panics on error
func (r *Registry) MustRegister(factories ...game.Factory) {
	for _, f := range factories {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
}

// List returns ids in registration order
func (r *Registry) List() []game.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]game.ID(nil), r.order...)
}

// Len returns the number of registered games
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Lookup returns the factory for id
func (r *Registry) Lookup(id game.ID) (game.Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	return e.factory, nil
}

// Info returns the metadata captured at registration
func (r *Registry) Info(id game.ID) (game.Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e.info, ok
}

// ByKind returns ids of one kind in registration order
func (r *Registry) ByKind(kind game.Kind) []game.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []game.ID
	for _, id := range r.order {
		if r.entries[id].info.Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}
