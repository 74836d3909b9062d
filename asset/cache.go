package asset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/weegames/status"
)

// ErrLeakedHandles is returned by Close when handles are still outstanding
var ErrLeakedHandles = errors.New("leaked asset handles")

// EvictPolicy decides when a resource with no references is dropped
type EvictPolicy uint8

const (
	// EvictImmediate drops a resource as soon as its count reaches zero
	EvictImmediate EvictPolicy = iota
	// EvictOnSweep keeps zero-ref resources resident until Sweep
	EvictOnSweep
)

// DefaultRetries is the number of reload attempts after a failed decode
const DefaultRetries = 2

type resource struct {
	value any
	refs  int
}

// Cache holds reference-counted resources shared across games
// All state is guarded by mu; loads run outside the lock
type Cache struct {
	mu       sync.Mutex
	loader   Loader
	retries  int
	policy   EvictPolicy
	logger   *slog.Logger
	scopes   map[string]*Scope
	res      map[key]*resource
	handles  map[uint64]Handle
	nextGen  uint64
	resident *atomic.Int64
	loads    *atomic.Int64
	retried  *atomic.Int64
	evicted  *atomic.Int64
}

// CacheOpt configures a Cache
type CacheOpt func(*Cache)

// WithRetries sets how many times a failed load is retried
func WithRetries(n int) CacheOpt {
	return func(c *Cache) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithEvictPolicy sets the eviction policy
func WithEvictPolicy(p EvictPolicy) CacheOpt {
	return func(c *Cache) {
		c.policy = p
	}
}

// WithLogger sets the cache logger
func WithLogger(l *slog.Logger) CacheOpt {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics publishes cache counters to reg
func WithMetrics(reg *status.Registry) CacheOpt {
	return func(c *Cache) {
		if reg == nil {
			return
		}
		c.resident = reg.Ints.Get(status.AssetsResident)
		c.loads = reg.Ints.Get(status.AssetLoads)
		c.retried = reg.Ints.Get(status.AssetRetries)
		c.evicted = reg.Ints.Get(status.AssetEvictions)
	}
}

// NewCache creates a cache that decodes through loader
func NewCache(loader Loader, opts ...CacheOpt) *Cache {
	c := &Cache{
		loader:  loader,
		retries: DefaultRetries,
		policy:  EvictImmediate,
		logger:  slog.Default(),
		scopes:  make(map[string]*Scope),
		res:     make(map[key]*resource),
		handles: make(map[uint64]Handle),
	}
	WithMetrics(status.NewRegistry())(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register validates a manifest and returns the scope its names resolve in
// Registering the same id again replaces the manifest
func (c *Cache) Register(id string, m Manifest) (*Scope, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %q: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := &Scope{id: id, manifest: append(Manifest(nil), m...), cache: c}
	c.scopes[id] = s
	return s, nil
}

// Scope returns a registered scope
func (c *Cache) Scope(id string) (*Scope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.scopes[id]
	return s, ok
}

// acquire takes a reference on e, loading it unless resident or staged
func (c *Cache) acquire(ctx context.Context, e Entry, staged any) (Handle, error) {
	k := e.key()

	c.mu.Lock()
	if r, ok := c.res[k]; ok {
		h := c.issueLocked(e.Name, k, r)
		c.mu.Unlock()
		return h, nil
	}
	c.mu.Unlock()

	value := staged
	if value == nil {
		v, err := c.load(ctx, e)
		if err != nil {
			return Handle{}, err
		}
		value = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.res[k]
	if !ok {
		r = &resource{value: value}
		c.res[k] = r
		c.resident.Store(int64(len(c.res)))
	}
	return c.issueLocked(e.Name, k, r), nil
}

func (c *Cache) issueLocked(name string, k key, r *resource) Handle {
	c.nextGen++
	r.refs++
	h := Handle{name: name, key: k, gen: c.nextGen}
	c.handles[h.gen] = h
	return h
}

// load decodes e with bounded retries
func (c *Cache) load(ctx context.Context, e Entry) (any, error) {
	attempts := c.retries + 1
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			c.retried.Add(1)
			c.logger.Debug("asset retry", "name", e.Name, "source", e.Source, "attempt", i+1, "error", lastErr)
		}
		v, err := c.loader.Load(ctx, e)
		if err == nil {
			c.loads.Add(1)
			return v, nil
		}
		lastErr = err
	}
	return nil, &LoadError{Name: e.Name, Source: e.Source, Attempts: attempts, Err: lastErr}
}

// Release drops one reference; releasing twice returns ErrStaleHandle
func (c *Cache) Release(h Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.handles[h.gen]; !ok || h.IsZero() {
		return fmt.Errorf("release %s: %w", h, ErrStaleHandle)
	}
	delete(c.handles, h.gen)

	r, ok := c.res[h.key]
	if !ok {
		return fmt.Errorf("release %s: %w", h, ErrStaleHandle)
	}
	r.refs--
	if r.refs <= 0 && c.policy == EvictImmediate {
		c.evictLocked(h.key)
	}
	return nil
}

func (c *Cache) evictLocked(k key) {
	delete(c.res, k)
	c.evicted.Add(1)
	c.resident.Store(int64(len(c.res)))
}

// Get returns the resource behind a live handle
func (c *Cache) Get(h Handle) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.handles[h.gen]; !ok {
		return nil, false
	}
	r, ok := c.res[h.key]
	if !ok {
		return nil, false
	}
	return r.value, true
}

// Sweep evicts every resident resource with no references
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, r := range c.res {
		if r.refs <= 0 {
			c.evictLocked(k)
			n++
		}
	}
	return n
}

// Live returns the number of outstanding handles
func (c *Cache) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// Resident returns the number of decoded resources held in memory
func (c *Cache) Resident() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.res)
}

// LiveNames lists outstanding handles, sorted, for leak reports
func (c *Cache) LiveNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.handles))
	for _, h := range c.handles {
		names = append(names, h.String())
	}
	sort.Strings(names)
	return names
}

// Close drops every resource and reports handles that were never released
func (c *Cache) Close() error {
	leaked := c.LiveNames()

	c.mu.Lock()
	c.res = make(map[key]*resource)
	c.handles = make(map[uint64]Handle)
	c.resident.Store(0)
	c.mu.Unlock()

	if len(leaked) > 0 {
		c.logger.Warn("asset cache closed with live handles", "count", len(leaked), "handles", leaked)
		return fmt.Errorf("%w: %d", ErrLeakedHandles, len(leaked))
	}
	return nil
}
