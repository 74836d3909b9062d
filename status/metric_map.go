package status

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MetricMap holds named metrics of one type
// Lookups after the first Get for a name return the cached pointer
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for name, registering it on first use
func (m *MetricMap[T]) Get(name string) *T {
	m.mu.RLock()
	ptr, ok := m.items[name]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[name]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[name] = ptr
	return ptr
}

// Len returns the number of registered metrics
func (m *MetricMap[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Attrs renders the metrics whose names start with prefix as log attributes,
// sorted by name, with the prefix trimmed
func (m *MetricMap[T]) Attrs(prefix string, value func(*T) slog.Value) []slog.Attr {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := slices.Sorted(maps.Keys(m.items))
	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		attrs = append(attrs, slog.Attr{Key: strings.TrimPrefix(name, prefix), Value: value(m.items[name])})
	}
	return attrs
}
