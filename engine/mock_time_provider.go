package engine

import (
	"sync"
	"time"
)

// MockTimeProvider is a manually advanced clock for deterministic loops
type MockTimeProvider struct {
	mu      sync.RWMutex
	current time.Time
	step    time.Duration
}

// NewMockTimeProvider creates a mock clock starting at start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{current: start}
}

// Now returns the mocked time, advancing it by the auto step first if one is set
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(m.step)
	return m.current
}

// SetTime sets the mocked time
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the mocked time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// AutoStep makes every Now call advance the clock by d
// Lets a ticker-driven loop see a fixed frame time regardless of wall time
func (m *MockTimeProvider) AutoStep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = d
}
