package engine

import "time"

// TimeProvider is the loop's source of frame time
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock with its monotonic component
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a provider backed by time.Now
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
